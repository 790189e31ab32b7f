package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus of a deposit request. PENDING is the only non-terminal state.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// CanTransitionTo reports whether s -> next is allowed
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	return s == RequestPending && next.IsTerminal()
}

// DepositRequest asks an admin to settle a batch of deposit items.
// Only after approval are the items marked deposited and the ledger credited.
type DepositRequest struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AdminID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"admin_id"`
	Admin     *User         `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Status    RequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Lines     []RequestLine `gorm:"foreignKey:RequestID" json:"lines"`
	DecidedAt *time.Time    `json:"decided_at"`
	CreatedAt time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// RequestLine reserves Qty units of a deposit item while its request is PENDING
type RequestLine struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"request_id"`
	DepositItemID uuid.UUID    `gorm:"type:uuid;not null;index" json:"deposit_item_id"`
	DepositItem   *DepositItem `gorm:"foreignKey:DepositItemID" json:"deposit_item,omitempty"`
	Qty           int          `gorm:"type:int;not null;check:qty > 0" json:"qty"`
	Position      int          `gorm:"type:int;not null;default:0" json:"position"`
}
