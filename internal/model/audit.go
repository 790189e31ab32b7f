package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateDepositRequest  = "CREATE_DEPOSIT_REQUEST"
	ActionApproveDepositRequest = "APPROVE_DEPOSIT_REQUEST"
	ActionRejectDepositRequest  = "REJECT_DEPOSIT_REQUEST"
)

// AuditLog tracks Who, What, and When for request decisions
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized payload
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
