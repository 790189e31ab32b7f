package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Good is a sellable item handed out to users for consignment
type Good struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// DailyStock is the quantity of a good put into circulation on one day
type DailyStock struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GoodID        uuid.UUID `gorm:"type:uuid;not null;index" json:"good_id"`
	Good          *Good     `gorm:"foreignKey:GoodID" json:"good,omitempty"`
	DistributedOn time.Time `gorm:"type:date;not null;index" json:"distributed_on"`
	Qty           int       `gorm:"type:int;not null" json:"qty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PickupStatus enum
type PickupStatus string

const (
	PickupTaken   PickupStatus = "TAKEN"
	PickupSettled PickupStatus = "SETTLED"
)

// Pickup records a user taking stock out for consignment
type Pickup struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status    PickupStatus  `gorm:"type:varchar(20);not null;default:'TAKEN'" json:"status"`
	TakenAt   time.Time     `gorm:"not null;index" json:"taken_at"`
	Items     []DepositItem `gorm:"foreignKey:PickupID" json:"items,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// DepositItem is one line of a pickup awaiting deposit of its proceeds.
// DepositedAt stays nil until DepositedQty reaches Qty.
type DepositItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PickupID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"pickup_id"`
	Pickup       *Pickup         `gorm:"foreignKey:PickupID" json:"pickup,omitempty"`
	DailyStockID uuid.UUID       `gorm:"type:uuid;not null;index" json:"daily_stock_id"`
	DailyStock   *DailyStock     `gorm:"foreignKey:DailyStockID" json:"daily_stock,omitempty"`
	Qty          int             `gorm:"type:int;not null;check:qty > 0" json:"qty"`
	DepositedQty int             `gorm:"type:int;not null;default:0" json:"deposited_qty"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_price"`
	DepositedAt  *time.Time      `json:"deposited_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Available is the quantity not yet deposited, ignoring pending reservations
func (d DepositItem) Available() int {
	return d.Qty - d.DepositedQty
}

func (d DepositItem) IsDeposited() bool {
	return d.DepositedAt != nil
}
