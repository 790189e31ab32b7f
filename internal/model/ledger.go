package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerKind enum
type LedgerKind string

const (
	LedgerIncome  LedgerKind = "INCOME"
	LedgerExpense LedgerKind = "EXPENSE"
)

func (k LedgerKind) Valid() bool {
	return k == LedgerIncome || k == LedgerExpense
}

// Signed returns amount with the sign this kind applies to the balance
func (k LedgerKind) Signed(amount decimal.Decimal) decimal.Decimal {
	if k == LedgerExpense {
		return amount.Neg()
	}
	return amount
}

// LedgerBalanceID is the primary key of the single balance row
const LedgerBalanceID = 1

// LedgerEntry is append-only. CreatedAt is stored as an instant; report
// bucketing happens on read.
type LedgerEntry struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SourceDepositItemID *uuid.UUID      `gorm:"type:uuid;index" json:"source_deposit_item_id"`
	SourceDepositItem   *DepositItem    `gorm:"foreignKey:SourceDepositItemID" json:"source_deposit_item,omitempty"`
	Title               string          `gorm:"type:varchar(255);not null" json:"title"`
	Kind                LedgerKind      `gorm:"type:varchar(20);not null;index" json:"kind"`
	Amount              decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Qty                 int             `gorm:"type:int;not null;default:0" json:"qty"` // units settled, 0 when not from a deposit
	Note                *string         `gorm:"type:text" json:"note"`
	CreatedAt           time.Time       `gorm:"not null;index" json:"created_at"`
}

// LedgerBalance is the running total, only touched together with an entry insert
type LedgerBalance struct {
	ID        int             `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Total     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total"`
	UpdatedAt time.Time       `json:"updated_at"`
}
