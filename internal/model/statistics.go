package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// KindTotal is the sum and count of ledger entries of one kind over a range
type KindTotal struct {
	Kind  LedgerKind      `json:"kind"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// DailySummary aggregates the ledger over one WIB calendar day
type DailySummary struct {
	Date         string          `json:"date"`
	RangeStart   time.Time       `json:"range_start"`
	RangeEnd     time.Time       `json:"range_end"`
	IncomeTotal  decimal.Decimal `json:"income_total"`
	IncomeCount  int64           `json:"income_count"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	ExpenseCount int64           `json:"expense_count"`
	Difference   decimal.Decimal `json:"difference"`
	Entries      []LedgerEntry   `json:"entries"`
}

// MonthlySummary aggregates the ledger over one WIB calendar month
type MonthlySummary struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	RangeStart   time.Time       `json:"range_start"`
	RangeEnd     time.Time       `json:"range_end"`
	IncomeTotal  decimal.Decimal `json:"income_total"`
	IncomeCount  int64           `json:"income_count"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	ExpenseCount int64           `json:"expense_count"`
	Difference   decimal.Decimal `json:"difference"`
	ActiveDays   int64           `json:"active_days"`
}
