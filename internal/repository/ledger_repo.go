package repository

import (
	"context"
	"time"

	"setoran/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepository interface {
	// InitBalance creates the balance row at zero; an existing row is left untouched
	InitBalance(ctx context.Context) error
	GetBalance(ctx context.Context) (*model.LedgerBalance, error)
	CreateEntry(ctx context.Context, entry *model.LedgerEntry) error
	// AdjustBalance adds delta to the balance in one statement
	AdjustBalance(ctx context.Context, delta decimal.Decimal) error
	ListEntries(ctx context.Context, offset, limit int) ([]model.LedgerEntry, int64, error)
	FindEntryByID(ctx context.Context, id uuid.UUID) (*model.LedgerEntry, error)
	// ListEntriesBetween returns [start, end) entries newest first, with depositor and good loaded
	ListEntriesBetween(ctx context.Context, start, end time.Time) ([]model.LedgerEntry, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) InitBalance(ctx context.Context) error {
	return GetDB(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&model.LedgerBalance{ID: model.LedgerBalanceID, Total: decimal.Zero}).Error
}

func (r *ledgerRepository) GetBalance(ctx context.Context) (*model.LedgerBalance, error) {
	var bal model.LedgerBalance
	if err := GetDB(ctx, r.db).First(&bal, "id = ?", model.LedgerBalanceID).Error; err != nil {
		return nil, err
	}
	return &bal, nil
}

func (r *ledgerRepository) CreateEntry(ctx context.Context, entry *model.LedgerEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *ledgerRepository) AdjustBalance(ctx context.Context, delta decimal.Decimal) error {
	return GetDB(ctx, r.db).Exec(
		`INSERT INTO ledger_balances (id, total, updated_at) VALUES (?, ?, NOW())
		 ON CONFLICT (id) DO UPDATE SET total = ledger_balances.total + EXCLUDED.total, updated_at = NOW()`,
		model.LedgerBalanceID, delta,
	).Error
}

func (r *ledgerRepository) ListEntries(ctx context.Context, offset, limit int) ([]model.LedgerEntry, int64, error) {
	var entries []model.LedgerEntry
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.LedgerEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *ledgerRepository) FindEntryByID(ctx context.Context, id uuid.UUID) (*model.LedgerEntry, error) {
	var entry model.LedgerEntry
	if err := withSource(GetDB(ctx, r.db)).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ledgerRepository) ListEntriesBetween(ctx context.Context, start, end time.Time) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := withSource(GetDB(ctx, r.db)).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func withSource(db *gorm.DB) *gorm.DB {
	return db.
		Preload("SourceDepositItem.Pickup.User").
		Preload("SourceDepositItem.DailyStock.Good")
}
