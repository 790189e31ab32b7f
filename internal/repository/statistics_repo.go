package repository

import (
	"context"
	"fmt"
	"time"

	"setoran/internal/model"

	"gorm.io/gorm"
)

// StatisticsRepository runs ledger aggregates over half-open [start, end) ranges
type StatisticsRepository interface {
	TotalsByKind(ctx context.Context, start, end time.Time) ([]model.KindTotal, error)
	EntriesBetween(ctx context.Context, start, end time.Time) ([]model.LedgerEntry, error)
	// ActiveDays counts distinct UTC+7 calendar dates holding at least one entry
	ActiveDays(ctx context.Context, start, end time.Time) (int64, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) TotalsByKind(ctx context.Context, start, end time.Time) ([]model.KindTotal, error) {
	var totals []model.KindTotal
	if err := GetDB(ctx, r.db).Model(&model.LedgerEntry{}).
		Select("kind, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("kind").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to query ledger totals: %w", err)
	}
	return totals, nil
}

func (r *statisticsRepository) EntriesBetween(ctx context.Context, start, end time.Time) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	if err := GetDB(ctx, r.db).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	return entries, nil
}

func (r *statisticsRepository) ActiveDays(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	if err := GetDB(ctx, r.db).Model(&model.LedgerEntry{}).
		Select("COUNT(DISTINCT ((created_at AT TIME ZONE 'UTC') + INTERVAL '7 hours')::date)").
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count active days: %w", err)
	}
	return n, nil
}
