package repository

import (
	"context"
	"time"

	"setoran/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DepositItemRepository covers deposit items and the pickups they belong to
type DepositItemRepository interface {
	// LockOwnedByIDs locks the items among ids whose pickup belongs to userID, ordered by id
	LockOwnedByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]model.DepositItem, error)
	// PendingQuantities sums line quantities of PENDING requests per item
	PendingQuantities(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
	// LockByID locks one item and loads its good for display
	LockByID(ctx context.Context, id uuid.UUID) (*model.DepositItem, error)
	AddDeposited(ctx context.Context, id uuid.UUID, qty int, fullyDepositedAt *time.Time) error
	CountUndeposited(ctx context.Context, pickupID uuid.UUID) (int64, error)
	SettlePickup(ctx context.Context, pickupID uuid.UUID) error
}

type depositItemRepository struct {
	db *gorm.DB
}

func NewDepositItemRepository(db *gorm.DB) DepositItemRepository {
	return &depositItemRepository{db: db}
}

func (r *depositItemRepository) LockOwnedByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]model.DepositItem, error) {
	var items []model.DepositItem
	if len(ids) == 0 {
		return items, nil
	}
	err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}}).
		Joins("JOIN pickups ON pickups.id = deposit_items.pickup_id").
		Where("deposit_items.id IN ? AND pickups.user_id = ?", ids, userID).
		Order("deposit_items.id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *depositItemRepository) PendingQuantities(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	var rows []struct {
		DepositItemID uuid.UUID
		Pending       int
	}
	out := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	err := GetDB(ctx, r.db).Table("request_lines").
		Select("request_lines.deposit_item_id, COALESCE(SUM(request_lines.qty), 0) AS pending").
		Joins("JOIN deposit_requests ON deposit_requests.id = request_lines.request_id").
		Where("deposit_requests.status = ? AND request_lines.deposit_item_id IN ?", model.RequestPending, ids).
		Group("request_lines.deposit_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.DepositItemID] = row.Pending
	}
	return out, nil
}

func (r *depositItemRepository) LockByID(ctx context.Context, id uuid.UUID) (*model.DepositItem, error) {
	var item model.DepositItem
	err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("DailyStock.Good").
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *depositItemRepository) AddDeposited(ctx context.Context, id uuid.UUID, qty int, fullyDepositedAt *time.Time) error {
	updates := map[string]interface{}{
		"deposited_qty": gorm.Expr("deposited_qty + ?", qty),
		"updated_at":    time.Now(),
	}
	if fullyDepositedAt != nil {
		updates["deposited_at"] = *fullyDepositedAt
	}
	return GetDB(ctx, r.db).Model(&model.DepositItem{}).Where("id = ?", id).Updates(updates).Error
}

func (r *depositItemRepository) CountUndeposited(ctx context.Context, pickupID uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.DepositItem{}).
		Where("pickup_id = ? AND deposited_at IS NULL", pickupID).
		Count(&n).Error
	return n, err
}

func (r *depositItemRepository) SettlePickup(ctx context.Context, pickupID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Pickup{}).
		Where("id = ?", pickupID).
		Updates(map[string]interface{}{"status": model.PickupSettled, "updated_at": time.Now()}).Error
}
