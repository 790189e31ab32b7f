package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"setoran/internal/apperror"
	"setoran/internal/model"
	"setoran/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProcessDepositInput struct {
	AdminID uuid.UUID
	Items   []ItemQty
}

// DepositPoster marks items deposited and credits the ledger for them.
// It only runs inside a transaction supplied by the caller.
type DepositPoster interface {
	ProcessDeposit(ctx context.Context, in ProcessDepositInput) error
}

type depositPoster struct {
	items  repository.DepositItemRepository
	ledger LedgerService
	log    *zap.Logger
	now    func() time.Time
}

func NewDepositPoster(items repository.DepositItemRepository, ledger LedgerService, log *zap.Logger) DepositPoster {
	return &depositPoster{items: items, ledger: ledger, log: log, now: time.Now}
}

func (p *depositPoster) ProcessDeposit(ctx context.Context, in ProcessDepositInput) error {
	if !repository.InTx(ctx) {
		return repository.ErrNoTransaction
	}

	merged, err := MergeItems(in.Items)
	if err != nil {
		return err
	}
	qtyByID := make(map[uuid.UUID]int, len(merged))
	for _, it := range merged {
		qtyByID[it.DepositItemID] = it.Qty
	}

	now := p.now().UTC()
	settled := map[uuid.UUID]bool{}

	// Lock in id order, same as request creation
	for _, id := range sortedIDs(merged) {
		qty := qtyByID[id]

		item, err := p.items.LockByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("deposit item %s not found", id)
			}
			return fmt.Errorf("failed to lock deposit item: %w", err)
		}
		if qty > item.Available() {
			return apperror.Conflict("item %s has %d undeposited units, cannot deposit %d", id, item.Available(), qty)
		}

		var fullAt *time.Time
		if item.DepositedQty+qty == item.Qty {
			fullAt = &now
		}
		if err := p.items.AddDeposited(ctx, id, qty, fullAt); err != nil {
			return fmt.Errorf("failed to mark item deposited: %w", err)
		}

		if fullAt != nil && !settled[item.PickupID] {
			remaining, err := p.items.CountUndeposited(ctx, item.PickupID)
			if err != nil {
				return fmt.Errorf("failed to count undeposited items: %w", err)
			}
			if remaining == 0 {
				if err := p.items.SettlePickup(ctx, item.PickupID); err != nil {
					return fmt.Errorf("failed to settle pickup: %w", err)
				}
				settled[item.PickupID] = true
			}
		}

		itemID := item.ID
		note := fmt.Sprintf("%d x %s, approved by %s", qty, item.UnitPrice.StringFixed(2), in.AdminID)
		if _, err := p.ledger.PostEntry(ctx, PostEntryInput{
			SourceDepositItemID: &itemID,
			Title:               "Setoran " + goodName(item),
			Kind:                model.LedgerIncome,
			Qty:                 qty,
			Amount:              item.UnitPrice.Mul(decimal.NewFromInt(int64(qty))),
			Note:                &note,
		}); err != nil {
			return err
		}
	}

	p.log.Info("deposit processed",
		zap.String("admin_id", in.AdminID.String()),
		zap.Int("items", len(merged)),
		zap.Int("pickups_settled", len(settled)),
	)
	return nil
}

func goodName(item *model.DepositItem) string {
	if item.DailyStock != nil && item.DailyStock.Good != nil {
		return item.DailyStock.Good.Name
	}
	return "barang"
}
