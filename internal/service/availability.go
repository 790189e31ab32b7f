package service

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"

	"setoran/internal/apperror"
	"setoran/internal/model"
	"setoran/internal/repository"

	"github.com/google/uuid"
)

// ItemQty is one (deposit item, quantity) pair of a request or deposit
type ItemQty struct {
	DepositItemID uuid.UUID `json:"deposit_item_id"`
	Qty           int       `json:"qty"`
}

// MaxItemQty is the largest quantity a qty column can hold
const MaxItemQty = math.MaxInt32

// MergeItems sums quantities of repeated item ids, keeping first-seen order.
// Every quantity, and every sum, must lie in 1..MaxItemQty.
func MergeItems(items []ItemQty) ([]ItemQty, error) {
	merged := make([]ItemQty, 0, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		if it.Qty <= 0 {
			return nil, apperror.BadRequest("qty for item %s must be positive", it.DepositItemID)
		}
		if it.Qty > MaxItemQty {
			return nil, apperror.BadRequest("qty for item %s exceeds %d", it.DepositItemID, MaxItemQty)
		}
		if i, ok := index[it.DepositItemID]; ok {
			if merged[i].Qty > MaxItemQty-it.Qty {
				return nil, apperror.BadRequest("total qty for item %s exceeds %d", it.DepositItemID, MaxItemQty)
			}
			merged[i].Qty += it.Qty
			continue
		}
		index[it.DepositItemID] = len(merged)
		merged = append(merged, it)
	}
	return merged, nil
}

func sortedIDs(items []ItemQty) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.DepositItemID)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids
}

// AvailabilityChecker validates requested quantities against what is still
// undeposited and not reserved by other PENDING requests.
type AvailabilityChecker interface {
	// Validate locks the referenced items and returns them ordered by id.
	// It must run inside a transaction so the locks outlive the check.
	Validate(ctx context.Context, userID uuid.UUID, items []ItemQty) ([]model.DepositItem, error)
}

type availabilityChecker struct {
	items repository.DepositItemRepository
}

func NewAvailabilityChecker(items repository.DepositItemRepository) AvailabilityChecker {
	return &availabilityChecker{items: items}
}

func (c *availabilityChecker) Validate(ctx context.Context, userID uuid.UUID, items []ItemQty) ([]model.DepositItem, error) {
	if !repository.InTx(ctx) {
		return nil, repository.ErrNoTransaction
	}

	merged, err := MergeItems(items)
	if err != nil {
		return nil, err
	}

	ids := sortedIDs(merged)
	locked, err := c.items.LockOwnedByIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock deposit items: %w", err)
	}
	if len(locked) != len(ids) {
		return nil, apperror.BadRequest("one or more items invalid or do not belong to user")
	}

	byID := make(map[uuid.UUID]model.DepositItem, len(locked))
	for _, item := range locked {
		if item.IsDeposited() {
			return nil, apperror.BadRequest("item %s is already deposited", item.ID)
		}
		byID[item.ID] = item
	}

	// Read after the locks are held so every committed reservation is visible
	pending, err := c.items.PendingQuantities(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to sum pending quantities: %w", err)
	}

	for _, it := range merged {
		item := byID[it.DepositItemID]
		available := item.Available()
		// Compared by subtraction; all operands are bounded by the qty column
		if it.Qty > available || it.Qty > available-pending[it.DepositItemID] {
			return nil, apperror.BadRequest(
				"requested quantity (%d) + pending (%d) exceeds available quantity (%d) for item %s",
				it.Qty, pending[it.DepositItemID], available, it.DepositItemID,
			)
		}
	}

	return locked, nil
}
