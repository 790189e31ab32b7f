package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"setoran/internal/apperror"
	"setoran/internal/model"
	"setoran/internal/repository"
	"setoran/pkg/pagination"
	"setoran/pkg/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- DTOs ---

type PostEntryInput struct {
	SourceDepositItemID *uuid.UUID
	Title               string
	Kind                model.LedgerKind
	Amount              decimal.Decimal
	Qty                 int // units settled by a deposit
	Note                *string
}

type LedgerEntryResponse struct {
	ID                  string          `json:"id"`
	SourceDepositItemID *string         `json:"source_deposit_item_id"`
	Title               string          `json:"title"`
	Kind                string          `json:"kind"`
	Amount              decimal.Decimal `json:"amount"`
	Note                *string         `json:"note"`
	CreatedAt           string          `json:"created_at"`
	Date                string          `json:"date"` // WIB calendar date
}

// LedgerEntryDetailResponse adds who deposited and what, when the entry came from a deposit.
// Qty is the number of units this entry settled.
type LedgerEntryDetailResponse struct {
	LedgerEntryResponse
	DepositorID   *string `json:"depositor_id"`
	DepositorName string  `json:"depositor_name,omitempty"`
	GoodName      string  `json:"good_name,omitempty"`
	Qty           int     `json:"qty,omitempty"`
}

type BalanceResponse struct {
	Total     decimal.Decimal `json:"total"`
	UpdatedAt string          `json:"updated_at"`
}

// --- Interface ---

type LedgerService interface {
	GetBalance(ctx context.Context) (BalanceResponse, error)
	InitBalance(ctx context.Context) error
	// PostEntry appends an entry and moves the balance. ctx must carry a transaction.
	PostEntry(ctx context.Context, in PostEntryInput) (*model.LedgerEntry, error)
	ListEntries(ctx context.Context, page, limit int) ([]LedgerEntryResponse, int64, error)
	GetEntry(ctx context.Context, id uuid.UUID) (LedgerEntryDetailResponse, error)
	DailySummary(ctx context.Context, date string) (*model.DailySummary, error)
	MonthlySummary(ctx context.Context, year, month int) (*model.MonthlySummary, error)
	// ListEntriesByMonth lists one WIB month's entries newest first; 0/0 is the current month
	ListEntriesByMonth(ctx context.Context, year, month int) ([]LedgerEntryDetailResponse, error)
}

type ledgerService struct {
	ledger repository.LedgerRepository
	stats  repository.StatisticsRepository
	log    *zap.Logger
	now    func() time.Time
}

func NewLedgerService(ledger repository.LedgerRepository, stats repository.StatisticsRepository, log *zap.Logger) LedgerService {
	return &ledgerService{ledger: ledger, stats: stats, log: log, now: time.Now}
}

// --- Implementation ---

func (s *ledgerService) InitBalance(ctx context.Context) error {
	if err := s.ledger.InitBalance(ctx); err != nil {
		return fmt.Errorf("failed to init balance: %w", err)
	}
	return nil
}

func (s *ledgerService) GetBalance(ctx context.Context) (BalanceResponse, error) {
	if err := s.InitBalance(ctx); err != nil {
		return BalanceResponse{}, err
	}
	bal, err := s.ledger.GetBalance(ctx)
	if err != nil {
		return BalanceResponse{}, fmt.Errorf("failed to get balance: %w", err)
	}
	return BalanceResponse{Total: bal.Total, UpdatedAt: bal.UpdatedAt.Format(time.RFC3339)}, nil
}

func (s *ledgerService) PostEntry(ctx context.Context, in PostEntryInput) (*model.LedgerEntry, error) {
	if !repository.InTx(ctx) {
		return nil, repository.ErrNoTransaction
	}
	if !in.Kind.Valid() {
		return nil, apperror.BadRequest("unknown ledger kind %q", in.Kind)
	}
	if !in.Amount.IsPositive() {
		return nil, apperror.BadRequest("ledger amount must be positive, got %s", in.Amount)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperror.BadRequest("ledger title is required")
	}
	if in.Qty < 0 {
		return nil, apperror.BadRequest("ledger qty must not be negative, got %d", in.Qty)
	}

	entry := &model.LedgerEntry{
		SourceDepositItemID: in.SourceDepositItemID,
		Title:               in.Title,
		Kind:                in.Kind,
		Amount:              in.Amount,
		Qty:                 in.Qty,
		Note:                in.Note,
		CreatedAt:           s.now().UTC(),
	}
	if err := s.ledger.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}
	if err := s.ledger.AdjustBalance(ctx, in.Kind.Signed(in.Amount)); err != nil {
		return nil, fmt.Errorf("failed to adjust balance: %w", err)
	}

	s.log.Debug("ledger entry posted",
		zap.String("entry_id", entry.ID.String()),
		zap.String("kind", string(entry.Kind)),
		zap.String("amount", entry.Amount.String()),
	)
	return entry, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, page, limit int) ([]LedgerEntryResponse, int64, error) {
	if page <= 0 {
		page = pagination.DefaultPage
	}
	if page > pagination.MaxPage {
		page = pagination.MaxPage
	}
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	if limit > pagination.MaxLimit {
		limit = pagination.MaxLimit
	}

	entries, total, err := s.ledger.ListEntries(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	result := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toLedgerEntryResponse(e))
	}
	return result, total, nil
}

func (s *ledgerService) GetEntry(ctx context.Context, id uuid.UUID) (LedgerEntryDetailResponse, error) {
	entry, err := s.ledger.FindEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LedgerEntryDetailResponse{}, apperror.NotFound("ledger entry not found")
		}
		return LedgerEntryDetailResponse{}, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return toLedgerEntryDetailResponse(*entry), nil
}

func (s *ledgerService) ListEntriesByMonth(ctx context.Context, year, month int) ([]LedgerEntryDetailResponse, error) {
	if year == 0 && month == 0 {
		now := s.now().In(timezone.WIB)
		year, month = now.Year(), int(now.Month())
	}
	r, err := timezone.MonthRange(year, month)
	if err != nil {
		return nil, apperror.BadRequest("%s", err.Error())
	}

	entries, err := s.ledger.ListEntriesBetween(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	result := make([]LedgerEntryDetailResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toLedgerEntryDetailResponse(e))
	}
	return result, nil
}

func (s *ledgerService) DailySummary(ctx context.Context, date string) (*model.DailySummary, error) {
	if date == "" {
		date = timezone.DateKey(s.now())
	}
	r, err := timezone.ParseDay(date)
	if err != nil {
		return nil, apperror.BadRequest("%s", err.Error())
	}

	totals, err := s.stats.TotalsByKind(ctx, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	entries, err := s.stats.EntriesBetween(ctx, r.Start, r.End)
	if err != nil {
		return nil, err
	}

	summary := &model.DailySummary{
		Date:       date,
		RangeStart: r.Start,
		RangeEnd:   r.End,
		Entries:    entries,
	}
	summary.IncomeTotal, summary.IncomeCount, summary.ExpenseTotal, summary.ExpenseCount = splitTotals(totals)
	summary.Difference = summary.IncomeTotal.Sub(summary.ExpenseTotal)
	if summary.Entries == nil {
		summary.Entries = []model.LedgerEntry{}
	}
	return summary, nil
}

func (s *ledgerService) MonthlySummary(ctx context.Context, year, month int) (*model.MonthlySummary, error) {
	if year == 0 && month == 0 {
		now := s.now().In(timezone.WIB)
		year, month = now.Year(), int(now.Month())
	}
	r, err := timezone.MonthRange(year, month)
	if err != nil {
		return nil, apperror.BadRequest("%s", err.Error())
	}

	totals, err := s.stats.TotalsByKind(ctx, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	days, err := s.stats.ActiveDays(ctx, r.Start, r.End)
	if err != nil {
		return nil, err
	}

	summary := &model.MonthlySummary{
		Year:       year,
		Month:      month,
		RangeStart: r.Start,
		RangeEnd:   r.End,
		ActiveDays: days,
	}
	summary.IncomeTotal, summary.IncomeCount, summary.ExpenseTotal, summary.ExpenseCount = splitTotals(totals)
	summary.Difference = summary.IncomeTotal.Sub(summary.ExpenseTotal)
	return summary, nil
}

func splitTotals(totals []model.KindTotal) (income decimal.Decimal, incomeCount int64, expense decimal.Decimal, expenseCount int64) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range totals {
		switch t.Kind {
		case model.LedgerIncome:
			income, incomeCount = t.Total, t.Count
		case model.LedgerExpense:
			expense, expenseCount = t.Total, t.Count
		}
	}
	return
}

func toLedgerEntryDetailResponse(e model.LedgerEntry) LedgerEntryDetailResponse {
	res := LedgerEntryDetailResponse{LedgerEntryResponse: toLedgerEntryResponse(e), Qty: e.Qty}
	if item := e.SourceDepositItem; item != nil {
		if item.Pickup != nil {
			depositor := item.Pickup.UserID.String()
			res.DepositorID = &depositor
			if item.Pickup.User != nil {
				res.DepositorName = item.Pickup.User.FullName
			}
		}
		if item.DailyStock != nil && item.DailyStock.Good != nil {
			res.GoodName = item.DailyStock.Good.Name
		}
	}
	return res
}

func toLedgerEntryResponse(e model.LedgerEntry) LedgerEntryResponse {
	var source *string
	if e.SourceDepositItemID != nil {
		s := e.SourceDepositItemID.String()
		source = &s
	}
	return LedgerEntryResponse{
		ID:                  e.ID.String(),
		SourceDepositItemID: source,
		Title:               e.Title,
		Kind:                string(e.Kind),
		Amount:              e.Amount,
		Note:                e.Note,
		CreatedAt:           e.CreatedAt.UTC().Format(time.RFC3339),
		Date:                timezone.DateKey(e.CreatedAt),
	}
}
