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

// Events published after a request change commits
const (
	EventRequestCreated  = "deposit_request.created"
	EventRequestApproved = "deposit_request.approved"
	EventRequestRejected = "deposit_request.rejected"
)

// EventPublisher fans out committed changes. Publish must not block.
type EventPublisher interface {
	Publish(event string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

// --- DTOs ---

type CreateDepositRequestDTO struct {
	UserID  uuid.UUID
	AdminID uuid.UUID
	Items   []ItemQty
}

type RequestLineResponse struct {
	ID            string          `json:"id"`
	DepositItemID string          `json:"deposit_item_id"`
	Qty           int             `json:"qty"`
	GoodName      string          `json:"good_name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DistributedOn string          `json:"distributed_on,omitempty"`
}

type DepositRequestResponse struct {
	ID        string                `json:"id"`
	UserID    string                `json:"user_id"`
	UserName  string                `json:"user_name"`
	AdminID   string                `json:"admin_id"`
	AdminName string                `json:"admin_name"`
	Status    string                `json:"status"`
	Total     decimal.Decimal       `json:"total"`
	Lines     []RequestLineResponse `json:"lines"`
	DecidedAt *string               `json:"decided_at"`
	CreatedAt string                `json:"created_at"`
}

// --- Interface ---

type DepositRequestService interface {
	Create(ctx context.Context, req CreateDepositRequestDTO) (DepositRequestResponse, error)
	List(ctx context.Context, filter repository.RequestFilter) ([]DepositRequestResponse, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]DepositRequestResponse, error)
	ListPendingForAdmin(ctx context.Context, adminID uuid.UUID) ([]DepositRequestResponse, error)
	Approve(ctx context.Context, id uuid.UUID) (DepositRequestResponse, error)
	Reject(ctx context.Context, id uuid.UUID) (DepositRequestResponse, error)
	History(ctx context.Context, id uuid.UUID) ([]AuditLogResponse, error)
}

type depositRequestService struct {
	tm       repository.TransactionManager
	requests repository.DepositRequestRepository
	users    repository.UserRepository
	checker  AvailabilityChecker
	poster   DepositPoster
	audit    AuditService
	events   EventPublisher
	log      *zap.Logger
	now      func() time.Time
}

func NewDepositRequestService(
	tm repository.TransactionManager,
	requests repository.DepositRequestRepository,
	users repository.UserRepository,
	checker AvailabilityChecker,
	poster DepositPoster,
	audit AuditService,
	events EventPublisher,
	log *zap.Logger,
) DepositRequestService {
	if events == nil {
		events = noopPublisher{}
	}
	return &depositRequestService{
		tm:       tm,
		requests: requests,
		users:    users,
		checker:  checker,
		poster:   poster,
		audit:    audit,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// --- Implementation ---

func (s *depositRequestService) Create(ctx context.Context, req CreateDepositRequestDTO) (DepositRequestResponse, error) {
	if req.UserID == uuid.Nil {
		return DepositRequestResponse{}, apperror.Validation("user_id is required")
	}
	if req.AdminID == uuid.Nil {
		return DepositRequestResponse{}, apperror.Validation("admin_id is required")
	}
	if len(req.Items) == 0 {
		return DepositRequestResponse{}, apperror.BadRequest("items cannot be empty")
	}
	for _, it := range req.Items {
		if it.DepositItemID == uuid.Nil {
			return DepositRequestResponse{}, apperror.Validation("deposit_item_id is required")
		}
		if it.Qty <= 0 {
			return DepositRequestResponse{}, apperror.BadRequest("qty for item %s must be positive", it.DepositItemID)
		}
	}
	merged, err := MergeItems(req.Items)
	if err != nil {
		return DepositRequestResponse{}, err
	}

	admin, err := s.users.GetByID(ctx, req.AdminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepositRequestResponse{}, apperror.BadRequest("admin %s not found", req.AdminID)
		}
		return DepositRequestResponse{}, fmt.Errorf("failed to load admin: %w", err)
	}
	if admin.Role != model.RoleAdmin {
		return DepositRequestResponse{}, apperror.BadRequest("user %s is not an admin", req.AdminID)
	}

	request := model.DepositRequest{
		UserID:  req.UserID,
		AdminID: req.AdminID,
		Status:  model.RequestPending,
		Lines:   make([]model.RequestLine, 0, len(merged)),
	}
	for i, it := range merged {
		request.Lines = append(request.Lines, model.RequestLine{
			DepositItemID: it.DepositItemID,
			Qty:           it.Qty,
			Position:      i,
		})
	}

	err = s.tm.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.checker.Validate(txCtx, req.UserID, merged); err != nil {
			return err
		}
		if err := s.requests.Create(txCtx, &request); err != nil {
			return fmt.Errorf("failed to create deposit request: %w", err)
		}
		return s.audit.Record(txCtx, &req.UserID, model.ActionCreateDepositRequest, request.ID.String(), "deposit_request",
			map[string]interface{}{
				"admin_id": req.AdminID.String(),
				"items":    merged,
			})
	})
	if err != nil {
		return DepositRequestResponse{}, err
	}

	created, err := s.requests.FindByIDWithRelations(ctx, request.ID)
	if err != nil {
		return DepositRequestResponse{}, fmt.Errorf("failed to reload deposit request: %w", err)
	}

	res := toDepositRequestResponse(*created)
	s.log.Info("deposit request created",
		zap.String("request_id", res.ID),
		zap.String("user_id", res.UserID),
		zap.String("admin_id", res.AdminID),
		zap.Int("lines", len(res.Lines)),
	)
	s.events.Publish(EventRequestCreated, res)
	return res, nil
}

func (s *depositRequestService) List(ctx context.Context, filter repository.RequestFilter) ([]DepositRequestResponse, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.BadRequest("unknown status %q", filter.Status)
	}
	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposit requests: %w", err)
	}

	result := make([]DepositRequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, toDepositRequestResponse(r))
	}
	return result, nil
}

func (s *depositRequestService) ListForUser(ctx context.Context, userID uuid.UUID) ([]DepositRequestResponse, error) {
	if userID == uuid.Nil {
		return nil, apperror.Validation("user_id is required")
	}
	return s.List(ctx, repository.RequestFilter{UserID: &userID})
}

func (s *depositRequestService) ListPendingForAdmin(ctx context.Context, adminID uuid.UUID) ([]DepositRequestResponse, error) {
	if adminID == uuid.Nil {
		return nil, apperror.Validation("admin_id is required")
	}
	return s.List(ctx, repository.RequestFilter{AdminID: &adminID, Status: model.RequestPending})
}

func (s *depositRequestService) Approve(ctx context.Context, id uuid.UUID) (DepositRequestResponse, error) {
	return s.decide(ctx, id, model.RequestApproved, model.ActionApproveDepositRequest, EventRequestApproved,
		func(txCtx context.Context, req *model.DepositRequest) error {
			items := make([]ItemQty, 0, len(req.Lines))
			for _, line := range req.Lines {
				items = append(items, ItemQty{DepositItemID: line.DepositItemID, Qty: line.Qty})
			}
			if err := s.poster.ProcessDeposit(txCtx, ProcessDepositInput{AdminID: req.AdminID, Items: items}); err != nil {
				return fmt.Errorf("failed to process deposit: %w", err)
			}
			return nil
		})
}

// Reject frees the reservation by leaving PENDING; stock and ledger stay untouched
func (s *depositRequestService) Reject(ctx context.Context, id uuid.UUID) (DepositRequestResponse, error) {
	return s.decide(ctx, id, model.RequestRejected, model.ActionRejectDepositRequest, EventRequestRejected, nil)
}

func (s *depositRequestService) decide(
	ctx context.Context,
	id uuid.UUID,
	to model.RequestStatus,
	action, event string,
	effect func(txCtx context.Context, req *model.DepositRequest) error,
) (DepositRequestResponse, error) {
	if id == uuid.Nil {
		return DepositRequestResponse{}, apperror.Validation("request id is required")
	}

	err := s.tm.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.FindByIDForUpdate(txCtx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("request not found")
			}
			return fmt.Errorf("failed to load deposit request: %w", err)
		}
		if !req.Status.CanTransitionTo(to) {
			return apperror.InvalidState("request is not pending")
		}

		if effect != nil {
			if err := effect(txCtx, req); err != nil {
				return err
			}
		}

		decidedAt := s.now().UTC()
		n, err := s.requests.UpdateStatus(txCtx, id, model.RequestPending, to, decidedAt)
		if err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}
		if n == 0 {
			return apperror.Conflict("request %s was decided concurrently", id)
		}

		return s.audit.Record(txCtx, &req.AdminID, action, id.String(), "deposit_request",
			map[string]interface{}{
				"from": string(req.Status),
				"to":   string(to),
			})
	})
	if err != nil {
		return DepositRequestResponse{}, err
	}

	updated, err := s.requests.FindByIDWithRelations(ctx, id)
	if err != nil {
		return DepositRequestResponse{}, fmt.Errorf("failed to reload deposit request: %w", err)
	}

	res := toDepositRequestResponse(*updated)
	s.log.Info("deposit request decided",
		zap.String("request_id", res.ID),
		zap.String("status", res.Status),
	)
	s.events.Publish(event, res)
	return res, nil
}

func (s *depositRequestService) History(ctx context.Context, id uuid.UUID) ([]AuditLogResponse, error) {
	if _, err := s.requests.FindByIDWithRelations(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("request not found")
		}
		return nil, fmt.Errorf("failed to load deposit request: %w", err)
	}
	return s.audit.History(ctx, id.String())
}

func toDepositRequestResponse(r model.DepositRequest) DepositRequestResponse {
	res := DepositRequestResponse{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		AdminID:   r.AdminID.String(),
		Status:    string(r.Status),
		Total:     decimal.Zero,
		Lines:     make([]RequestLineResponse, 0, len(r.Lines)),
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.User != nil {
		res.UserName = r.User.FullName
	}
	if r.Admin != nil {
		res.AdminName = r.Admin.FullName
	}
	if r.DecidedAt != nil {
		decided := r.DecidedAt.UTC().Format(time.RFC3339)
		res.DecidedAt = &decided
	}

	for _, line := range r.Lines {
		lr := RequestLineResponse{
			ID:            line.ID.String(),
			DepositItemID: line.DepositItemID.String(),
			Qty:           line.Qty,
			UnitPrice:     decimal.Zero,
			Subtotal:      decimal.Zero,
		}
		if item := line.DepositItem; item != nil {
			lr.UnitPrice = item.UnitPrice
			lr.Subtotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
			if item.DailyStock != nil {
				lr.DistributedOn = item.DailyStock.DistributedOn.Format("2006-01-02")
				if item.DailyStock.Good != nil {
					lr.GoodName = item.DailyStock.Good.Name
				}
			}
		}
		res.Total = res.Total.Add(lr.Subtotal)
		res.Lines = append(res.Lines, lr)
	}
	return res
}
