package repository

import (
	"context"
	"time"

	"setoran/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestFilter narrows List. Zero values mean no filter.
type RequestFilter struct {
	UserID  *uuid.UUID
	AdminID *uuid.UUID
	Status  model.RequestStatus
}

type DepositRequestRepository interface {
	// Create inserts the request together with its lines
	Create(ctx context.Context, req *model.DepositRequest) error
	// FindByIDForUpdate locks the request row and loads its lines in position order
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.DepositRequest, error)
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.DepositRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]model.DepositRequest, error)
	// UpdateStatus moves the request from one status to another and reports rows affected
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.RequestStatus, decidedAt time.Time) (int64, error)
}

type depositRequestRepository struct {
	db *gorm.DB
}

func NewDepositRequestRepository(db *gorm.DB) DepositRequestRepository {
	return &depositRequestRepository{db: db}
}

func (r *depositRequestRepository) Create(ctx context.Context, req *model.DepositRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *depositRequestRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.DepositRequest, error) {
	var req model.DepositRequest
	err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if err := GetDB(ctx, r.db).
		Where("request_id = ?", req.ID).
		Order("position").
		Find(&req.Lines).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *depositRequestRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.DepositRequest, error) {
	var req model.DepositRequest
	if err := withDisplayRelations(GetDB(ctx, r.db)).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *depositRequestRepository) List(ctx context.Context, filter RequestFilter) ([]model.DepositRequest, error) {
	var requests []model.DepositRequest

	query := withDisplayRelations(GetDB(ctx, r.db))
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.AdminID != nil {
		query = query.Where("admin_id = ?", *filter.AdminID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *depositRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.RequestStatus, decidedAt time.Time) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.DepositRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"decided_at": decidedAt,
			"updated_at": decidedAt,
		})
	return res.RowsAffected, res.Error
}

func withDisplayRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Admin").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Lines.DepositItem.DailyStock.Good")
}
