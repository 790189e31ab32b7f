package repository

import (
	"context"

	"setoran/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	ListByEntity(ctx context.Context, entityID string) ([]model.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

// ListByEntity returns the trail of one entity, oldest first
func (r *auditRepository) ListByEntity(ctx context.Context, entityID string) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	if err := GetDB(ctx, r.db).
		Where("entity_id = ?", entityID).
		Order("created_at asc").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
