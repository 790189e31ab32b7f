package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"setoran/internal/model"
	"setoran/internal/repository"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	// Record writes one audit row; pass a transactional ctx to commit it with the change
	Record(ctx context.Context, actor *uuid.UUID, action, entityID, entityName string, details map[string]interface{}) error
	History(ctx context.Context, entityID string) ([]AuditLogResponse, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) Record(ctx context.Context, actor *uuid.UUID, action, entityID, entityName string, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}
	entry := &model.AuditLog{
		UserID:     actor,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *auditService) History(ctx context.Context, entityID string) ([]AuditLogResponse, error) {
	logs, err := s.repo.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit history: %w", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		userID := ""
		if l.UserID != nil {
			userID = l.UserID.String()
		}
		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     userID,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return res, nil
}
