package service

import (
	"context"

	"github.com/dimondice01/finalDist-sub000/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	VendorID   string `json:"vendor_id"`
	VendorName string `json:"vendor_name"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		name := l.VendorName
		if name == "" {
			name = "System"
		}
		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			VendorID:   l.VendorID,
			VendorName: name,
			Action:     l.Action,
			EntityID:   l.EntityID,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
