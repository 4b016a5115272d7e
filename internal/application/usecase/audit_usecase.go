package usecase

import (
	"context"

	"github.com/jhoicas/partner-commissions/internal/domain"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

// AuditUseCase consulta la bitácora (solo admin).
type AuditUseCase struct {
	repo repository.AuditRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(repo repository.AuditRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// History devuelve los hechos de una entidad en orden cronológico.
func (uc *AuditUseCase) History(ctx context.Context, entityType, entityID string) ([]*entity.AuditFact, error) {
	switch entityType {
	case entity.EntityTypeCustomer, entity.EntityTypeCommission, entity.EntityTypeAutoApprovalRule, entity.EntityTypeUser:
	default:
		return nil, domain.ErrInvalidInput
	}
	if entityID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.repo.ListByEntity(ctx, entityType, entityID)
}
