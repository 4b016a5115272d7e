package repository

import (
	"context"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// AuditRepository define el puerto de persistencia de la bitácora.
type AuditRepository interface {
	Create(ctx context.Context, fact *entity.AuditFact) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditFact, error)
}
