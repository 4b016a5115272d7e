package repository

import (
	"context"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// AutoApprovalRuleRepository define el puerto de persistencia para las reglas de auto-aprobación.
type AutoApprovalRuleRepository interface {
	Create(ctx context.Context, rule *entity.AutoApprovalRule) error
	GetByID(ctx context.Context, id string) (*entity.AutoApprovalRule, error)
	// List devuelve todas las reglas ordenadas por prioridad desc y creación asc.
	List(ctx context.Context) ([]*entity.AutoApprovalRule, error)
	Update(ctx context.Context, rule *entity.AutoApprovalRule) error
	Delete(ctx context.Context, id string) error
}
