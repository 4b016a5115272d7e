package commission

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/partner-commissions/internal/application/dto"
	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/domain"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

// RuleUseCase administra el almacén de reglas de auto-aprobación (solo admin).
type RuleUseCase struct {
	repo    repository.AutoApprovalRuleRepository
	emitter *ports.Emitter
}

// NewRuleUseCase construye el caso de uso.
func NewRuleUseCase(repo repository.AutoApprovalRuleRepository, emitter *ports.Emitter) *RuleUseCase {
	return &RuleUseCase{repo: repo, emitter: emitter}
}

// Create crea una regla. max_amount, si viene, debe ser >= 0.
func (uc *RuleUseCase) Create(ctx context.Context, adminID string, in dto.CreateRuleRequest) (*entity.AutoApprovalRule, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MaxAmount != nil && in.MaxAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	rule := &entity.AutoApprovalRule{
		ID:                   uuid.New().String(),
		Name:                 name,
		Enabled:              in.Enabled,
		Priority:             in.Priority,
		MaxAmount:            copyDecimal(in.MaxAmount),
		TrustedResellersOnly: in.TrustedResellersOnly,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.repo.Create(ctx, rule); err != nil {
		return nil, err
	}
	uc.emitter.Record(ctx, &entity.AuditFact{
		Action:      entity.AuditActionRuleCreated,
		PerformedBy: adminID,
		EntityType:  entity.EntityTypeAutoApprovalRule,
		EntityID:    rule.ID,
		Changes:     ruleChanges(rule),
	})
	return rule, nil
}

// List devuelve todas las reglas en orden de evaluación.
func (uc *RuleUseCase) List(ctx context.Context) ([]*entity.AutoApprovalRule, error) {
	return uc.repo.List(ctx)
}

// GetByID obtiene una regla.
func (uc *RuleUseCase) GetByID(ctx context.Context, id string) (*entity.AutoApprovalRule, error) {
	rule, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, domain.ErrNotFound
	}
	return rule, nil
}

// Update aplica los campos presentes en la petición.
func (uc *RuleUseCase) Update(ctx context.Context, adminID, id string, in dto.UpdateRuleRequest) (*entity.AutoApprovalRule, error) {
	rule, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := ruleChanges(rule)

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		rule.Name = name
	}
	if in.Enabled != nil {
		rule.Enabled = *in.Enabled
	}
	if in.Priority != nil {
		rule.Priority = *in.Priority
	}
	if in.ClearMaxAmount {
		rule.MaxAmount = nil
	} else if in.MaxAmount != nil {
		if in.MaxAmount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		rule.MaxAmount = copyDecimal(in.MaxAmount)
	}
	if in.TrustedResellersOnly != nil {
		rule.TrustedResellersOnly = *in.TrustedResellersOnly
	}
	rule.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	uc.emitter.Record(ctx, &entity.AuditFact{
		Action:      entity.AuditActionRuleUpdated,
		PerformedBy: adminID,
		EntityType:  entity.EntityTypeAutoApprovalRule,
		EntityID:    rule.ID,
		Changes:     map[string]any{"before": before, "after": ruleChanges(rule)},
	})
	return rule, nil
}

// Delete elimina una regla. Las comisiones que la registraron conservan su ID.
func (uc *RuleUseCase) Delete(ctx context.Context, adminID, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.emitter.Record(ctx, &entity.AuditFact{
		Action:      entity.AuditActionRuleDeleted,
		PerformedBy: adminID,
		EntityType:  entity.EntityTypeAutoApprovalRule,
		EntityID:    id,
	})
	return nil
}

func ruleChanges(r *entity.AutoApprovalRule) map[string]any {
	var maxAmount any
	if r.MaxAmount != nil {
		maxAmount = r.MaxAmount.String()
	}
	return map[string]any{
		"name":                   r.Name,
		"enabled":                r.Enabled,
		"priority":               r.Priority,
		"max_amount":             maxAmount,
		"trusted_resellers_only": r.TrustedResellersOnly,
	}
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
