package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/partner-commissions/internal/application/dto"
	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/domain"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

// ResellerUseCase consulta y configura los términos comerciales de los revendedores.
type ResellerUseCase struct {
	repo    repository.UserRepository
	emitter *ports.Emitter
}

// NewResellerUseCase construye el caso de uso con el puerto de persistencia.
func NewResellerUseCase(repo repository.UserRepository, emitter *ports.Emitter) *ResellerUseCase {
	return &ResellerUseCase{repo: repo, emitter: emitter}
}

// GetByID obtiene un revendedor visible para el viewer.
func (uc *ResellerUseCase) GetByID(ctx context.Context, viewer dto.Viewer, id string) (*dto.ResellerResponse, error) {
	if !viewer.CanSee(id) {
		return nil, domain.ErrForbidden
	}
	user, err := uc.reseller(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewResellerResponse(user)
	return &out, nil
}

// List lista revendedores (solo admin).
func (uc *ResellerUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ResellerResponse, error) {
	page.DefaultPage()
	if page.Limit > 100 {
		page.Limit = 100
	}
	list, err := uc.repo.ListResellers(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ResellerResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.NewResellerResponse(u))
	}
	return out, nil
}

// UpdateSettings cambia la configuración comercial del revendedor. Solo afecta calendarios futuros.
func (uc *ResellerUseCase) UpdateSettings(ctx context.Context, adminID, id string, in dto.UpdateResellerSettingsRequest) (*dto.ResellerResponse, error) {
	user, err := uc.reseller(ctx, id)
	if err != nil {
		return nil, err
	}
	changes := map[string]any{}
	if in.CommissionRate != nil {
		if in.CommissionRate.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		changes["commission_rate"] = map[string]any{"from": user.CommissionRate.String(), "to": in.CommissionRate.String()}
		user.CommissionRate = *in.CommissionRate
	}
	if in.CommissionYears != nil {
		if *in.CommissionYears < 1 {
			return nil, domain.ErrInvalidInput
		}
		changes["commission_years"] = map[string]any{"from": user.CommissionYears, "to": *in.CommissionYears}
		user.CommissionYears = *in.CommissionYears
	}
	if in.IsOneOffPayment != nil {
		changes["is_one_off_payment"] = map[string]any{"from": user.IsOneOffPayment, "to": *in.IsOneOffPayment}
		user.IsOneOffPayment = *in.IsOneOffPayment
	}
	if in.IsTrusted != nil {
		changes["is_trusted"] = map[string]any{"from": user.IsTrusted, "to": *in.IsTrusted}
		user.IsTrusted = *in.IsTrusted
	}
	if in.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*in.Currency))
		if len(currency) != 3 {
			return nil, domain.ErrInvalidInput
		}
		changes["currency"] = map[string]any{"from": user.Currency, "to": currency}
		user.Currency = currency
	}
	if len(changes) == 0 {
		out := dto.NewResellerResponse(user)
		return &out, nil
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.UpdateResellerSettings(ctx, user); err != nil {
		return nil, err
	}
	uc.emitter.Record(ctx, &entity.AuditFact{
		Action:      entity.AuditActionResellerUpdated,
		PerformedBy: adminID,
		EntityType:  entity.EntityTypeUser,
		EntityID:    user.ID,
		Changes:     changes,
	})
	out := dto.NewResellerResponse(user)
	return &out, nil
}

func (uc *ResellerUseCase) reseller(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsReseller() {
		return nil, domain.ErrNotFound
	}
	return user, nil
}
