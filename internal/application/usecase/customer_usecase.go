package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/partner-commissions/internal/application/dto"
	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/domain"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

// CustomerUseCase aplica reglas de negocio para el registro de clientes.
// El paso a ACTIVE y la terminación de contrato viven en el caso de uso de comisiones.
type CustomerUseCase struct {
	repo     repository.CustomerRepository
	userRepo repository.UserRepository
	emitter  *ports.Emitter
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, userRepo repository.UserRepository, emitter *ports.Emitter) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, userRepo: userRepo, emitter: emitter}
}

// Create registra un cliente en LEAD (o PROSPECT). Un revendedor siempre crea clientes propios;
// un admin debe indicar el revendedor.
func (uc *CustomerUseCase) Create(ctx context.Context, viewer dto.Viewer, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	resellerID := strings.TrimSpace(in.ResellerID)
	switch {
	case viewer.IsReseller():
		resellerID = viewer.UserID
	case viewer.IsAdmin():
		if resellerID == "" {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrForbidden
	}
	companyName := strings.TrimSpace(in.CompanyName)
	if companyName == "" {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.CustomerStatusLead
	}
	if status != entity.CustomerStatusLead && status != entity.CustomerStatusProspect {
		return nil, domain.ErrInvalidInput
	}

	reseller, err := uc.userRepo.GetByID(ctx, resellerID)
	if err != nil {
		return nil, err
	}
	if reseller == nil || !reseller.IsReseller() {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	customer := &entity.Customer{
		ID:          uuid.New().String(),
		ResellerID:  resellerID,
		CompanyName: companyName,
		ContactName: strings.TrimSpace(in.ContactName),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	out := dto.NewCustomerResponse(customer)
	return &out, nil
}

// GetByID obtiene un cliente visible para el viewer.
func (uc *CustomerUseCase) GetByID(ctx context.Context, viewer dto.Viewer, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.visible(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewCustomerResponse(customer)
	return &out, nil
}

// List lista clientes paginados. Un revendedor solo ve los suyos; un admin puede filtrar por revendedor
// o ver todos con resellerID vacío.
func (uc *CustomerUseCase) List(ctx context.Context, viewer dto.Viewer, resellerID string, page dto.PageRequest) ([]dto.CustomerResponse, error) {
	switch {
	case viewer.IsReseller():
		resellerID = viewer.UserID
	case !viewer.IsAdmin():
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	if page.Limit > 100 {
		page.Limit = 100
	}
	list, err := uc.repo.ListByReseller(ctx, resellerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewCustomerResponse(c))
	}
	return out, nil
}

// UpdateStatus mueve el cliente entre estados del embudo comercial.
// ACTIVE no es alcanzable por aquí y un cliente ACTIVE solo sale con EndContract.
// La escritura compara contra el estado leído: un cierre concurrente gana y aquí se obtiene ErrConflict.
func (uc *CustomerUseCase) UpdateStatus(ctx context.Context, viewer dto.Viewer, id, status string) (*dto.CustomerResponse, error) {
	if !entity.IsValidCustomerStatus(status) || status == entity.CustomerStatusActive {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.visible(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	// Un cliente que cerró negocio (activo o con contrato terminado) ya no vuelve al embudo.
	if customer.IsActive() || customer.ClosedAt != nil {
		return nil, domain.ErrConflict
	}
	previous := customer.Status
	if previous == status {
		out := dto.NewCustomerResponse(customer)
		return &out, nil
	}
	now := time.Now()
	if err := uc.repo.UpdateStatus(ctx, customer.ID, previous, status, now); err != nil {
		return nil, err
	}
	customer.Status = status
	customer.UpdatedAt = now

	uc.emitter.Record(ctx, &entity.AuditFact{
		Action:      entity.AuditActionCustomerStatusChanged,
		PerformedBy: viewer.UserID,
		EntityType:  entity.EntityTypeCustomer,
		EntityID:    customer.ID,
		Changes:     map[string]any{"status": map[string]any{"from": previous, "to": status}},
	})
	uc.emitter.Notify(ctx, customer.ResellerID, entity.NotificationCustomerStatusChanged, map[string]any{
		"customer_id":  customer.ID,
		"company_name": customer.CompanyName,
		"old_status":   previous,
		"new_status":   status,
	})
	out := dto.NewCustomerResponse(customer)
	return &out, nil
}

func (uc *CustomerUseCase) visible(ctx context.Context, viewer dto.Viewer, id string) (*entity.Customer, error) {
	customer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if !viewer.CanSee(customer.ResellerID) {
		return nil, domain.ErrForbidden
	}
	return customer, nil
}
