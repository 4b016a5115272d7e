package commission

import (
	"context"
	"fmt"

	"github.com/jhoicas/partner-commissions/internal/application/dto"
	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/domain"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

// QueryUseCase consultas de solo lectura sobre comisiones.
type QueryUseCase struct {
	commissionRepo repository.CommissionRepository
	customerRepo   repository.CustomerRepository
	userRepo       repository.UserRepository
	pdf            ports.StatementPDFGenerator
}

// NewQueryUseCase construye el caso de uso. pdf puede ser nil si no se expone el estado de cuenta.
func NewQueryUseCase(
	commissionRepo repository.CommissionRepository,
	customerRepo repository.CustomerRepository,
	userRepo repository.UserRepository,
	pdf ports.StatementPDFGenerator,
) *QueryUseCase {
	return &QueryUseCase{
		commissionRepo: commissionRepo,
		customerRepo:   customerRepo,
		userRepo:       userRepo,
		pdf:            pdf,
	}
}

// GetByID obtiene una comisión visible para el viewer.
func (uc *QueryUseCase) GetByID(ctx context.Context, viewer dto.Viewer, id string) (*entity.Commission, error) {
	c, err := uc.commissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if !viewer.CanSee(c.ResellerID) {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

// List lista comisiones con filtros. Para un revendedor el filtro de revendedor se fuerza al suyo.
func (uc *QueryUseCase) List(ctx context.Context, viewer dto.Viewer, filter entity.CommissionFilter) ([]*entity.Commission, error) {
	if !viewer.IsAdmin() {
		if viewer.Role != entity.RoleReseller {
			return nil, domain.ErrForbidden
		}
		filter.ResellerID = viewer.UserID
	}
	if filter.Status != "" && !entity.IsValidCommissionStatus(filter.Status) {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.commissionRepo.List(ctx, filter)
}

// ListByCustomer devuelve el calendario completo de un cliente.
func (uc *QueryUseCase) ListByCustomer(ctx context.Context, viewer dto.Viewer, customerID string) ([]*entity.Commission, error) {
	customer, err := uc.visibleCustomer(ctx, viewer, customerID)
	if err != nil {
		return nil, err
	}
	return uc.commissionRepo.ListByCustomer(ctx, customer.ID)
}

// Summary totales por estado. Un revendedor solo obtiene los suyos; un admin sin
// resellerID obtiene el agregado de todos los revendedores.
func (uc *QueryUseCase) Summary(ctx context.Context, viewer dto.Viewer, resellerID string) ([]entity.CommissionStatusTotal, error) {
	switch {
	case viewer.IsReseller():
		if resellerID == "" {
			resellerID = viewer.UserID
		}
		if resellerID != viewer.UserID {
			return nil, domain.ErrForbidden
		}
	case !viewer.IsAdmin():
		return nil, domain.ErrForbidden
	}
	return uc.commissionRepo.SummaryByReseller(ctx, resellerID)
}

// Statement genera el PDF con el calendario de comisiones de un cliente con negocio cerrado.
//
// Retorna domain.ErrConflict si el cliente aún no tiene calendario.
func (uc *QueryUseCase) Statement(ctx context.Context, viewer dto.Viewer, customerID string) (pdfBytes []byte, filename string, err error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("estado de cuenta: generador no configurado")
	}
	customer, err := uc.visibleCustomer(ctx, viewer, customerID)
	if err != nil {
		return nil, "", err
	}
	commissions, err := uc.commissionRepo.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, "", err
	}
	if len(commissions) == 0 {
		return nil, "", domain.ErrConflict
	}
	reseller, err := uc.userRepo.GetByID(ctx, customer.ResellerID)
	if err != nil {
		return nil, "", err
	}
	if reseller == nil {
		return nil, "", domain.ErrNotFound
	}
	pdfBytes, err = uc.pdf.GenerateStatement(ctx, customer, reseller, commissions)
	if err != nil {
		return nil, "", fmt.Errorf("estado de cuenta: %w", err)
	}
	return pdfBytes, fmt.Sprintf("comisiones-%s.pdf", customer.ID), nil
}

func (uc *QueryUseCase) visibleCustomer(ctx context.Context, viewer dto.Viewer, customerID string) (*entity.Customer, error) {
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
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
