package repository

import (
	"context"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// CommissionRepository define el puerto de persistencia para Commission.
type CommissionRepository interface {
	// CreateBatch inserta el calendario completo de un negocio.
	CreateBatch(ctx context.Context, commissions []*entity.Commission) error
	GetByID(ctx context.Context, id string) (*entity.Commission, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Commission, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Commission, error)
	List(ctx context.Context, filter entity.CommissionFilter) ([]*entity.Commission, error)
	CountByCustomer(ctx context.Context, customerID string) (int, error)
	// Update persiste estado y campos de auditoría de la transición.
	Update(ctx context.Context, commission *entity.Commission) error
	// LockByCustomer lista las comisiones del cliente bloqueando sus filas (SELECT ... FOR UPDATE).
	LockByCustomer(ctx context.Context, customerID string) ([]*entity.Commission, error)
	// SummaryByReseller totales por estado; resellerID vacío agrega todos los revendedores.
	SummaryByReseller(ctx context.Context, resellerID string) ([]entity.CommissionStatusTotal, error)
}
