package repository

import (
	"context"
	"time"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// GetByID y GetForUpdate devuelven (nil, nil) si el cliente no existe.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo tiene efecto dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	ListByReseller(ctx context.Context, resellerID string, limit, offset int) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// UpdateStatus cambia solo el estado si sigue en from y el cliente nunca cerró negocio.
	// Devuelve domain.ErrConflict si la fila ya no cumple esa condición.
	UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error
}
