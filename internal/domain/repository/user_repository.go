package repository

import (
	"context"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	ListResellers(ctx context.Context, limit, offset int) ([]*entity.User, error)
	// UpdateResellerSettings persiste tasa, años, pago único, confianza y moneda.
	UpdateResellerSettings(ctx context.Context, user *entity.User) error
}
