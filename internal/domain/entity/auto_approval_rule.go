package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AutoApprovalRule condición configurada por un admin que, si se cumple,
// aprueba la comisión sin revisión manual.
type AutoApprovalRule struct {
	ID                   string
	Name                 string
	Enabled              bool
	Priority             int              // mayor se evalúa primero
	MaxAmount            *decimal.Decimal // nil = sin tope
	TrustedResellersOnly bool
	CreatedAt            time.Time // desempate por orden de creación
	UpdatedAt            time.Time
}
