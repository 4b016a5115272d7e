package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida comercial de un cliente.
const (
	CustomerStatusLead      = "LEAD"
	CustomerStatusProspect  = "PROSPECT"
	CustomerStatusActive    = "ACTIVE"    // negocio cerrado; solo vía CloseDeal
	CustomerStatusNoDeal    = "NO_DEAL"   // sin negocio o contrato terminado
	CustomerStatusCancelled = "CANCELLED"
)

// IsValidCustomerStatus indica si s es un estado conocido.
func IsValidCustomerStatus(s string) bool {
	switch s {
	case CustomerStatusLead, CustomerStatusProspect, CustomerStatusActive,
		CustomerStatusNoDeal, CustomerStatusCancelled:
		return true
	}
	return false
}

// Customer representa la empresa cliente registrada por un revendedor.
// ContractValue y ContractDuration están definidos si y solo si Status == ACTIVE.
type Customer struct {
	ID               string
	ResellerID       string
	CompanyName      string
	ContactName      string
	Email            string
	Phone            string
	Status           string
	ContractValue    *decimal.Decimal
	ContractDuration *int // años
	ClosedAt         *time.Time
	ContractEndedAt  *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsActive indica si el cliente tiene un contrato vigente.
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}
