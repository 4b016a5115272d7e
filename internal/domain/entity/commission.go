package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una comisión.
const (
	CommissionStatusPending       = "PENDING"
	CommissionStatusApproved      = "APPROVED"
	CommissionStatusRejected      = "REJECTED"       // terminal
	CommissionStatusPaid          = "PAID"           // terminal
	CommissionStatusContractEnded = "CONTRACT_ENDED" // terminal
)

// CommissionStatuses lista todos los estados en orden del ciclo de vida.
var CommissionStatuses = []string{
	CommissionStatusPending,
	CommissionStatusApproved,
	CommissionStatusRejected,
	CommissionStatusPaid,
	CommissionStatusContractEnded,
}

// IsValidCommissionStatus indica si s es un estado de comisión conocido.
func IsValidCommissionStatus(s string) bool {
	for _, st := range CommissionStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// PeriodOneTime etiqueta del único registro en modo pago único.
const PeriodOneTime = "One-time"

// ResellerSnapshot copia inmutable de la configuración comercial del revendedor
// al momento de generar el calendario. Es un valor (sin punteros): cambios
// posteriores del revendedor no alteran comisiones ya generadas.
type ResellerSnapshot struct {
	ResellerID      string
	CommissionRate  decimal.Decimal // porcentaje, ej. 20 = 20%
	CommissionYears int
	IsOneOffPayment bool
	IsTrusted       bool
	Currency        string
}

// Commission obligación de pago de un año (o pago único) de un negocio cerrado.
type Commission struct {
	ID                 string
	CustomerID         string
	ResellerID         string // copiado del cliente al crear; inmutable
	Amount             decimal.Decimal
	YearNumber         int
	Period             string
	Status             string
	Snapshot           ResellerSnapshot
	AutoApprovalRuleID *string
	RequestedAt        time.Time
	ApprovedAt         *time.Time
	ApprovedByID       *string // nil = aprobada por regla automática
	RejectedAt         *time.Time
	RejectionReason    *string
	PaidAt             *time.Time
	PaymentReference   *string
	ContractEndedAt    *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsTerminal indica si la comisión ya no admite transiciones.
func (c *Commission) IsTerminal() bool {
	switch c.Status {
	case CommissionStatusRejected, CommissionStatusPaid, CommissionStatusContractEnded:
		return true
	}
	return false
}

// CommissionFilter filtros para listados de comisiones. Campos vacíos no filtran.
type CommissionFilter struct {
	ResellerID string
	CustomerID string
	Status     string
	Limit      int
	Offset     int
}

// CommissionStatusTotal agregado de comisiones por estado.
type CommissionStatusTotal struct {
	Status string
	Count  int
	Total  decimal.Decimal
}
