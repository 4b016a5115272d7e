package commission

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/partner-commissions/internal/domain"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// ActorKind origen de una transición.
type ActorKind string

const (
	ActorAdmin               ActorKind = "ADMIN"
	ActorAutoRule            ActorKind = "AUTO_RULE"
	ActorContractTermination ActorKind = "CONTRACT_TERMINATION"
)

// Actor quien dispara la transición. ID vacío para actores automáticos.
type Actor struct {
	Kind ActorKind
	ID   string
}

// PerformedBy identificador para auditoría.
func (a Actor) PerformedBy() string {
	if a.ID == "" {
		return entity.PerformedBySystem
	}
	return a.ID
}

// TransitionInput parámetros de una transición sobre una comisión.
type TransitionInput struct {
	Target           string
	Actor            Actor
	Reason           string // obligatorio para REJECTED
	PaymentReference string // opcional para PAID
}

// allowedTransitions tabla completa de transiciones válidas.
var allowedTransitions = map[string]map[string]bool{
	entity.CommissionStatusPending: {
		entity.CommissionStatusApproved:      true,
		entity.CommissionStatusRejected:      true,
		entity.CommissionStatusContractEnded: true,
	},
	entity.CommissionStatusApproved: {
		entity.CommissionStatusPaid:          true,
		entity.CommissionStatusContractEnded: true,
	},
}

// IsAllowed indica si (from, to) pertenece a la tabla de transiciones.
func IsAllowed(from, to string) bool {
	return allowedTransitions[from][to]
}

// CheckTransition valida tabla y guardas sin modificar la comisión.
func CheckTransition(c *entity.Commission, in TransitionInput) error {
	if !IsAllowed(c.Status, in.Target) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStateTransition, c.Status, in.Target)
	}
	switch in.Target {
	case entity.CommissionStatusApproved:
		if in.Actor.Kind != ActorAdmin && in.Actor.Kind != ActorAutoRule {
			return fmt.Errorf("%w: solo un admin o una regla automática aprueba", domain.ErrForbidden)
		}
	case entity.CommissionStatusRejected:
		if in.Actor.Kind != ActorAdmin {
			return fmt.Errorf("%w: solo un admin rechaza", domain.ErrForbidden)
		}
		if strings.TrimSpace(in.Reason) == "" {
			return fmt.Errorf("%w: motivo de rechazo requerido", domain.ErrInvalidInput)
		}
	case entity.CommissionStatusPaid:
		if in.Actor.Kind != ActorAdmin {
			return fmt.Errorf("%w: solo un admin marca como pagada", domain.ErrForbidden)
		}
	case entity.CommissionStatusContractEnded:
		// Solo el evento de terminación de contrato; no es una acción manual.
		if in.Actor.Kind != ActorContractTermination {
			return fmt.Errorf("%w: %s -> %s requiere terminación de contrato",
				domain.ErrInvalidStateTransition, c.Status, in.Target)
		}
	}
	return nil
}

// Apply valida y aplica la transición junto con sus marcas de tiempo.
// Si la validación falla la comisión no se modifica.
func Apply(c *entity.Commission, in TransitionInput, now time.Time) error {
	if err := CheckTransition(c, in); err != nil {
		return err
	}
	ts := now
	switch in.Target {
	case entity.CommissionStatusApproved:
		c.ApprovedAt = &ts
		c.ApprovedByID = nil
		if in.Actor.Kind == ActorAdmin && in.Actor.ID != "" {
			id := in.Actor.ID
			c.ApprovedByID = &id
		}
	case entity.CommissionStatusRejected:
		reason := strings.TrimSpace(in.Reason)
		c.RejectedAt = &ts
		c.RejectionReason = &reason
	case entity.CommissionStatusPaid:
		c.PaidAt = &ts
		c.PaymentReference = nil
		if ref := strings.TrimSpace(in.PaymentReference); ref != "" {
			c.PaymentReference = &ref
		}
	case entity.CommissionStatusContractEnded:
		c.ContractEndedAt = &ts
	}
	c.Status = in.Target
	c.UpdatedAt = now
	return nil
}

// NotificationTypeFor tipo de notificación al revendedor para el estado destino.
// Devuelve "" si el estado no es visible para el revendedor.
func NotificationTypeFor(status string) string {
	switch status {
	case entity.CommissionStatusApproved:
		return entity.NotificationCommissionApproved
	case entity.CommissionStatusRejected:
		return entity.NotificationCommissionRejected
	case entity.CommissionStatusPaid:
		return entity.NotificationCommissionPaid
	}
	return ""
}

// AuditActionFor acción de auditoría para el estado destino.
func AuditActionFor(status string, actor Actor) string {
	switch status {
	case entity.CommissionStatusApproved:
		if actor.Kind == ActorAutoRule {
			return entity.AuditActionCommissionAutoApproved
		}
		return entity.AuditActionCommissionApproved
	case entity.CommissionStatusRejected:
		return entity.AuditActionCommissionRejected
	case entity.CommissionStatusPaid:
		return entity.AuditActionCommissionPaid
	case entity.CommissionStatusContractEnded:
		return entity.AuditActionCommissionContractEnded
	}
	return ""
}
