package entity

import "time"

// Acciones registradas en la bitácora de auditoría.
const (
	AuditActionDealClosed              = "DEAL_CLOSED"
	AuditActionContractEnded           = "CONTRACT_ENDED"
	AuditActionCommissionAutoApproved  = "COMMISSION_AUTO_APPROVED"
	AuditActionCommissionApproved      = "COMMISSION_APPROVED"
	AuditActionCommissionRejected      = "COMMISSION_REJECTED"
	AuditActionCommissionPaid          = "COMMISSION_PAID"
	AuditActionCommissionContractEnded = "COMMISSION_CONTRACT_ENDED"
	AuditActionCustomerStatusChanged   = "CUSTOMER_STATUS_CHANGED"
	AuditActionRuleCreated             = "AUTO_APPROVAL_RULE_CREATED"
	AuditActionRuleUpdated             = "AUTO_APPROVAL_RULE_UPDATED"
	AuditActionRuleDeleted             = "AUTO_APPROVAL_RULE_DELETED"
	AuditActionResellerUpdated         = "RESELLER_SETTINGS_UPDATED"
)

// Tipos de entidad auditada.
const (
	EntityTypeCustomer         = "CUSTOMER"
	EntityTypeCommission       = "COMMISSION"
	EntityTypeAutoApprovalRule = "AUTO_APPROVAL_RULE"
	EntityTypeUser             = "USER"
)

// PerformedBySystem actor de acciones automáticas (reglas de auto-aprobación).
const PerformedBySystem = "system"

// AuditFact hecho auditable emitido tras un cambio de estado.
type AuditFact struct {
	ID          string
	Action      string
	PerformedBy string
	EntityType  string
	EntityID    string
	Changes     map[string]any
	Metadata    map[string]any
	CreatedAt   time.Time
}
