package entity

import "time"

// Tipos de notificación entregados a los revendedores.
const (
	NotificationCommissionApproved    = "COMMISSION_APPROVED"
	NotificationCommissionRejected    = "COMMISSION_REJECTED"
	NotificationCommissionPaid        = "COMMISSION_PAID"
	NotificationCustomerStatusChanged = "CUSTOMER_STATUS_CHANGED"
)

// Notification evento dirigido a un usuario.
type Notification struct {
	UserID     string
	Type       string
	Payload    map[string]any
	OccurredAt time.Time
}
