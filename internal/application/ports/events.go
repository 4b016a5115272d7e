package ports

import (
	"context"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// AuditRecorder puerto de salida hacia la bitácora de auditoría.
// Desde el motor es fire-and-forget: un fallo se registra en log y se descarta.
type AuditRecorder interface {
	RecordFact(ctx context.Context, fact *entity.AuditFact) error
}

// NotificationDeliverer puerto de salida hacia el subsistema de notificaciones.
// Mismo contrato fire-and-forget que AuditRecorder.
type NotificationDeliverer interface {
	Deliver(ctx context.Context, n entity.Notification) error
}

// StatementPDFGenerator genera el estado de cuenta (calendario de comisiones) de un cliente.
type StatementPDFGenerator interface {
	GenerateStatement(
		ctx context.Context,
		customer *entity.Customer,
		reseller *entity.User,
		commissions []*entity.Commission,
	) ([]byte, error)
}
