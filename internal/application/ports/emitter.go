package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// emitTimeout tope por efecto secundario; se emiten después del commit.
const emitTimeout = 5 * time.Second

// Emitter emite hechos de auditoría y notificaciones después de confirmar un cambio.
// Nunca devuelve error: los fallos se registran y el cambio de estado se mantiene.
type Emitter struct {
	audit    AuditRecorder
	notifier NotificationDeliverer
	log      zerolog.Logger
}

// NewEmitter construye el emisor. audit y notifier pueden ser nil (se omiten).
func NewEmitter(audit AuditRecorder, notifier NotificationDeliverer, log zerolog.Logger) *Emitter {
	return &Emitter{audit: audit, notifier: notifier, log: log}
}

// detached desacopla el efecto de la cancelación de la petición que lo originó.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), emitTimeout)
}

// Record registra un hecho de auditoría.
func (e *Emitter) Record(ctx context.Context, fact *entity.AuditFact) {
	if e == nil || e.audit == nil || fact == nil {
		return
	}
	if fact.ID == "" {
		fact.ID = uuid.New().String()
	}
	if fact.CreatedAt.IsZero() {
		fact.CreatedAt = time.Now()
	}
	ctx, cancel := detached(ctx)
	defer cancel()
	if err := e.audit.RecordFact(ctx, fact); err != nil {
		e.log.Warn().Err(err).
			Str("action", fact.Action).
			Str("entity_type", fact.EntityType).
			Str("entity_id", fact.EntityID).
			Msg("no se pudo registrar hecho de auditoría")
	}
}

// Notify entrega una notificación a un usuario.
func (e *Emitter) Notify(ctx context.Context, userID, notificationType string, payload map[string]any) {
	if e == nil || e.notifier == nil || userID == "" {
		return
	}
	n := entity.Notification{
		UserID:     userID,
		Type:       notificationType,
		Payload:    payload,
		OccurredAt: time.Now(),
	}
	ctx, cancel := detached(ctx)
	defer cancel()
	if err := e.notifier.Deliver(ctx, n); err != nil {
		e.log.Warn().Err(err).
			Str("user_id", userID).
			Str("type", notificationType).
			Msg("no se pudo entregar notificación")
	}
}
