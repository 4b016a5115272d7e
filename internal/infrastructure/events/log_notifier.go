package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

var _ ports.NotificationDeliverer = (*LogNotifier)(nil)

// LogNotifier registra las notificaciones en el log. Se usa cuando no hay brokers configurados.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Deliver nunca falla.
func (n *LogNotifier) Deliver(_ context.Context, notification entity.Notification) error {
	n.log.Info().
		Str("user_id", notification.UserID).
		Str("type", notification.Type).
		Interface("payload", notification.Payload).
		Time("occurred_at", notification.OccurredAt).
		Msg("notificación")
	return nil
}
