package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

var _ ports.NotificationDeliverer = (*KafkaNotifier)(nil)

// messageWriter lo cumple *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// notificationMessage cuerpo publicado en el tópico de notificaciones.
type notificationMessage struct {
	UserID     string         `json:"user_id"`
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// KafkaNotifier publica notificaciones en Kafka con el userID como clave de partición,
// así las notificaciones de un mismo usuario conservan su orden.
type KafkaNotifier struct {
	writer messageWriter
	topic  string
}

// NewKafkaNotifier construye el publicador. Requiere al menos un broker.
func NewKafkaNotifier(brokers []string, topic string) (*KafkaNotifier, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka notifier requiere al menos un broker")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka notifier requiere un tópico")
	}
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
		},
		topic: topic,
	}, nil
}

// Deliver serializa la notificación y la publica.
func (n *KafkaNotifier) Deliver(ctx context.Context, notification entity.Notification) error {
	body, err := json.Marshal(notificationMessage{
		UserID:     notification.UserID,
		Type:       notification.Type,
		Payload:    notification.Payload,
		OccurredAt: notification.OccurredAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("serializar notificación: %w", err)
	}
	err = n.writer.WriteMessages(ctx, kafka.Message{
		Topic: n.topic,
		Key:   []byte(notification.UserID),
		Value: body,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(notification.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("publicar notificación: %w", err)
	}
	return nil
}

// Close vacía y cierra el writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
