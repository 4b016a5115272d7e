package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

var (
	_ ports.AuditRecorder         = (*AuditLog)(nil)
	_ repository.AuditRepository  = (*AuditLog)(nil)
	_ ports.NotificationDeliverer = (*Outbox)(nil)
)

// AuditLog bitácora en memoria. Con Fail definido rechaza todos los hechos.
type AuditLog struct {
	mu    sync.Mutex
	facts []entity.AuditFact
	Fail  error
}

func (a *AuditLog) Create(_ context.Context, fact *entity.AuditFact) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Fail != nil {
		return a.Fail
	}
	a.facts = append(a.facts, *fact)
	return nil
}

// RecordFact implementa ports.AuditRecorder.
func (a *AuditLog) RecordFact(ctx context.Context, fact *entity.AuditFact) error {
	return a.Create(ctx, fact)
}

func (a *AuditLog) ListByEntity(_ context.Context, entityType, entityID string) ([]*entity.AuditFact, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*entity.AuditFact
	for _, f := range a.facts {
		if f.EntityType == entityType && f.EntityID == entityID {
			f := f
			out = append(out, &f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Facts copia de todos los hechos registrados.
func (a *AuditLog) Facts() []entity.AuditFact {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]entity.AuditFact(nil), a.facts...)
}

// ByAction hechos con la acción indicada.
func (a *AuditLog) ByAction(action string) []entity.AuditFact {
	var out []entity.AuditFact
	for _, f := range a.Facts() {
		if f.Action == action {
			out = append(out, f)
		}
	}
	return out
}

// Outbox notificaciones entregadas en memoria. Con Fail definido rechaza todas.
type Outbox struct {
	mu   sync.Mutex
	sent []entity.Notification
	Fail error
}

func (o *Outbox) Deliver(_ context.Context, n entity.Notification) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Fail != nil {
		return o.Fail
	}
	o.sent = append(o.sent, n)
	return nil
}

// Sent copia de las notificaciones entregadas.
func (o *Outbox) Sent() []entity.Notification {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]entity.Notification(nil), o.sent...)
}

// ByType notificaciones del tipo indicado.
func (o *Outbox) ByType(notificationType string) []entity.Notification {
	var out []entity.Notification
	for _, n := range o.Sent() {
		if n.Type == notificationType {
			out = append(out, n)
		}
	}
	return out
}
