package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

var (
	_ repository.AuditRepository = (*AuditRepo)(nil)
	_ ports.AuditRecorder        = (*AuditRepo)(nil)
)

// AuditRepo bitácora append-only en audit_logs (changes y metadata como JSONB).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Se usa con el pool: los hechos se registran después del commit.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create inserta un hecho de auditoría.
func (r *AuditRepo) Create(ctx context.Context, fact *entity.AuditFact) error {
	query := `
		INSERT INTO audit_logs (id, action, performed_by, entity_type, entity_id, changes, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		fact.ID, fact.Action, fact.PerformedBy, fact.EntityType, fact.EntityID,
		fact.Changes, fact.Metadata, fact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// RecordFact implementa ports.AuditRecorder.
func (r *AuditRepo) RecordFact(ctx context.Context, fact *entity.AuditFact) error {
	return r.Create(ctx, fact)
}

// ListByEntity historial de una entidad en orden cronológico.
func (r *AuditRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditFact, error) {
	query := `
		SELECT id, action, performed_by, entity_type, entity_id, changes, metadata, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditFact
	for rows.Next() {
		var f entity.AuditFact
		if err := rows.Scan(&f.ID, &f.Action, &f.PerformedBy, &f.EntityType, &f.EntityID,
			&f.Changes, &f.Metadata, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}
