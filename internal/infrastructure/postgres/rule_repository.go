package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/partner-commissions/internal/domain"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

var _ repository.AutoApprovalRuleRepository = (*AutoApprovalRuleRepo)(nil)

const ruleColumns = `id, name, enabled, priority, max_amount, trusted_resellers_only, created_at, updated_at`

// AutoApprovalRuleRepo implementación de AutoApprovalRuleRepository.
type AutoApprovalRuleRepo struct {
	q Querier
}

// NewAutoApprovalRuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAutoApprovalRuleRepository(q Querier) *AutoApprovalRuleRepo {
	return &AutoApprovalRuleRepo{q: q}
}

// Create persiste una regla.
func (r *AutoApprovalRuleRepo) Create(ctx context.Context, rule *entity.AutoApprovalRule) error {
	query := `INSERT INTO auto_approval_rules (` + ruleColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		rule.ID, rule.Name, rule.Enabled, rule.Priority, rule.MaxAmount, rule.TrustedResellersOnly,
		rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert auto approval rule: %w", err)
	}
	return nil
}

// GetByID obtiene una regla por ID.
func (r *AutoApprovalRuleRepo) GetByID(ctx context.Context, id string) (*entity.AutoApprovalRule, error) {
	rule, err := scanRule(r.q.QueryRow(ctx, `SELECT `+ruleColumns+` FROM auto_approval_rules WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get auto approval rule: %w", err)
	}
	return rule, nil
}

// List devuelve todas las reglas en orden de evaluación.
func (r *AutoApprovalRuleRepo) List(ctx context.Context) ([]*entity.AutoApprovalRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM auto_approval_rules ORDER BY priority DESC, created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list auto approval rules: %w", err)
	}
	defer rows.Close()
	var list []*entity.AutoApprovalRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan auto approval rule: %w", err)
		}
		list = append(list, rule)
	}
	return list, rows.Err()
}

// Update actualiza una regla.
func (r *AutoApprovalRuleRepo) Update(ctx context.Context, rule *entity.AutoApprovalRule) error {
	query := `
		UPDATE auto_approval_rules SET name = $2, enabled = $3, priority = $4, max_amount = $5,
			trusted_resellers_only = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		rule.ID, rule.Name, rule.Enabled, rule.Priority, rule.MaxAmount, rule.TrustedResellersOnly, rule.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update auto approval rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una regla. Las comisiones que la referencian conservan el ID (sin FK).
func (r *AutoApprovalRuleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM auto_approval_rules WHERE id = $1`, id)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete auto approval rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanRule(row rowScanner) (*entity.AutoApprovalRule, error) {
	var rule entity.AutoApprovalRule
	err := row.Scan(
		&rule.ID, &rule.Name, &rule.Enabled, &rule.Priority, &rule.MaxAmount, &rule.TrustedResellersOnly,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}
