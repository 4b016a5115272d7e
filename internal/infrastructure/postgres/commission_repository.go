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

var _ repository.CommissionRepository = (*CommissionRepo)(nil)

const commissionColumns = `id, customer_id, reseller_id, amount, year_number, period, status,
	snapshot_commission_rate, snapshot_commission_years, snapshot_is_one_off_payment, snapshot_is_trusted,
	snapshot_currency, auto_approval_rule_id, requested_at, approved_at, approved_by_id, rejected_at,
	rejection_reason, paid_at, payment_reference, contract_ended_at, created_at, updated_at`

// CommissionRepo implementación de CommissionRepository (usable con pool o tx).
type CommissionRepo struct {
	q Querier
}

// NewCommissionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCommissionRepository(q Querier) *CommissionRepo {
	return &CommissionRepo{q: q}
}

// CreateBatch inserta el calendario en un solo round-trip (pgx.Batch).
// La restricción UNIQUE (customer_id, year_number) impide un segundo calendario.
func (r *CommissionRepo) CreateBatch(ctx context.Context, commissions []*entity.Commission) error {
	if len(commissions) == 0 {
		return nil
	}
	query := `
		INSERT INTO commissions (` + commissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	batch := &pgx.Batch{}
	for _, c := range commissions {
		batch.Queue(query,
			c.ID, c.CustomerID, c.ResellerID, c.Amount, c.YearNumber, c.Period, c.Status,
			c.Snapshot.CommissionRate, c.Snapshot.CommissionYears, c.Snapshot.IsOneOffPayment, c.Snapshot.IsTrusted,
			c.Snapshot.Currency, c.AutoApprovalRuleID, c.RequestedAt, c.ApprovedAt, c.ApprovedByID, c.RejectedAt,
			c.RejectionReason, c.PaidAt, c.PaymentReference, c.ContractEndedAt, c.CreatedAt, c.UpdatedAt,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range commissions {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDealAlreadyClosed
			}
			return fmt.Errorf("insert commission: %w", err)
		}
	}
	return br.Close()
}

// GetByID obtiene una comisión por ID.
func (r *CommissionRepo) GetByID(ctx context.Context, id string) (*entity.Commission, error) {
	return r.get(ctx, `SELECT `+commissionColumns+` FROM commissions WHERE id = $1`, id)
}

// GetForUpdate obtiene la comisión bloqueando la fila hasta el fin de la tx.
func (r *CommissionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Commission, error) {
	return r.get(ctx, `SELECT `+commissionColumns+` FROM commissions WHERE id = $1 FOR UPDATE`, id)
}

func (r *CommissionRepo) get(ctx context.Context, query, id string) (*entity.Commission, error) {
	c, err := scanCommission(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get commission: %w", err)
	}
	return c, nil
}

// ListByCustomer devuelve el calendario del cliente ordenado por año.
func (r *CommissionRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Commission, error) {
	return r.list(ctx, `SELECT `+commissionColumns+` FROM commissions WHERE customer_id = $1 ORDER BY year_number`, customerID)
}

// LockByCustomer igual que ListByCustomer pero con FOR UPDATE sobre todas las filas.
func (r *CommissionRepo) LockByCustomer(ctx context.Context, customerID string) ([]*entity.Commission, error) {
	return r.list(ctx, `SELECT `+commissionColumns+` FROM commissions WHERE customer_id = $1 ORDER BY year_number FOR UPDATE`, customerID)
}

// List lista comisiones con filtros opcionales, más recientes primero.
func (r *CommissionRepo) List(ctx context.Context, f entity.CommissionFilter) ([]*entity.Commission, error) {
	query := `
		SELECT ` + commissionColumns + `
		FROM commissions
		WHERE ($1 = '' OR reseller_id::text = $1)
		  AND ($2 = '' OR customer_id::text = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY requested_at DESC, year_number, id
		LIMIT $4 OFFSET $5`
	return r.list(ctx, query, f.ResellerID, f.CustomerID, f.Status, f.Limit, f.Offset)
}

func (r *CommissionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Commission, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan commission: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CountByCustomer cuenta las comisiones ya generadas para el cliente.
func (r *CommissionRepo) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM commissions WHERE customer_id = $1`, customerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count commissions: %w", err)
	}
	return n, nil
}

// Update persiste el estado y los campos de la transición. Monto, año y snapshot no se tocan.
func (r *CommissionRepo) Update(ctx context.Context, c *entity.Commission) error {
	query := `
		UPDATE commissions SET status = $2, auto_approval_rule_id = $3, approved_at = $4, approved_by_id = $5,
			rejected_at = $6, rejection_reason = $7, paid_at = $8, payment_reference = $9,
			contract_ended_at = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Status, c.AutoApprovalRuleID, c.ApprovedAt, c.ApprovedByID,
		c.RejectedAt, c.RejectionReason, c.PaidAt, c.PaymentReference,
		c.ContractEndedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update commission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SummaryByReseller agrega cantidad y monto por estado; resellerID vacío agrega todos.
func (r *CommissionRepo) SummaryByReseller(ctx context.Context, resellerID string) ([]entity.CommissionStatusTotal, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(amount), 0)
		FROM commissions
		WHERE ($1 = '' OR reseller_id::text = $1)
		GROUP BY status
		ORDER BY status`
	rows, err := r.q.Query(ctx, query, resellerID)
	if err != nil {
		return nil, fmt.Errorf("summary commissions: %w", err)
	}
	defer rows.Close()
	var out []entity.CommissionStatusTotal
	for rows.Next() {
		var t entity.CommissionStatusTotal
		if err := rows.Scan(&t.Status, &t.Count, &t.Total); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanCommission(row rowScanner) (*entity.Commission, error) {
	var c entity.Commission
	err := row.Scan(
		&c.ID, &c.CustomerID, &c.ResellerID, &c.Amount, &c.YearNumber, &c.Period, &c.Status,
		&c.Snapshot.CommissionRate, &c.Snapshot.CommissionYears, &c.Snapshot.IsOneOffPayment, &c.Snapshot.IsTrusted,
		&c.Snapshot.Currency, &c.AutoApprovalRuleID, &c.RequestedAt, &c.ApprovedAt, &c.ApprovedByID, &c.RejectedAt,
		&c.RejectionReason, &c.PaidAt, &c.PaymentReference, &c.ContractEndedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Snapshot.ResellerID = c.ResellerID
	return &c, nil
}
