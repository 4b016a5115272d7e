package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/partner-commissions/internal/domain"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, reseller_id, company_name, contact_name, email, phone, status,
	contract_value, contract_duration, closed_at, contract_ended_at, created_at, updated_at`

// rowScanner lo cumplen pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ResellerID, c.CompanyName, nullIfEmpty(c.ContactName), nullIfEmpty(c.Email), nullIfEmpty(c.Phone), c.Status,
		c.ContractValue, c.ContractDuration, c.ClosedAt, c.ContractEndedAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.get(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

// GetForUpdate obtiene el cliente bloqueando la fila hasta el fin de la tx.
func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.get(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id)
}

func (r *CustomerRepo) get(ctx context.Context, query, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// ListByReseller lista clientes del revendedor; resellerID vacío lista todos.
func (r *CustomerRepo) ListByReseller(ctx context.Context, resellerID string, limit, offset int) ([]*entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE ($1 = '' OR reseller_id::text = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, resellerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update persiste datos de contacto, estado y términos del contrato.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET company_name = $2, contact_name = $3, email = $4, phone = $5, status = $6,
			contract_value = $7, contract_duration = $8, closed_at = $9, contract_ended_at = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyName, nullIfEmpty(c.ContactName), nullIfEmpty(c.Email), nullIfEmpty(c.Phone), c.Status,
		c.ContractValue, c.ContractDuration, c.ClosedAt, c.ContractEndedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus actualiza solo status con compare-and-set sobre el estado leído.
func (r *CustomerRepo) UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error {
	query := `
		UPDATE customers SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2 AND status <> 'ACTIVE' AND closed_at IS NULL`
	tag, err := r.q.Exec(ctx, query, id, from, to, at)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update customer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func scanCustomer(row rowScanner) (*entity.Customer, error) {
	var (
		c                          entity.Customer
		contactName, email, phone *string
	)
	err := row.Scan(
		&c.ID, &c.ResellerID, &c.CompanyName, &contactName, &email, &phone, &c.Status,
		&c.ContractValue, &c.ContractDuration, &c.ClosedAt, &c.ContractEndedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ContactName = derefString(contactName)
	c.Email = derefString(email)
	c.Phone = derefString(phone)
	return &c, nil
}
