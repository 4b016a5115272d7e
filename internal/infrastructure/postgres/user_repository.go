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

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, email, name, role, commission_rate, commission_years, is_one_off_payment,
	is_trusted, currency, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// Los usuarios los crea el servicio de identidad; aquí solo se leen y se ajustan términos comerciales.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListResellers lista usuarios con rol reseller ordenados por nombre.
func (r *UserRepo) ListResellers(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE role = $1
		ORDER BY name, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, entity.RoleReseller, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list resellers: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// UpdateResellerSettings persiste la configuración comercial del revendedor.
func (r *UserRepo) UpdateResellerSettings(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE users SET commission_rate = $2, commission_years = $3, is_one_off_payment = $4,
			is_trusted = $5, currency = $6, updated_at = $7
		WHERE id = $1 AND role = $8`
	tag, err := r.q.Exec(ctx, query,
		u.ID, u.CommissionRate, u.CommissionYears, u.IsOneOffPayment, u.IsTrusted, u.Currency, u.UpdatedAt,
		entity.RoleReseller,
	)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update reseller settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row rowScanner) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.CommissionRate, &u.CommissionYears, &u.IsOneOffPayment,
		&u.IsTrusted, &u.Currency, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
