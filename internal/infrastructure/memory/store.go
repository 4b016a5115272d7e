// Package memory implementa los puertos de persistencia y el TxRunner en memoria.
// Cada transacción trabaja sobre una copia del estado que reemplaza al original solo en el commit;
// un error en el callback descarta la copia completa. Las transacciones se serializan.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/partner-commissions/internal/application/commission"
	"github.com/jhoicas/partner-commissions/internal/domain"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

var _ commission.TxRunner = (*Store)(nil)

// ErrInjected error por defecto de las fallas inyectadas.
var ErrInjected = errors.New("memory: falla inyectada")

type state struct {
	customers   map[string]entity.Customer
	commissions map[string]entity.Commission
	rules       map[string]entity.AutoApprovalRule
	users       map[string]entity.User
}

func newState() *state {
	return &state{
		customers:   map[string]entity.Customer{},
		commissions: map[string]entity.Commission{},
		rules:       map[string]entity.AutoApprovalRule{},
		users:       map[string]entity.User{},
	}
}

func (s *state) clone() *state {
	out := newState()
	for k, v := range s.customers {
		out.customers[k] = v
	}
	for k, v := range s.commissions {
		out.commissions[k] = v
	}
	for k, v := range s.rules {
		out.rules[k] = v
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	return out
}

// Store estado en memoria.
type Store struct {
	mu sync.Mutex
	st *state

	// FailCreateBatch, si no es nil, hace fallar el próximo CreateBatch (y se limpia).
	FailCreateBatch error
	// FailCommissionUpdateAfter hace fallar el Update de comisión número N+1 dentro de una tx (0 = desactivado).
	FailCommissionUpdateAfter int
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// RunCommission ejecuta fn sobre una copia del estado y la confirma si fn no falla.
func (s *Store) RunCommission(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	commissionRepo repository.CommissionRepository,
	ruleRepo repository.AutoApprovalRuleRepository,
	userRepo repository.UserRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	tx := &txHooks{store: s}
	err := fn(
		&CustomerRepo{st: work},
		&CommissionRepo{st: work, hooks: tx},
		&RuleRepo{st: work},
		&UserRepo{st: work},
	)
	if err != nil {
		return err
	}
	s.st = work
	return nil
}

// txHooks fallas inyectadas dentro de una transacción.
type txHooks struct {
	store   *Store
	updates int
}

// ── Repositorios fuera de transacción ─────────────────────────────────────────

// Customers repositorio de clientes fuera de transacción.
func (s *Store) Customers() repository.CustomerRepository { return &lockedCustomers{s: s} }

// Commissions repositorio de comisiones fuera de transacción.
func (s *Store) Commissions() repository.CommissionRepository { return &lockedCommissions{s: s} }

// Rules repositorio de reglas fuera de transacción.
func (s *Store) Rules() repository.AutoApprovalRuleRepository { return &lockedRules{s: s} }

// Users repositorio de usuarios fuera de transacción.
func (s *Store) Users() repository.UserRepository { return &lockedUsers{s: s} }

// PutUser inserta o reemplaza un usuario (los crea el servicio de identidad).
func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[u.ID] = u
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// CustomerRepo repositorio de clientes sobre un estado.
type CustomerRepo struct{ st *state }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	if _, ok := r.st.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.st.users[c.ResellerID]; !ok {
		return domain.ErrNotFound
	}
	r.st.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := r.st.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r *CustomerRepo) ListByReseller(_ context.Context, resellerID string, limit, offset int) ([]*entity.Customer, error) {
	var list []*entity.Customer
	for _, c := range r.st.customers {
		if resellerID != "" && c.ResellerID != resellerID {
			continue
		}
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	if _, ok := r.st.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) UpdateStatus(_ context.Context, id, from, to string, at time.Time) error {
	c, ok := r.st.customers[id]
	if !ok || c.Status != from || c.IsActive() || c.ClosedAt != nil {
		return domain.ErrConflict
	}
	c.Status = to
	c.UpdatedAt = at
	r.st.customers[id] = c
	return nil
}

// ── Comisiones ────────────────────────────────────────────────────────────────

// CommissionRepo repositorio de comisiones sobre un estado.
type CommissionRepo struct {
	st    *state
	hooks *txHooks
}

func (r *CommissionRepo) CreateBatch(_ context.Context, list []*entity.Commission) error {
	if r.hooks != nil && r.hooks.store.FailCreateBatch != nil {
		err := r.hooks.store.FailCreateBatch
		r.hooks.store.FailCreateBatch = nil
		return err
	}
	for _, c := range list {
		for _, existing := range r.st.commissions {
			if existing.CustomerID == c.CustomerID && existing.YearNumber == c.YearNumber {
				return domain.ErrDealAlreadyClosed
			}
		}
		r.st.commissions[c.ID] = *c
	}
	return nil
}

func (r *CommissionRepo) GetByID(_ context.Context, id string) (*entity.Commission, error) {
	c, ok := r.st.commissions[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CommissionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Commission, error) {
	return r.GetByID(ctx, id)
}

func (r *CommissionRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.Commission, error) {
	var list []*entity.Commission
	for _, c := range r.st.commissions {
		if c.CustomerID == customerID {
			c := c
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].YearNumber < list[j].YearNumber })
	return list, nil
}

func (r *CommissionRepo) LockByCustomer(ctx context.Context, customerID string) ([]*entity.Commission, error) {
	return r.ListByCustomer(ctx, customerID)
}

func (r *CommissionRepo) List(_ context.Context, f entity.CommissionFilter) ([]*entity.Commission, error) {
	var list []*entity.Commission
	for _, c := range r.st.commissions {
		if f.ResellerID != "" && c.ResellerID != f.ResellerID {
			continue
		}
		if f.CustomerID != "" && c.CustomerID != f.CustomerID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.RequestedAt.Equal(b.RequestedAt) {
			return a.RequestedAt.After(b.RequestedAt)
		}
		if a.YearNumber != b.YearNumber {
			return a.YearNumber < b.YearNumber
		}
		return a.ID < b.ID
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *CommissionRepo) CountByCustomer(_ context.Context, customerID string) (int, error) {
	n := 0
	for _, c := range r.st.commissions {
		if c.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (r *CommissionRepo) Update(_ context.Context, c *entity.Commission) error {
	if r.hooks != nil && r.hooks.store.FailCommissionUpdateAfter > 0 {
		if r.hooks.updates >= r.hooks.store.FailCommissionUpdateAfter {
			return ErrInjected
		}
		r.hooks.updates++
	}
	if _, ok := r.st.commissions[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.commissions[c.ID] = *c
	return nil
}

func (r *CommissionRepo) SummaryByReseller(_ context.Context, resellerID string) ([]entity.CommissionStatusTotal, error) {
	byStatus := map[string]*entity.CommissionStatusTotal{}
	for _, c := range r.st.commissions {
		if resellerID != "" && c.ResellerID != resellerID {
			continue
		}
		t, ok := byStatus[c.Status]
		if !ok {
			t = &entity.CommissionStatusTotal{Status: c.Status, Total: decimal.Zero}
			byStatus[c.Status] = t
		}
		t.Count++
		t.Total = t.Total.Add(c.Amount)
	}
	out := make([]entity.CommissionStatusTotal, 0, len(byStatus))
	for _, t := range byStatus {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

// ── Reglas ────────────────────────────────────────────────────────────────────

// RuleRepo repositorio de reglas sobre un estado.
type RuleRepo struct{ st *state }

func (r *RuleRepo) Create(_ context.Context, rule *entity.AutoApprovalRule) error {
	if _, ok := r.st.rules[rule.ID]; ok {
		return domain.ErrDuplicate
	}
	r.st.rules[rule.ID] = *rule
	return nil
}

func (r *RuleRepo) GetByID(_ context.Context, id string) (*entity.AutoApprovalRule, error) {
	rule, ok := r.st.rules[id]
	if !ok {
		return nil, nil
	}
	return &rule, nil
}

func (r *RuleRepo) List(_ context.Context) ([]*entity.AutoApprovalRule, error) {
	list := make([]*entity.AutoApprovalRule, 0, len(r.st.rules))
	for _, rule := range r.st.rules {
		rule := rule
		list = append(list, &rule)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return list, nil
}

func (r *RuleRepo) Update(_ context.Context, rule *entity.AutoApprovalRule) error {
	if _, ok := r.st.rules[rule.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.rules[rule.ID] = *rule
	return nil
}

func (r *RuleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.st.rules[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.rules, id)
	return nil
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

// UserRepo repositorio de usuarios sobre un estado.
type UserRepo struct{ st *state }

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) ListResellers(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var list []*entity.User
	for _, u := range r.st.users {
		if u.Role == entity.RoleReseller {
			u := u
			list = append(list, &u)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), nil
}

func (r *UserRepo) UpdateResellerSettings(_ context.Context, u *entity.User) error {
	existing, ok := r.st.users[u.ID]
	if !ok || existing.Role != entity.RoleReseller {
		return domain.ErrNotFound
	}
	r.st.users[u.ID] = *u
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
