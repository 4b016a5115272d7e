package memory

import (
	"context"
	"time"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// Envoltorios fuera de transacción: cada operación toma el lock del Store y
// trabaja sobre el estado confirmado.

type lockedCustomers struct{ s *Store }

func (l *lockedCustomers) repo() *CustomerRepo { return &CustomerRepo{st: l.s.st} }

func (l *lockedCustomers) Create(ctx context.Context, c *entity.Customer) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().Create(ctx, c)
}

func (l *lockedCustomers) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().GetByID(ctx, id)
}

func (l *lockedCustomers) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return l.GetByID(ctx, id)
}

func (l *lockedCustomers) ListByReseller(ctx context.Context, resellerID string, limit, offset int) ([]*entity.Customer, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().ListByReseller(ctx, resellerID, limit, offset)
}

func (l *lockedCustomers) Update(ctx context.Context, c *entity.Customer) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().Update(ctx, c)
}

func (l *lockedCustomers) UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().UpdateStatus(ctx, id, from, to, at)
}

type lockedCommissions struct{ s *Store }

func (l *lockedCommissions) repo() *CommissionRepo { return &CommissionRepo{st: l.s.st} }

func (l *lockedCommissions) CreateBatch(ctx context.Context, list []*entity.Commission) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().CreateBatch(ctx, list)
}

func (l *lockedCommissions) GetByID(ctx context.Context, id string) (*entity.Commission, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().GetByID(ctx, id)
}

func (l *lockedCommissions) GetForUpdate(ctx context.Context, id string) (*entity.Commission, error) {
	return l.GetByID(ctx, id)
}

func (l *lockedCommissions) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Commission, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().ListByCustomer(ctx, customerID)
}

func (l *lockedCommissions) LockByCustomer(ctx context.Context, customerID string) ([]*entity.Commission, error) {
	return l.ListByCustomer(ctx, customerID)
}

func (l *lockedCommissions) List(ctx context.Context, f entity.CommissionFilter) ([]*entity.Commission, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().List(ctx, f)
}

func (l *lockedCommissions) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().CountByCustomer(ctx, customerID)
}

func (l *lockedCommissions) Update(ctx context.Context, c *entity.Commission) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().Update(ctx, c)
}

func (l *lockedCommissions) SummaryByReseller(ctx context.Context, resellerID string) ([]entity.CommissionStatusTotal, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().SummaryByReseller(ctx, resellerID)
}

type lockedRules struct{ s *Store }

func (l *lockedRules) repo() *RuleRepo { return &RuleRepo{st: l.s.st} }

func (l *lockedRules) Create(ctx context.Context, rule *entity.AutoApprovalRule) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().Create(ctx, rule)
}

func (l *lockedRules) GetByID(ctx context.Context, id string) (*entity.AutoApprovalRule, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().GetByID(ctx, id)
}

func (l *lockedRules) List(ctx context.Context) ([]*entity.AutoApprovalRule, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().List(ctx)
}

func (l *lockedRules) Update(ctx context.Context, rule *entity.AutoApprovalRule) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().Update(ctx, rule)
}

func (l *lockedRules) Delete(ctx context.Context, id string) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().Delete(ctx, id)
}

type lockedUsers struct{ s *Store }

func (l *lockedUsers) repo() *UserRepo { return &UserRepo{st: l.s.st} }

func (l *lockedUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().GetByID(ctx, id)
}

func (l *lockedUsers) ListResellers(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().ListResellers(ctx, limit, offset)
}

func (l *lockedUsers) UpdateResellerSettings(ctx context.Context, u *entity.User) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.repo().UpdateResellerSettings(ctx, u)
}
