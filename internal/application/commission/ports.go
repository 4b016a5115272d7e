package commission

import (
	"context"

	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback; si no, Commit.
type TxRunner interface {
	RunCommission(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		commissionRepo repository.CommissionRepository,
		ruleRepo repository.AutoApprovalRuleRepository,
		userRepo repository.UserRepository,
	) error) error
}
