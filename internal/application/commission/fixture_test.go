package commission_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partner-commissions/internal/application/commission"
	"github.com/jhoicas/partner-commissions/internal/application/dto"
	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: almacén en memoria + casos de uso cableados como en cmd/api
// ──────────────────────────────────────────────────────────────────────────────

const (
	adminID    = "admin-1"
	resellerID = "reseller-1"
	otherID    = "reseller-2"
	customerID = "customer-1"
)

type fixture struct {
	store       *memory.Store
	audit       *memory.AuditLog
	outbox      *memory.Outbox
	deals       *commission.DealClosureUseCase
	transitions *commission.TransitionUseCase
	rules       *commission.RuleUseCase
	query       *commission.QueryUseCase
	pdf         *fakePDF
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  memory.NewStore(),
		audit:  &memory.AuditLog{},
		outbox: &memory.Outbox{},
		pdf:    &fakePDF{},
	}
	emitter := ports.NewEmitter(f.audit, f.outbox, zerolog.Nop())
	f.deals = commission.NewDealClosureUseCase(f.store, emitter, zerolog.Nop())
	f.transitions = commission.NewTransitionUseCase(f.store, emitter, zerolog.Nop())
	f.rules = commission.NewRuleUseCase(f.store.Rules(), emitter)
	f.query = commission.NewQueryUseCase(f.store.Commissions(), f.store.Customers(), f.store.Users(), f.pdf)

	f.store.PutUser(entity.User{ID: adminID, Name: "Admin", Role: entity.RoleAdmin})
	f.addReseller(resellerID, "20", 3, false, false)
	f.addCustomer(t, customerID, resellerID)
	return f
}

func (f *fixture) addReseller(id, rate string, years int, trusted, oneOff bool) {
	f.store.PutUser(entity.User{
		ID:              id,
		Name:            "Partner " + id,
		Role:            entity.RoleReseller,
		CommissionRate:  decimal.RequireFromString(rate),
		CommissionYears: years,
		IsTrusted:       trusted,
		IsOneOffPayment: oneOff,
		Currency:        "USD",
	})
}

func (f *fixture) addCustomer(t *testing.T, id, owner string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.store.Customers().Create(context.Background(), &entity.Customer{
		ID: id, ResellerID: owner, CompanyName: "Empresa " + id, Status: entity.CustomerStatusLead,
		CreatedAt: now, UpdatedAt: now,
	}))
}

func (f *fixture) addRule(t *testing.T, name string, priority int, maxAmount string, trustedOnly bool) *entity.AutoApprovalRule {
	t.Helper()
	in := dto.CreateRuleRequest{Name: name, Enabled: true, Priority: priority, TrustedResellersOnly: trustedOnly}
	if maxAmount != "" {
		m := decimal.RequireFromString(maxAmount)
		in.MaxAmount = &m
	}
	rule, err := f.rules.Create(context.Background(), adminID, in)
	require.NoError(t, err)
	return rule
}

func (f *fixture) closeDeal(t *testing.T, id, value string, years int) *commission.CloseDealResult {
	t.Helper()
	res, err := f.deals.CloseDeal(context.Background(), closeInput(id, value, years))
	require.NoError(t, err)
	return res
}

func (f *fixture) customer(t *testing.T, id string) *entity.Customer {
	t.Helper()
	c, err := f.store.Customers().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func (f *fixture) schedule(t *testing.T, id string) []*entity.Commission {
	t.Helper()
	list, err := f.store.Commissions().ListByCustomer(context.Background(), id)
	require.NoError(t, err)
	return list
}

func closeInput(id, value string, years int) commission.CloseDealInput {
	return commission.CloseDealInput{
		CustomerID:       id,
		ContractValue:    decimal.RequireFromString(value),
		ContractDuration: years,
		ClosedByAdminID:  adminID,
	}
}

func statuses(list []*entity.Commission) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Status)
	}
	return out
}

type fakePDF struct {
	calls int
}

func (p *fakePDF) GenerateStatement(_ context.Context, _ *entity.Customer, _ *entity.User, commissions []*entity.Commission) ([]byte, error) {
	p.calls++
	return []byte("%PDF-fake"), nil
}
