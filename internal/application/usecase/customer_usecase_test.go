package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partner-commissions/internal/application/commission"
	"github.com/jhoicas/partner-commissions/internal/application/dto"
	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/application/usecase"
	"github.com/jhoicas/partner-commissions/internal/domain"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
	"github.com/jhoicas/partner-commissions/internal/infrastructure/memory"
)

const (
	adminID    = "11111111-1111-1111-1111-111111111111"
	resellerID = "22222222-2222-2222-2222-222222222222"
	otherID    = "33333333-3333-3333-3333-333333333333"
)

var (
	admin    = dto.Viewer{UserID: adminID, Role: entity.RoleAdmin}
	reseller = dto.Viewer{UserID: resellerID, Role: entity.RoleReseller}
	other    = dto.Viewer{UserID: otherID, Role: entity.RoleReseller}
)

type env struct {
	store  *memory.Store
	audit  *memory.AuditLog
	outbox *memory.Outbox
	emit   *ports.Emitter
}

func newEnv() *env {
	e := &env{store: memory.NewStore(), audit: &memory.AuditLog{}, outbox: &memory.Outbox{}}
	e.emit = ports.NewEmitter(e.audit, e.outbox, zerolog.Nop())
	e.store.PutUser(entity.User{ID: adminID, Name: "Admin", Role: entity.RoleAdmin})
	for _, id := range []string{resellerID, otherID} {
		e.store.PutUser(entity.User{
			ID: id, Name: "Partner " + id[:1], Role: entity.RoleReseller,
			CommissionRate: decimal.NewFromInt(20), CommissionYears: 3, Currency: "USD",
		})
	}
	return e
}

func (e *env) customers() *usecase.CustomerUseCase {
	return usecase.NewCustomerUseCase(e.store.Customers(), e.store.Users(), e.emit)
}

func TestCustomerUseCase_Create(t *testing.T) {
	e := newEnv()
	uc := e.customers()
	ctx := context.Background()

	t.Run("revendedor crea para sí mismo", func(t *testing.T) {
		out, err := uc.Create(ctx, reseller, dto.CreateCustomerRequest{ResellerID: otherID, CompanyName: " Acme "})
		require.NoError(t, err)
		assert.Equal(t, resellerID, out.ResellerID)
		assert.Equal(t, "Acme", out.CompanyName)
		assert.Equal(t, entity.CustomerStatusLead, out.Status)
	})

	t.Run("admin debe indicar revendedor", func(t *testing.T) {
		_, err := uc.Create(ctx, admin, dto.CreateCustomerRequest{CompanyName: "Acme"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		out, err := uc.Create(ctx, admin, dto.CreateCustomerRequest{ResellerID: otherID, CompanyName: "Beta", Status: entity.CustomerStatusProspect})
		require.NoError(t, err)
		assert.Equal(t, otherID, out.ResellerID)
		assert.Equal(t, entity.CustomerStatusProspect, out.Status)
	})

	t.Run("no se crea directamente en ACTIVE", func(t *testing.T) {
		_, err := uc.Create(ctx, reseller, dto.CreateCustomerRequest{CompanyName: "Gamma", Status: entity.CustomerStatusActive})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("revendedor inexistente", func(t *testing.T) {
		_, err := uc.Create(ctx, admin, dto.CreateCustomerRequest{ResellerID: adminID, CompanyName: "Delta"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCustomerUseCase_ListYVisibilidad(t *testing.T) {
	e := newEnv()
	uc := e.customers()
	ctx := context.Background()

	mine, err := uc.Create(ctx, reseller, dto.CreateCustomerRequest{CompanyName: "Propio"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, other, dto.CreateCustomerRequest{CompanyName: "Ajeno"})
	require.NoError(t, err)

	list, err := uc.List(ctx, reseller, otherID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	all, err := uc.List(ctx, admin, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = uc.GetByID(ctx, other, mine.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.GetByID(ctx, admin, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerUseCase_UpdateStatus(t *testing.T) {
	e := newEnv()
	uc := e.customers()
	ctx := context.Background()
	c, err := uc.Create(ctx, reseller, dto.CreateCustomerRequest{CompanyName: "Acme"})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, reseller, c.ID, entity.CustomerStatusActive)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ACTIVE solo con cierre de negocio")

	out, err := uc.UpdateStatus(ctx, reseller, c.ID, entity.CustomerStatusProspect)
	require.NoError(t, err)
	assert.Equal(t, entity.CustomerStatusProspect, out.Status)

	facts := e.audit.ByAction(entity.AuditActionCustomerStatusChanged)
	require.Len(t, facts, 1)
	assert.Equal(t, resellerID, facts[0].PerformedBy)
	sent := e.outbox.ByType(entity.NotificationCustomerStatusChanged)
	require.Len(t, sent, 1)
	assert.Equal(t, entity.CustomerStatusLead, sent[0].Payload["old_status"])
	assert.Equal(t, entity.CustomerStatusProspect, sent[0].Payload["new_status"])

	// Mismo estado: sin efectos.
	_, err = uc.UpdateStatus(ctx, reseller, c.ID, entity.CustomerStatusProspect)
	require.NoError(t, err)
	assert.Len(t, e.audit.Facts(), 1)
}

func TestCustomerUseCase_UpdateStatusClienteActivo(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	value := decimal.NewFromInt(1000)
	require.NoError(t, e.store.Customers().Create(ctx, &entity.Customer{
		ID: "c-active", ResellerID: resellerID, CompanyName: "Activa",
		Status: entity.CustomerStatusActive, ContractValue: &value,
	}))

	_, err := e.customers().UpdateStatus(ctx, admin, "c-active", entity.CustomerStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// customersWithHook ejecuta afterRead una sola vez, justo después de la primera lectura.
type customersWithHook struct {
	repository.CustomerRepository
	afterRead func()
}

func (r *customersWithHook) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := r.CustomerRepository.GetByID(ctx, id)
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return c, err
}

func (e *env) deals() *commission.DealClosureUseCase {
	return commission.NewDealClosureUseCase(e.store, e.emit, zerolog.Nop())
}

func TestCustomerUseCase_UpdateStatusNoPisaCierreConcurrente(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	c, err := e.customers().Create(ctx, reseller, dto.CreateCustomerRequest{CompanyName: "Acme"})
	require.NoError(t, err)

	// El cierre confirma entre la lectura de UpdateStatus y su escritura.
	repo := &customersWithHook{CustomerRepository: e.store.Customers()}
	repo.afterRead = func() {
		_, err := e.deals().CloseDeal(ctx, commission.CloseDealInput{
			CustomerID: c.ID, ContractValue: decimal.NewFromInt(12000), ContractDuration: 3, ClosedByAdminID: adminID,
		})
		require.NoError(t, err)
	}
	uc := usecase.NewCustomerUseCase(repo, e.store.Users(), e.emit)

	_, err = uc.UpdateStatus(ctx, admin, c.ID, entity.CustomerStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := e.store.Customers().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CustomerStatusActive, stored.Status)
	require.NotNil(t, stored.ClosedAt)
	require.NotNil(t, stored.ContractValue)
	assert.True(t, decimal.NewFromInt(12000).Equal(*stored.ContractValue))
	assert.Empty(t, e.audit.ByAction(entity.AuditActionCustomerStatusChanged))

	ended, err := e.deals().EndContract(ctx, c.ID, adminID)
	require.NoError(t, err)
	assert.Len(t, ended.Ended, 3)
}

func TestCustomerUseCase_UpdateStatusContratoTerminado(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	c, err := e.customers().Create(ctx, reseller, dto.CreateCustomerRequest{CompanyName: "Acme"})
	require.NoError(t, err)
	_, err = e.deals().CloseDeal(ctx, commission.CloseDealInput{
		CustomerID: c.ID, ContractValue: decimal.NewFromInt(5000), ContractDuration: 2, ClosedByAdminID: adminID,
	})
	require.NoError(t, err)
	_, err = e.deals().EndContract(ctx, c.ID, adminID)
	require.NoError(t, err)

	for _, target := range []string{entity.CustomerStatusLead, entity.CustomerStatusProspect, entity.CustomerStatusCancelled} {
		_, err := e.customers().UpdateStatus(ctx, admin, c.ID, target)
		assert.ErrorIs(t, err, domain.ErrConflict, target)
	}
	stored, err := e.store.Customers().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CustomerStatusNoDeal, stored.Status)
}
