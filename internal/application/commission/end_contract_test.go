package commission_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partner-commissions/internal/application/commission"
	"github.com/jhoicas/partner-commissions/internal/domain"
	domaincommission "github.com/jhoicas/partner-commissions/internal/domain/commission"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// closeWithMixedSchedule deja el calendario del cliente en PAID, PENDING, PENDING.
func closeWithMixedSchedule(t *testing.T, f *fixture) []*entity.Commission {
	t.Helper()
	f.closeDeal(t, customerID, "12000", 3)
	list := f.schedule(t, customerID)
	admin := commission.ActorFromRole(entity.RoleAdmin, adminID)
	ctx := context.Background()

	_, err := f.transitions.TransitionCommission(ctx, list[0].ID, domaincommission.TransitionInput{
		Target: entity.CommissionStatusApproved, Actor: admin,
	})
	require.NoError(t, err)
	_, err = f.transitions.TransitionCommission(ctx, list[0].ID, domaincommission.TransitionInput{
		Target: entity.CommissionStatusPaid, Actor: admin, PaymentReference: "TRX-1",
	})
	require.NoError(t, err)
	return f.schedule(t, customerID)
}

func TestEndContract_TerminaPendientesYConservaPagadas(t *testing.T) {
	f := newFixture(t)
	closeWithMixedSchedule(t, f)
	factsBefore := len(f.audit.Facts())
	sentBefore := len(f.outbox.Sent())

	res, err := f.deals.EndContract(context.Background(), customerID, adminID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CommissionsEnded)

	list := f.schedule(t, customerID)
	assert.Equal(t, []string{"PAID", "CONTRACT_ENDED", "CONTRACT_ENDED"}, statuses(list))
	assert.Nil(t, list[0].ContractEndedAt)
	assert.NotNil(t, list[1].ContractEndedAt)
	assert.Equal(t, "TRX-1", *list[0].PaymentReference)

	customer := f.customer(t, customerID)
	assert.Equal(t, entity.CustomerStatusNoDeal, customer.Status)
	assert.Nil(t, customer.ContractValue)
	assert.Nil(t, customer.ContractDuration)
	assert.NotNil(t, customer.ContractEndedAt)
	assert.NotNil(t, customer.ClosedAt, "la fecha de cierre se conserva")

	facts := f.audit.Facts()[factsBefore:]
	assert.Len(t, facts, 3)
	assert.Len(t, f.audit.ByAction(entity.AuditActionCommissionContractEnded), 2)
	assert.Len(t, f.audit.ByAction(entity.AuditActionContractEnded), 1)

	sent := f.outbox.Sent()[sentBefore:]
	require.Len(t, sent, 1)
	assert.Equal(t, entity.NotificationCustomerStatusChanged, sent[0].Type)
	assert.Equal(t, resellerID, sent[0].UserID)
	assert.Equal(t, entity.CustomerStatusNoDeal, sent[0].Payload["new_status"])
	assert.Equal(t, 2, sent[0].Payload["commissions_ended"])
}

func TestEndContract_ClienteSinContratoActivo(t *testing.T) {
	f := newFixture(t)

	_, err := f.deals.EndContract(context.Background(), customerID, adminID)
	assert.ErrorIs(t, err, domain.ErrNotActiveContract)

	_, err = f.deals.EndContract(context.Background(), "no-existe", adminID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEndContract_FallaParcialRevierteTodo(t *testing.T) {
	f := newFixture(t)
	f.closeDeal(t, customerID, "12000", 3)
	f.store.FailCommissionUpdateAfter = 1

	_, err := f.deals.EndContract(context.Background(), customerID, adminID)
	require.Error(t, err)

	assert.Equal(t, []string{"PENDING", "PENDING", "PENDING"}, statuses(f.schedule(t, customerID)))
	customer := f.customer(t, customerID)
	assert.Equal(t, entity.CustomerStatusActive, customer.Status)
	assert.NotNil(t, customer.ContractValue)
	assert.Empty(t, f.audit.ByAction(entity.AuditActionContractEnded))
}

func TestEndContract_NoPermiteVolverACerrar(t *testing.T) {
	f := newFixture(t)
	f.closeDeal(t, customerID, "12000", 3)
	_, err := f.deals.EndContract(context.Background(), customerID, adminID)
	require.NoError(t, err)

	_, err = f.deals.CloseDeal(context.Background(), closeInput(customerID, "5000", 1))
	assert.ErrorIs(t, err, domain.ErrDealAlreadyClosed)

	_, err = f.deals.EndContract(context.Background(), customerID, adminID)
	assert.ErrorIs(t, err, domain.ErrNotActiveContract)
}
