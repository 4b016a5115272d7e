package commission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partner-commissions/internal/domain"
	"github.com/jhoicas/partner-commissions/internal/domain/commission"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

var admin = commission.Actor{Kind: commission.ActorAdmin, ID: "admin-1"}

// actorFor devuelve el actor que satisface la guarda del destino.
func actorFor(target string) commission.Actor {
	if target == entity.CommissionStatusContractEnded {
		return commission.Actor{Kind: commission.ActorContractTermination}
	}
	return admin
}

func TestStateMachine_TablaExhaustiva(t *testing.T) {
	allowed := map[[2]string]bool{
		{entity.CommissionStatusPending, entity.CommissionStatusApproved}:       true,
		{entity.CommissionStatusPending, entity.CommissionStatusRejected}:       true,
		{entity.CommissionStatusApproved, entity.CommissionStatusPaid}:          true,
		{entity.CommissionStatusPending, entity.CommissionStatusContractEnded}:  true,
		{entity.CommissionStatusApproved, entity.CommissionStatusContractEnded}: true,
	}
	for _, from := range entity.CommissionStatuses {
		for _, to := range entity.CommissionStatuses {
			c := &entity.Commission{ID: "c1", Status: from}
			in := commission.TransitionInput{Target: to, Actor: actorFor(to), Reason: "motivo"}
			err := commission.Apply(c, in, testNow)
			if allowed[[2]string{from, to}] {
				assert.NoError(t, err, "%s -> %s debe permitirse", from, to)
				assert.Equal(t, to, c.Status)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "%s -> %s debe rechazarse", from, to)
				assert.Equal(t, from, c.Status, "un fallo no modifica la comisión")
			}
		}
	}
}

func TestStateMachine_TerminalesSinSalida(t *testing.T) {
	for _, from := range entity.CommissionStatuses {
		c := &entity.Commission{Status: from}
		hasExit := false
		for _, to := range entity.CommissionStatuses {
			hasExit = hasExit || commission.IsAllowed(from, to)
		}
		assert.Equal(t, c.IsTerminal(), !hasExit, from)
	}
}

func TestStateMachine_DestinoDesconocido(t *testing.T) {
	c := &entity.Commission{Status: entity.CommissionStatusPending}
	err := commission.Apply(c, commission.TransitionInput{Target: "ARCHIVED", Actor: admin}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestStateMachine_AprobacionManual(t *testing.T) {
	c := &entity.Commission{Status: entity.CommissionStatusPending}
	require.NoError(t, commission.Apply(c, commission.TransitionInput{Target: entity.CommissionStatusApproved, Actor: admin}, testNow))
	require.NotNil(t, c.ApprovedByID)
	assert.Equal(t, "admin-1", *c.ApprovedByID)
	assert.Equal(t, testNow, *c.ApprovedAt)
}

func TestStateMachine_AprobacionAutomaticaSinAprobador(t *testing.T) {
	c := &entity.Commission{Status: entity.CommissionStatusPending}
	in := commission.TransitionInput{Target: entity.CommissionStatusApproved, Actor: commission.Actor{Kind: commission.ActorAutoRule}}
	require.NoError(t, commission.Apply(c, in, testNow))
	assert.Nil(t, c.ApprovedByID)
	assert.NotNil(t, c.ApprovedAt)
}

func TestStateMachine_RechazoRequiereMotivo(t *testing.T) {
	c := &entity.Commission{Status: entity.CommissionStatusPending}
	err := commission.Apply(c, commission.TransitionInput{Target: entity.CommissionStatusRejected, Actor: admin, Reason: "   "}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.CommissionStatusPending, c.Status)

	require.NoError(t, commission.Apply(c, commission.TransitionInput{Target: entity.CommissionStatusRejected, Actor: admin, Reason: " duplicada "}, testNow))
	assert.Equal(t, "duplicada", *c.RejectionReason)
	assert.NotNil(t, c.RejectedAt)
}

func TestStateMachine_SoloAdminRechazaYPaga(t *testing.T) {
	auto := commission.Actor{Kind: commission.ActorAutoRule}

	c := &entity.Commission{Status: entity.CommissionStatusPending}
	err := commission.Apply(c, commission.TransitionInput{Target: entity.CommissionStatusRejected, Actor: auto, Reason: "x"}, testNow)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	p := &entity.Commission{Status: entity.CommissionStatusApproved}
	err = commission.Apply(p, commission.TransitionInput{Target: entity.CommissionStatusPaid, Actor: auto}, testNow)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestStateMachine_TerminacionNoEsManual(t *testing.T) {
	c := &entity.Commission{Status: entity.CommissionStatusApproved}
	err := commission.Apply(c, commission.TransitionInput{Target: entity.CommissionStatusContractEnded, Actor: admin}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.Equal(t, entity.CommissionStatusApproved, c.Status)
}

func TestStateMachine_PagoConReferencia(t *testing.T) {
	c := &entity.Commission{Status: entity.CommissionStatusApproved}
	in := commission.TransitionInput{Target: entity.CommissionStatusPaid, Actor: admin, PaymentReference: "TRX-991"}
	require.NoError(t, commission.Apply(c, in, testNow))
	assert.Equal(t, "TRX-991", *c.PaymentReference)
	assert.Equal(t, testNow, *c.PaidAt)

	sinRef := &entity.Commission{Status: entity.CommissionStatusApproved}
	require.NoError(t, commission.Apply(sinRef, commission.TransitionInput{Target: entity.CommissionStatusPaid, Actor: admin}, testNow))
	assert.Nil(t, sinRef.PaymentReference)
}

func TestNotificationTypeFor(t *testing.T) {
	assert.Equal(t, entity.NotificationCommissionApproved, commission.NotificationTypeFor(entity.CommissionStatusApproved))
	assert.Equal(t, entity.NotificationCommissionRejected, commission.NotificationTypeFor(entity.CommissionStatusRejected))
	assert.Equal(t, entity.NotificationCommissionPaid, commission.NotificationTypeFor(entity.CommissionStatusPaid))
	assert.Empty(t, commission.NotificationTypeFor(entity.CommissionStatusContractEnded))
	assert.Empty(t, commission.NotificationTypeFor(entity.CommissionStatusPending))
}
