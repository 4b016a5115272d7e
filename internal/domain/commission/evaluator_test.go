package commission_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/partner-commissions/internal/domain/commission"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func rule(id string, priority int, max *decimal.Decimal, trustedOnly bool, createdAt time.Time) *entity.AutoApprovalRule {
	return &entity.AutoApprovalRule{
		ID: id, Name: id, Enabled: true, Priority: priority,
		MaxAmount: max, TrustedResellersOnly: trustedOnly, CreatedAt: createdAt,
	}
}

func draftOf(amount int64) commission.Draft {
	return commission.Draft{Amount: decimal.NewFromInt(amount), Status: entity.CommissionStatusPending}
}

func TestEvaluate_SinReglas_QuedaPendiente(t *testing.T) {
	d := commission.Evaluate(draftOf(2400), entity.ResellerSnapshot{}, nil)
	assert.False(t, d.Approve)
	assert.Empty(t, d.MatchedRuleID)
}

func TestEvaluate_ReglaConTope(t *testing.T) {
	rules := []*entity.AutoApprovalRule{rule("r1", 10, dec(3000), false, testNow)}

	assert.Equal(t, commission.Decision{Approve: true, MatchedRuleID: "r1"},
		commission.Evaluate(draftOf(2400), entity.ResellerSnapshot{}, rules))
	assert.Equal(t, commission.Decision{Approve: true, MatchedRuleID: "r1"},
		commission.Evaluate(draftOf(3000), entity.ResellerSnapshot{}, rules), "el tope es inclusivo")
	assert.False(t, commission.Evaluate(draftOf(3001), entity.ResellerSnapshot{}, rules).Approve)
}

func TestEvaluate_SoloConfiables(t *testing.T) {
	rules := []*entity.AutoApprovalRule{rule("r1", 1, nil, true, testNow)}

	assert.False(t, commission.Evaluate(draftOf(100), entity.ResellerSnapshot{IsTrusted: false}, rules).Approve)
	assert.True(t, commission.Evaluate(draftOf(100), entity.ResellerSnapshot{IsTrusted: true}, rules).Approve)
}

func TestEvaluate_IgnoraDeshabilitadas(t *testing.T) {
	r := rule("r1", 100, nil, false, testNow)
	r.Enabled = false
	assert.False(t, commission.Evaluate(draftOf(1), entity.ResellerSnapshot{}, []*entity.AutoApprovalRule{r}).Approve)
}

func TestEvaluate_PrioridadMayorGana(t *testing.T) {
	rules := []*entity.AutoApprovalRule{
		rule("baja", 1, nil, false, testNow),
		rule("alta", 50, nil, false, testNow.Add(time.Hour)),
		rule("media", 10, nil, false, testNow),
	}
	assert.Equal(t, "alta", commission.Evaluate(draftOf(10), entity.ResellerSnapshot{}, rules).MatchedRuleID)
}

func TestEvaluate_EmpatePorOrdenDeCreacion(t *testing.T) {
	rules := []*entity.AutoApprovalRule{
		rule("nueva", 5, nil, false, testNow.Add(2*time.Hour)),
		rule("antigua", 5, nil, false, testNow),
		rule("intermedia", 5, nil, false, testNow.Add(time.Hour)),
	}
	assert.Equal(t, "antigua", commission.Evaluate(draftOf(10), entity.ResellerSnapshot{}, rules).MatchedRuleID)
}

// Una regla de mayor prioridad que no aplica cede a la siguiente que sí aplica.
func TestEvaluate_PrimeraQueCumpleGana(t *testing.T) {
	rules := []*entity.AutoApprovalRule{
		rule("confiables", 100, nil, true, testNow),
		rule("tope-bajo", 50, dec(100), false, testNow),
		rule("general", 10, dec(5000), false, testNow),
	}
	d := commission.Evaluate(draftOf(2400), entity.ResellerSnapshot{IsTrusted: false}, rules)
	assert.Equal(t, commission.Decision{Approve: true, MatchedRuleID: "general"}, d)
}

func TestEvaluate_Determinista(t *testing.T) {
	rules := []*entity.AutoApprovalRule{
		rule("b", 5, nil, false, testNow),
		rule("a", 5, nil, false, testNow),
		rule("c", 5, dec(10), false, testNow),
	}
	first := commission.Evaluate(draftOf(50), entity.ResellerSnapshot{}, rules)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, commission.Evaluate(draftOf(50), entity.ResellerSnapshot{}, rules))
	}
	assert.Equal(t, "a", first.MatchedRuleID, "con misma prioridad y fecha desempata por ID")
}

func TestOrderRules_NoModificaEntrada(t *testing.T) {
	rules := []*entity.AutoApprovalRule{
		rule("x", 1, nil, false, testNow),
		rule("y", 9, nil, false, testNow),
	}
	ordered := commission.OrderRules(rules)
	assert.Equal(t, "y", ordered[0].ID)
	assert.Equal(t, "x", rules[0].ID)
}

func TestApplyDecision(t *testing.T) {
	d := draftOf(100)
	commission.ApplyDecision(&d, commission.Decision{Approve: true, MatchedRuleID: "r1"}, testNow)
	assert.Equal(t, entity.CommissionStatusApproved, d.Status)
	assert.Equal(t, "r1", d.AutoApprovalRuleID)
	if assert.NotNil(t, d.ApprovedAt) {
		assert.Equal(t, testNow, *d.ApprovedAt)
	}

	p := draftOf(100)
	commission.ApplyDecision(&p, commission.Decision{}, testNow)
	assert.Equal(t, entity.CommissionStatusPending, p.Status)
	assert.Nil(t, p.ApprovedAt)
}
