package commission

import (
	"sort"
	"time"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// Decision resultado de evaluar las reglas de auto-aprobación sobre un borrador.
type Decision struct {
	Approve       bool
	MatchedRuleID string
}

// OrderRules devuelve una copia con solo las reglas habilitadas, ordenadas por
// prioridad desc, luego creación asc y finalmente ID (orden total y determinista).
func OrderRules(rules []*entity.AutoApprovalRule) []*entity.AutoApprovalRule {
	out := make([]*entity.AutoApprovalRule, 0, len(rules))
	for _, r := range rules {
		if r != nil && r.Enabled {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

// RuleMatches indica si la regla aplica al monto y al revendedor dados.
func RuleMatches(rule *entity.AutoApprovalRule, draft Draft, reseller entity.ResellerSnapshot) bool {
	if rule.MaxAmount != nil && draft.Amount.GreaterThan(*rule.MaxAmount) {
		return false
	}
	if rule.TrustedResellersOnly && !reseller.IsTrusted {
		return false
	}
	return true
}

// Evaluate aplica la primera regla que cumpla todas sus condiciones.
// Sin coincidencia el borrador queda PENDING; no es un error.
func Evaluate(draft Draft, reseller entity.ResellerSnapshot, rules []*entity.AutoApprovalRule) Decision {
	for _, rule := range OrderRules(rules) {
		if RuleMatches(rule, draft, reseller) {
			return Decision{Approve: true, MatchedRuleID: rule.ID}
		}
	}
	return Decision{}
}

// ApplyDecision fija el estado inicial del borrador según la decisión.
// Aprobación automática: APPROVED con approvedAt = now y sin aprobador humano.
func ApplyDecision(draft *Draft, decision Decision, now time.Time) {
	if !decision.Approve {
		draft.Status = entity.CommissionStatusPending
		return
	}
	approvedAt := now
	draft.Status = entity.CommissionStatusApproved
	draft.ApprovedAt = &approvedAt
	draft.AutoApprovalRuleID = decision.MatchedRuleID
}
