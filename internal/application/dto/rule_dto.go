package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// CreateRuleRequest body para POST /api/auto-approval-rules.
type CreateRuleRequest struct {
	Name                 string           `json:"name" validate:"required,max=120"`
	Enabled              bool             `json:"enabled"`
	Priority             int              `json:"priority"`
	MaxAmount            *decimal.Decimal `json:"max_amount,omitempty"`
	TrustedResellersOnly bool             `json:"trusted_resellers_only"`
}

// UpdateRuleRequest body para PUT /api/auto-approval-rules/:id. Campos nil no cambian.
// ClearMaxAmount elimina el tope (max_amount = null).
type UpdateRuleRequest struct {
	Name                 *string          `json:"name,omitempty" validate:"omitempty,max=120"`
	Enabled              *bool            `json:"enabled,omitempty"`
	Priority             *int             `json:"priority,omitempty"`
	MaxAmount            *decimal.Decimal `json:"max_amount,omitempty"`
	ClearMaxAmount       bool             `json:"clear_max_amount,omitempty"`
	TrustedResellersOnly *bool            `json:"trusted_resellers_only,omitempty"`
}

// RuleResponse regla en respuestas.
type RuleResponse struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Enabled              bool             `json:"enabled"`
	Priority             int              `json:"priority"`
	MaxAmount            *decimal.Decimal `json:"max_amount"`
	TrustedResellersOnly bool             `json:"trusted_resellers_only"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// NewRuleResponse mapea la entidad a la respuesta.
func NewRuleResponse(r *entity.AutoApprovalRule) RuleResponse {
	return RuleResponse{
		ID:                   r.ID,
		Name:                 r.Name,
		Enabled:              r.Enabled,
		Priority:             r.Priority,
		MaxAmount:            r.MaxAmount,
		TrustedResellersOnly: r.TrustedResellersOnly,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}
