package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// CloseDealRequest body para POST /api/customers/:id/close-deal.
// Si contract_duration se omite se usa commission_years del revendedor.
type CloseDealRequest struct {
	ContractValue    decimal.Decimal `json:"contract_value"`
	ContractDuration *int            `json:"contract_duration,omitempty"`
}

// TransitionRequest body para PATCH /api/commissions/:id/status.
type TransitionRequest struct {
	Status           string `json:"status" validate:"required"`
	Reason           string `json:"reason,omitempty" validate:"max=500"`
	PaymentReference string `json:"payment_reference,omitempty" validate:"max=120"`
}

// BulkTransitionRequest body para POST /api/commissions/bulk.
type BulkTransitionRequest struct {
	IDs              []string `json:"ids" validate:"required,min=1,max=500,dive,required,uuid"`
	Status           string   `json:"status" validate:"required"`
	Reason           string   `json:"reason,omitempty" validate:"max=500"`
	PaymentReference string   `json:"payment_reference,omitempty" validate:"max=120"`
}

// CommissionResponse comisión en respuestas.
type CommissionResponse struct {
	ID                 string          `json:"id"`
	CustomerID         string          `json:"customer_id"`
	ResellerID         string          `json:"reseller_id"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	CommissionRate     decimal.Decimal `json:"commission_rate"` // snapshot al cierre
	YearNumber         int             `json:"year_number"`
	Period             string          `json:"period"`
	Status             string          `json:"status"`
	AutoApprovalRuleID *string         `json:"auto_approval_rule_id,omitempty"`
	RequestedAt        time.Time       `json:"requested_at"`
	ApprovedAt         *time.Time      `json:"approved_at,omitempty"`
	ApprovedByID       *string         `json:"approved_by_id,omitempty"`
	RejectedAt         *time.Time      `json:"rejected_at,omitempty"`
	RejectionReason    *string         `json:"rejection_reason,omitempty"`
	PaidAt             *time.Time      `json:"paid_at,omitempty"`
	PaymentReference   *string         `json:"payment_reference,omitempty"`
	ContractEndedAt    *time.Time      `json:"contract_ended_at,omitempty"`
}

// NewCommissionResponse mapea la entidad a la respuesta.
func NewCommissionResponse(c *entity.Commission) CommissionResponse {
	return CommissionResponse{
		ID:                 c.ID,
		CustomerID:         c.CustomerID,
		ResellerID:         c.ResellerID,
		Amount:             c.Amount,
		Currency:           c.Snapshot.Currency,
		CommissionRate:     c.Snapshot.CommissionRate,
		YearNumber:         c.YearNumber,
		Period:             c.Period,
		Status:             c.Status,
		AutoApprovalRuleID: c.AutoApprovalRuleID,
		RequestedAt:        c.RequestedAt,
		ApprovedAt:         c.ApprovedAt,
		ApprovedByID:       c.ApprovedByID,
		RejectedAt:         c.RejectedAt,
		RejectionReason:    c.RejectionReason,
		PaidAt:             c.PaidAt,
		PaymentReference:   c.PaymentReference,
		ContractEndedAt:    c.ContractEndedAt,
	}
}

// NewCommissionResponses mapea una lista.
func NewCommissionResponses(list []*entity.Commission) []CommissionResponse {
	out := make([]CommissionResponse, 0, len(list))
	for _, c := range list {
		out = append(out, NewCommissionResponse(c))
	}
	return out
}

// CloseDealResponse resultado del cierre de negocio.
type CloseDealResponse struct {
	Customer             CustomerResponse     `json:"customer"`
	CommissionsCreated   int                  `json:"commissions_created"`
	AutoApproved         int                  `json:"auto_approved"`
	TotalCommissionValue decimal.Decimal      `json:"total_commission_value"`
	Commissions          []CommissionResponse `json:"commissions"`
}

// EndContractResponse resultado de la terminación de contrato.
type EndContractResponse struct {
	Customer         CustomerResponse `json:"customer"`
	CommissionsEnded int              `json:"commissions_ended"`
}

// BulkItemResponse resultado por elemento: result = "ok" | "error".
type BulkItemResponse struct {
	ID     string `json:"id"`
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

// BulkTransitionResponse resultado agregado del lote (no atómico).
type BulkTransitionResponse struct {
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Results   []BulkItemResponse `json:"results"`
}

// StatusTotalResponse agregado por estado.
type StatusTotalResponse struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// CommissionSummaryResponse resumen de comisiones de un revendedor, o de todos si ResellerID está vacío.
type CommissionSummaryResponse struct {
	ResellerID string                `json:"reseller_id,omitempty"`
	TotalCount int                   `json:"total_count"`
	ByStatus   []StatusTotalResponse `json:"by_status"`
}

// NewCommissionSummaryResponse arma el resumen; TotalCount suma todas las filas.
func NewCommissionSummaryResponse(resellerID string, totals []entity.CommissionStatusTotal) CommissionSummaryResponse {
	out := CommissionSummaryResponse{ResellerID: resellerID, ByStatus: make([]StatusTotalResponse, 0, len(totals))}
	for _, t := range totals {
		out.TotalCount += t.Count
		out.ByStatus = append(out.ByStatus, StatusTotalResponse{Status: t.Status, Count: t.Count, Total: t.Total})
	}
	return out
}
