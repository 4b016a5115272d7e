package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// UpdateResellerSettingsRequest body para PATCH /api/resellers/:id/settings (solo admin).
// Los cambios aplican a calendarios futuros; las comisiones existentes conservan su snapshot.
type UpdateResellerSettingsRequest struct {
	CommissionRate  *decimal.Decimal `json:"commission_rate,omitempty"`
	CommissionYears *int             `json:"commission_years,omitempty" validate:"omitempty,min=1,max=50"`
	IsOneOffPayment *bool            `json:"is_one_off_payment,omitempty"`
	IsTrusted       *bool            `json:"is_trusted,omitempty"`
	Currency        *string          `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
}

// ResellerResponse revendedor con su configuración comercial.
type ResellerResponse struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	CommissionRate  decimal.Decimal `json:"commission_rate"`
	CommissionYears int             `json:"commission_years"`
	IsOneOffPayment bool            `json:"is_one_off_payment"`
	IsTrusted       bool            `json:"is_trusted"`
	Currency        string          `json:"currency"`
}

// NewResellerResponse mapea la entidad a la respuesta.
func NewResellerResponse(u *entity.User) ResellerResponse {
	return ResellerResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		CommissionRate:  u.CommissionRate,
		CommissionYears: u.CommissionYears,
		IsOneOffPayment: u.IsOneOffPayment,
		IsTrusted:       u.IsTrusted,
		Currency:        u.Currency,
	}
}
