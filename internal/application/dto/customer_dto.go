package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

// CreateCustomerRequest body para POST /api/customers.
// ResellerID solo lo usa un admin; para un revendedor se toma del token.
type CreateCustomerRequest struct {
	ResellerID  string `json:"reseller_id,omitempty" validate:"omitempty,uuid"`
	CompanyName string `json:"company_name" validate:"required,max=200"`
	ContactName string `json:"contact_name,omitempty" validate:"max=200"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty" validate:"max=40"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=LEAD PROSPECT"`
}

// UpdateCustomerStatusRequest body para PATCH /api/customers/:id/status.
// ACTIVE solo se alcanza cerrando el negocio.
type UpdateCustomerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=LEAD PROSPECT NO_DEAL CANCELLED"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID               string           `json:"id"`
	ResellerID       string           `json:"reseller_id"`
	CompanyName      string           `json:"company_name"`
	ContactName      string           `json:"contact_name,omitempty"`
	Email            string           `json:"email,omitempty"`
	Phone            string           `json:"phone,omitempty"`
	Status           string           `json:"status"`
	ContractValue    *decimal.Decimal `json:"contract_value,omitempty"`
	ContractDuration *int             `json:"contract_duration,omitempty"`
	ClosedAt         *time.Time       `json:"closed_at,omitempty"`
	ContractEndedAt  *time.Time       `json:"contract_ended_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// NewCustomerResponse mapea la entidad a la respuesta.
func NewCustomerResponse(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:               c.ID,
		ResellerID:       c.ResellerID,
		CompanyName:      c.CompanyName,
		ContactName:      c.ContactName,
		Email:            c.Email,
		Phone:            c.Phone,
		Status:           c.Status,
		ContractValue:    c.ContractValue,
		ContractDuration: c.ContractDuration,
		ClosedAt:         c.ClosedAt,
		ContractEndedAt:  c.ContractEndedAt,
		CreatedAt:        c.CreatedAt,
	}
}
