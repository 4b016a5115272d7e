package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleReseller = "reseller"
)

// User representa un usuario del sistema. Los campos comerciales solo aplican al rol reseller.
type User struct {
	ID              string
	Email           string
	Name            string
	Role            string // admin, reseller
	CommissionRate  decimal.Decimal
	CommissionYears int
	IsOneOffPayment bool
	IsTrusted       bool
	Currency        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsReseller indica si el usuario es revendedor.
func (u *User) IsReseller() bool {
	return u.Role == RoleReseller
}

// Snapshot congela la configuración comercial actual del revendedor.
func (u *User) Snapshot() ResellerSnapshot {
	return ResellerSnapshot{
		ResellerID:      u.ID,
		CommissionRate:  u.CommissionRate,
		CommissionYears: u.CommissionYears,
		IsOneOffPayment: u.IsOneOffPayment,
		IsTrusted:       u.IsTrusted,
		Currency:        u.Currency,
	}
}
