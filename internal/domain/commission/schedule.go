// Package commission contiene las reglas puras del motor de comisiones:
// generación del calendario, evaluación de auto-aprobación y máquina de estados.
// No depende de persistencia ni de transporte.
package commission

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/partner-commissions/internal/domain"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Draft comisión generada aún no persistida.
type Draft struct {
	CustomerID         string
	ResellerID         string
	Amount             decimal.Decimal
	YearNumber         int
	Period             string
	Status             string
	Snapshot           entity.ResellerSnapshot
	RequestedAt        time.Time
	ApprovedAt         *time.Time
	AutoApprovalRuleID string
}

// YearPeriod etiqueta del año i del calendario ("Year 1", "Year 2", ...).
func YearPeriod(year int) string {
	return fmt.Sprintf("Year %d", year)
}

// ValidateContractTerms verifica valor > 0 y duración >= 1.
func ValidateContractTerms(contractValue decimal.Decimal, contractDuration int) error {
	if !contractValue.GreaterThan(decimal.Zero) || contractDuration < 1 {
		return domain.ErrInvalidContractTerms
	}
	return nil
}

// YearlyAmount = contractValue * rate / 100, redondeado a centavos.
// Cada año cobra la tasa completa sobre el valor del contrato (no se prorratea por duración).
func YearlyAmount(contractValue, rate decimal.Decimal) decimal.Decimal {
	return contractValue.Mul(rate).Div(hundred).Round(2)
}

// GenerateSchedule convierte un negocio cerrado en un borrador por año de contrato
// (o uno solo en modo pago único). Función pura: no persiste ni cambia el cliente.
// El caller garantiza que el cliente aún no está ACTIVE.
func GenerateSchedule(
	customer *entity.Customer,
	contractValue decimal.Decimal,
	contractDuration int,
	snapshot entity.ResellerSnapshot,
	now time.Time,
) ([]Draft, error) {
	if customer == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := ValidateContractTerms(contractValue, contractDuration); err != nil {
		return nil, err
	}
	if snapshot.CommissionRate.IsNegative() {
		return nil, fmt.Errorf("%w: tasa de comisión negativa", domain.ErrInvalidInput)
	}

	amount := YearlyAmount(contractValue, snapshot.CommissionRate)
	newDraft := func(year int, period string) Draft {
		return Draft{
			CustomerID:  customer.ID,
			ResellerID:  customer.ResellerID,
			Amount:      amount,
			YearNumber:  year,
			Period:      period,
			Status:      entity.CommissionStatusPending,
			Snapshot:    snapshot,
			RequestedAt: now,
		}
	}

	if snapshot.IsOneOffPayment {
		return []Draft{newDraft(1, entity.PeriodOneTime)}, nil
	}

	drafts := make([]Draft, 0, contractDuration)
	for year := 1; year <= contractDuration; year++ {
		drafts = append(drafts, newDraft(year, YearPeriod(year)))
	}
	return drafts, nil
}
