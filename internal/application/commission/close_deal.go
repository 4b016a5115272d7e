package commission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/domain"
	domaincommission "github.com/jhoicas/partner-commissions/internal/domain/commission"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

// DealClosureUseCase orquesta el cierre de negocio y su contraparte, la terminación de contrato:
//
//	lock cliente → snapshot revendedor + reglas → calendario → auto-aprobación → insert → commit → efectos
//
// Todo lo anterior al commit es atómico; auditoría y notificaciones son best-effort.
type DealClosureUseCase struct {
	txRunner TxRunner
	emitter  *ports.Emitter
	log      zerolog.Logger
}

// NewDealClosureUseCase construye el orquestador.
func NewDealClosureUseCase(txRunner TxRunner, emitter *ports.Emitter, log zerolog.Logger) *DealClosureUseCase {
	return &DealClosureUseCase{txRunner: txRunner, emitter: emitter, log: log}
}

// CloseDealInput entrada de CloseDeal.
// Con UseResellerDefaultDuration se ignora ContractDuration y se usa commissionYears del revendedor.
type CloseDealInput struct {
	CustomerID                 string
	ContractValue              decimal.Decimal
	ContractDuration           int
	UseResellerDefaultDuration bool
	ClosedByAdminID            string
}

// CloseDealResult resultado agregado del cierre.
type CloseDealResult struct {
	Customer             *entity.Customer
	Commissions          []*entity.Commission
	CommissionsCreated   int
	AutoApproved         int
	TotalCommissionValue decimal.Decimal
}

// CloseDeal marca el cliente como ACTIVE y genera su calendario de comisiones una sola vez.
//
// Retorna:
//   - domain.ErrInvalidContractTerms si valor <= 0 o duración < 1.
//   - domain.ErrNotFound             si el cliente o su revendedor no existen.
//   - domain.ErrDealAlreadyClosed    si el cliente ya está ACTIVE o ya tuvo un calendario.
func (uc *DealClosureUseCase) CloseDeal(ctx context.Context, in CloseDealInput) (*CloseDealResult, error) {
	if in.CustomerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.ContractValue.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidContractTerms
	}
	if !in.UseResellerDefaultDuration && in.ContractDuration < 1 {
		return nil, domain.ErrInvalidContractTerms
	}

	var (
		result         *CloseDealResult
		previousStatus string
	)
	err := uc.txRunner.RunCommission(ctx, func(
		customerRepo repository.CustomerRepository,
		commissionRepo repository.CommissionRepository,
		ruleRepo repository.AutoApprovalRuleRepository,
		userRepo repository.UserRepository,
	) error {
		// Bloquea la fila del cliente: dos cierres concurrentes quedan serializados
		// y el segundo ve el estado ACTIVE del primero.
		customer, err := customerRepo.GetForUpdate(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		if customer.IsActive() || customer.ClosedAt != nil {
			return domain.ErrDealAlreadyClosed
		}
		existing, err := commissionRepo.CountByCustomer(ctx, customer.ID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return domain.ErrDealAlreadyClosed
		}

		reseller, err := userRepo.GetByID(ctx, customer.ResellerID)
		if err != nil {
			return err
		}
		if reseller == nil || !reseller.IsReseller() {
			return fmt.Errorf("%w: revendedor %s", domain.ErrNotFound, customer.ResellerID)
		}
		snapshot := reseller.Snapshot()

		duration := in.ContractDuration
		if in.UseResellerDefaultDuration {
			duration = snapshot.CommissionYears
		}

		rules, err := ruleRepo.List(ctx)
		if err != nil {
			return err
		}

		now := time.Now()
		drafts, err := domaincommission.GenerateSchedule(customer, in.ContractValue, duration, snapshot, now)
		if err != nil {
			return err
		}

		res := &CloseDealResult{TotalCommissionValue: decimal.Zero}
		commissions := make([]*entity.Commission, 0, len(drafts))
		for i := range drafts {
			decision := domaincommission.Evaluate(drafts[i], snapshot, rules)
			domaincommission.ApplyDecision(&drafts[i], decision, now)
			c := commissionFromDraft(drafts[i], now)
			if decision.Approve {
				res.AutoApproved++
			}
			res.TotalCommissionValue = res.TotalCommissionValue.Add(c.Amount)
			commissions = append(commissions, c)
		}

		previousStatus = customer.Status
		value := in.ContractValue
		closedAt := now
		customer.Status = entity.CustomerStatusActive
		customer.ContractValue = &value
		customer.ContractDuration = &duration
		customer.ClosedAt = &closedAt
		customer.ContractEndedAt = nil
		customer.UpdatedAt = now
		if err := customerRepo.Update(ctx, customer); err != nil {
			return err
		}
		if err := commissionRepo.CreateBatch(ctx, commissions); err != nil {
			return err
		}

		res.Customer = customer
		res.Commissions = commissions
		res.CommissionsCreated = len(commissions)
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("customer_id", result.Customer.ID).
		Int("commissions", result.CommissionsCreated).
		Int("auto_approved", result.AutoApproved).
		Str("total", result.TotalCommissionValue.String()).
		Msg("negocio cerrado")

	uc.emitDealClosed(ctx, in.ClosedByAdminID, previousStatus, result)
	return result, nil
}

func (uc *DealClosureUseCase) emitDealClosed(ctx context.Context, adminID, previousStatus string, res *CloseDealResult) {
	customer := res.Customer
	uc.emitter.Record(ctx, &entity.AuditFact{
		Action:      entity.AuditActionDealClosed,
		PerformedBy: adminID,
		EntityType:  entity.EntityTypeCustomer,
		EntityID:    customer.ID,
		Changes: map[string]any{
			"status":            map[string]any{"from": previousStatus, "to": customer.Status},
			"contract_value":    customer.ContractValue.String(),
			"contract_duration": *customer.ContractDuration,
		},
		Metadata: map[string]any{
			"commissions_created":    res.CommissionsCreated,
			"auto_approved":          res.AutoApproved,
			"total_commission_value": res.TotalCommissionValue.String(),
		},
	})

	autoRule := domaincommission.Actor{Kind: domaincommission.ActorAutoRule}
	for _, c := range res.Commissions {
		if c.Status != entity.CommissionStatusApproved {
			continue
		}
		uc.emitter.Record(ctx, &entity.AuditFact{
			Action:      domaincommission.AuditActionFor(c.Status, autoRule),
			PerformedBy: autoRule.PerformedBy(),
			EntityType:  entity.EntityTypeCommission,
			EntityID:    c.ID,
			Changes:     map[string]any{"status": map[string]any{"from": entity.CommissionStatusPending, "to": c.Status}},
			Metadata:    map[string]any{"rule_id": derefString(c.AutoApprovalRuleID)},
		})
		uc.emitter.Notify(ctx, c.ResellerID, entity.NotificationCommissionApproved, commissionPayload(c))
	}
}

func commissionFromDraft(d domaincommission.Draft, now time.Time) *entity.Commission {
	c := &entity.Commission{
		ID:          uuid.New().String(),
		CustomerID:  d.CustomerID,
		ResellerID:  d.ResellerID,
		Amount:      d.Amount,
		YearNumber:  d.YearNumber,
		Period:      d.Period,
		Status:      d.Status,
		Snapshot:    d.Snapshot,
		RequestedAt: d.RequestedAt,
		ApprovedAt:  d.ApprovedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if d.AutoApprovalRuleID != "" {
		ruleID := d.AutoApprovalRuleID
		c.AutoApprovalRuleID = &ruleID
	}
	return c
}

// commissionPayload contenido común de las notificaciones de comisión.
func commissionPayload(c *entity.Commission) map[string]any {
	p := map[string]any{
		"commission_id": c.ID,
		"customer_id":   c.CustomerID,
		"amount":        c.Amount.StringFixed(2),
		"currency":      c.Snapshot.Currency,
		"period":        c.Period,
		"year_number":   c.YearNumber,
		"status":        c.Status,
	}
	if c.RejectionReason != nil {
		p["rejection_reason"] = *c.RejectionReason
	}
	if c.PaymentReference != nil {
		p["payment_reference"] = *c.PaymentReference
	}
	return p
}

func derefString(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}
