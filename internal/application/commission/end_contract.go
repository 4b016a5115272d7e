package commission

import (
	"context"
	"time"

	"github.com/jhoicas/partner-commissions/internal/domain"
	domaincommission "github.com/jhoicas/partner-commissions/internal/domain/commission"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

// EndContractResult resultado de la terminación anticipada.
type EndContractResult struct {
	Customer         *entity.Customer
	Ended            []*entity.Commission
	CommissionsEnded int

	previousStatus map[string]string // id -> estado antes de terminar
}

// EndContract termina el contrato vigente: en una sola transacción pasa las comisiones
// PENDING/APPROVED a CONTRACT_ENDED y el cliente a NO_DEAL. Las comisiones PAID o
// REJECTED no se tocan.
//
// Retorna domain.ErrNotFound si el cliente no existe y domain.ErrNotActiveContract si no está ACTIVE.
func (uc *DealClosureUseCase) EndContract(ctx context.Context, customerID, endedByID string) (*EndContractResult, error) {
	if customerID == "" {
		return nil, domain.ErrInvalidInput
	}

	termination := domaincommission.TransitionInput{
		Target: entity.CommissionStatusContractEnded,
		Actor:  domaincommission.Actor{Kind: domaincommission.ActorContractTermination, ID: endedByID},
	}

	var result *EndContractResult
	err := uc.txRunner.RunCommission(ctx, func(
		customerRepo repository.CustomerRepository,
		commissionRepo repository.CommissionRepository,
		_ repository.AutoApprovalRuleRepository,
		_ repository.UserRepository,
	) error {
		customer, err := customerRepo.GetForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		if !customer.IsActive() {
			return domain.ErrNotActiveContract
		}

		commissions, err := commissionRepo.LockByCustomer(ctx, customer.ID)
		if err != nil {
			return err
		}

		now := time.Now()
		ended := make([]*entity.Commission, 0, len(commissions))
		previous := make(map[string]string, len(commissions))
		for _, c := range commissions {
			if !domaincommission.IsAllowed(c.Status, entity.CommissionStatusContractEnded) {
				continue
			}
			previous[c.ID] = c.Status
			if err := domaincommission.Apply(c, termination, now); err != nil {
				return err
			}
			if err := commissionRepo.Update(ctx, c); err != nil {
				return err
			}
			ended = append(ended, c)
		}

		endedAt := now
		customer.Status = entity.CustomerStatusNoDeal
		customer.ContractValue = nil
		customer.ContractDuration = nil
		customer.ContractEndedAt = &endedAt
		customer.UpdatedAt = now
		if err := customerRepo.Update(ctx, customer); err != nil {
			return err
		}

		result = &EndContractResult{
			Customer:         customer,
			Ended:            ended,
			CommissionsEnded: len(ended),
			previousStatus:   previous,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("customer_id", customerID).
		Int("commissions_ended", result.CommissionsEnded).
		Msg("contrato terminado")

	uc.emitContractEnded(ctx, termination.Actor, result)
	return result, nil
}

func (uc *DealClosureUseCase) emitContractEnded(ctx context.Context, actor domaincommission.Actor, res *EndContractResult) {
	for _, c := range res.Ended {
		uc.emitter.Record(ctx, &entity.AuditFact{
			Action:      domaincommission.AuditActionFor(c.Status, actor),
			PerformedBy: actor.PerformedBy(),
			EntityType:  entity.EntityTypeCommission,
			EntityID:    c.ID,
			Changes:     map[string]any{"status": map[string]any{"from": res.previousStatus[c.ID], "to": c.Status}},
			Metadata:    map[string]any{"customer_id": c.CustomerID},
		})
	}

	customer := res.Customer
	uc.emitter.Record(ctx, &entity.AuditFact{
		Action:      entity.AuditActionContractEnded,
		PerformedBy: actor.PerformedBy(),
		EntityType:  entity.EntityTypeCustomer,
		EntityID:    customer.ID,
		Changes:     map[string]any{"status": map[string]any{"from": entity.CustomerStatusActive, "to": customer.Status}},
		Metadata:    map[string]any{"commissions_ended": res.CommissionsEnded},
	})
	uc.emitter.Notify(ctx, customer.ResellerID, entity.NotificationCustomerStatusChanged, map[string]any{
		"customer_id":       customer.ID,
		"company_name":      customer.CompanyName,
		"old_status":        entity.CustomerStatusActive,
		"new_status":        customer.Status,
		"commissions_ended": res.CommissionsEnded,
	})
}
