package commission

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/domain"
	domaincommission "github.com/jhoicas/partner-commissions/internal/domain/commission"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
	"github.com/jhoicas/partner-commissions/internal/domain/repository"
)

// ActorFromRole traduce el rol del token al actor de la máquina de estados.
// Solo admin satisface las guardas manuales; cualquier otro rol es rechazado por ellas.
func ActorFromRole(role, userID string) domaincommission.Actor {
	if role == entity.RoleAdmin {
		return domaincommission.Actor{Kind: domaincommission.ActorAdmin, ID: userID}
	}
	return domaincommission.Actor{Kind: domaincommission.ActorKind(role), ID: userID}
}

// TransitionUseCase aplica transiciones manuales (individuales y en lote) sobre comisiones.
type TransitionUseCase struct {
	txRunner TxRunner
	emitter  *ports.Emitter
	log      zerolog.Logger
}

// NewTransitionUseCase construye el caso de uso.
func NewTransitionUseCase(txRunner TxRunner, emitter *ports.Emitter, log zerolog.Logger) *TransitionUseCase {
	return &TransitionUseCase{txRunner: txRunner, emitter: emitter, log: log}
}

// TransitionCommission bloquea la comisión, valida tabla y guardas, y persiste el nuevo estado.
// Tras el commit emite un hecho de auditoría y, si el estado es visible para el
// revendedor (APPROVED, REJECTED, PAID), una notificación.
func (uc *TransitionUseCase) TransitionCommission(ctx context.Context, id string, in domaincommission.TransitionInput) (*entity.Commission, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	var (
		updated *entity.Commission
		from    string
	)
	err := uc.txRunner.RunCommission(ctx, func(
		_ repository.CustomerRepository,
		commissionRepo repository.CommissionRepository,
		_ repository.AutoApprovalRuleRepository,
		_ repository.UserRepository,
	) error {
		c, err := commissionRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		from = c.Status
		if err := domaincommission.Apply(c, in, time.Now()); err != nil {
			return err
		}
		if err := commissionRepo.Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.emitTransition(ctx, from, in, updated)
	return updated, nil
}

func (uc *TransitionUseCase) emitTransition(ctx context.Context, from string, in domaincommission.TransitionInput, c *entity.Commission) {
	metadata := map[string]any{"customer_id": c.CustomerID}
	if c.RejectionReason != nil {
		metadata["rejection_reason"] = *c.RejectionReason
	}
	if c.PaymentReference != nil {
		metadata["payment_reference"] = *c.PaymentReference
	}
	uc.emitter.Record(ctx, &entity.AuditFact{
		Action:      domaincommission.AuditActionFor(c.Status, in.Actor),
		PerformedBy: in.Actor.PerformedBy(),
		EntityType:  entity.EntityTypeCommission,
		EntityID:    c.ID,
		Changes:     map[string]any{"status": map[string]any{"from": from, "to": c.Status}},
		Metadata:    metadata,
	})
	if nt := domaincommission.NotificationTypeFor(c.Status); nt != "" {
		uc.emitter.Notify(ctx, c.ResellerID, nt, commissionPayload(c))
	}
}

// BulkItemResult resultado de un elemento del lote: OK con su ID, o el error que lo rechazó.
type BulkItemResult struct {
	ID    string
	OK    bool
	Err   error
	Error string
}

// bulkInternalError texto expuesto para fallos que no son de dominio.
const bulkInternalError = "error interno del servidor"

// BulkResult resultado agregado del lote.
type BulkResult struct {
	Succeeded int
	Failed    int
	Results   []BulkItemResult
}

// BulkTransitionCommissions aplica la misma transición a cada ID con las mismas guardas
// que la operación individual. El lote NO es atómico: cada elemento se confirma por
// separado y un fallo no revierte los demás.
func (uc *TransitionUseCase) BulkTransitionCommissions(ctx context.Context, ids []string, in domaincommission.TransitionInput) (*BulkResult, error) {
	if len(ids) == 0 {
		return nil, domain.ErrInvalidInput
	}

	res := &BulkResult{Results: make([]BulkItemResult, 0, len(ids))}
	for _, id := range ids {
		_, err := uc.TransitionCommission(ctx, id, in)
		if err != nil {
			// Errores de infraestructura se registran y el cliente solo recibe un mensaje genérico.
			msg := err.Error()
			if !isDomainError(err) {
				uc.log.Error().Err(err).Str("commission_id", id).Msg("transición en lote falló")
				msg = bulkInternalError
			}
			res.Failed++
			res.Results = append(res.Results, BulkItemResult{ID: id, Err: err, Error: msg})
			continue
		}
		res.Succeeded++
		res.Results = append(res.Results, BulkItemResult{ID: id, OK: true})
	}

	uc.log.Info().
		Str("target", in.Target).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Msg("transición en lote")
	return res, nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound, domain.ErrInvalidInput, domain.ErrForbidden,
		domain.ErrInvalidStateTransition,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
