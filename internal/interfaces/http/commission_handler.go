package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/partner-commissions/internal/application/commission"
	"github.com/jhoicas/partner-commissions/internal/application/dto"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"

	domaincommission "github.com/jhoicas/partner-commissions/internal/domain/commission"
)

// CommissionHandler consultas y transiciones de comisiones.
type CommissionHandler struct {
	query      *commission.QueryUseCase
	transition *commission.TransitionUseCase
}

// NewCommissionHandler construye el handler.
func NewCommissionHandler(query *commission.QueryUseCase, transition *commission.TransitionUseCase) *CommissionHandler {
	return &CommissionHandler{query: query, transition: transition}
}

// List godoc
// @Summary      Listar comisiones
// @Description  Un revendedor solo ve sus comisiones; reseller_id se ignora para ese rol.
// @Tags         commissions
// @Security     Bearer
// @Produce      json
// @Param        reseller_id  query  string  false  "Revendedor (solo admin)"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        status       query  string  false  "Estado"  Enums(PENDING, APPROVED, REJECTED, PAID, CONTRACT_ENDED)
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.CommissionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/commissions [get]
func (h *CommissionHandler) List(c *fiber.Ctx) error {
	list, err := h.query.List(c.UserContext(), viewer(c), entity.CommissionFilter{
		ResellerID: c.Query("reseller_id"),
		CustomerID: c.Query("customer_id"),
		Status:     c.Query("status"),
		Limit:      c.QueryInt("limit", 20),
		Offset:     c.QueryInt("offset", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCommissionResponses(list))
}

// GetByID godoc
// @Summary      Obtener comisión por ID
// @Tags         commissions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la comisión"
// @Success      200  {object}  dto.CommissionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/commissions/{id} [get]
func (h *CommissionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.GetByID(c.UserContext(), viewer(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCommissionResponse(out))
}

// Summary godoc
// @Summary      Resumen por estado de comisiones
// @Description  Un revendedor ve el suyo. Un admin sin reseller_id recibe el agregado de todos.
// @Tags         commissions
// @Security     Bearer
// @Produce      json
// @Param        reseller_id  query  string  false  "Revendedor (admin); por defecto el del token para revendedores"
// @Success      200  {object}  dto.CommissionSummaryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/commissions/summary [get]
func (h *CommissionHandler) Summary(c *fiber.Ctx) error {
	v := viewer(c)
	resellerID := c.Query("reseller_id")
	if v.IsReseller() && resellerID == "" {
		resellerID = v.UserID
	}
	totals, err := h.query.Summary(c.UserContext(), v, resellerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCommissionSummaryResponse(resellerID, totals))
}

// ListByCustomer godoc
// @Summary      Calendario de comisiones de un cliente
// @Tags         commissions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {array}   dto.CommissionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/commissions [get]
func (h *CommissionHandler) ListByCustomer(c *fiber.Ctx) error {
	list, err := h.query.ListByCustomer(c.UserContext(), viewer(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCommissionResponses(list))
}

// Statement godoc
// @Summary      Estado de cuenta en PDF
// @Tags         commissions
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/commissions/statement [get]
func (h *CommissionHandler) Statement(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.query.Statement(c.UserContext(), viewer(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// Transition godoc
// @Summary      Cambiar estado de una comisión
// @Description  PENDING→APPROVED, PENDING→REJECTED (reason obligatorio), APPROVED→PAID.
// @Tags         commissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la comisión"
// @Param        body  body  dto.TransitionRequest  true  "Estado destino"
// @Success      200   {object}  dto.CommissionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/commissions/{id}/status [patch]
func (h *CommissionHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.transition.TransitionCommission(c.UserContext(), c.Params("id"), transitionInput(c, in.Status, in.Reason, in.PaymentReference))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCommissionResponse(out))
}

// BulkTransition godoc
// @Summary      Cambiar estado de varias comisiones
// @Description  No atómico: cada comisión se procesa por separado y el resultado se informa por elemento.
// @Tags         commissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkTransitionRequest  true  "IDs y estado destino"
// @Success      200   {object}  dto.BulkTransitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/commissions/bulk-status [post]
func (h *CommissionHandler) BulkTransition(c *fiber.Ctx) error {
	var in dto.BulkTransitionRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	res, err := h.transition.BulkTransitionCommissions(c.UserContext(), in.IDs, transitionInput(c, in.Status, in.Reason, in.PaymentReference))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.BulkTransitionResponse{
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Results:   make([]dto.BulkItemResponse, 0, len(res.Results)),
	}
	for _, r := range res.Results {
		item := dto.BulkItemResponse{ID: r.ID, Result: "ok"}
		if !r.OK {
			item.Result = "error"
			item.Error = r.Error
		}
		out.Results = append(out.Results, item)
	}
	return c.JSON(out)
}

func transitionInput(c *fiber.Ctx, status, reason, paymentReference string) domaincommission.TransitionInput {
	return domaincommission.TransitionInput{
		Target:           status,
		Actor:            commission.ActorFromRole(GetRole(c), GetUserID(c)),
		Reason:           reason,
		PaymentReference: paymentReference,
	}
}
