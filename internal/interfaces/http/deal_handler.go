package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/partner-commissions/internal/application/commission"
	"github.com/jhoicas/partner-commissions/internal/application/dto"
)

// DealHandler cierre de negocio y terminación de contrato (solo admin).
type DealHandler struct {
	uc *commission.DealClosureUseCase
}

// NewDealHandler construye el handler.
func NewDealHandler(uc *commission.DealClosureUseCase) *DealHandler {
	return &DealHandler{uc: uc}
}

// CloseDeal godoc
// @Summary      Cerrar negocio de un cliente
// @Description  Pasa el cliente a ACTIVE, genera el calendario de comisiones y aplica las reglas de auto-aprobación.
// @Description  Sin contract_duration se usan los años de comisión del revendedor.
// @Tags         deals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del cliente"
// @Param        body  body  dto.CloseDealRequest  true  "Términos del contrato"
// @Success      201   {object}  dto.CloseDealResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/close-deal [post]
func (h *DealHandler) CloseDeal(c *fiber.Ctx) error {
	var in dto.CloseDealRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	input := commission.CloseDealInput{
		CustomerID:      c.Params("id"),
		ContractValue:   in.ContractValue,
		ClosedByAdminID: GetUserID(c),
	}
	if in.ContractDuration == nil {
		input.UseResellerDefaultDuration = true
	} else {
		input.ContractDuration = *in.ContractDuration
	}
	res, err := h.uc.CloseDeal(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CloseDealResponse{
		Customer:             dto.NewCustomerResponse(res.Customer),
		CommissionsCreated:   res.CommissionsCreated,
		AutoApproved:         res.AutoApproved,
		TotalCommissionValue: res.TotalCommissionValue,
		Commissions:          dto.NewCommissionResponses(res.Commissions),
	})
}

// EndContract godoc
// @Summary      Terminar contrato de un cliente
// @Description  Pasa a CONTRACT_ENDED las comisiones PENDING y APPROVED; el cliente queda en NO_DEAL.
// @Tags         deals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.EndContractResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/end-contract [post]
func (h *DealHandler) EndContract(c *fiber.Ctx) error {
	res, err := h.uc.EndContract(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.EndContractResponse{
		Customer:         dto.NewCustomerResponse(res.Customer),
		CommissionsEnded: res.CommissionsEnded,
	})
}
