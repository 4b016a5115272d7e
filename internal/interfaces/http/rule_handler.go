package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/partner-commissions/internal/application/commission"
	"github.com/jhoicas/partner-commissions/internal/application/dto"
)

// RuleHandler administración de reglas de auto-aprobación (solo admin).
type RuleHandler struct {
	uc *commission.RuleUseCase
}

// NewRuleHandler construye el handler.
func NewRuleHandler(uc *commission.RuleUseCase) *RuleHandler {
	return &RuleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear regla de auto-aprobación
// @Tags         auto-approval-rules
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRuleRequest  true  "Regla"
// @Success      201   {object}  dto.RuleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auto-approval-rules [post]
func (h *RuleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRuleRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	rule, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewRuleResponse(rule))
}

// List godoc
// @Summary      Listar reglas en orden de evaluación
// @Tags         auto-approval-rules
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RuleResponse
// @Router       /api/auto-approval-rules [get]
func (h *RuleHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.RuleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.NewRuleResponse(r))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener regla
// @Tags         auto-approval-rules
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la regla"
// @Success      200  {object}  dto.RuleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/auto-approval-rules/{id} [get]
func (h *RuleHandler) GetByID(c *fiber.Ctx) error {
	rule, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewRuleResponse(rule))
}

// Update godoc
// @Summary      Actualizar regla
// @Tags         auto-approval-rules
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la regla"
// @Param        body  body  dto.UpdateRuleRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.RuleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auto-approval-rules/{id} [patch]
func (h *RuleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRuleRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	rule, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewRuleResponse(rule))
}

// Delete godoc
// @Summary      Eliminar regla
// @Tags         auto-approval-rules
// @Security     Bearer
// @Param        id   path  string  true  "ID de la regla"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/auto-approval-rules/{id} [delete]
func (h *RuleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
