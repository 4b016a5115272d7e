package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/partner-commissions/internal/application/dto"
	"github.com/jhoicas/partner-commissions/internal/application/usecase"
)

// AuditHandler consulta de la bitácora (solo admin).
type AuditHandler struct {
	uc *usecase.AuditUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// History godoc
// @Summary      Historial de auditoría de una entidad
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        entity_type  path  string  true  "Tipo"  Enums(CUSTOMER, COMMISSION, AUTO_APPROVAL_RULE, USER)
// @Param        entity_id    path  string  true  "ID de la entidad"
// @Success      200  {array}   dto.AuditFactResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/audit/{entity_type}/{entity_id} [get]
func (h *AuditHandler) History(c *fiber.Ctx) error {
	list, err := h.uc.History(c.UserContext(), strings.ToUpper(c.Params("entity_type")), c.Params("entity_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAuditFactResponses(list))
}
