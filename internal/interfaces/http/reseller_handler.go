package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/partner-commissions/internal/application/dto"
	"github.com/jhoicas/partner-commissions/internal/application/usecase"
)

// ResellerHandler configuración comercial de revendedores.
type ResellerHandler struct {
	uc *usecase.ResellerUseCase
}

// NewResellerHandler construye el handler.
func NewResellerHandler(uc *usecase.ResellerUseCase) *ResellerHandler {
	return &ResellerHandler{uc: uc}
}

// List godoc
// @Summary      Listar revendedores
// @Tags         resellers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.ResellerResponse
// @Router       /api/resellers [get]
func (h *ResellerHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener revendedor
// @Tags         resellers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del revendedor"
// @Success      200  {object}  dto.ResellerResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/resellers/{id} [get]
func (h *ResellerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), viewer(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateSettings godoc
// @Summary      Actualizar configuración comercial
// @Description  Aplica solo a calendarios futuros; las comisiones existentes conservan su snapshot.
// @Tags         resellers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                             true  "ID del revendedor"
// @Param        body  body  dto.UpdateResellerSettingsRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ResellerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/resellers/{id}/settings [patch]
func (h *ResellerHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.UpdateResellerSettingsRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.uc.UpdateSettings(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
