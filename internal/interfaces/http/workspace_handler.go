package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-admin/internal/application/dto"
	"github.com/tu-usuario/tienda-admin/internal/application/usecase"
	"github.com/tu-usuario/tienda-admin/internal/domain"
)

// WorkspaceHandler maneja el estado del workspace del operador y el cambio de
// empresa activa.
type WorkspaceHandler struct {
	uc *usecase.WorkspaceUseCase
}

// NewWorkspaceHandler construye el handler.
func NewWorkspaceHandler(uc *usecase.WorkspaceUseCase) *WorkspaceHandler {
	return &WorkspaceHandler{uc: uc}
}

// Get godoc
// @Summary      Estado actual del workspace
// @Description  Empresa activa, su ficha y la configuración efectiva de módulos.
// @Tags         workspace
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.WorkspaceResponse
// @Router       /api/workspace [get]
func (h *WorkspaceHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetUserID(c), requestLocale(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Switch godoc
// @Summary      Cambiar la empresa activa
// @Description  Ejecuta la cascada completa: descarta el estado scoped a la
// @Description  empresa anterior y recarga overlay, settings, ficha y catálogo
// @Description  de productos. Si algún colaborador falla, el workspace vuelve
// @Description  a la empresa anterior ya recargada y se responde 503.
// @Tags         workspace
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SwitchCompanyRequest  true  "Empresa destino"
// @Success      200   {object}  dto.WorkspaceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/workspace/switch [post]
func (h *WorkspaceHandler) Switch(c *fiber.Ctx) error {
	var in dto.SwitchCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.CompanyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "company_id es requerido"})
	}
	out, err := h.uc.Switch(c.Context(), GetUserID(c), in, requestLocale(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "COMPANY_NOT_FOUND", Message: "la empresa no existe o no está activa"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SWITCH_IN_FLIGHT", Message: "ya hay un cambio de empresa en curso hacia otro destino"})
		case errors.Is(err, domain.ErrSwitchFailed):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SWITCH_FAILED", Message: "el cambio de empresa falló; el workspace volvió a la empresa anterior"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(out)
}
