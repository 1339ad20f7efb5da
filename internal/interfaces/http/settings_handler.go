package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-admin/internal/application/dto"
	"github.com/tu-usuario/tienda-admin/internal/application/modules"
	"github.com/tu-usuario/tienda-admin/internal/application/usecase"
	"github.com/tu-usuario/tienda-admin/internal/domain"
)

// SettingsHandler maneja los settings clave/valor de la empresa activa.
type SettingsHandler struct {
	uc       *usecase.SettingsUseCase
	sessions *modules.SessionManager
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase, sessions *modules.SessionManager) *SettingsHandler {
	return &SettingsHandler{uc: uc, sessions: sessions}
}

// List godoc
// @Summary      Listar settings de la empresa activa
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SettingListResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tenant/settings [get]
func (h *SettingsHandler) List(c *fiber.Ctx) error {
	companyID, err := resolveActiveCompany(c, h.sessions)
	if companyID == "" {
		return err
	}
	out, err := h.uc.List(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Upsert godoc
// @Summary      Crear o reemplazar un setting de la empresa activa
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string  true  "Clave del setting"
// @Param        body  body  dto.UpsertSettingRequest  true  "Valor"
// @Success      200   {object}  dto.SettingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tenant/settings/{key} [put]
func (h *SettingsHandler) Upsert(c *fiber.Ctx) error {
	companyID, err := resolveActiveCompany(c, h.sessions)
	if companyID == "" {
		return err
	}
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_KEY", Message: "key es requerida"})
	}
	var in dto.UpsertSettingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Upsert(c.Context(), companyID, key, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar un setting de la empresa activa
// @Tags         settings
// @Security     Bearer
// @Param        key  path  string  true  "Clave del setting"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenant/settings/{key} [delete]
func (h *SettingsHandler) Delete(c *fiber.Ctx) error {
	companyID, err := resolveActiveCompany(c, h.sessions)
	if companyID == "" {
		return err
	}
	if err := h.uc.Delete(c.Context(), companyID, c.Params("key")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "setting no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
