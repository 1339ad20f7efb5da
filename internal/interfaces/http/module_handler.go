package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-admin/internal/application/dto"
	"github.com/tu-usuario/tienda-admin/internal/application/usecase"
	"github.com/tu-usuario/tienda-admin/internal/domain"
)

// ModuleHandler maneja el catálogo global de módulos (admin), el overlay por
// empresa y la configuración efectiva.
type ModuleHandler struct {
	uc *usecase.ModuleUseCase
}

// NewModuleHandler construye el handler.
func NewModuleHandler(uc *usecase.ModuleUseCase) *ModuleHandler {
	return &ModuleHandler{uc: uc}
}

// defaultLocale es el fallback cuando el cliente no pide locale; el router lo
// ajusta desde la configuración.
var defaultLocale = "es"

// requestLocale resuelve el locale pedido: query ?locale= o el primer valor de
// Accept-Language; los labels se resuelven por matching BCP 47.
func requestLocale(c *fiber.Ctx) string {
	if loc := c.Query("locale"); loc != "" {
		return loc
	}
	header := c.Get("Accept-Language")
	if header == "" {
		return defaultLocale
	}
	first := strings.SplitN(header, ",", 2)[0]
	return strings.TrimSpace(strings.SplitN(first, ";", 2)[0])
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo global (solo admin)
// ──────────────────────────────────────────────────────────────────────────────

// ListCatalog godoc
// @Summary      Listar el catálogo global de módulos
// @Tags         modules
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ModuleDefinitionResponse
// @Router       /api/admin/modules [get]
func (h *ModuleHandler) ListCatalog(c *fiber.Ctx) error {
	return c.JSON(h.uc.ListCatalog())
}

// GetDefinition godoc
// @Summary      Obtener una definición por key
// @Tags         modules
// @Security     Bearer
// @Produce      json
// @Param        key  path  string  true  "Key del módulo"
// @Success      200  {object}  dto.ModuleDefinitionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/modules/{key} [get]
func (h *ModuleHandler) GetDefinition(c *fiber.Ctx) error {
	out, err := h.uc.GetDefinition(c.Params("key"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "módulo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// CreateDefinition godoc
// @Summary      Registrar un módulo en el catálogo global
// @Tags         modules
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateModuleRequest  true  "Definición del módulo"
// @Success      201   {object}  dto.ModuleDefinitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/modules [post]
func (h *ModuleHandler) CreateDefinition(c *fiber.Ctx) error {
	var in dto.CreateModuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateDefinition(c.Context(), in, GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "la key ya existe en el catálogo"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateDefinition godoc
// @Summary      Actualizar una definición (la key nunca cambia)
// @Tags         modules
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string  true  "Key del módulo"
// @Param        body  body  dto.UpdateModuleRequest  true  "Campos a actualizar + nota de auditoría"
// @Success      200   {object}  dto.ModuleDefinitionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/modules/{key} [put]
func (h *ModuleHandler) UpdateDefinition(c *fiber.Ctx) error {
	var in dto.UpdateModuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateDefinition(c.Context(), c.Params("key"), in, GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "módulo no encontrado"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// DeleteDefinition godoc
// @Summary      Eliminar una definición del catálogo
// @Description  Los overlays por empresa no se tocan: quedan huérfanos e
// @Description  inertes, y reviven si la key se vuelve a crear.
// @Tags         modules
// @Security     Bearer
// @Param        key  path  string  true  "Key del módulo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/modules/{key} [delete]
func (h *ModuleHandler) DeleteDefinition(c *fiber.Ctx) error {
	if err := h.uc.DeleteDefinition(c.Context(), c.Params("key")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "módulo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ──────────────────────────────────────────────────────────────────────────────
// Overlay de la empresa activa + configuración efectiva
// ──────────────────────────────────────────────────────────────────────────────

// ListSettings godoc
// @Summary      Listar el overlay de la empresa activa
// @Tags         modules
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ModuleSettingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tenant/modules [get]
func (h *ModuleHandler) ListSettings(c *fiber.Ctx) error {
	out, err := h.uc.ListSettings(c.Context(), GetUserID(c))
	if err != nil {
		return h.overlayError(c, err)
	}
	return c.JSON(out)
}

// Toggle godoc
// @Summary      Mutar un flag booleano del overlay (optimista)
// @Description  La escritura se aplica de inmediato y se reconcilia con la
// @Description  respuesta autoritativa. 202 significa que la confirmación
// @Description  llegó después de un cambio de empresa y la vista ya no aplica.
// @Tags         modules
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string  true  "Key del módulo"
// @Param        body  body  dto.ToggleModuleRequest  true  "Campo y valor"
// @Success      200   {object}  dto.ModuleSettingResponse
// @Success      202
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tenant/modules/{key}/toggle [post]
func (h *ModuleHandler) Toggle(c *fiber.Ctx) error {
	var in dto.ToggleModuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Toggle(c.Context(), GetUserID(c), c.Params("key"), in)
	if err != nil {
		return h.overlayError(c, err)
	}
	if out == nil {
		// La respuesta autoritativa llegó después de un cambio de empresa y
		// fue descartada; la escritura sí persistió en la empresa original.
		return c.SendStatus(fiber.StatusAccepted)
	}
	return c.JSON(out)
}

// UpdateSetting godoc
// @Summary      Patch parcial del overlay de un módulo (optimista)
// @Tags         modules
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string  true  "Key del módulo"
// @Param        body  body  dto.UpdateModuleSettingRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ModuleSettingResponse
// @Success      202
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tenant/modules/{key} [patch]
func (h *ModuleHandler) UpdateSetting(c *fiber.Ctx) error {
	var in dto.UpdateModuleSettingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateSetting(c.Context(), GetUserID(c), c.Params("key"), in)
	if err != nil {
		return h.overlayError(c, err)
	}
	if out == nil {
		return c.SendStatus(fiber.StatusAccepted)
	}
	return c.JSON(out)
}

// Effective godoc
// @Summary      Configuración efectiva de la empresa activa
// @Description  Catálogo + overlay resueltos; labels en el locale pedido.
// @Tags         modules
// @Security     Bearer
// @Produce      json
// @Param        locale  query  string  false  "Locale BCP 47 (default: Accept-Language)"
// @Success      200  {array}  dto.EffectiveModuleResponse
// @Router       /api/tenant/modules/effective [get]
func (h *ModuleHandler) Effective(c *fiber.Ctx) error {
	out, err := h.uc.Effective(c.Context(), GetUserID(c), requestLocale(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

func (h *ModuleHandler) overlayError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrMutationInProgress):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "MUTATION_IN_PROGRESS", Message: "ya hay una mutación en vuelo para ese campo"})
	case errors.Is(err, domain.ErrWrongCompany):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "WRONG_COMPANY", Message: "la empresa activa cambió, recargue la vista"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión inválida"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
