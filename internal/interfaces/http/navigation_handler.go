package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-admin/internal/application/dto"
	"github.com/tu-usuario/tienda-admin/internal/application/usecase"
)

// NavigationHandler deriva el sidebar y el dashboard del operador a partir de
// la configuración efectiva de la empresa activa.
type NavigationHandler struct {
	modules *usecase.ModuleUseCase
}

// NewNavigationHandler construye el handler.
func NewNavigationHandler(modules *usecase.ModuleUseCase) *NavigationHandler {
	return &NavigationHandler{modules: modules}
}

// Sidebar godoc
// @Summary      Items del sidebar del operador
// @Description  Módulos habilitados, visibles en sidebar y permitidos para el
// @Description  rol del operador, en el orden efectivo.
// @Tags         navigation
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SidebarResponse
// @Router       /api/navigation/sidebar [get]
func (h *NavigationHandler) Sidebar(c *fiber.Ctx) error {
	mods, err := h.modules.Effective(c.Context(), GetUserID(c), requestLocale(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	role := GetRole(c)
	entries := make([]dto.NavigationEntry, 0, len(mods))
	for _, m := range mods {
		if !m.Enabled || !m.VisibleInSidebar || !roleAllowed(role, m.Roles) {
			continue
		}
		entries = append(entries, dto.NavigationEntry{Key: m.Key, Label: m.Label, Icon: m.Icon, Order: m.Order})
	}
	return c.JSON(dto.SidebarResponse{Entries: entries})
}

// Dashboard godoc
// @Summary      Tarjetas del dashboard del operador
// @Description  Módulos habilitados con show_in_dashboard activo, filtrados
// @Description  por el rol del operador.
// @Tags         navigation
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/navigation/dashboard [get]
func (h *NavigationHandler) Dashboard(c *fiber.Ctx) error {
	mods, err := h.modules.Effective(c.Context(), GetUserID(c), requestLocale(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	role := GetRole(c)
	cards := make([]dto.NavigationEntry, 0, len(mods))
	for _, m := range mods {
		if !m.Enabled || !m.ShowInDashboard || !roleAllowed(role, m.Roles) {
			continue
		}
		cards = append(cards, dto.NavigationEntry{Key: m.Key, Label: m.Label, Icon: m.Icon, Order: m.Order})
	}
	return c.JSON(dto.DashboardResponse{Cards: cards})
}

// roleAllowed informa si el rol puede ver un módulo. Lista vacía = sin
// restricción.
func roleAllowed(role string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
