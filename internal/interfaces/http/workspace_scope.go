package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-admin/internal/application/dto"
	"github.com/tu-usuario/tienda-admin/internal/application/modules"
)

// resolveActiveCompany devuelve la empresa activa del workspace del operador.
// Si no hay empresa activa (o la sesión es inválida) escribe la respuesta de
// error y devuelve companyID vacío; el handler debe retornar el error tal cual.
func resolveActiveCompany(c *fiber.Ctx, sessions *modules.SessionManager) (string, error) {
	ws, err := sessions.Workspace(c.Context(), GetUserID(c))
	if err != nil {
		return "", c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión inválida"})
	}
	companyID := ws.ActiveCompanyID()
	if companyID == "" {
		return "", c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_ACTIVE_COMPANY", Message: "seleccione una empresa activa primero"})
	}
	return companyID, nil
}
