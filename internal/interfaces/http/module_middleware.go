package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-admin/internal/application/dto"
	"github.com/tu-usuario/tienda-admin/internal/application/modules"
)

// moduleGate es el contrato mínimo que necesita el middleware para consultar
// la configuración efectiva. Lo implementa SessionGate; el uso de interfaz
// permite stubs en tests.
type moduleGate interface {
	ModuleEnabled(ctx context.Context, userID, moduleKey string) (bool, error)
	AnalyticsEnabled(ctx context.Context, userID, moduleKey string) (bool, error)
}

// SessionGate adapta el SessionManager al contrato moduleGate: resuelve el
// workspace del operador y consulta la configuración efectiva de su empresa
// activa.
type SessionGate struct {
	Sessions *modules.SessionManager
}

// ModuleEnabled informa si el módulo está habilitado para la empresa activa del usuario.
func (g SessionGate) ModuleEnabled(ctx context.Context, userID, moduleKey string) (bool, error) {
	ws, err := g.Sessions.Workspace(ctx, userID)
	if err != nil {
		return false, err
	}
	return ws.ModuleEnabled(moduleKey), nil
}

// AnalyticsEnabled informa si el módulo tiene analytics activo para la empresa activa del usuario.
func (g SessionGate) AnalyticsEnabled(ctx context.Context, userID, moduleKey string) (bool, error) {
	ws, err := g.Sessions.Workspace(ctx, userID)
	if err != nil {
		return false, err
	}
	return ws.AnalyticsEnabled(moduleKey), nil
}

// RequireModule devuelve un middleware Fiber que verifica si la empresa activa
// del operador tiene el módulo habilitado en su configuración efectiva. Debe
// usarse DESPUÉS de AuthMiddleware (necesita LocalUserID).
//
// Comportamiento:
//   - 403 Forbidden → módulo apagado, sin overlay o sin definición en el catálogo.
//   - 503 Service Unavailable → fallo al resolver el workspace del operador.
//   - Sin user_id en el contexto responde 401.
//
// Si el operador cambió de empresa a mitad de un cambio, el resolver devuelve
// la vista conservadora (todo apagado) y la respuesta es 403: nunca se sirven
// datos de una empresa con la configuración de otra.
func RequireModule(moduleKey string, gate moduleGate) fiber.Handler {
	return requireFlag(moduleKey, gate.ModuleEnabled)
}

// RequireAnalytics devuelve un middleware que exige módulo habilitado Y
// use_analytics activo (rutas de métricas del módulo).
func RequireAnalytics(moduleKey string, gate moduleGate) fiber.Handler {
	return requireFlag(moduleKey, gate.AnalyticsEnabled)
}

func requireFlag(moduleKey string, check func(ctx context.Context, userID, moduleKey string) (bool, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		enabled, err := check(c.Context(), userID, moduleKey)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "MODULE_CHECK_FAILED",
				Message: "no se pudo verificar el módulo, intente más tarde",
			})
		}

		if !enabled {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MODULE_DISABLED",
				Message: "el módulo '" + moduleKey + "' no está habilitado para la empresa activa",
			})
		}

		return c.Next()
	}
}
