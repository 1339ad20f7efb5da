package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-admin/internal/application/auth"
	"github.com/tu-usuario/tienda-admin/internal/application/modules"
	"github.com/tu-usuario/tienda-admin/internal/application/usecase"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CompanyUC   *usecase.CompanyUseCase
	ModuleUC    *usecase.ModuleUseCase
	ProductUC   *usecase.ProductUseCase
	SettingsUC  *usecase.SettingsUseCase
	WorkspaceUC *usecase.WorkspaceUseCase
	Sessions    *modules.SessionManager
	JWTSecret   string
	Locale      string // fallback para labels cuando no llega Accept-Language
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Locale != "" {
		defaultLocale = deps.Locale
	}
	api := app.Group("/api")
	gate := SessionGate{Sessions: deps.Sessions}

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.WorkspaceUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret), authHandler.Logout)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Companies: lectura para cualquier operador, mutación solo admin
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Post("/", RequireRole(entity.RoleAdmin), companyHandler.Create)
	companies.Put("/:id", RequireRole(entity.RoleAdmin), companyHandler.Update)

	// Workspace: estado y cambio de empresa activa
	workspace := protected.Group("/workspace")
	workspaceHandler := NewWorkspaceHandler(deps.WorkspaceUC)
	workspace.Get("/", workspaceHandler.Get)
	workspace.Post("/switch", workspaceHandler.Switch)

	// Catálogo global de módulos (solo admin)
	moduleHandler := NewModuleHandler(deps.ModuleUC)
	adminModules := protected.Group("/admin/modules", RequireRole(entity.RoleAdmin))
	adminModules.Get("/", moduleHandler.ListCatalog)
	adminModules.Post("/", moduleHandler.CreateDefinition)
	adminModules.Get("/:key", moduleHandler.GetDefinition)
	adminModules.Put("/:key", moduleHandler.UpdateDefinition)
	adminModules.Delete("/:key", moduleHandler.DeleteDefinition)

	// Overlay y configuración efectiva de la empresa activa
	tenantModules := protected.Group("/tenant/modules")
	tenantModules.Get("/", moduleHandler.ListSettings)
	tenantModules.Get("/effective", moduleHandler.Effective)
	tenantModules.Post("/:key/toggle", RequireRole(entity.RoleAdmin, entity.RoleOperador), moduleHandler.Toggle)
	tenantModules.Patch("/:key", RequireRole(entity.RoleAdmin, entity.RoleOperador), moduleHandler.UpdateSetting)

	// Settings clave/valor de la empresa activa
	tenantSettings := protected.Group("/tenant/settings")
	settingsHandler := NewSettingsHandler(deps.SettingsUC, deps.Sessions)
	tenantSettings.Get("/", settingsHandler.List)
	tenantSettings.Put("/:key", RequireRole(entity.RoleAdmin, entity.RoleOperador), settingsHandler.Upsert)
	tenantSettings.Delete("/:key", RequireRole(entity.RoleAdmin, entity.RoleOperador), settingsHandler.Delete)

	// Navegación derivada de la configuración efectiva
	navigation := protected.Group("/navigation")
	navigationHandler := NewNavigationHandler(deps.ModuleUC)
	navigation.Get("/sidebar", navigationHandler.Sidebar)
	navigation.Get("/dashboard", navigationHandler.Dashboard)

	// Productos de la empresa activa, gateados por el módulo catalog
	products := protected.Group("/products", RequireModule(entity.ModuleCatalogKey, gate))
	productHandler := NewProductHandler(deps.ProductUC, deps.Sessions)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/stats", RequireAnalytics(entity.ModuleCatalogKey, gate), productHandler.Stats)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
}
