package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/tienda-admin/internal/application/auth"
	"github.com/tu-usuario/tienda-admin/internal/application/modules"
	"github.com/tu-usuario/tienda-admin/internal/application/usecase"
	"github.com/tu-usuario/tienda-admin/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/tienda-admin/internal/interfaces/http"
	"github.com/tu-usuario/tienda-admin/pkg/config"
	"github.com/tu-usuario/tienda-admin/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	settingRepo := postgres.NewCompanySettingRepository(pool)
	definitionRepo := postgres.NewModuleDefinitionRepository(pool)
	moduleSettingRepo := postgres.NewModuleSettingRepository(pool)

	// Catálogo global de módulos: compartido por todos los workspaces.
	catalog := modules.NewCatalog(definitionRepo)
	if err := catalog.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("carga del catálogo de módulos")
	}

	// Workspaces por operador: empresa activa, overlay, caches y cascada.
	sessions := modules.NewSessionManager(modules.SessionDeps{
		Catalog:   catalog,
		Settings:  moduleSettingRepo,
		KVStore:   settingRepo,
		Companies: companyRepo,
		Products:  productRepo,
		Users:     userRepo,
		Log:       log.Component("workspace"),
	})

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	settingsUC := usecase.NewSettingsUseCase(settingRepo)
	moduleUC := usecase.NewModuleUseCase(catalog, sessions)
	workspaceUC := usecase.NewWorkspaceUseCase(sessions)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda Admin API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   companyUC,
		ModuleUC:    moduleUC,
		ProductUC:   productUC,
		SettingsUC:  settingsUC,
		WorkspaceUC: workspaceUC,
		Sessions:    sessions,
		JWTSecret:   cfg.JWT.Secret,
		Locale:      cfg.Catalog.DefaultLocale,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
