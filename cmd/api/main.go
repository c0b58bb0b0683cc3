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

	"github.com/quesarte/queseria-api/internal/application/auth"
	"github.com/quesarte/queseria-api/internal/application/ledger"
	"github.com/quesarte/queseria-api/internal/application/usecase"
	"github.com/quesarte/queseria-api/internal/infrastructure/cache"
	"github.com/quesarte/queseria-api/internal/infrastructure/postgres"
	httpRouter "github.com/quesarte/queseria-api/internal/interfaces/http"
	"github.com/quesarte/queseria-api/pkg/config"
	"github.com/quesarte/queseria-api/pkg/keymutex"
	"github.com/quesarte/queseria-api/pkg/logger"
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

	respCache := cache.New(ctx, cfg.Redis, log)
	defer respCache.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	productTypeRepo := postgres.NewProductTypeRepository(pool)
	elementTypeRepo := postgres.NewElementTypeRepository(pool)
	reasonRepo := postgres.NewReasonRepository(pool)
	unitRepo := postgres.NewUnitRepository(pool)
	partitionRepo := postgres.NewPartitionRepository(pool)
	elementRepo := postgres.NewElementRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	lockTimeout := time.Duration(cfg.Lock.TimeoutMillis) * time.Millisecond
	txRunner := postgres.NewTxRunner(pool, lockTimeout)

	locks := keymutex.New(lockTimeout)

	unitUC := ledger.NewUnitUseCase(txRunner, unitRepo, partitionRepo, productRepo, reasonRepo, locks, cfg.Lock.Retries)
	elementUC := ledger.NewElementUseCase(txRunner, elementRepo, movementRepo, elementTypeRepo, reasonRepo, locks, cfg.Lock.Retries)
	productUC := usecase.NewProductUseCase(productRepo, productTypeRepo, unitRepo)
	productTypeUC := usecase.NewProductTypeUseCase(productTypeRepo, productRepo)
	elementTypeUC := usecase.NewElementTypeUseCase(elementTypeRepo, elementRepo)
	reasonUC := usecase.NewReasonUseCase(reasonRepo)
	alertUC := usecase.NewAlertUseCase(elementRepo, unitRepo, productRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Motivos predefinidos: idempotente, solo crea los que faltan.
	if created, err := reasonUC.Seed(); err != nil {
		log.Error().Err(err).Msg("seed de motivos")
	} else if created > 0 {
		log.Info().Int("created", created).Msg("motivos predefinidos sembrados")
	}

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
		Title:    "Queseria API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UnitUC:        unitUC,
		ElementUC:     elementUC,
		ProductUC:     productUC,
		ProductTypeUC: productTypeUC,
		ElementTypeUC: elementTypeUC,
		ReasonUC:      reasonUC,
		AlertUC:       alertUC,
		Cache:         respCache,
		JWTSecret:     cfg.JWT.Secret,
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
