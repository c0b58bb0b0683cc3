package main

import (
	"context"
	"os"

	"github.com/quesarte/queseria-api/internal/application/auth"
	"github.com/quesarte/queseria-api/internal/application/dto"
	"github.com/quesarte/queseria-api/internal/application/usecase"
	"github.com/quesarte/queseria-api/internal/domain"
	"github.com/quesarte/queseria-api/internal/domain/entity"
	"github.com/quesarte/queseria-api/internal/infrastructure/postgres"
	"github.com/quesarte/queseria-api/pkg/config"
	"github.com/quesarte/queseria-api/pkg/logger"
)

// Siembra los motivos predefinidos y, si se definen ADMIN_EMAIL y
// ADMIN_PASSWORD, el usuario administrador inicial. Idempotente: correr dos
// veces no duplica nada.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	reasonUC := usecase.NewReasonUseCase(postgres.NewReasonRepository(pool))
	created, err := reasonUC.Seed()
	if err != nil {
		log.Fatal().Err(err).Msg("seed de motivos")
	}
	log.Info().Int("created", created).Msg("motivos predefinidos")

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Info().Msg("ADMIN_EMAIL/ADMIN_PASSWORD no definidos, se omite el admin inicial")
		return
	}

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	_, err = authUC.RegisterUser(dto.RegisterRequest{
		Email:    adminEmail,
		Password: adminPassword,
		Name:     "Administrador",
		Role:     entity.RoleAdmin,
	})
	switch {
	case err == nil:
		log.Info().Str("email", adminEmail).Msg("admin inicial creado")
	case err == domain.ErrEmailAlreadyExists:
		log.Info().Str("email", adminEmail).Msg("admin inicial ya existe")
	default:
		log.Fatal().Err(err).Msg("crear admin inicial")
	}
}
