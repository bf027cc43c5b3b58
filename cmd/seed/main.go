package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/config"
	"github.com/anycompany/carmarket/internal/application"
	pginfra "github.com/anycompany/carmarket/internal/infrastructure/postgres"
	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/helpers"
)

// seed creates the first platform admin, who can then create every other staff account.
func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	email, password := os.Getenv("SEED_ADMIN_EMAIL"), os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()
	db, err := pginfra.OpenGorm(pool)
	if err != nil {
		logger.Fatalf("open gorm: %v", err)
	}

	staff := application.NewStaffService(pginfra.NewStore(db), nil, logger)
	admin, err := staff.Bootstrap(ctx, application.CreateProfileInput{
		Email:     email,
		Password:  password,
		FirstName: os.Getenv("SEED_ADMIN_FIRST_NAME"),
	})
	if apperror.Is(err, apperror.CodeConflict) {
		logger.WithField("email", email).Info("admin already exists, nothing to do")
		return
	}
	if err != nil {
		logger.Fatalf("seed admin: %v", err)
	}
	logger.WithFields(logrus.Fields{"id": admin.ID, "email": admin.Email}).Info("seeded platform admin")
}
