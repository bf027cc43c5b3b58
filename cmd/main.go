package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/anycompany/carmarket/config"
	"github.com/anycompany/carmarket/internal/container"
	pginfra "github.com/anycompany/carmarket/internal/infrastructure/postgres"
	"github.com/anycompany/carmarket/internal/infrastructure/search"
	"github.com/anycompany/carmarket/internal/interface/middleware"
	"github.com/anycompany/carmarket/internal/router"
	"github.com/anycompany/carmarket/pkg/helpers"
	"github.com/anycompany/carmarket/pkg/mailer"
	"github.com/anycompany/carmarket/pkg/storage"
	"github.com/anycompany/carmarket/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	c, err := build(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("startup: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.WithError(err).Warn("close clients")
		}
	}()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router.NewEngine(c)}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// build connects every client. Postgres is required; Redis, storage, search and the
// mail broker degrade to disabled features when unreachable.
func build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*container.Container, error) {
	c := &container.Container{Config: cfg, Logger: logger}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	c.Pool = pool
	c.OnClose(func() error { pool.Close(); return nil })

	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	db, err := pginfra.OpenGorm(pool)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	c.DB = db
	c.Store = pginfra.NewStore(db)

	if rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		helpers.LogWarn(logger, "redis unavailable: sessions, rate limits, view counters and password reset disabled", err, nil)
	} else {
		c.Redis = rdb
		c.OnClose(rdb.Close)
	}

	c.Uploader = newUploader(ctx, cfg, c, logger)

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			err = helpers.PingES(ctx, es)
		}
		if err != nil {
			helpers.LogWarn(logger, "elasticsearch unavailable, search uses the database", err, nil)
		} else {
			idx := search.NewCarIndex(es, cfg.ESCarsIndex)
			if err := idx.EnsureIndex(ctx); err != nil {
				helpers.LogWarn(logger, "ensure cars index failed, search uses the database", err, nil)
			} else {
				c.ES, c.Search = es, idx
			}
		}
	}

	c.Notifier = mailer.LogNotifier{Logger: logger}
	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			helpers.LogWarn(logger, "rabbitmq unavailable, emails are logged only", err, nil)
		} else {
			c.Publisher = pub
			c.Notifier = mailer.NewQueueNotifier(pub)
			c.OnClose(pub.Close)
		}
	}

	c.JWT = helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL)
	c.Metrics = middleware.NewMetrics(cfg.AppName)
	return c, nil
}

// newUploader picks the object storage driver; nil disables uploads.
func newUploader(ctx context.Context, cfg *config.Config, c *container.Container, logger *logrus.Logger) storage.Uploader {
	switch cfg.StorageDriver {
	case "gcs":
		if cfg.GCSBucket == "" {
			break
		}
		u, err := storage.NewGCSUploader(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSONPath)
		if err != nil {
			helpers.LogWarn(logger, "gcs client failed, uploads disabled", err, nil)
			return nil
		}
		c.OnClose(u.Close)
		return u
	case "s3":
		if cfg.S3Bucket == "" {
			break
		}
		u, err := storage.NewS3Uploader(ctx, storage.S3Config{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			UsePathStyle:  cfg.S3UsePathStyle,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			helpers.LogWarn(logger, "s3 client failed, uploads disabled", err, nil)
			return nil
		}
		return u
	}
	logger.WithField("driver", cfg.StorageDriver).Warn("object storage not configured, uploads disabled")
	return nil
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
