package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/anycompany/carmarket/config"
	"github.com/anycompany/carmarket/internal/infrastructure/postgres"
	"github.com/anycompany/carmarket/internal/infrastructure/search"
	"github.com/anycompany/carmarket/internal/interface/middleware"
	"github.com/anycompany/carmarket/pkg/helpers"
	"github.com/anycompany/carmarket/pkg/mailer"
	"github.com/anycompany/carmarket/pkg/storage"
)

// Container holds the process-wide clients the router wires modules from.
// Optional clients (Redis, Uploader, ES, Publisher) are nil when not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Pool  *pgxpool.Pool
	DB    *gorm.DB
	Store *postgres.Store
	Redis *redis.Client

	JWT      *helpers.JWTManager
	Uploader storage.Uploader

	ES        *elasticsearch.Client
	Search    *search.CarIndex
	Publisher *helpers.RabbitPublisher
	Notifier  mailer.Notifier
	Metrics   *middleware.Metrics

	closers []func() error
}

// OnClose registers fn to run on Close, in reverse order of registration.
func (c *Container) OnClose(fn func() error) {
	c.closers = append(c.closers, fn)
}

// Close releases every registered client and reports all failures.
func (c *Container) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, c.closers[i]())
	}
	c.closers = nil
	return err
}
