package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/anycompany/carmarket/internal/interface/http"
	"github.com/anycompany/carmarket/internal/interface/middleware"
)

// SystemModule exposes health, Prometheus metrics and expvar.
type SystemModule struct {
	Health  *handlers.HealthHandler
	Metrics *middleware.Metrics
	Redis   *redis.Client
	// DebugEnabled turns on /metrics and /debug/vars.
	DebugEnabled bool
}

func NewSystemModule(health *handlers.HealthHandler, metrics *middleware.Metrics, rdb *redis.Client, debug bool) *SystemModule {
	return &SystemModule{Health: health, Metrics: metrics, Redis: rdb, DebugEnabled: debug}
}

func (m *SystemModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Health.Health)
	if !m.DebugEnabled {
		return
	}
	// Scrapers from private networks are not limited
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	if m.Metrics != nil {
		rg.GET("/metrics", rl, gin.WrapH(m.Metrics.Handler()))
	}
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
