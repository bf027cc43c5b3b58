package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/anycompany/carmarket/internal/interface/http"
	"github.com/anycompany/carmarket/internal/interface/middleware"
)

type CurrencyModule struct {
	Handler *handlers.CurrencyHandler
	Redis   *redis.Client
}

func NewCurrencyModule(h *handlers.CurrencyHandler, rdb *redis.Client) *CurrencyModule {
	return &CurrencyModule{Handler: h, Redis: rdb}
}

func (m *CurrencyModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/currency", rl, m.Handler.Rates)
	rg.GET("/currency/convert", rl, m.Handler.Convert)
}
