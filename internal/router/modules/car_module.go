package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/anycompany/carmarket/internal/interface/http"
	"github.com/anycompany/carmarket/internal/interface/middleware"
)

// CarModule is the public catalogue.
type CarModule struct {
	Handler *handlers.CarHandler
	Redis   *redis.Client
}

func NewCarModule(h *handlers.CarHandler, rdb *redis.Client) *CarModule {
	return &CarModule{Handler: h, Redis: rdb}
}

func (m *CarModule) Register(rg *gin.RouterGroup) {
	searchLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	g := rg.Group("/car")
	g.GET("", m.Handler.List)
	g.GET("/search", searchLimiter, m.Handler.Search)
	g.GET("/:id", m.Handler.Get)
}
