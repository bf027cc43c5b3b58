package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/anycompany/carmarket/internal/interface/http"
	"github.com/anycompany/carmarket/internal/interface/middleware"
)

type UploadModule struct {
	Handler     *handlers.UploadHandler
	RequireAuth gin.HandlerFunc
	Redis       *redis.Client
}

func NewUploadModule(h *handlers.UploadHandler, requireAuth gin.HandlerFunc, rdb *redis.Client) *UploadModule {
	return &UploadModule{Handler: h, RequireAuth: requireAuth, Redis: rdb}
}

func (m *UploadModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByUserID(), nil)
	rg.POST("/upload", m.RequireAuth, rl, m.Handler.Upload)
}
