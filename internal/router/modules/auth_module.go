package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/anycompany/carmarket/internal/interface/http"
	"github.com/anycompany/carmarket/internal/interface/middleware"
)

type AuthModule struct {
	Auth        *handlers.AuthHandler
	Password    *handlers.PasswordHandler
	RequireAuth gin.HandlerFunc
	Redis       *redis.Client
}

func NewAuthModule(auth *handlers.AuthHandler, password *handlers.PasswordHandler, requireAuth gin.HandlerFunc, rdb *redis.Client) *AuthModule {
	return &AuthModule{Auth: auth, Password: password, RequireAuth: requireAuth, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil)
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	forgotLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/login", loginLimiter, m.Auth.Login)
	rg.POST("/auth/register", registerLimiter, m.Auth.Register)
	rg.POST("/password/forgot", forgotLimiter, m.Password.Forgot)
	rg.POST("/password/reset", resetLimiter, m.Password.Reset)

	auth := rg.Group("/")
	auth.Use(m.RequireAuth)
	auth.Use(middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/auth/logout", m.Auth.Logout)
		auth.POST("/password/change", m.Password.Change)
	}
}
