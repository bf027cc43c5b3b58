package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/anycompany/carmarket/internal/interface/http"
	"github.com/anycompany/carmarket/internal/interface/middleware"
)

type PremiumModule struct {
	Handler     *handlers.PremiumHandler
	RequireAuth gin.HandlerFunc
}

func NewPremiumModule(h *handlers.PremiumHandler, requireAuth gin.HandlerFunc) *PremiumModule {
	return &PremiumModule{Handler: h, RequireAuth: requireAuth}
}

func (m *PremiumModule) Register(rg *gin.RouterGroup) {
	rg.GET("/seller-premium/:id/stats", m.RequireAuth, m.Handler.Stats)

	admin := rg.Group("/admin-seller-premium", m.RequireAuth, middleware.RequireAccountsAdmin())
	admin.POST("/:id", m.Handler.Grant)
	admin.DELETE("/:id", m.Handler.Revoke)
}
