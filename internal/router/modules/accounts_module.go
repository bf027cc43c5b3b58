package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/anycompany/carmarket/internal/interface/http"
	"github.com/anycompany/carmarket/internal/interface/middleware"
)

// AccountsModule serves buyers and sellers, their nested cars and wishlists,
// plus the /admin-buyer and /admin-seller mirrors for platform staff.
type AccountsModule struct {
	Buyers      *handlers.BuyerHandler
	Sellers     *handlers.SellerHandler
	RequireAuth gin.HandlerFunc
	Redis       *redis.Client
}

func NewAccountsModule(buyers *handlers.BuyerHandler, sellers *handlers.SellerHandler, requireAuth gin.HandlerFunc, rdb *redis.Client) *AccountsModule {
	return &AccountsModule{Buyers: buyers, Sellers: sellers, RequireAuth: requireAuth, Redis: rdb}
}

func (m *AccountsModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	userLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil)

	protected := []gin.HandlerFunc{m.RequireAuth, userLimiter}
	m.buyerRoutes(rg.Group("/buyer"), []gin.HandlerFunc{signupLimiter}, protected)
	m.sellerRoutes(rg.Group("/seller"), []gin.HandlerFunc{signupLimiter}, protected)

	// Admin mirrors: every route, including reads, behind platform staff.
	m.buyerRoutes(rg.Group("/admin-buyer", m.RequireAuth, middleware.RequireAccountsAdmin()), nil, nil)
	m.sellerRoutes(rg.Group("/admin-seller", m.RequireAuth, middleware.RequireAccountsAdmin()), nil, nil)
}

func (m *AccountsModule) buyerRoutes(g *gin.RouterGroup, signup, protected []gin.HandlerFunc) {
	h := m.Buyers
	g.POST("", chain(signup, h.Create)...)
	g.GET("", h.List)
	g.GET("/by-name/:firstName", h.GetByName)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", chain(protected, h.Update)...)
	g.DELETE("/:id", chain(protected, h.Delete)...)
	g.GET("/:id/wishlist", chain(protected, h.ListWishlist)...)
	g.POST("/:id/wishlist/:carId", chain(protected, h.AddWishlist)...)
	g.DELETE("/:id/wishlist/:carId", chain(protected, h.RemoveWishlist)...)
}

func (m *AccountsModule) sellerRoutes(g *gin.RouterGroup, signup, protected []gin.HandlerFunc) {
	h := m.Sellers
	g.POST("", chain(signup, h.Create)...)
	g.GET("", h.List)
	g.GET("/by-name/:firstName", h.GetByName)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", chain(protected, h.Update)...)
	g.DELETE("/:id", chain(protected, h.Delete)...)

	g.GET("/:id/car", h.ListCars)
	g.GET("/:id/car/:carId", h.GetCar)
	g.POST("/:id/car", chain(protected, h.CreateCar)...)
	g.PATCH("/:id/car/:carId", chain(protected, h.UpdateCar)...)
	g.DELETE("/:id/car/:carId", chain(protected, h.DeleteCar)...)
}
