package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/internal/container"
	handlers "github.com/anycompany/carmarket/internal/interface/http"
	"github.com/anycompany/carmarket/internal/interface/middleware"
	"github.com/anycompany/carmarket/internal/router/modules"
	"github.com/anycompany/carmarket/pkg/helpers"
	"github.com/anycompany/carmarket/pkg/mailer"
	"github.com/anycompany/carmarket/pkg/mailer/templates"
)

// maxMultipartMemory covers eight car photos; larger bodies spill to temp files.
const maxMultipartMemory = 32 << 20

// NewEngine builds the Gin engine with global middleware and every module registered.
func NewEngine(c *container.Container) *gin.Engine {
	cfg := c.Config
	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory
	if err := middleware.TrustProxies(r, cfg.TrustedProxyList()); err != nil {
		helpers.LogWarn(c.Logger, "invalid TRUSTED_PROXIES, client addresses come from the peer", err, nil)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins())))
	if c.Metrics != nil {
		r.Use(c.Metrics.Middleware())
	}
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// corsConfig allows credentials for the listed origins; without a list any origin may call, cookie-less.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "X-Total-Count", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// InitModules builds services and handlers from the container and adds their modules to the registry.
func InitModules(reg *Registry, c *container.Container) {
	cfg, logger, store, rdb := c.Config, c.Logger, c.Store, c.Redis

	// Typed nils must not leak into the interfaces the services test against nil.
	var searcher application.CarSearcher
	if c.Search != nil {
		searcher = c.Search
	}
	notifier := c.Notifier
	if notifier == nil {
		notifier = mailer.LogNotifier{Logger: logger}
	}
	branding := templates.Branding{
		CompanyName:      cfg.CompanyName,
		AppName:          cfg.AppName,
		SupportURL:       cfg.SupportURL,
		ResetPasswordURL: cfg.ResetPasswordURL,
	}

	images := application.NewImageStore(c.Uploader)
	auth := application.NewAuthService(store, c.JWT, rdb, notifier, branding, logger)
	buyers := application.NewBuyerService(store, images, logger)
	sellers := application.NewSellerService(store, images, searcher, logger)
	cars := application.NewCarService(store, images, searcher, rdb, logger, cfg.BasicSellerCarLimit)
	premium := application.NewPremiumService(store, cars, notifier, branding, logger)
	showrooms := application.NewShowroomService(store)
	staff := application.NewStaffService(store, images, logger)
	buyers.Sessions, sellers.Sessions, showrooms.Sessions, staff.Sessions = auth, auth, auth, auth
	currency := application.NewCurrencyService(application.PrivatBankSource{
		URL:    cfg.CurrencyAPIURL,
		Client: &http.Client{Timeout: 10 * time.Second},
	}, rdb, cfg.CurrencyCacheTTL, logger)

	requireAuth := middleware.Auth(c.JWT, auth, logger)
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	reg.Add(modules.NewSystemModule(handlers.NewHealthHandler(store, logger), c.Metrics, rdb, cfg.DebugMetricsEnabled))
	reg.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(auth, cookies, logger),
		handlers.NewPasswordHandler(auth, logger),
		requireAuth, rdb,
	))
	reg.Add(modules.NewAccountsModule(
		handlers.NewBuyerHandler(buyers, application.NewWishlistService(store), currency, logger),
		handlers.NewSellerHandler(sellers, cars, currency, logger),
		requireAuth, rdb,
	))
	reg.Add(modules.NewCarModule(handlers.NewCarHandler(cars, currency, logger), rdb))
	reg.Add(modules.NewPremiumModule(handlers.NewPremiumHandler(premium, sellers, logger), requireAuth))
	reg.Add(modules.NewStaffModule(handlers.NewShowroomHandler(showrooms, logger), staff, requireAuth, logger))
	reg.Add(modules.NewCurrencyModule(handlers.NewCurrencyHandler(currency, logger), rdb))
	reg.Add(modules.NewUploadModule(handlers.NewUploadHandler(images, logger), requireAuth, rdb))
}
