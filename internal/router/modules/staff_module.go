package modules

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/internal/domain/entity"
	handlers "github.com/anycompany/carmarket/internal/interface/http"
	"github.com/anycompany/carmarket/internal/interface/middleware"
)

var showroomRoles = []entity.Role{
	entity.RoleAdmin,
	entity.RoleManager,
	entity.RoleSales,
	entity.RoleServiceManager,
	entity.RoleAutoMechanic,
}

// StaffModule serves showrooms and every scoped staff family:
//
//	/admin, /manager, /admin-manager         platform staff
//	/carshowroom/:id/<role>                  showroom staff
//	/admin-carshowroom/:id/<role>            showroom administration
//
// Authorization is decided per request by the staff service.
type StaffModule struct {
	Showrooms   *handlers.ShowroomHandler
	Staff       *application.StaffService
	RequireAuth gin.HandlerFunc
	Logger      *logrus.Logger
}

func NewStaffModule(showrooms *handlers.ShowroomHandler, staff *application.StaffService, requireAuth gin.HandlerFunc, logger *logrus.Logger) *StaffModule {
	return &StaffModule{Showrooms: showrooms, Staff: staff, RequireAuth: requireAuth, Logger: logger}
}

// rolePath turns service_manager into service-manager.
func rolePath(r entity.Role) string {
	return strings.ReplaceAll(string(r), "_", "-")
}

func (m *StaffModule) family(g *gin.RouterGroup, scope entity.Scope, role entity.Role) {
	h := handlers.NewStaffHandler(m.Staff, scope, role, m.Logger)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/by-name/:firstName", h.GetByName)
	g.GET("/:staffId", h.Get)
	g.PATCH("/:staffId", h.Update)
	g.DELETE("/:staffId", h.Delete)
}

func (m *StaffModule) Register(rg *gin.RouterGroup) {
	sr := rg.Group("/carshowroom")
	sr.GET("", m.Showrooms.List)
	sr.GET("/by-name/:name", m.Showrooms.GetByName)
	sr.GET("/:id", m.Showrooms.Get)

	auth := rg.Group("/", m.RequireAuth)
	auth.POST("/carshowroom", m.Showrooms.Create)
	auth.PATCH("/carshowroom/:id", m.Showrooms.Update)
	auth.DELETE("/carshowroom/:id", m.Showrooms.Delete)

	m.family(auth.Group("/admin"), entity.ScopePlatform, entity.RoleAdmin)
	m.family(auth.Group("/manager"), entity.ScopePlatform, entity.RoleManager)
	m.family(auth.Group("/admin-manager", middleware.RequireAccountsAdmin()), entity.ScopePlatform, entity.RoleManager)

	for _, role := range showroomRoles {
		m.family(auth.Group("/carshowroom/:id/"+rolePath(role)), entity.ScopeCarshowroom, role)
		m.family(auth.Group("/admin-carshowroom/:id/"+rolePath(role)), entity.ScopeAdminCarshowroom, role)
	}
}
