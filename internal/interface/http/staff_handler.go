package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/interface/middleware"
)

// StaffHandler serves one role family, e.g. the managers of a showroom.
// Showroom scoped families take the showroom from :id; members are addressed by :staffId.
type StaffHandler struct {
	Staff  *application.StaffService
	Scope  entity.Scope
	Role   entity.Role
	Logger *logrus.Logger
}

func NewStaffHandler(staff *application.StaffService, scope entity.Scope, role entity.Role, logger *logrus.Logger) *StaffHandler {
	return &StaffHandler{Staff: staff, Scope: scope, Role: role, Logger: logger}
}

func (h *StaffHandler) target(c *gin.Context) (application.StaffTarget, bool) {
	t := application.StaffTarget{Scope: h.Scope, Role: h.Role}
	if h.Scope.NeedsShowroom() {
		id, ok := uuidParam(c, "id")
		if !ok {
			return t, false
		}
		t.ShowroomID = id
	}
	return t, true
}

// Create POST .../<role>
func (h *StaffHandler) Create(c *gin.Context) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	var req createProfileRequest
	if !bindBody(c, &req) {
		return
	}
	avatar, closeAll, err := formFile(c, "file")
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer closeAll()
	m, err := h.Staff.Create(c.Request.Context(), middleware.ActorFrom(c), t, req.input(avatar))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, toStaffDTO(m))
}

// Get GET .../<role>/:staffId
func (h *StaffHandler) Get(c *gin.Context) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "staffId")
	if !ok {
		return
	}
	m, err := h.Staff.Get(c.Request.Context(), middleware.ActorFrom(c), t, id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toStaffDTO(m))
}

// GetByName GET .../<role>/by-name/:firstName
func (h *StaffHandler) GetByName(c *gin.Context) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	m, err := h.Staff.GetByName(c.Request.Context(), middleware.ActorFrom(c), t, c.Param("firstName"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toStaffDTO(m))
}

// List GET .../<role>
func (h *StaffHandler) List(c *gin.Context) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	page, err := h.Staff.List(c.Request.Context(), middleware.ActorFrom(c), t, pageParams(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	writeList(c, mapAll(page.Items, toStaffDTO), page.Total)
}

// Update PATCH .../<role>/:staffId
func (h *StaffHandler) Update(c *gin.Context) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "staffId")
	if !ok {
		return
	}
	var req updateProfileRequest
	if !bindBody(c, &req) {
		return
	}
	avatar, closeAll, err := formFile(c, "file")
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer closeAll()
	m, err := h.Staff.Update(c.Request.Context(), middleware.ActorFrom(c), t, id, req.input(avatar))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toStaffDTO(m))
}

// Delete DELETE .../<role>/:staffId
func (h *StaffHandler) Delete(c *gin.Context) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "staffId")
	if !ok {
		return
	}
	if err := h.Staff.Delete(c.Request.Context(), middleware.ActorFrom(c), t, id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	deleted(c)
}
