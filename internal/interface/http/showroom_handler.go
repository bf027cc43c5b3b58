package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/internal/interface/middleware"
)

type ShowroomHandler struct {
	Showrooms *application.ShowroomService
	Logger    *logrus.Logger
}

func NewShowroomHandler(showrooms *application.ShowroomService, logger *logrus.Logger) *ShowroomHandler {
	return &ShowroomHandler{Showrooms: showrooms, Logger: logger}
}

type createShowroomRequest struct {
	Name        string `json:"name" form:"name" binding:"required,max=120"`
	City        string `json:"city" form:"city" binding:"omitempty,max=100"`
	Address     string `json:"address" form:"address" binding:"omitempty,max=255"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" binding:"omitempty,phone"`
}

type updateShowroomRequest struct {
	Name        *string `json:"name" form:"name" binding:"omitempty,max=120"`
	City        *string `json:"city" form:"city" binding:"omitempty,max=100"`
	Address     *string `json:"address" form:"address" binding:"omitempty,max=255"`
	PhoneNumber *string `json:"phoneNumber" form:"phoneNumber" binding:"omitempty,phone"`
}

// Create POST /carshowroom (platform staff)
func (h *ShowroomHandler) Create(c *gin.Context) {
	var req createShowroomRequest
	if !bindBody(c, &req) {
		return
	}
	sr, err := h.Showrooms.Create(c.Request.Context(), middleware.ActorFrom(c), application.ShowroomInput{
		Name:    req.Name,
		City:    req.City,
		Address: req.Address,
		Phone:   req.PhoneNumber,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, toShowroomDTO(sr))
}

// Get GET /carshowroom/:id
func (h *ShowroomHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	sr, err := h.Showrooms.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toShowroomDTO(sr))
}

// GetByName GET /carshowroom/by-name/:name
func (h *ShowroomHandler) GetByName(c *gin.Context) {
	sr, err := h.Showrooms.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toShowroomDTO(sr))
}

// List GET /carshowroom
func (h *ShowroomHandler) List(c *gin.Context) {
	page, err := h.Showrooms.List(c.Request.Context(), pageParams(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	writeList(c, mapAll(page.Items, toShowroomDTO), page.Total)
}

// Update PATCH /carshowroom/:id (platform staff or the showroom's admins)
func (h *ShowroomHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req updateShowroomRequest
	if !bindBody(c, &req) {
		return
	}
	sr, err := h.Showrooms.Update(c.Request.Context(), middleware.ActorFrom(c), id, application.ShowroomPatch{
		Name:    req.Name,
		City:    req.City,
		Address: req.Address,
		Phone:   req.PhoneNumber,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toShowroomDTO(sr))
}

// Delete DELETE /carshowroom/:id (platform staff)
func (h *ShowroomHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.Showrooms.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	deleted(c)
}
