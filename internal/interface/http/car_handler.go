package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/internal/domain/entity"
)

// CarHandler serves the public catalogue.
type CarHandler struct {
	CarsSvc *application.CarService
	Cars    carMapper
	Logger  *logrus.Logger
}

func NewCarHandler(cars *application.CarService, currency *application.CurrencyService, logger *logrus.Logger) *CarHandler {
	return &CarHandler{CarsSvc: cars, Cars: carMapper{Currency: currency}, Logger: logger}
}

func carFilter(c *gin.Context) entity.CarFilter {
	yearFrom, _ := strconv.Atoi(c.Query("yearFrom"))
	yearTo, _ := strconv.Atoi(c.Query("yearTo"))
	return entity.CarFilter{
		Make:     c.Query("make"),
		Model:    c.Query("model"),
		Region:   c.Query("region"),
		YearFrom: yearFrom,
		YearTo:   yearTo,
	}
}

// List GET /car?make=&model=&region=&yearFrom=&yearTo=&limit=&offset=
func (h *CarHandler) List(c *gin.Context) {
	page, err := h.CarsSvc.ListCars(c.Request.Context(), carFilter(c), pageParams(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	writeList(c, h.Cars.many(c.Request.Context(), page.Items), page.Total)
}

// Search GET /car/search?q=
func (h *CarHandler) Search(c *gin.Context) {
	page, err := h.CarsSvc.SearchCars(c.Request.Context(), c.Query("q"), pageParams(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	writeList(c, h.Cars.many(c.Request.Context(), page.Items), page.Total)
}

// Get GET /car/:id counts the view and reports the running total.
func (h *CarHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	car, err := h.CarsSvc.GetCar(ctx, id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := h.Cars.one(ctx, car)
	views := h.CarsSvc.Views(ctx, id)
	out.Views = &views
	c.JSON(http.StatusOK, out)
}
