package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/application"
)

type SellerHandler struct {
	Sellers *application.SellerService
	CarsSvc *application.CarService
	Cars    carMapper
	Logger  *logrus.Logger
}

func NewSellerHandler(sellers *application.SellerService, cars *application.CarService, currency *application.CurrencyService, logger *logrus.Logger) *SellerHandler {
	return &SellerHandler{Sellers: sellers, CarsSvc: cars, Cars: carMapper{Currency: currency}, Logger: logger}
}

// Create POST /seller (multipart or JSON, optional avatar "file")
func (h *SellerHandler) Create(c *gin.Context) {
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
	s, err := h.Sellers.Create(c.Request.Context(), req.input(avatar))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, toSellerDTO(s))
}

// Get GET /seller/:id
func (h *SellerHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	s, err := h.Sellers.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toSellerDTO(s))
}

// GetByName GET /seller/by-name/:firstName
func (h *SellerHandler) GetByName(c *gin.Context) {
	s, err := h.Sellers.GetByName(c.Request.Context(), c.Param("firstName"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toSellerDTO(s))
}

// List GET /seller?limit=&offset=
func (h *SellerHandler) List(c *gin.Context) {
	page, err := h.Sellers.List(c.Request.Context(), pageParams(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	writeList(c, mapAll(page.Items, toSellerDTO), page.Total)
}

func (h *SellerHandler) owned(c *gin.Context) (string, bool) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return "", false
	}
	s, err := h.Sellers.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return "", false
	}
	if !canActFor(c, s.UserID) {
		forbid(c)
		return "", false
	}
	return id, true
}

// Update PATCH /seller/:id (auth)
func (h *SellerHandler) Update(c *gin.Context) {
	id, ok := h.owned(c)
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
	s, err := h.Sellers.Update(c.Request.Context(), id, req.input(avatar))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toSellerDTO(s))
}

// Delete DELETE /seller/:id (auth); the seller's cars go with it.
func (h *SellerHandler) Delete(c *gin.Context) {
	id, ok := h.owned(c)
	if !ok {
		return
	}
	if err := h.Sellers.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	deleted(c)
}

// CreateCar POST /seller/:id/car (auth, multipart photos under "image")
func (h *SellerHandler) CreateCar(c *gin.Context) {
	sellerID, ok := h.owned(c)
	if !ok {
		return
	}
	var req createCarRequest
	if !bindBody(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	images, closeAll, err := formFiles(c, "image")
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer closeAll()
	car, err := h.CarsSvc.CreateCar(c.Request.Context(), sellerID, in, images)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, h.Cars.one(c.Request.Context(), car))
}

// ListCars GET /seller/:id/car
func (h *SellerHandler) ListCars(c *gin.Context) {
	sellerID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	page, err := h.CarsSvc.ListSellerCars(c.Request.Context(), sellerID, pageParams(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	writeList(c, h.Cars.many(c.Request.Context(), page.Items), page.Total)
}

// GetCar GET /seller/:id/car/:carId
func (h *SellerHandler) GetCar(c *gin.Context) {
	sellerID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	carID, ok := uuidParam(c, "carId")
	if !ok {
		return
	}
	car, err := h.CarsSvc.GetSellerCar(c.Request.Context(), sellerID, carID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, h.Cars.one(c.Request.Context(), car))
}

// UpdateCar PATCH /seller/:id/car/:carId (auth, extra photos under "image")
func (h *SellerHandler) UpdateCar(c *gin.Context) {
	sellerID, ok := h.owned(c)
	if !ok {
		return
	}
	carID, ok := uuidParam(c, "carId")
	if !ok {
		return
	}
	var req updateCarRequest
	if !bindBody(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	images, closeAll, err := formFiles(c, "image")
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer closeAll()
	car, err := h.CarsSvc.UpdateCar(c.Request.Context(), sellerID, carID, patch, images)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, h.Cars.one(c.Request.Context(), car))
}

// DeleteCar DELETE /seller/:id/car/:carId (auth)
func (h *SellerHandler) DeleteCar(c *gin.Context) {
	sellerID, ok := h.owned(c)
	if !ok {
		return
	}
	carID, ok := uuidParam(c, "carId")
	if !ok {
		return
	}
	if err := h.CarsSvc.DeleteCar(c.Request.Context(), sellerID, carID); err != nil {
		fail(c, h.Logger, err)
		return
	}
	deleted(c)
}
