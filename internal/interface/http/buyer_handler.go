package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/internal/domain/entity"
)

type BuyerHandler struct {
	Buyers   *application.BuyerService
	Wishlist *application.WishlistService
	Cars     carMapper
	Logger   *logrus.Logger
}

func NewBuyerHandler(buyers *application.BuyerService, wishlist *application.WishlistService, currency *application.CurrencyService, logger *logrus.Logger) *BuyerHandler {
	return &BuyerHandler{Buyers: buyers, Wishlist: wishlist, Cars: carMapper{Currency: currency}, Logger: logger}
}

// Create POST /buyer (multipart or JSON, optional avatar "file")
func (h *BuyerHandler) Create(c *gin.Context) {
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
	b, err := h.Buyers.Create(c.Request.Context(), req.input(avatar))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, toBuyerDTO(b))
}

// Get GET /buyer/:id
func (h *BuyerHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	b, err := h.Buyers.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toBuyerDTO(b))
}

// GetByName GET /buyer/by-name/:firstName
func (h *BuyerHandler) GetByName(c *gin.Context) {
	b, err := h.Buyers.GetByName(c.Request.Context(), c.Param("firstName"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toBuyerDTO(b))
}

// List GET /buyer?limit=&offset=
func (h *BuyerHandler) List(c *gin.Context) {
	page, err := h.Buyers.List(c.Request.Context(), pageParams(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	writeList(c, mapAll(page.Items, toBuyerDTO), page.Total)
}

// owned loads the buyer behind :id and checks the caller may act on it.
func (h *BuyerHandler) owned(c *gin.Context) (string, bool) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return "", false
	}
	b, err := h.Buyers.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return "", false
	}
	if !canActFor(c, b.UserID) {
		forbid(c)
		return "", false
	}
	return id, true
}

// Update PATCH /buyer/:id (auth)
func (h *BuyerHandler) Update(c *gin.Context) {
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
	b, err := h.Buyers.Update(c.Request.Context(), id, req.input(avatar))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toBuyerDTO(b))
}

// Delete DELETE /buyer/:id (auth)
func (h *BuyerHandler) Delete(c *gin.Context) {
	id, ok := h.owned(c)
	if !ok {
		return
	}
	if err := h.Buyers.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	deleted(c)
}

// AddWishlist POST /buyer/:id/wishlist/:carId (auth)
func (h *BuyerHandler) AddWishlist(c *gin.Context) {
	id, ok := h.owned(c)
	if !ok {
		return
	}
	carID, ok := uuidParam(c, "carId")
	if !ok {
		return
	}
	item, err := h.Wishlist.Add(c.Request.Context(), id, carID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	items := h.Cars.wishlist(c.Request.Context(), []entity.WishlistItem{*item})
	c.JSON(http.StatusCreated, items[0])
}

// ListWishlist GET /buyer/:id/wishlist (auth)
func (h *BuyerHandler) ListWishlist(c *gin.Context) {
	id, ok := h.owned(c)
	if !ok {
		return
	}
	items, err := h.Wishlist.List(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := h.Cars.wishlist(c.Request.Context(), items)
	writeList(c, out, int64(len(out)))
}

// RemoveWishlist DELETE /buyer/:id/wishlist/:carId (auth)
func (h *BuyerHandler) RemoveWishlist(c *gin.Context) {
	id, ok := h.owned(c)
	if !ok {
		return
	}
	carID, ok := uuidParam(c, "carId")
	if !ok {
		return
	}
	if err := h.Wishlist.Remove(c.Request.Context(), id, carID); err != nil {
		fail(c, h.Logger, err)
		return
	}
	deleted(c)
}
