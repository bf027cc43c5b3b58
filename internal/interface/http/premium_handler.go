package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/internal/interface/middleware"
)

type PremiumHandler struct {
	Premium *application.PremiumService
	Sellers *application.SellerService
	Logger  *logrus.Logger
}

func NewPremiumHandler(premium *application.PremiumService, sellers *application.SellerService, logger *logrus.Logger) *PremiumHandler {
	return &PremiumHandler{Premium: premium, Sellers: sellers, Logger: logger}
}

type priceStatsDTO struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

type carStatsDTO struct {
	CarID         string         `json:"carId"`
	Make          string         `json:"make"`
	Model         string         `json:"model"`
	Region        string         `json:"region"`
	Price         string         `json:"price"`
	Currency      string         `json:"currency"`
	Views         int64          `json:"views"`
	AveragePrice  priceStatsDTO  `json:"averagePrice"`
	AverageRegion *priceStatsDTO `json:"averageRegionPrice,omitempty"`
}

type sellerStatsDTO struct {
	SellerID     string        `json:"sellerId"`
	PremiumUntil *time.Time    `json:"premiumUntil,omitempty"`
	Cars         []carStatsDTO `json:"cars"`
}

func toSellerStatsDTO(s *application.SellerStats) sellerStatsDTO {
	out := sellerStatsDTO{SellerID: s.SellerID, PremiumUntil: s.PremiumUntil, Cars: make([]carStatsDTO, 0, len(s.Cars))}
	for _, cs := range s.Cars {
		d := carStatsDTO{
			CarID:        cs.CarID,
			Make:         cs.Make,
			Model:        cs.Model,
			Region:       cs.Region,
			Price:        cs.Price,
			Currency:     string(cs.Currency),
			Views:        cs.Views,
			AveragePrice: priceStatsDTO{Count: cs.AveragePrice.Count, Average: cs.AveragePrice.Average},
		}
		if cs.Region != "" {
			d.AverageRegion = &priceStatsDTO{Count: cs.AverageRegion.Count, Average: cs.AverageRegion.Average}
		}
		out.Cars = append(out.Cars, d)
	}
	return out
}

// Grant POST /admin-seller-premium/:id {months}
func (h *PremiumHandler) Grant(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Months int `json:"months" form:"months" binding:"required,min=1,max=24"`
	}
	if !bindBody(c, &req) {
		return
	}
	s, err := h.Premium.Grant(c.Request.Context(), id, req.Months)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toSellerDTO(s))
}

// Revoke DELETE /admin-seller-premium/:id
func (h *PremiumHandler) Revoke(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	s, err := h.Premium.Revoke(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toSellerDTO(s))
}

// Stats GET /seller-premium/:id/stats (auth, the seller or platform staff)
func (h *PremiumHandler) Stats(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	seller, err := h.Sellers.Get(ctx, id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	actor := middleware.ActorFrom(c)
	if actor.UserID != seller.UserID && !actor.IsPlatformStaff() {
		forbid(c)
		return
	}
	stats, err := h.Premium.Stats(ctx, id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toSellerStatsDTO(stats))
}
