package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/pkg/apperror"
)

type CurrencyHandler struct {
	Currency *application.CurrencyService
	Logger   *logrus.Logger
}

func NewCurrencyHandler(currency *application.CurrencyService, logger *logrus.Logger) *CurrencyHandler {
	return &CurrencyHandler{Currency: currency, Logger: logger}
}

// Rates GET /currency
func (h *CurrencyHandler) Rates(c *gin.Context) {
	r, err := h.Currency.Rates(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

type convertResponse struct {
	Amount string `json:"amount"`
	From   string `json:"from"`
	To     string `json:"to"`
	Result string `json:"result"`
}

// Convert GET /currency/convert?amount=&from=&to=
func (h *CurrencyHandler) Convert(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		fail(c, h.Logger, apperror.Validation("amount must be a number"))
		return
	}
	from, err := parseCurrency(c.Query("from"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	to, err := parseCurrency(c.Query("to"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	res, err := h.Currency.Convert(c.Request.Context(), amount, from, to)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, convertResponse{
		Amount: amount.StringFixed(2),
		From:   string(from),
		To:     string(to),
		Result: res.StringFixed(2),
	})
}
