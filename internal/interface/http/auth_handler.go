package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/internal/interface/middleware"
	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/helpers"
	"github.com/anycompany/carmarket/pkg/response"
	"github.com/anycompany/carmarket/pkg/validation"
)

type AuthHandler struct {
	Auth    *application.AuthService
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookies: cookies, Logger: logger}
}

// Emptiness is checked by the service so both-empty answers 403 rather than a binding error.
type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type registerRequest struct {
	Email       string `json:"email" form:"email" binding:"required,email"`
	Password    string `json:"password" form:"password" binding:"required,pwd"`
	FirstName   string `json:"firstName" form:"firstName" binding:"omitempty,max=100,noprofanity"`
	LastName    string `json:"lastName" form:"lastName" binding:"omitempty,max=100,noprofanity"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" binding:"omitempty,phone"`
	Role        string `json:"role" form:"role" binding:"omitempty,oneof=buyer seller"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusForbidden, apperror.CodeForbidden, application.MsgCheckParams, nil)
		return
	}
	tok, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetToken(c, tok.Token, tok.ExpiresAt)
	c.JSON(http.StatusOK, tokenResponse{Token: tok.Token})
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, application.MsgRegisterFailed, validation.ToDetails(err))
		return
	}
	tok, err := h.Auth.Register(c.Request.Context(), application.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.PhoneNumber,
		Role:      parseRole(req.Role),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetToken(c, tok.Token, tok.ExpiresAt)
	c.JSON(http.StatusOK, tokenResponse{Token: tok.Token})
}

// Logout POST /api/auth/logout (auth)
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), c.GetString(middleware.CtxUserIDKey)); err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	c.Status(http.StatusOK)
}
