package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/internal/interface/middleware"
)

type PasswordHandler struct {
	Auth   *application.AuthService
	Logger *logrus.Logger
}

func NewPasswordHandler(auth *application.AuthService, logger *logrus.Logger) *PasswordHandler {
	return &PasswordHandler{Auth: auth, Logger: logger}
}

// Forgot POST /api/password/forgot {email}
// Always 200 so the endpoint does not reveal which emails exist.
func (h *PasswordHandler) Forgot(c *gin.Context) {
	var req struct {
		Email string `json:"email" form:"email" binding:"required,email"`
	}
	if !bindBody(c, &req) {
		return
	}
	if err := h.Auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the address is registered, a reset link has been sent"})
}

// Reset POST /api/password/reset {token, newPassword}
func (h *PasswordHandler) Reset(c *gin.Context) {
	var req struct {
		Token       string `json:"token" form:"token" binding:"required"`
		NewPassword string `json:"newPassword" form:"newPassword" binding:"required,pwd"`
	}
	if !bindBody(c, &req) {
		return
	}
	if err := h.Auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// Change POST /api/password/change {oldPassword, newPassword} (auth)
func (h *PasswordHandler) Change(c *gin.Context) {
	var req struct {
		OldPassword string `json:"oldPassword" form:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" form:"newPassword" binding:"required,pwd"`
	}
	if !bindBody(c, &req) {
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Auth.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword); err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
