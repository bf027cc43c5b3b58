package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/internal/domain/policy"
	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/helpers"
	"github.com/anycompany/carmarket/pkg/response"
)

const (
	CtxUserIDKey     = "userID"
	CtxRoleKey       = "userRole"
	CtxScopeKey      = "userScope"
	CtxShowroomIDKey = "userShowroomID"
	CtxSessionIDKey  = "sessionID"
)

func setClaims(c *gin.Context, claims *helpers.Claims) {
	c.Set(CtxUserIDKey, claims.UserID)
	c.Set(CtxRoleKey, claims.Role)
	c.Set(CtxScopeKey, claims.Scope)
	c.Set(CtxShowroomIDKey, claims.ShowroomID)
	c.Set(CtxSessionIDKey, claims.SessionID)
}

// ActorFrom returns the authenticated caller; the zero Actor when Auth did not run.
func ActorFrom(c *gin.Context) policy.Actor {
	return policy.Actor{
		UserID:     c.GetString(CtxUserIDKey),
		Role:       entity.Role(c.GetString(CtxRoleKey)),
		Scope:      entity.Scope(c.GetString(CtxScopeKey)),
		ShowroomID: c.GetString(CtxShowroomIDKey),
	}
}

// RequireAccountsAdmin guards the admin namespaces over buyers, sellers and premium.
func RequireAccountsAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !policy.CanManageAccounts(ActorFrom(c)) {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "You do not have permission to perform this action", nil)
			return
		}
		c.Next()
	}
}
