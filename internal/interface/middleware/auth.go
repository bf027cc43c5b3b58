package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/helpers"
	"github.com/anycompany/carmarket/pkg/response"
)

// SessionChecker confirms that a token's session was not ended by logout or a password reset.
type SessionChecker interface {
	SessionActive(ctx context.Context, userID, sid string) (bool, error)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if tok, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
		return tok
	}
	return ""
}

// Auth validates the access token from the Authorization header or the access_token cookie
// and, when sessions is set, that its session is still the active one.
// It stores the caller's claims in the Gin context on success.
func Auth(jwt *helpers.JWTManager, sessions SessionChecker, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "invalid access token", nil)
			return
		}
		if sessions != nil {
			ok, err := sessions.SessionActive(c.Request.Context(), claims.UserID, claims.SessionID)
			if err != nil {
				helpers.LogWarn(logger, "session lookup failed", err, logrus.Fields{"user_id": claims.UserID})
				response.Error(c, http.StatusServiceUnavailable, apperror.CodeDependency, "session store unavailable", nil)
				return
			}
			if !ok {
				response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "session not found", nil)
				return
			}
		}
		setClaims(c, claims)
		c.Next()
	}
}
