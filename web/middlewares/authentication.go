package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/web/common"
	"github.com/gin-gonic/gin"
)

const (
	ActorKey    = "actorId"
	TokenCookie = "attendance.token"
)

type CredentialVerifier interface {
	VerifyCredential(ctx context.Context, token string) (string, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		// Try to get from cookie
		cookie, err := c.Cookie(TokenCookie)
		if err != nil || cookie == "" {
			return "", false
		}
		return cookie, true
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(message string) *common.ErrorResponse {
	return &common.ErrorResponse{Message: message, Reason: core.ReasonAuthInvalid}
}

// Authentication resolves the bearer token to an actor id and stores it
// under ActorKey.
func Authentication(verifier CredentialVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized("No token provided"))
			return
		}

		actorID, err := verifier.VerifyCredential(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, core.ErrAuthInvalid) {
				status, resp := common.NewErrorResponseFor(err)
				c.AbortWithStatusJSON(status, resp)
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized("Invalid or expired token"))
			return
		}

		c.Set(ActorKey, actorID)
		c.Next()
	}
}

// ActorID returns the authenticated actor, or "" on public routes.
func ActorID(c *gin.Context) string {
	return c.GetString(ActorKey)
}
