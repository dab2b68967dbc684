package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gridbase/backend/pkg/auth"
	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/errors"
)

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(constants.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		constants.ResponseError: "Unauthorized",
		constants.FieldMessage:  message,
		"code":                  errors.CauseUserNotAuthenticated,
		"data":                  nil,
	})
	c.Abort()
}

// RequireAuth validates the bearer token and attaches the principal. Requests
// without a valid token never reach the handler.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "No authorization token provided")
			return
		}
		claims, err := auth.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}
		principal := claims.Principal()
		c.Set(constants.ContextKeyUser, &principal)
		c.Set(constants.ContextKeyToken, token)
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid token is present but lets
// anonymous requests through. The access decision downstream distinguishes the
// anonymous short-circuits from authenticated evaluation.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := auth.ValidateToken(token); err == nil {
				principal := claims.Principal()
				c.Set(constants.ContextKeyUser, &principal)
				c.Set(constants.ContextKeyToken, token)
			}
		}
		c.Next()
	}
}

// Principal returns the verified principal attached to the request, or nil
func Principal(c *gin.Context) *auth.Principal {
	if v, exists := c.Get(constants.ContextKeyUser); exists {
		if p, ok := v.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}
