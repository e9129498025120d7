package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/services"
)

const callerKey = "caller"

// Authenticator resolves a bearer token to the calling profile.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Caller, error)
}

// bearerToken extracts the token from "Authorization: Bearer <token>", or "" if the header is missing or malformed.
func bearerToken(c *gin.Context) string {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Authenticate - middleware that verifies the bearer token and stores the caller in the context
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := auth.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			RespondError(c, err)
			c.Abort()
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// ManagerOnly - middleware that lets only managers through. Must run after Authenticate.
func ManagerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentCaller(c).IsManager() {
			RespondError(c, services.ErrManagerRequired)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentCaller returns the caller stored by Authenticate, nil on unauthenticated routes.
func CurrentCaller(c *gin.Context) *models.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*models.Caller)
	return caller
}
