package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"fieldops/internal/core/apperror"
	appctx "fieldops/internal/core/context"
)

// TokenValidator validates a bearer token and returns the user it
// identifies.
type TokenValidator interface {
	Validate(token string) (*appctx.UserContext, error)
}

// Auth requires a valid bearer token and puts the user into the
// request context.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			_ = c.Error(apperror.NewUnauthorized("missing authorization header"))
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			_ = c.Error(apperror.NewUnauthorized("authorization header must use the Bearer scheme"))
			c.Abort()
			return
		}

		user, err := validator.Validate(token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole allows only users with one of the given roles past.
// Must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		_ = c.Error(apperror.NewForbidden("insufficient role"))
		c.Abort()
	}
}
