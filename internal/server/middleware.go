package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal_email"

// AuthMiddleware resolves the bearer token to the principal's email and
// stores it on the request context.
func (s *Server) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		email, err := s.authSvc.Authenticate(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(principalKey, email)
		c.Next()
	}
}

func principalEmail(c *gin.Context) string {
	return c.GetString(principalKey)
}
