package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

const (
	msgNoToken         = "No token, authorization denied."
	msgMalformedHeader = "Authorization header must be: Bearer <token>."
)

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error(c.Request.Context(), "request", args...)
			return
		}
		s.logger.Info(c.Request.Context(), "request", args...)
	}
}

// bearerAuth verifies the session token and stores its claims on the context.
func (s *HTTPServer) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, messageResponse{Message: msgNoToken})
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, common.BearerScheme) || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, messageResponse{Message: msgMalformedHeader})
			return
		}

		claims, err := s.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	v, _ := c.Get(claimsKey)
	claims, _ := v.(*auth.Claims)
	return claims
}
