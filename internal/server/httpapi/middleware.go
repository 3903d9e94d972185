package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkly/inkly/internal/common"
	"github.com/inkly/inkly/internal/logging"
	"github.com/inkly/inkly/internal/server/auth"
)

// accessToken verifies the bearer token and stores the principal in the
// request context. Requests without a valid token stop here with 401.
func accessToken(secret []byte, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			abortUnauthorized(c)
			return
		}

		p, err := auth.ParseToken(strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix)), secret)
		if err != nil {
			logger.Debug(c.Request.Context(), "token rejected", "error", err.Error())
			abortUnauthorized(c)
			return
		}

		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

// requestLogger logs one line per request after it is served.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn(c.Request.Context(), "request served", args...)
			return
		}
		logger.Info(c.Request.Context(), "request served", args...)
	}
}

func principalOf(c *gin.Context) auth.Principal {
	p, _ := auth.FromContext(c.Request.Context())
	return p
}
