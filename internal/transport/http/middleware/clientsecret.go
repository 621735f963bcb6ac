package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"ragapi/internal/transport/http/response"
)

// HeaderClientSecret carries the shared secret every protected request
// must present.
const HeaderClientSecret = "X-Client-Secret"

func ClientSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := strings.TrimSpace(c.GetHeader(HeaderClientSecret))
		if provided == "" || provided != secret {
			response.Error(c, 401, response.CodeUnauthorized, "invalid client secret key")
			c.Abort()
			return
		}
		c.Next()
	}
}
