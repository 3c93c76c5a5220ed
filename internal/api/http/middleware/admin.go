package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"sheetworks-back/internal/api/http/handler"
)

const adminPasswordHeader = "X-Admin-Password"

// AdminAuth guards the admin surface with a shared password header.
// An unset password locks the surface entirely.
func AdminAuth(password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.GetHeader(adminPasswordHeader)

		if password == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(password)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.ErrorResponse{
				Error: handler.MsgAdminRequired,
			})

			return
		}

		c.Next()
	}
}
