package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireJSON rejects mutating requests without a JSON content type. Not
// mounted on the upload route, which takes multipart form data.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			// body-less mutations (mark-read style) have nothing to type-check
			if c.Request.ContentLength == 0 {
				break
			}

			ct := c.GetHeader("Content-Type")
			// allow "application/json; charset=utf-8"
			if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
				c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
					"error": gin.H{
						"code":    "unsupported_media_type",
						"message": "Content-Type must be application/json",
					},
				})
				return
			}
		}
		c.Next()
	}
}
