package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// Recovery converts any panic in the handler chain into a 500 with the
// message and stack in the body. Coarse on purpose: the goal is never
// to crash silently, not to classify failures. The panic is also
// forwarded to the error collector when one is configured.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := string(debug.Stack())
				log.Printf("[PANIC] %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, rec, stack)

				if hub := sentry.CurrentHub(); hub.Client() != nil {
					hub.Recover(rec)
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": fmt.Sprintf("%v", rec),
					"stack": stack,
				})
			}
		}()
		c.Next()
	}
}
