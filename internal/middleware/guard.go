package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workpulse/internal/access"
)

// Guard aborts with the guard's verdict unless it allows the current
// session. Unauthenticated callers get 401, everyone else 403.
func Guard(g access.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := StoreFrom(c)
		if store == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		session := store.Session()
		verdict := g(session)
		if verdict.Allowed() {
			c.Next()
			return
		}

		status := http.StatusForbidden
		if session == nil {
			status = http.StatusUnauthorized
		}
		c.AbortWithStatusJSON(status, gin.H{
			"error":   "access_denied",
			"verdict": verdict,
		})
	}
}
