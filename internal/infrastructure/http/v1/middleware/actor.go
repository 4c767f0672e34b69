package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appctx "bizdesk/internal/core/context"
)

// HeaderActor names the person acting through the API. It only labels audit
// entries; there is no authentication.
const HeaderActor = "X-Actor"

// Actor puts the calling actor into the request context for the audit trail.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.GetHeader(HeaderActor))
		if name == "" {
			name = "anonymous"
		}
		ctx := appctx.WithActor(c.Request.Context(), &appctx.Actor{Name: name, Source: "http"})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
