package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"nestquest/internal/gate"
	"nestquest/internal/models"
	"nestquest/internal/roles"
	"nestquest/internal/session"

	"github.com/gin-gonic/gin"
)

// RequireSession blocks routes that need a signed-in user. Browser
// requests get redirected to the login page with the original
// destination preserved so it can be restored after sign-in; API
// clients get a plain 401.
func RequireSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := store.Current(); ok {
			c.Next()
			return
		}

		if wantsHTML(c) {
			from := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, "/login?from="+from)
			c.Abort()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		c.Abort()
	}
}

// RequireRoleAccess resolves the signed-in user's role and rejects
// dashboard paths outside that role's section. Must run after
// RequireSession. The resolved role is stored in the context for
// handlers that branch on it.
func RequireRoleAccess(store *session.Store, resolver *roles.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, ok := store.Current()
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		role := resolver.Resolve(c.Request.Context(), current)
		c.Set("role", role)

		if !gate.Allowed(role, c.Request.URL.Path) {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole restricts a route group to the listed roles. Runs after
// RequireSession. This is display-layer gating; the backend re-checks
// authorization on every privileged mutation regardless.
func RequireRole(store *session.Store, resolver *roles.Resolver, allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, ok := store.Current()
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		role := resolver.Resolve(c.Request.Context(), current)
		c.Set("role", role)

		for _, want := range allowed {
			if role == want {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		c.Abort()
	}
}

// RoleFromContext returns the role stored by RequireRoleAccess,
// defaulting to the ordinary user role when absent.
func RoleFromContext(c *gin.Context) models.Role {
	if v, exists := c.Get("role"); exists {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return models.RoleUser
}

func wantsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}
