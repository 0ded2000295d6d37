package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/vcsrentals/rentals-backend/pkg/utils"
)

// CookieName is the HTTP-only session cookie holding the signed token.
const CookieName = "jwt"

// Capability is the access level a route requires.
type Capability int

const (
	// Public routes need no token at all.
	Public Capability = iota
	// Authenticated routes need a valid, unexpired, correctly-signed token.
	Authenticated
	// Admin routes additionally need the token's role claim to be "admin".
	Admin
)

// Policy maps resource:verb to the capability it requires. Routes not listed
// here fall back to Admin so a forgotten entry can never widen access.
var Policy = map[string]Capability{
	"listings:list":   Public,
	"listings:read":   Public,
	"listings:create": Admin,
	"listings:update": Admin,
	"listings:delete": Admin,

	"reservations:list":    Authenticated,
	"reservations:listing": Authenticated,
	"reservations:me":      Authenticated,
	"reservations:read":    Authenticated,
	"reservations:create":  Authenticated,
	"reservations:update":  Authenticated,
	"reservations:delete":  Admin,
	"reservations:feed":    Admin,

	"testimonials:list":   Admin,
	"testimonials:latest": Public,
	"testimonials:read":   Admin,
	"testimonials:create": Admin,
	"testimonials:update": Admin,
	"testimonials:delete": Admin,

	"users:list":         Admin,
	"users:read":         Admin,
	"users:update":       Admin,
	"users:delete":       Admin,
	"users:signup":       Public,
	"users:login":        Public,
	"users:logout":       Authenticated,
	"users:check-auth":   Public,
	"users:check-cookie": Public,

	"uploads:create": Admin,
}

// Authorize gates a route according to the policy table. A token failure is a
// bare 401; a valid token lacking the admin role is a bare 403. On success the
// caller's id and role are placed in the request context.
func Authorize(tm *utils.TokenManager, resource, verb string) gin.HandlerFunc {
	return func(c *gin.Context) {
		level, ok := Policy[resource+":"+verb]
		if !ok {
			level = Admin
		}

		if level == Public {
			c.Next()
			return
		}

		tokenString, err := c.Cookie(CookieName)
		if err != nil || tokenString == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := tm.Validate(tokenString)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		if level == Admin && claims.Role != "admin" {
			c.AbortWithStatus(403)
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("userRole", claims.Role)
		c.Next()
	}
}
