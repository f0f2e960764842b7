package auth

import (
	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware inspects for a token and sets the user if present and valid,
// but does not fail if the token is missing or invalid.
func OptionalAuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	if authenticator == nil {
		panic("Authenticator cannot be nil for OptionalAuthMiddleware")
	}

	return func(c *gin.Context) {
		if tokenString, err := extractToken(c); err == nil {
			if user, err := authenticator.Authenticate(c.Request.Context(), tokenString); err == nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}
