package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"playmatch/lobbies/internal/models"
)

// Context keys set by the middlewares.
const (
	ContextUserID = "userID"
	ContextUser   = "user"
)

// ErrMissingAuthHeader is returned when no bearer token was sent.
var ErrMissingAuthHeader = errors.New("missing Authorization header")

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	if authenticator == nil {
		panic("Authenticator cannot be nil for AuthMiddleware")
	}

	return func(c *gin.Context) {
		tokenString, err := extractToken(c)
		if err != nil {
			logrus.WithError(err).Debug("Auth middleware: no usable Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		user, err := authenticator.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			logrus.WithError(err).Warn("Auth middleware: invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by one of the middlewares.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(ContextUserID, user.ID)
	c.Set(ContextUser, user)
}

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("authorization header is not a bearer token")
	}
	return parts[1], nil
}
