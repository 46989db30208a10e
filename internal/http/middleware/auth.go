package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smallbiznis/orgspace-auth/internal/domain"
	"github.com/smallbiznis/orgspace-auth/internal/service"
)

const currentUserKey = "currentUser"

// Auth resolves the bearer token to a user and attaches it to the request.
type Auth struct {
	AuthService *service.AuthService
}

// RequireUser rejects the request with a generic 401 unless the bearer token
// resolves to an existing user. No detail about why authentication failed is
// ever returned.
func (m *Auth) RequireUser(c *gin.Context) {
	user, err := m.AuthService.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		zap.L().Error("authenticate failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Internal server error"})
		return
	}
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
		return
	}

	c.Set(currentUserKey, user)
	c.Next()
}

// CurrentUser exposes the authenticated user to handlers.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}
