package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/media-ranker/backend/internal/auth"
	"github.com/emilythestrangee/media-ranker/backend/internal/models"
	"github.com/emilythestrangee/media-ranker/backend/internal/response"
)

const (
	userKey   = "current_user"
	userIDKey = "user_id"
)

// LoadUser resolves the session user from a Bearer token, if any. Requests
// without a valid token continue anonymously.
func LoadUser(tokens *auth.TokenService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.Next()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := tokens.Validate(tokenStr)
		if err != nil {
			c.Next()
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
			c.Next()
			return
		}

		c.Set(userKey, &user)
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// RequireLogin stops anonymous requests before they reach the action.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			response.AbortRedirect(c, http.StatusUnauthorized, "/",
				response.Fail("You must log in to do that", nil))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the session user set by LoadUser.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	raw, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := raw.(*models.User)
	return user, ok && user != nil
}
