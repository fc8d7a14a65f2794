package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"plate-plan.backend/internal/domain/repositories"
)

// RequireVerifiedEmail blocks requests from accounts that have not confirmed
// their email address. Must run after AuthMiddleware.
func RequireVerifiedEmail(userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		if !user.IsVerified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "email verification required",
			})
			return
		}

		c.Next()
	}
}
