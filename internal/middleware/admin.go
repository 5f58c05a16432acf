package middleware

import (
	"net/http" // HTTP status codes

	"auth_pay_service/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// AdminOnlyMiddleware checks the caller's admin flag against the database on each request,
// so a revoked or deactivated admin loses access before their token expires
func AdminOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, exists := IdentityFrom(c) // Get identity from context
		// Check if identity exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.WithContext(c.Request.Context()).First(&user, identity.ID).Error; err != nil {
			// If user not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You don't have permission"})
			return
		}
		// Check admin flag and that the account is still active
		if !user.IsAdmin || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You don't have permission"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
