package api

import (
	"net/http" // HTTP status codes
	"time"     // Token lifetime

	"auth_pay_service/internal/domain" // Importing domain models
	"auth_pay_service/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// TokenRequest is the OAuth2 password form posted to /auth/token
type TokenRequest struct {
	Username string `form:"username" binding:"required"` // Username must be provided
	Password string `form:"password" binding:"required"` // Password must be provided
}

// TokenResponse carries the issued bearer token
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT token
	TokenType   string `json:"token_type"`   // Always "bearer"
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TokenRequest // Bind form to struct
		if err := c.ShouldBind(&req); err != nil {
			// If binding fails, return unprocessable entity
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		err := db.WithContext(c.Request.Context()).Where("username = ?", req.Username).First(&user).Error
		// Unknown user, wrong password and inactive user all look the same to the client
		if err != nil ||
			bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil ||
			!user.IsActive {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication credentials"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user, jwtSecret, ttl)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"error":   err.Error(), // Error message
			}).Error("Failed to generate token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}
