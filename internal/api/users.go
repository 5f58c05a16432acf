package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"auth_pay_service/internal/domain"     // Importing domain models
	"auth_pay_service/internal/middleware" // Caller identity
	"auth_pay_service/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// CreateUserRequest is the body of POST /users/
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"` // Unique email
	Username  string `json:"username" binding:"required"`    // Login name
	FirstName string `json:"first_name"`                     // First name
	LastName  string `json:"last_name"`                      // Last name
	Password  string `json:"password" binding:"required"`    // Plain password, hashed before storing
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID       uint   `json:"id"`        // User ID
	Email    string `json:"email"`     // Email
	FullName string `json:"full_name"` // First and last name
}

// UserWithAccountsResponse is a user together with their accounts
type UserWithAccountsResponse struct {
	UserResponse
	Accounts []domain.Account `json:"accounts"` // Accounts with balances
}

// CreateUserHandler creates a user and their account in one transaction (admin only)
func CreateUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request"})
			return
		}
		// Hash the password
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{
			Email:     req.Email,
			Username:  req.Username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Password:  string(hash),
			IsActive:  true,
		}
		// The user and its single account are created together
		err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err // Return error to rollback
			}
			return tx.Create(&domain.Account{UserID: user.ID}).Error
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already registered"})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"email": req.Email,   // Email of the new user
				"error": err.Error(), // Error message
			}).Error("Failed to create user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		logrus.WithField("user_id", user.ID).Info("User created")
		c.JSON(http.StatusCreated, gin.H{"status_code": http.StatusCreated, "transaction": "Successful"})
	}
}

// ListUsersWithAccountsHandler returns active users, newest first, with their accounts (admin only)
func ListUsersWithAccountsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []domain.User // Slice to hold users
		// Preload Accounts relation
		if err := db.WithContext(c.Request.Context()).Preload("Accounts").
			Where("is_active = ?", true).
			Order("id desc").
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		resp := make([]UserWithAccountsResponse, len(users))
		// Map users to response format
		for i, u := range users {
			accounts := u.Accounts
			if accounts == nil {
				accounts = []domain.Account{} // Render [] rather than null
			}
			resp[i] = UserWithAccountsResponse{UserResponse: toUserResponse(u), Accounts: accounts}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// RetrieveUserHandler returns one user (self or admin)
func RetrieveUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadAccessibleUser(c, db, "You can't get someone else's data")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, toUserResponse(*user))
	}
}

// GetUserAccountsHandler returns a user's accounts with balances (self or admin)
func GetUserAccountsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadAccessibleUser(c, db, "You can't get someone else's accounts")
		if !ok {
			return
		}
		ctx := c.Request.Context()                  // Context for DB and Redis
		cacheKey := utils.AccountsCacheKey(user.ID) // Cache key for the listing
		var accounts []domain.Account               // Slice to hold accounts
		// If found in cache, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &accounts); err == nil && found {
			c.JSON(http.StatusOK, accounts)
			return
		}
		if err := db.WithContext(ctx).Where("user_id = ?", user.ID).Order("id").Find(&accounts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accounts"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, accounts, utils.CacheTTL) // Cache the listing
		c.JSON(http.StatusOK, accounts)
	}
}

// GetUserTransactionsHandler returns a user's payments (self or admin)
func GetUserTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadAccessibleUser(c, db, "You can't get someone else's accounts")
		if !ok {
			return
		}
		ctx := c.Request.Context()                      // Context for DB and Redis
		cacheKey := utils.TransactionsCacheKey(user.ID) // Cache key for the listing
		var transactions []domain.Transaction           // Slice to hold transactions
		// If found in cache, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &transactions); err == nil && found {
			c.JSON(http.StatusOK, transactions)
			return
		}
		if err := db.WithContext(ctx).Where("user_id = ?", user.ID).Order("id").Find(&transactions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, transactions, utils.CacheTTL) // Cache the listing
		c.JSON(http.StatusOK, transactions)
	}
}

// loadAccessibleUser resolves :user_id, enforces self-or-admin access and loads the user.
// It writes the error response itself and returns false when the handler should stop.
func loadAccessibleUser(c *gin.Context, db *gorm.DB, forbiddenMsg string) (*domain.User, bool) {
	identity, exists := middleware.IdentityFrom(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid user id"})
		return nil, false
	}
	userID := uint(id)
	// Only admins may look at other users
	if !identity.CanAccess(userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": forbiddenMsg})
		return nil, false
	}
	var user domain.User
	err = db.WithContext(c.Request.Context()).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return nil, false
	}
	return &user, true
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, FullName: u.FullName()}
}
