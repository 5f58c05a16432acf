package utils

import (
	"errors" // Error matching
	"time"   // Time for token expiration

	"auth_pay_service/internal/domain" // Identity value

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrTokenExpired is returned by ParseJWT for a well-signed token past its exp
var ErrTokenExpired = errors.New("token expired")

// JWT Claims
type Claims struct {
	UserID               uint   `json:"id"`       // User ID
	Username             string `json:"username"` // Username
	IsAdmin              bool   `json:"is_admin"` // Admin flag
	jwt.RegisteredClaims        // Standard JWT claims
}

// Identity converts the claims into the caller identity
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{ID: c.UserID, Username: c.Username, IsAdmin: c.IsAdmin}
}

// GenerateJWT creates a JWT token for a user, valid for ttl
func GenerateJWT(user domain.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	// Set token claims
	claims := Claims{
		UserID:   user.ID,       // User ID
		Username: user.Username, // Username
		IsAdmin:  user.IsAdmin,  // Admin flag
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string. Tokens without exp are rejected.
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	// Check for parsing errors
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrTokenExpired
	}
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID != 0 && claims.Username != "" {
		return claims, nil // Return claims if valid
	}
	// Return error if token is invalid
	return nil, jwt.ErrTokenInvalidClaims
}
