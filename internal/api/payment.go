package api

import (
	"context"  // Request scoped context
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"auth_pay_service/internal/domain"     // Importing domain models
	"auth_pay_service/internal/middleware" // Caller identity
	"auth_pay_service/internal/payment"    // Payment processing
	"auth_pay_service/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// PaymentProcessor applies a signed payment on behalf of a caller
type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, p domain.WebhookPayment, caller domain.Identity) (*domain.Transaction, error)
}

// paymentRejections pairs each rejection with its HTTP status and message.
// Missing user and missing account are reported as 403, not 404.
var paymentRejections = []struct {
	err     error
	status  int
	message string
}{
	{payment.ErrInvalidSignature, http.StatusForbidden, "Invalid signature"},
	{payment.ErrUserNotFound, http.StatusForbidden, "User not found"},
	{payment.ErrIdentityMismatch, http.StatusForbidden, "invalid user specified"},
	{payment.ErrAccountNotFound, http.StatusForbidden, "Account not found"},
	{payment.ErrAccountOwnershipMismatch, http.StatusForbidden, "The account specified is not the current user"},
	{payment.ErrDuplicateTransaction, http.StatusBadRequest, "Transaction already exists"},
}

// PaymentStatus maps a processing error to the HTTP status and message sent to the client
func PaymentStatus(err error) (int, string) {
	for _, r := range paymentRejections {
		if errors.Is(err, r.err) {
			return r.status, r.message
		}
	}
	return http.StatusInternalServerError, "Payment failed"
}

// PaymentHandler accepts a payment webhook from the authenticated caller
func PaymentHandler(processor PaymentProcessor, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, exists := middleware.IdentityFrom(c) // Get identity from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		var req domain.WebhookPayment // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request"})
			return
		}
		// Amounts the ledger columns would round are refused before processing
		if !req.AmountFits() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid amount"})
			return
		}
		ctx := c.Request.Context()
		if _, err := processor.ProcessPayment(ctx, req, identity); err != nil {
			status, message := PaymentStatus(err)
			c.JSON(status, gin.H{"error": message})
			return
		}
		// Invalidate cached listings of the credited user
		_ = utils.DeleteCache(ctx, rdb, utils.AccountsCacheKey(identity.ID), utils.TransactionsCacheKey(identity.ID))
		c.JSON(http.StatusOK, gin.H{"status_code": http.StatusOK, "transaction": "payment successful"})
	}
}
