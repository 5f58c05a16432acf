package payment

import "errors"

// Rejections. Each is terminal for the request and never retried here.
var (
	ErrInvalidSignature         = errors.New("payment: invalid signature")
	ErrUserNotFound             = errors.New("payment: user not found")
	ErrIdentityMismatch         = errors.New("payment: caller is not the paying user")
	ErrAccountNotFound          = errors.New("payment: account not found")
	ErrAccountOwnershipMismatch = errors.New("payment: account not owned by caller")
	ErrDuplicateTransaction     = errors.New("payment: transaction already exists")
)

var rejections = []error{
	ErrInvalidSignature,
	ErrUserNotFound,
	ErrIdentityMismatch,
	ErrAccountNotFound,
	ErrAccountOwnershipMismatch,
	ErrDuplicateTransaction,
}

// IsRejection reports whether err is one of the payment rejections rather
// than an infrastructure failure.
func IsRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
