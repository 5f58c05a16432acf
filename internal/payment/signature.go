// Package payment verifies and applies payment webhooks.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"auth_pay_service/internal/domain"
)

// Signer computes and checks webhook signatures with a secret shared with
// the payment originator.
type Signer struct {
	secret []byte
}

// NewSigner returns a Signer for the given shared secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the hex SHA-256 digest of the canonical message for p.
// p.Signature is ignored.
func (s *Signer) Sign(p domain.WebhookPayment) string {
	sum := sha256.Sum256(s.message(p))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether p.Signature matches the digest of p.
func (s *Signer) Verify(p domain.WebhookPayment) bool {
	return hmac.Equal([]byte(s.Sign(p)), []byte(p.Signature))
}

// message concatenates account_id, amount, transaction_id, user_id and the
// secret with no delimiter. Originators already sign this exact layout, so it
// is kept even though adjacent numeric fields can run together
// (account 1 + amount 23.0 reads the same as account 12 + amount 3.0).
func (s *Signer) message(p domain.WebhookPayment) []byte {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(p.AccountID), 10))
	b.WriteString(FormatAmount(p.Amount))
	b.WriteString(p.TransactionID)
	b.WriteString(strconv.FormatUint(uint64(p.UserID), 10))
	b.Write(s.secret)
	return []byte(b.String())
}

// FormatAmount renders a float the way the originator does when signing:
// the shortest round-trip form, always with a fractional part ("100.0"),
// switching to exponent form below 1e-4 and from 1e16 ("1e+16").
func FormatAmount(f float64) string {
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
