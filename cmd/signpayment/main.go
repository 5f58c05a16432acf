package main

import (
	"encoding/json"
	"fmt"
	"os"

	"auth_pay_service/internal/config"
	"auth_pay_service/internal/domain"
	"auth_pay_service/internal/payment"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// signpayment plays the payment originator: it prints a signed webhook body
// that can be posted to /transaction/payment.
func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		accountID     uint
		userID        uint
		amount        float64
		transactionID string
	)
	cmd := &cobra.Command{
		Use:   "signpayment",
		Short: "Print a signed payment webhook body",
		RunE: func(cmd *cobra.Command, args []string) error {
			if transactionID == "" {
				transactionID = uuid.NewString()
			} else if _, err := uuid.Parse(transactionID); err != nil {
				return fmt.Errorf("transaction id: %w", err)
			}
			cfg := config.LoadConfig()
			if cfg.WebhookSecret == "" {
				return fmt.Errorf("WEBHOOK_SECRET or JWT_SECRET must be set")
			}
			p := domain.WebhookPayment{
				TransactionID: transactionID,
				AccountID:     accountID,
				UserID:        userID,
				Amount:        amount,
			}
			p.Signature = payment.NewSigner(cfg.WebhookSecret).Sign(p)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}

	cmd.Flags().UintVarP(&accountID, "account", "a", 1, "Account to credit")
	cmd.Flags().UintVarP(&userID, "user", "u", 2, "Paying user")
	cmd.Flags().Float64VarP(&amount, "amount", "m", 20000, "Amount")
	cmd.Flags().StringVarP(&transactionID, "transaction-id", "t", "", "Transaction token (random UUID when empty)")

	return cmd
}
