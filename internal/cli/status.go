package cli

import (
	"fmt"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/ledger"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Classify an invoice balance from its payments",
		Example: `  billingctl status --total 1120 --paid 500 --due 2026-03-08
  billingctl status --total 1120 --paid 500 --paid 620`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
	cmd.Flags().String("total", "", "Invoice total amount (required)")
	cmd.Flags().StringSlice("paid", nil, "Payment amount, repeatable")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD, default: never overdue)")
	cmd.Flags().String("now", "", "Evaluate as of this date (YYYY-MM-DD, default: today)")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	rawTotal, _ := cmd.Flags().GetString("total")
	total, err := decimal.NewFromString(rawTotal)
	if err != nil {
		return fmt.Errorf("invalid total %q: %w", rawTotal, err)
	}

	rawPaid, _ := cmd.Flags().GetStringSlice("paid")
	payments := make([]model.Payment, 0, len(rawPaid))
	for _, raw := range rawPaid {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid payment %q: %w", raw, err)
		}
		payments = ledger.RecordPayment(payments, model.Payment{Amount: amount})
	}

	now := time.Now()
	if raw, _ := cmd.Flags().GetString("now"); raw != "" {
		if now, err = time.Parse(dateLayout, raw); err != nil {
			return fmt.Errorf("invalid --now, use YYYY-MM-DD: %w", err)
		}
	}
	due := now
	if raw, _ := cmd.Flags().GetString("due"); raw != "" {
		if due, err = time.Parse(dateLayout, raw); err != nil {
			return fmt.Errorf("invalid --due, use YYYY-MM-DD: %w", err)
		}
	}

	st := ledger.ComputePaymentStatus(total, payments)
	status := ledger.ClassifyStatus(total, st.OutstandingBalance, due, now)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "total:       %s\n", pricing.Format(total))
	fmt.Fprintf(out, "paid:        %s\n", pricing.Format(st.TotalPaid))
	fmt.Fprintf(out, "outstanding: %s\n", pricing.Format(st.OutstandingBalance))
	fmt.Fprintf(out, "status:      %s\n", status)
	return nil
}
