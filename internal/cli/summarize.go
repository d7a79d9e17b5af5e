package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/pricing"
	billingv1 "github.com/fekuna/omnipos-billing-service/pkg/api/billingv1"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newSummarizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize [FILE]",
		Short: "Total a JSON array of line items",
		Long: `summarize reads a JSON array of lines in the API's line input format from
FILE or stdin, sanitizes them like the cart form does and prints the totals.
Catalog references are not resolved; every line must carry its own price.`,
		Example: `  echo '[{"quantity":2,"unit_price":"500","tax_rate_percent":12}]' | billingctl summarize --discount 20`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSummarize,
	}
	cmd.Flags().String("discount", "0", "Invoice level discount subtracted from the gross")
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	return cmd
}

func runSummarize(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var lines []billingv1.LineInput
	if err := json.NewDecoder(in).Decode(&lines); err != nil {
		return fmt.Errorf("decode lines: %w", err)
	}

	rawDiscount, _ := cmd.Flags().GetString("discount")
	discount, err := decimal.NewFromString(rawDiscount)
	if err != nil || discount.IsNegative() {
		return fmt.Errorf("discount must be a non-negative number, got %q", rawDiscount)
	}

	items := make([]model.LineItem, len(lines))
	for i, l := range lines {
		items[i] = model.LineItem{
			Description:    l.Description,
			Quantity:       pricing.NormalizeQuantity(string(l.Quantity)),
			UnitPrice:      pricing.NormalizeAmount(string(l.UnitPrice)),
			TaxRatePercent: pricing.NormalizeAmount(string(l.TaxRatePercent)),
		}
		pricing.Apply(&items[i])
	}

	summary := pricing.Summarize(items, discount)
	if discount.GreaterThan(summary.Gross()) {
		return fmt.Errorf("discount %s exceeds gross %s", discount, summary.Gross())
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	for i, it := range items {
		fmt.Fprintf(out, "%3d  %-24s %4d x %10s  %10s\n", i+1, it.Description, it.Quantity,
			pricing.Format(it.UnitPrice), pricing.Format(it.Total))
	}
	fmt.Fprintf(out, "subtotal:  %s\n", pricing.Format(summary.Subtotal))
	fmt.Fprintf(out, "tax:       %s\n", pricing.Format(summary.TotalTax))
	fmt.Fprintf(out, "discounts: %s\n", pricing.Format(summary.Discounts))
	fmt.Fprintf(out, "total:     %s\n", pricing.Format(summary.TotalAmount))
	return nil
}
