package cli

import (
	"fmt"

	"github.com/fekuna/omnipos-billing-service/internal/pricing"
	"github.com/spf13/cobra"
)

func newPriceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "price QUANTITY UNIT_PRICE [TAX_RATE_PERCENT]",
		Short: "Price a single line item",
		Example: `  # 2 nights at 500 with 12% tax
  billingctl price 2 500 12`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate := ""
			if len(args) == 3 {
				rate = args[2]
			}
			qty := pricing.NormalizeQuantity(args[0])
			p := pricing.PriceLineItem(qty, pricing.NormalizeAmount(args[1]), pricing.NormalizeAmount(rate))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "quantity:  %d\n", qty)
			fmt.Fprintf(out, "subtotal:  %s\n", pricing.Format(p.Subtotal))
			fmt.Fprintf(out, "tax:       %s\n", pricing.Format(p.TaxAmount))
			fmt.Fprintf(out, "total:     %s\n", pricing.Format(p.Total))
			return nil
		},
	}
}
