// Package cli implements billingctl, an operator tool for pricing checks,
// ledger checks and schema migrations.
package cli

import (
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// NewRootCommand builds the billingctl command tree.
func NewRootCommand(log logger.ZapLogger) *cobra.Command {
	root := &cobra.Command{
		Use:   "billingctl",
		Short: "Operator tooling for the billing service",
		Long: `billingctl prices lines and classifies invoice balances offline with the
same rules the billing service applies, and manages the database schema.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPriceCommand(),
		newSummarizeCommand(),
		newStatusCommand(),
		newMigrateCommand(log),
	)
	return root
}
