package query

import (
	"github.com/spf13/cobra"
)

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Answer read-only questions about the manifest",
		Long: `Answer read-only questions about the manifest: what a device with a given
fleet seed would see, and how a datastore migration would run. Nothing is
written.`,
	}

	cmd.AddCommand(newWaveCmd())
	cmd.AddCommand(newMigrationPathCmd())
	cmd.AddCommand(newUpgradableCmd())

	return cmd
}
