package wave

import (
	"github.com/spf13/cobra"
)

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wave",
		Short: "Manage rollout waves",
		Long: `Manage the waves that stagger an update's rollout across the fleet.

Each wave pairs a fleet seed bound in [0, 2048) with a start time: devices
whose seed falls below the bound may take the update once the wave's start
time passes. Devices above every bound are eligible immediately, so an update
without waves opens to the whole fleet at once.`,
	}

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())

	return cmd
}
