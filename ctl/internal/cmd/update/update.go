package update

import (
	"github.com/spf13/cobra"
)

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Manage the update catalog",
		Long:  "Add, remove, list and cap the updates published by the manifest.",
	}

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSetMaxVersionCmd())

	return cmd
}
