package query

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/query"
)

type migrationPathConfig struct {
	from string
	to   string
}

func newMigrationPathCmd() *cobra.Command {
	frontendCfg := migrationPathConfig{}
	backendCfg := query.MigrationPathCfg{}

	cmd := &cobra.Command{
		Use:   "migration-path",
		Short: "Plan the migration chain between two datastore versions",
		Long: `Plan the ordered chain of migrations a device runs to move its datastore
between two versions, in either direction. The chain uses the manifest's
migration list; a version pair the list does not connect is an error.

Example: Plan the downgrade path back to 1.0

$ updraft query migration-path --from 1.5 --to 1.0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := manifest.ParseDataVersion(frontendCfg.from)
			if err != nil {
				return fmt.Errorf("invalid --from %q: %w", frontendCfg.from, err)
			}
			to, err := manifest.ParseDataVersion(frontendCfg.to)
			if err != nil {
				return fmt.Errorf("invalid --to %q: %w", frontendCfg.to, err)
			}
			backendCfg.From, backendCfg.To = from, to
			return runMigrationPathCmd(cmd, backendCfg)
		},
	}

	cmd.Flags().StringVar(&frontendCfg.from, "from", "", "The datastore version to start from (major[.minor]).")
	cmd.Flags().StringVar(&frontendCfg.to, "to", "", "The datastore version to reach (major[.minor]).")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

func runMigrationPathCmd(cmd *cobra.Command, backendCfg query.MigrationPathCfg) error {
	steps, err := query.MigrationPath(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		cmdfmt.Printf("No migrations needed between %s and %s.\n", backendCfg.From, backendCfg.To)
		return nil
	}
	cmdfmt.Printf("Migrating from %s to %s takes %d step(s):\n", backendCfg.From, backendCfg.To, len(steps))
	for i, step := range steps {
		cmdfmt.Printf("  %d. %s\n", i+1, step)
	}
	return nil
}
