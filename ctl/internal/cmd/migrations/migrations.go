package migrations

import (
	"github.com/spf13/cobra"

	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/migrations"
)

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrations",
		Short: "Manage datastore migrations",
		Long: `Manage the ordered list of migrations devices run to move their datastore
between versions.`,
	}

	cmd.AddCommand(newSetCmd())

	return cmd
}

type setConfig struct {
	release string
}

func newSetCmd() *cobra.Command {
	frontendCfg := setConfig{}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the migration list from a release description",
		Long: `Replace the manifest's whole migration list with the steps from a release
description. The list is replaced, never merged, so the release file must
name every migration devices may still need.

The release description is a TOML file:

  version = "1.5"

  [[migration]]
  from = "1.4"
  to = "1.5"
  name = "migrate_v1.5_add-settings"

Example:

$ updraft migrations set --release ./release.toml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetCmd(cmd, migrations.SetCfg{ReleasePath: frontendCfg.release})
		},
	}

	cmd.Flags().StringVar(&frontendCfg.release, "release", "", "The release description (TOML) to take the migration list from.")
	cmd.MarkFlagRequired("release")
	return cmd
}

func runSetCmd(cmd *cobra.Command, backendCfg migrations.SetCfg) error {
	res, err := migrations.Set(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}
	cmdfmt.Printf("Migration list replaced with %d step(s) from release %s:\n",
		len(res.Steps), res.Version)
	for _, step := range res.Steps {
		cmdfmt.Printf("  %s\n", step)
	}
	return nil
}
