package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/pkg/config"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/manifest"
)

type initConfig struct {
	force bool
}

func newInitCmd() *cobra.Command {
	frontendCfg := initConfig{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new empty manifest",
		Long: `Create a new empty manifest at the configured location.

The manifest starts with a fresh identity and no updates, datastore mappings
or migrations. An existing manifest is never replaced unless --force is given.

Example: Start a YAML manifest

$ updraft --manifest ./manifest.yaml init
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitCmd(cmd, manifest.InitCfg{Force: frontendCfg.force})
		},
	}

	cmd.Flags().BoolVar(&frontendCfg.force, "force", false, "Replace an existing manifest (its contents are lost).")
	return cmd
}

func runInitCmd(cmd *cobra.Command, backendCfg manifest.InitCfg) error {
	m, err := manifest.Init(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}
	cmdfmt.Printf("Created empty manifest %s at %s.\n", m.Metadata.ID, viper.GetString(config.ManifestKey))
	return nil
}
