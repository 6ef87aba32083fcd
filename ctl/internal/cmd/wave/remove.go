package wave

import (
	"fmt"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"

	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/wave"
)

type removeConfig struct {
	version string
}

func newRemoveCmd() *cobra.Command {
	frontendCfg := removeConfig{}
	backendCfg := wave.RemoveCfg{}

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a rollout wave from an update",
		Long: `Remove the wave at the given bound from the update matching the exact
variant, architecture and version. Removing a wave that is not there is not
an error.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := semver.NewVersion(frontendCfg.version)
			if err != nil {
				return fmt.Errorf("invalid --version %q: %w", frontendCfg.version, err)
			}
			backendCfg.Version = *v
			return runRemoveCmd(cmd, backendCfg)
		},
	}

	cmd.Flags().StringVar(&backendCfg.Variant, "variant", "", "The variant of the update to unschedule.")
	cmd.Flags().StringVar(&backendCfg.Arch, "arch", "", "The architecture of the update to unschedule.")
	cmd.Flags().StringVar(&frontendCfg.version, "version", "", "The version of the update to unschedule.")
	cmd.Flags().Uint32Var(&backendCfg.Bound, "bound", 0, "The bound of the wave to remove.")
	cmd.MarkFlagRequired("variant")
	cmd.MarkFlagRequired("arch")
	cmd.MarkFlagRequired("version")
	cmd.MarkFlagRequired("bound")
	return cmd
}

func runRemoveCmd(cmd *cobra.Command, backendCfg wave.RemoveCfg) error {
	removed, err := wave.Remove(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}
	if removed == 0 {
		cmdfmt.Printf("No wave with bound %d found.\n", backendCfg.Bound)
		return nil
	}
	cmdfmt.Printf("Wave with bound %d removed from %d update(s).\n", backendCfg.Bound, removed)
	return nil
}
