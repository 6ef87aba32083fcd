package update

import (
	"fmt"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"

	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/update"
)

type setMaxVersionConfig struct {
	maxVersion string
}

func newSetMaxVersionCmd() *cobra.Command {
	frontendCfg := setMaxVersionConfig{}
	backendCfg := update.SetMaxVersionCfg{}

	cmd := &cobra.Command{
		Use:   "set-max-version",
		Short: "Raise the maximum version of one or more groups",
		Long: `Raise the maximum version of every (variant, arch) group matching the
globs. The maximum version caps what devices in a group are offered, so
raising it is what actually releases an already published update.

Maximum versions only ever rise. Members already above the given version keep
theirs, and lowering is not possible.

Example: Release 1.25.0 to every aws variant

$ updraft update set-max-version --max-version 1.25.0 --variant "aws-*"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := semver.NewVersion(frontendCfg.maxVersion)
			if err != nil {
				return fmt.Errorf("invalid --max-version %q: %w", frontendCfg.maxVersion, err)
			}
			backendCfg.MaxVersion = *v
			return runSetMaxVersionCmd(cmd, backendCfg)
		},
	}

	cmd.Flags().StringVar(&frontendCfg.maxVersion, "max-version", "", "The version to raise the group maximum to.")
	cmd.Flags().StringVar(&backendCfg.VariantGlob, "variant", "", "Only raise groups whose variant matches this glob (default: all).")
	cmd.Flags().StringVar(&backendCfg.ArchGlob, "arch", "", "Only raise groups whose architecture matches this glob (default: all).")
	cmd.MarkFlagRequired("max-version")
	return cmd
}

func runSetMaxVersionCmd(cmd *cobra.Command, backendCfg update.SetMaxVersionCfg) error {
	raised, err := update.SetMaxVersion(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}
	if raised == 0 {
		cmdfmt.Printf("Nothing to raise; no matching update is below %s.\n", backendCfg.MaxVersion.String())
		return nil
	}
	cmdfmt.Printf("Maximum version of %d update(s) raised to %s.\n", raised, backendCfg.MaxVersion.String())
	return nil
}
