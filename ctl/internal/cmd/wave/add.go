package wave

import (
	"fmt"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"

	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/internal/util"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/wave"
)

type addConfig struct {
	version string
	start   string
}

func newAddCmd() *cobra.Command {
	frontendCfg := addConfig{}
	backendCfg := wave.AddCfg{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule a rollout wave on an update",
		Long: `Schedule a rollout wave on the update matching the exact variant,
architecture and version.

Waves must stay in order: a wave with a higher bound cannot start before one
with a lower bound. Adding a wave at an existing bound moves that wave's start
time, subject to the same check. A violating wave is rejected and the schedule
is left unchanged.

Example: Open the update to seeds below 512 a week from now

$ updraft wave add --variant aws-k8s-1.21 --arch x86_64 --version 1.25.0 \
    --bound 512 --start +1w
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := semver.NewVersion(frontendCfg.version)
			if err != nil {
				return fmt.Errorf("invalid --version %q: %w", frontendCfg.version, err)
			}
			backendCfg.Version = *v
			start, err := util.ParseTimeOrOffset(frontendCfg.start)
			if err != nil {
				return fmt.Errorf("invalid --start %q (want RFC 3339 or +<duration>): %w", frontendCfg.start, err)
			}
			backendCfg.Start = start
			return runAddCmd(cmd, backendCfg)
		},
	}

	cmd.Flags().StringVar(&backendCfg.Variant, "variant", "", "The variant of the update to schedule.")
	cmd.Flags().StringVar(&backendCfg.Arch, "arch", "", "The architecture of the update to schedule.")
	cmd.Flags().StringVar(&frontendCfg.version, "version", "", "The version of the update to schedule.")
	cmd.Flags().Uint32Var(&backendCfg.Bound, "bound", 0, "The upper fleet seed bound of the wave, in [0, 2048).")
	cmd.Flags().StringVar(&frontendCfg.start, "start", "", "When the wave opens: an RFC 3339 time or +<duration> from now (e.g. +36h, +2w).")
	cmd.MarkFlagRequired("variant")
	cmd.MarkFlagRequired("arch")
	cmd.MarkFlagRequired("version")
	cmd.MarkFlagRequired("bound")
	cmd.MarkFlagRequired("start")
	return cmd
}

func runAddCmd(cmd *cobra.Command, backendCfg wave.AddCfg) error {
	matched, err := wave.Add(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}
	cmdfmt.Printf("Wave with bound %d starting %s added to %d update(s).\n",
		backendCfg.Bound, backendCfg.Start.Format(time.RFC3339), matched)
	if matched > 1 {
		cmdfmt.Printf("Warning: %d updates matched; the catalog should have exactly one update per variant, arch and version.\n", matched)
	}
	return nil
}
