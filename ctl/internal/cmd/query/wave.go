package query

import (
	"fmt"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"

	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/internal/util"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/query"
)

type waveConfig struct {
	version string
	at      string
}

func newWaveCmd() *cobra.Command {
	frontendCfg := waveConfig{}
	backendCfg := query.WaveCfg{}

	cmd := &cobra.Command{
		Use:   "wave",
		Short: "Report when an update opens for a fleet seed",
		Long: `Report when the update opens up for a device with the given fleet seed,
and whether it already has at the reference time (--at, default now).

Example: Check what a device seeded at 700 sees a week from now

$ updraft query wave --variant aws-k8s-1.21 --arch x86_64 --version 1.25.0 \
    --seed 700 --at +1w
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := semver.NewVersion(frontendCfg.version)
			if err != nil {
				return fmt.Errorf("invalid --version %q: %w", frontendCfg.version, err)
			}
			backendCfg.Version = *v
			backendCfg.At = time.Now().UTC()
			if frontendCfg.at != "" {
				at, err := util.ParseTimeOrOffset(frontendCfg.at)
				if err != nil {
					return fmt.Errorf("invalid --at %q (want RFC 3339 or +<duration>): %w", frontendCfg.at, err)
				}
				backendCfg.At = at
			}
			return runWaveCmd(cmd, backendCfg)
		},
	}

	cmd.Flags().StringVar(&backendCfg.Variant, "variant", "", "The variant of the update to query.")
	cmd.Flags().StringVar(&backendCfg.Arch, "arch", "", "The architecture of the update to query.")
	cmd.Flags().StringVar(&frontendCfg.version, "version", "", "The version of the update to query.")
	cmd.Flags().Uint32Var(&backendCfg.Seed, "seed", 0, "The device's fleet seed, in [0, 2048).")
	cmd.Flags().StringVar(&frontendCfg.at, "at", "", "The reference time for readiness (RFC 3339 or +<duration>, default: now).")
	cmd.MarkFlagRequired("variant")
	cmd.MarkFlagRequired("arch")
	cmd.MarkFlagRequired("version")
	cmd.MarkFlagRequired("seed")
	return cmd
}

func runWaveCmd(cmd *cobra.Command, backendCfg query.WaveCfg) error {
	res, err := query.Wave(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}
	cmdfmt.Printf("Update %s has %d wave(s).\n", res.Update.Name(), len(res.Update.Waves))
	if res.Start.IsZero() {
		cmdfmt.Printf("Seed %d is above every wave bound: immediately eligible.\n", backendCfg.Seed)
		return nil
	}
	if res.Ready {
		cmdfmt.Printf("Seed %d opened at %s: ready as of %s.\n",
			backendCfg.Seed, res.Start.Format(time.RFC3339), backendCfg.At.Format(time.RFC3339))
	} else {
		cmdfmt.Printf("Seed %d opens at %s: not ready as of %s (%s to go).\n",
			backendCfg.Seed, res.Start.Format(time.RFC3339), backendCfg.At.Format(time.RFC3339),
			res.Start.Sub(backendCfg.At).Round(time.Second))
	}
	return nil
}
