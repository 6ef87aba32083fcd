package query

import (
	"fmt"
	"strconv"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"

	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/internal/util"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/query"
)

type upgradableConfig struct {
	current string
	seed    uint32
	at      string
}

func newUpgradableCmd() *cobra.Command {
	frontendCfg := upgradableConfig{}
	backendCfg := query.UpgradableCfg{}

	cmd := &cobra.Command{
		Use:   "upgradable",
		Short: "List the updates a device may move to",
		Long: `List the updates a device may move to, newest first: newer than what it
runs and inside the group's maximum version. With --seed each candidate is
annotated with its wave timing for that device.

Example: What can a device on 1.20.0 seeded at 700 take right now?

$ updraft query upgradable --variant aws-k8s-1.21 --arch x86_64 \
    --current 1.20.0 --seed 700
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := semver.NewVersion(frontendCfg.current)
			if err != nil {
				return fmt.Errorf("invalid --current %q: %w", frontendCfg.current, err)
			}
			backendCfg.Current = *v
			if cmd.Flags().Changed("seed") {
				backendCfg.Seed = &frontendCfg.seed
			}
			backendCfg.At = time.Now().UTC()
			if frontendCfg.at != "" {
				at, err := util.ParseTimeOrOffset(frontendCfg.at)
				if err != nil {
					return fmt.Errorf("invalid --at %q (want RFC 3339 or +<duration>): %w", frontendCfg.at, err)
				}
				backendCfg.At = at
			}
			return runUpgradableCmd(cmd, backendCfg)
		},
	}

	cmd.Flags().StringVar(&backendCfg.Variant, "variant", "", "The device's variant.")
	cmd.Flags().StringVar(&backendCfg.Arch, "arch", "", "The device's architecture.")
	cmd.Flags().StringVar(&frontendCfg.current, "current", "", "The version the device runs now.")
	cmd.Flags().Uint32Var(&frontendCfg.seed, "seed", 0, "The device's fleet seed, in [0, 2048), for wave timing.")
	cmd.Flags().StringVar(&frontendCfg.at, "at", "", "The reference time for readiness (RFC 3339 or +<duration>, default: now).")
	cmd.MarkFlagRequired("variant")
	cmd.MarkFlagRequired("arch")
	cmd.MarkFlagRequired("current")
	return cmd
}

func runUpgradableCmd(cmd *cobra.Command, backendCfg query.UpgradableCfg) error {
	candidates, err := query.Upgradable(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}

	allColumns := []string{"version", "max_version", "datastore", "waves", "opens", "ready"}
	defaultColumns := allColumns[:4]
	if backendCfg.Seed != nil {
		defaultColumns = allColumns
	}

	tbl := cmdfmt.NewPrintomatic(allColumns, defaultColumns)
	for _, c := range candidates {
		opens, ready := "-", "-"
		if backendCfg.Seed != nil {
			opens = "immediately"
			if !c.Start.IsZero() {
				opens = c.Start.Format(time.RFC3339)
			}
			ready = strconv.FormatBool(c.Ready)
		}
		tbl.AddItem(c.Update.Version.String(), c.Update.MaxVersion.String(),
			c.Update.DatastoreVersion.String(), len(c.Update.Waves), opens, ready)
	}
	tbl.PrintRemaining()

	if len(candidates) == 0 {
		cmdfmt.Printf("No upgrade available for %s/%s running %s.\n",
			backendCfg.Variant, backendCfg.Arch, backendCfg.Current.String())
	}
	return nil
}
