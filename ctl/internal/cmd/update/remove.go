package update

import (
	"fmt"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"

	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/update"
)

type removeConfig struct {
	version string
}

func newRemoveCmd() *cobra.Command {
	frontendCfg := removeConfig{}
	backendCfg := update.RemoveCfg{}

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove an update from the catalog",
		Long: `Remove the update matching the exact variant, architecture and version.

Removing never lowers the group's maximum version. The datastore mapping for
the version stays unless --cleanup is given, and even then only when no other
update still references it. Removing an update that is not there is not an
error.
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

	cmd.Flags().StringVar(&backendCfg.Variant, "variant", "", "The variant of the update to remove.")
	cmd.Flags().StringVar(&backendCfg.Arch, "arch", "", "The architecture of the update to remove.")
	cmd.Flags().StringVar(&frontendCfg.version, "version", "", "The version of the update to remove.")
	cmd.Flags().BoolVar(&backendCfg.Cleanup, "cleanup", false, "Also drop the datastore mapping for the version if nothing else references it.")
	cmd.MarkFlagRequired("variant")
	cmd.MarkFlagRequired("arch")
	cmd.MarkFlagRequired("version")
	return cmd
}

func runRemoveCmd(cmd *cobra.Command, backendCfg update.RemoveCfg) error {
	res, err := update.Remove(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s/%s %s", backendCfg.Variant, backendCfg.Arch, backendCfg.Version.String())
	if res.Removed == 0 {
		cmdfmt.Printf("No update matching %s found.\n", name)
		return nil
	}
	if res.MaxVersion != nil {
		cmdfmt.Printf("Update %s removed. Current maximum version: %s\n", name, res.MaxVersion.String())
	} else {
		cmdfmt.Printf("Update %s removed. No remaining updates.\n", name)
	}
	if res.MappingRemoved {
		cmdfmt.Printf("Datastore mapping for %s removed.\n", backendCfg.Version.String())
	}
	if res.StillReferenced > 0 {
		cmdfmt.Printf("Cleanup skipped; %d update(s) at version %s remain.\n",
			res.StillReferenced, backendCfg.Version.String())
	}
	return nil
}
