package mapping

import (
	"fmt"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/mapping"
)

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Manage datastore version mappings",
		Long: `Manage the map from image versions to the datastore version each one
requires. Devices use it to plan data migrations before moving to an update.`,
	}

	cmd.AddCommand(newAddCmd())

	return cmd
}

type addConfig struct {
	version          string
	datastoreVersion string
}

func newAddCmd() *cobra.Command {
	frontendCfg := addConfig{}
	backendCfg := mapping.AddCfg{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Map an image version to a datastore version",
		Long: `Record that an image version requires a datastore version. An existing
mapping for the version is overwritten; image versions are mapped manifest
wide, not per variant.

"updraft update add" records this mapping itself, so adding one by hand is
only needed to fix up a document or pre-register a version.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := semver.NewVersion(frontendCfg.version)
			if err != nil {
				return fmt.Errorf("invalid --version %q: %w", frontendCfg.version, err)
			}
			backendCfg.Version = *v
			dv, err := manifest.ParseDataVersion(frontendCfg.datastoreVersion)
			if err != nil {
				return fmt.Errorf("invalid --datastore-version %q: %w", frontendCfg.datastoreVersion, err)
			}
			backendCfg.DatastoreVersion = dv
			return runAddCmd(cmd, backendCfg)
		},
	}

	cmd.Flags().StringVar(&frontendCfg.version, "version", "", "The image version to map.")
	cmd.Flags().StringVar(&frontendCfg.datastoreVersion, "datastore-version", "", "The datastore version the image requires (major[.minor]).")
	cmd.MarkFlagRequired("version")
	cmd.MarkFlagRequired("datastore-version")
	return cmd
}

func runAddCmd(cmd *cobra.Command, backendCfg mapping.AddCfg) error {
	displaced, err := mapping.Add(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}
	cmdfmt.Printf("Mapped version %s to datastore version %s.\n",
		backendCfg.Version.String(), backendCfg.DatastoreVersion)
	if displaced != nil {
		cmdfmt.Printf("Previous mapping to %s replaced.\n", displaced)
	}
	return nil
}
