package update

import (
	"fmt"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/update"
)

type addConfig struct {
	version          string
	maxVersion       string
	datastoreVersion string
}

func newAddCmd() *cobra.Command {
	frontendCfg := addConfig{}
	backendCfg := update.AddCfg{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an update to the catalog",
		Long: `Add an update to the catalog and map its image version to the datastore
version it requires.

When no manifest exists yet the add starts one, so release pipelines need no
separate init step. With --max-version the whole (variant, arch) group rises
to it; without it the update inherits the group's current ceiling, or its own
version when the group is new. The new update has no waves, so once inside the
ceiling it opens to the whole fleet at once; see "updraft wave add".

Example: Publish 1.25.0 for one variant

$ updraft update add --variant aws-k8s-1.21 --arch x86_64 --version 1.25.0 \
    --datastore-version 1.5 --image-root root.img.lz4 --image-boot boot.img.lz4 \
    --image-hash 8f9e312c
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := semver.NewVersion(frontendCfg.version)
			if err != nil {
				return fmt.Errorf("invalid --version %q: %w", frontendCfg.version, err)
			}
			backendCfg.Version = *v
			if frontendCfg.maxVersion != "" {
				mv, err := semver.NewVersion(frontendCfg.maxVersion)
				if err != nil {
					return fmt.Errorf("invalid --max-version %q: %w", frontendCfg.maxVersion, err)
				}
				backendCfg.MaxVersion = mv
			}
			dv, err := manifest.ParseDataVersion(frontendCfg.datastoreVersion)
			if err != nil {
				return fmt.Errorf("invalid --datastore-version %q: %w", frontendCfg.datastoreVersion, err)
			}
			backendCfg.DatastoreVersion = dv
			return runAddCmd(cmd, backendCfg)
		},
	}

	cmd.Flags().StringVar(&backendCfg.Variant, "variant", "", "The variant the update applies to (e.g. aws-k8s-1.21).")
	cmd.Flags().StringVar(&backendCfg.Arch, "arch", "", "The architecture the update applies to (e.g. x86_64).")
	cmd.Flags().StringVar(&frontendCfg.version, "version", "", "The image version being published.")
	cmd.Flags().StringVar(&frontendCfg.maxVersion, "max-version", "", "Raise the group's maximum version to this (default: inherit it).")
	cmd.Flags().StringVar(&frontendCfg.datastoreVersion, "datastore-version", "", "The datastore version the image requires (major[.minor]).")
	cmd.Flags().StringVar(&backendCfg.Images.Root, "image-root", "", "The root filesystem image of the update.")
	cmd.Flags().StringVar(&backendCfg.Images.Boot, "image-boot", "", "The boot image of the update.")
	cmd.Flags().StringVar(&backendCfg.Images.Hash, "image-hash", "", "The verification hash over the update images.")
	cmd.MarkFlagRequired("variant")
	cmd.MarkFlagRequired("arch")
	cmd.MarkFlagRequired("version")
	cmd.MarkFlagRequired("datastore-version")
	cmd.MarkFlagRequired("image-root")
	cmd.MarkFlagRequired("image-boot")
	cmd.MarkFlagRequired("image-hash")
	return cmd
}

func runAddCmd(cmd *cobra.Command, backendCfg update.AddCfg) error {
	res, err := update.Add(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}
	if res.Bootstrapped {
		cmdfmt.Printf("No manifest found, started an empty one.\n")
	}
	u := res.Update
	cmdfmt.Printf("Update %s added. Group maximum version: %s\n", u.Name(), u.MaxVersion.String())
	if res.ReplacedMapping != nil {
		cmdfmt.Printf("Datastore mapping for %s replaced: %s -> %s\n",
			u.Version.String(), res.ReplacedMapping, u.DatastoreVersion)
	}
	if u.MaxVersion.LessThan(u.Version) {
		cmdfmt.Printf("Warning: %s is above the group maximum version and will not be served until the maximum rises.\n",
			u.Version.String())
	}
	return nil
}
