package update

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/updraft-io/updraft-go/common/manifest"
	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/pkg/config"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/update"
)

func newListCmd() *cobra.Command {
	backendCfg := update.ListCfg{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the update catalog",
		Long: `List the update catalog, newest version first.

--variant and --arch narrow the listing using globs (e.g. "aws-*"); --filter
narrows it further with an expression over the update fields.

Example: Updates above 1.20.0 that are rolled out in waves

$ updraft update list --filter "version > 1.20.0 and waves > 0"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListCmd(cmd, backendCfg)
		},
	}

	cmd.Flags().StringVar(&backendCfg.VariantGlob, "variant", "", "Only list updates whose variant matches this glob.")
	cmd.Flags().StringVar(&backendCfg.ArchGlob, "arch", "", "Only list updates whose architecture matches this glob.")
	cmd.Flags().StringVar(&backendCfg.Filter, "filter", "", manifest.FilterHelp)
	return cmd
}

func runListCmd(cmd *cobra.Command, backendCfg update.ListCfg) error {
	updates, err := update.List(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}

	allColumns := []string{"variant", "arch", "version", "max_version", "datastore", "waves",
		"first_start", "last_start", "image_root", "image_boot", "image_hash"}
	defaultColumns := []string{"variant", "arch", "version", "max_version", "datastore", "waves"}
	if viper.GetBool(config.DebugKey) {
		defaultColumns = allColumns
	}

	tbl := cmdfmt.NewPrintomatic(allColumns, defaultColumns)
	for _, u := range updates {
		firstStart, lastStart := "-", "-"
		if len(u.Waves) > 0 {
			firstStart = u.Waves[0].Start.Format(time.RFC3339)
			lastStart = u.Waves[len(u.Waves)-1].Start.Format(time.RFC3339)
		}
		tbl.AddItem(u.Variant, u.Arch, u.Version.String(), u.MaxVersion.String(),
			u.DatastoreVersion.String(), len(u.Waves), firstStart, lastStart,
			u.Images.Root, u.Images.Boot, u.Images.Hash)
	}
	tbl.PrintRemaining()

	if len(updates) == 0 {
		cmdfmt.Printf("No matching updates found.\n")
	}
	return nil
}
