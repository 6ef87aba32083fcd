package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/internal/util"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/manifest"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document> [<document>...]",
		Short: "Check manifest documents without modifying them",
		Long: `Check that each named document parses and satisfies the manifest
invariants: unique updates, catalog ordering, wave monotonicity, ceiling
agreement and datastore mapping agreement. Documents are checked in parallel
(see --num-workers) and nothing is written.

Example: Check every manifest in a release staging area

$ updraft validate staging/*.json
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateCmd(cmd, manifest.ValidateCfg{Paths: args})
		},
	}
}

func runValidateCmd(cmd *cobra.Command, backendCfg manifest.ValidateCfg) error {
	results, err := manifest.Validate(cmd.Context(), backendCfg)
	if err != nil {
		return err
	}

	tbl := cmdfmt.NewPrintomatic([]string{"result", "document", "updates", "message"},
		[]string{"result", "document", "updates", "message"})
	invalid := 0
	for _, res := range results {
		if res.Err != nil {
			invalid++
			tbl.AddItem("invalid", res.Path, "-", res.Err.Error())
			continue
		}
		tbl.AddItem("ok", res.Path, res.Updates, "")
	}
	tbl.PrintRemaining()

	if invalid != 0 {
		return util.NewCtlError(fmt.Errorf("%d of %d document(s) failed validation", invalid, len(results)), util.PartialSuccess)
	}
	return nil
}
