package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/updraft-io/updraft-go/ctl/internal/cmdfmt"
	"github.com/updraft-io/updraft-go/ctl/pkg/ctl/manifest"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Summarize the manifest",
		Long: `Summarize the manifest: its identity, the group ceilings, the datastore
mappings and the migration list.

Use "updraft update list" for the full update catalog.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowCmd(cmd)
		},
	}
}

func runShowCmd(cmd *cobra.Command) error {
	s, err := manifest.Show(cmd.Context())
	if err != nil {
		return err
	}
	cmdfmt.Printf("Manifest: %s\n", s.Store)
	cmdfmt.Printf("Id: %s\n", s.Metadata.ID)
	cmdfmt.Printf("Schema version: %d\n", s.Metadata.SchemaVersion)
	cmdfmt.Printf("Updated: %s\n", s.Metadata.Updated.Format(time.RFC3339))
	cmdfmt.Printf("Updates: %d in %d group(s)\n", s.Updates, len(s.Groups))
	for _, g := range s.Groups {
		cmdfmt.Printf("  %s: %d update(s), max version %s\n", g.Group, g.Updates, g.Ceiling.String())
	}
	cmdfmt.Printf("Datastore mappings: %d\n", len(s.Mappings))
	for _, mp := range s.Mappings {
		cmdfmt.Printf("  %s -> %s\n", mp.Version.String(), mp.Datastore)
	}
	cmdfmt.Printf("Migrations: %d\n", len(s.Migrations))
	for _, step := range s.Migrations {
		cmdfmt.Printf("  %s\n", step)
	}
	return nil
}
