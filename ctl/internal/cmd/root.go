// Package cmd assembles the updraft command tree: the root command with the
// global flags, the document level verbs, and one sub-package per command
// area.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/updraft-io/updraft-go/ctl/internal/cmd/mapping"
	"github.com/updraft-io/updraft-go/ctl/internal/cmd/migrations"
	"github.com/updraft-io/updraft-go/ctl/internal/cmd/query"
	"github.com/updraft-io/updraft-go/ctl/internal/cmd/update"
	"github.com/updraft-io/updraft-go/ctl/internal/cmd/wave"
	"github.com/updraft-io/updraft-go/ctl/internal/config"
)

// BuildInfo is the version identity set by the build process using ldflags.
type BuildInfo struct {
	BinaryName string
	Version    string
	Commit     string
	BuildTime  string
}

func (i BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s)", i.BinaryName, i.Version, i.Commit, i.BuildTime)
}

func NewRootCmd(info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   info.BinaryName,
		Short: "Manage update manifests for staged fleet rollouts",
		Long: `Manage the update manifest consumed by devices polling for updates.

The manifest lists every published update with its per-group maximum version,
the wave schedule that staggers each rollout across the fleet, and the
datastore versions with the migrations between them. All commands read and
write the document named by --manifest, which accepts a file path or an
s3://<bucket>/<key> URL.
`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate(info.String() + "\n")
	config.InitGlobalFlags(cmd)
	cmd.AddCommand(
		newInitCmd(),
		newShowCmd(),
		newValidateCmd(),
		newVersionCmd(info),
		update.NewCmd(),
		wave.NewCmd(),
		mapping.NewCmd(),
		migrations.NewCmd(),
		query.NewCmd(),
	)
	return cmd
}
