package config

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

// This package handles the global command line tool config - the global flags
// and environment variable bindings.

// Defines all the global flags and binds them to the backends config singleton
func InitGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(config.ManifestKey, "manifest.json", `The manifest document to operate on: a file path or s3://<bucket>/<key>.
	The extension picks the encoding (.yaml/.yml for YAML, JSON otherwise).`)

	cmd.PersistentFlags().Bool(config.DebugKey, false, "Print additional details that are normally hidden.")

	cmd.PersistentFlags().Int(config.NumWorkersKey, runtime.GOMAXPROCS(0), "The maximum number of workers to use when a command can complete work in parallel (default: number of CPUs).")

	cmd.PersistentFlags().Int8(config.LogLevelKey, 0, `By default all logging is disabled except for fatal errors.
	Optionally additional logging to stderr can be enabled to assist with debugging (0=Fatal, 1=Error, 2=Warn, 3=Info, 4+5=Debug).`)

	cmd.PersistentFlags().String(config.LogFileKey, "", "Send log messages to this file instead of stderr (the file is rotated once it grows large).")

	cmd.PersistentFlags().Bool(config.LogDeveloperKey, false, "Enable logging at DebugLevel and above and print stack traces at WarnLevel and above.")
	cmd.PersistentFlags().MarkHidden(config.LogDeveloperKey)

	cmd.PersistentFlags().StringSlice(config.ColumnsKey, []string{}, "When printing structured data, the columns/fields to include (use 'all' to include everything).")

	cmd.PersistentFlags().Uint(config.PageSizeKey, 100, `The number of rows/elements to print before output is flushed to stdout.
	When printing using a table, the header will be repeated after printing this many rows.`)

	cmd.PersistentFlags().Bool(config.PrintJsonKey, false, "Print output normally rendered using a table as JSON instead.")

	cmd.PersistentFlags().Bool(config.PrintJsonPrettyKey, false, "Print output normally rendered using a table as pretty JSON instead.")

	cmd.PersistentFlags().String(config.S3RegionKey, "", "The AWS region of the manifest bucket (default: the standard AWS resolution chain).")

	cmd.PersistentFlags().String(config.S3EndpointKey, "", "Override the S3 endpoint to use an S3-compatible object store.")

	cmd.PersistentFlags().Bool(config.S3PathStyleKey, false, "Address the bucket in the URL path instead of the subdomain (usually required with --s3-endpoint).")

	cmd.PersistentFlags().String(config.S3AccessKeyKey, "", "Static S3 access key overriding the default credential chain (requires --s3-secret-key).")

	cmd.PersistentFlags().String(config.S3SecretKeyKey, "", "Static S3 secret key overriding the default credential chain (requires --s3-access-key).")

	// Environment variables should start with UPDRAFT_
	viper.SetEnvPrefix("updraft")
	// Environment variables cannot use "-", replace with "_"
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Bind all persistent pflags to viper
	cmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		viper.BindEnv(flag.Name)
		viper.BindPFlag(flag.Name, flag)
	})
}

func Cleanup() {
	config.Cleanup()
}
