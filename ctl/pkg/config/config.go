// Package config exposes the command line tool's global configuration to the
// backend packages: the viper keys for every global flag, plus lazily built
// singletons for the logger and the manifest store.
package config

import (
	"context"
	"sync"

	"github.com/spf13/viper"

	"github.com/updraft-io/updraft-go/common/logger"
	"github.com/updraft-io/updraft-go/common/store"
)

// Keys of the global flags. Also usable as environment variables by prefixing
// UPDRAFT_ and replacing "-" with "_" (e.g. UPDRAFT_MANIFEST).
const (
	ManifestKey        = "manifest"
	DebugKey           = "debug"
	NumWorkersKey      = "num-workers"
	LogLevelKey        = "log-level"
	LogFileKey         = "log-file"
	LogDeveloperKey    = "log-developer"
	ColumnsKey         = "columns"
	PageSizeKey        = "page-size"
	PrintJsonKey       = "json"
	PrintJsonPrettyKey = "json-pretty"
	S3RegionKey        = "s3-region"
	S3EndpointKey      = "s3-endpoint"
	S3PathStyleKey     = "s3-path-style"
	S3AccessKeyKey     = "s3-access-key"
	S3SecretKeyKey     = "s3-secret-key"
)

var (
	loggerOnce   sync.Once
	globalLogger *logger.Logger
	loggerErr    error

	storeOnce   sync.Once
	globalStore store.Store
	storeErr    error
)

// GetLogger returns the process-wide logger built from the global flags. It
// never returns nil: when the flags are unusable a fatal-only stderr logger
// comes back alongside the error, so callers may ignore the error and still
// log safely.
func GetLogger() (*logger.Logger, error) {
	loggerOnce.Do(func() {
		cfg := logger.Config{
			Type:      "stderr",
			Level:     int8(viper.GetInt(LogLevelKey)),
			Developer: viper.GetBool(LogDeveloperKey),
		}
		if file := viper.GetString(LogFileKey); file != "" {
			cfg.Type = "logfile"
			cfg.File = file
			cfg.MaxSize = 1000
			cfg.NumRotatedFiles = 5
		}
		globalLogger, loggerErr = logger.New(cfg)
		if loggerErr != nil {
			globalLogger, _ = logger.New(logger.Config{Type: "stderr"})
		}
	})
	return globalLogger, loggerErr
}

// GetStore returns the store for the document named by --manifest.
func GetStore(ctx context.Context) (store.Store, error) {
	storeOnce.Do(func() {
		globalStore, storeErr = store.New(ctx, viper.GetString(ManifestKey), S3OptionsFromFlags())
	})
	return globalStore, storeErr
}

// S3OptionsFromFlags collects the S3 client overrides from the global flags.
func S3OptionsFromFlags() store.S3Options {
	return store.S3Options{
		Region:       viper.GetString(S3RegionKey),
		Endpoint:     viper.GetString(S3EndpointKey),
		UsePathStyle: viper.GetBool(S3PathStyleKey),
		AccessKey:    viper.GetString(S3AccessKeyKey),
		SecretKey:    viper.GetString(S3SecretKeyKey),
	}
}

// Cleanup flushes global resources before the process exits.
func Cleanup() {
	if globalLogger != nil {
		globalLogger.Sync()
	}
}
