package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/updraft-io/updraft-go/ctl/internal/cmd"
	"github.com/updraft-io/updraft-go/ctl/internal/config"
	"github.com/updraft-io/updraft-go/ctl/internal/util"
)

// Set by the build process using ldflags.
var (
	binaryName = "updraft"
	version    = "unknown"
	commit     = "unknown"
	buildTime  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer config.Cleanup()

	rootCmd := cmd.NewRootCmd(cmd.BuildInfo{
		BinaryName: binaryName,
		Version:    version,
		Commit:     commit,
		BuildTime:  buildTime,
	})
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return util.ExitCode(err)
	}
	return util.Success
}
