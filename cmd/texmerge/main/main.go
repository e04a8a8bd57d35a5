package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/texmerge/cmd/texmerge"
	"github.com/arthur-debert/texmerge/pkg/errors"
	"github.com/arthur-debert/texmerge/pkg/output/styles"
)

func main() {
	// Interrupts cancel the running compiler; the workspace is still removed
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := texmerge.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil && !texmerge.IsReported(err) {
		fmt.Fprintln(os.Stderr, styles.Render("Error", "Error: "+errors.Describe(err)))
		if texmerge.IsUsageError(err) {
			fmt.Fprintln(os.Stderr, texmerge.MsgHintUsage)
		}
	}
	os.Exit(texmerge.ExitCode(err))
}
