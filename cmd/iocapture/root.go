package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the iocapture CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "iocapture",
		Short:         "Capture input/output tuples of a target operation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewRunCommand(), NewDumpCommand(), NewVersionCommand())
	return cmd
}

// Execute runs the root command with os.Args until it finishes or the
// process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		cmd.PrintErrln("Error:", err)
		return err
	}
	return nil
}
