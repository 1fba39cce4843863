package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/iocapture/version"
)

// NewVersionCommand scaffolds the "version" CLI command.
func NewVersionCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			switch output {
			case "yaml":
				return printYAML(cmd, info)
			case "", "text":
				cmd.Println("iocapture", info.String())
				return nil
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or yaml")
	return cmd
}
