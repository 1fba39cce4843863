package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/iocapture/channel"
	"github.com/kbukum/iocapture/codec"
	"github.com/kbukum/iocapture/storage"
)

// NewDumpCommand scaffolds the "dump" CLI command.
func NewDumpCommand() *cobra.Command {
	var (
		dir       string
		direction string
		index     int
		codecName string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the values of one captured channel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dirn, err := channel.ParseDirection(direction)
			if err != nil {
				return err
			}
			c, err := codec.ByName(codecName)
			if err != nil {
				return err
			}
			store, err := storage.New(storage.Config{Provider: storage.ProviderLocal, BasePath: dir}, nil)
			if err != nil {
				return err
			}

			values, err := channel.ReadAll(cmd.Context(), store, c, dirn, index)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, v := range values {
				env := codec.Wrap(v)
				if _, err := fmt.Fprintf(out, "%d\t%s\t%v\n", i, env.Kind, v); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&dir, "dir", storage.DefaultBasePath, "Folder holding the channels")
	flags.StringVar(&direction, "direction", string(channel.In), "Channel direction: in or out")
	flags.IntVar(&index, "index", 0, "Channel index")
	flags.StringVar(&codecName, "codec", codec.YAML{}.Name(), "Channel codec: yaml or json")

	return cmd
}
