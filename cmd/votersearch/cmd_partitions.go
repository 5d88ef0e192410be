package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var partitionsLoad bool

var partitionsCmd = &cobra.Command{
	Use:   "partitions",
	Short: "List the configured partitions in display order",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), settings, logger)
		if err != nil {
			return err
		}

		if partitionsLoad {
			if _, err := a.engine.Preload(cmd.Context(), settings.Storage.PreloadConcurrency); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), settings.Messages.ChoosePrompt)
		fmt.Fprintln(cmd.OutOrStdout(), renderPartitions(a.engine.Partitions()))
		return nil
	},
}

func init() {
	partitionsCmd.Flags().BoolVar(&partitionsLoad, "load", false, "Load every partition and report availability")
}
