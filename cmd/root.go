package cmd

import (
	"github.com/spf13/cobra"

	"worker-recsync/config"
)

func Root(config *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{}
	rootCmd.AddCommand(server(config))
	rootCmd.AddCommand(sync(config))
	return rootCmd
}
