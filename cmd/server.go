package cmd

import (
	"github.com/spf13/cobra"

	"worker-recsync/config"
	server2 "worker-recsync/server"
)

func server(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "start the queue-driven sync worker",
		Run: func(cmd *cobra.Command, args []string) {
			server2.RunHttp(config)
		},
	}
}
