package cmd

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"worker-recsync/config"
	"worker-recsync/dto"
	server2 "worker-recsync/server"
)

// sync runs one tenant's recording pipeline to completion and exits,
// for cron-style scheduling without the broker.
func sync(config *config.Config) *cobra.Command {
	var tenantFlag string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "run a one-shot recording sync for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantId, err := uuid.Parse(tenantFlag)
			if err != nil {
				return err
			}

			ctx := server2.SetupLogger(config)
			svc := server2.NewSyncService(config)

			if err := svc.ProcessTenantSync(ctx, dto.TenantSyncMessage{TenantId: tenantId}); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("tenant sync failed")
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantFlag, "tenant", "", "tenant id to sync")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}
