package handler

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"worker-recsync/dto"
	"worker-recsync/service"
)

type ServiceDependencies struct {
	SyncService service.SyncService
}

func TenantSyncHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var syncMsg dto.TenantSyncMessage
	if err := json.Unmarshal(msg.Body, &syncMsg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal tenant sync message")
		return err
	}

	return deps.SyncService.ProcessTenantSync(ctx, syncMsg)
}

func TranscriptPollHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var pollMsg dto.TranscriptPollMessage
	if err := json.Unmarshal(msg.Body, &pollMsg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal transcript poll message")
		return err
	}

	return deps.SyncService.ProcessTranscriptPoll(ctx, pollMsg)
}
