package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"worker-recsync/dto"
	"worker-recsync/repository"
)

// SyncService runs a tenant's recording pipeline: the conference source
// first, then the calendar source, which merges on top of whatever the
// first one wrote this run.
type SyncService interface {
	ProcessTenantSync(ctx context.Context, message dto.TenantSyncMessage) error
	ProcessTranscriptPoll(ctx context.Context, message dto.TranscriptPollMessage) error
}

type syncService struct {
	repo         repository.MeetingRepository
	zoomSync     ZoomSync
	calendarSync CalendarSync
	jobs         *TranscriptionManager
}

func NewSyncService(repo repository.MeetingRepository, zoomSync ZoomSync, calendarSync CalendarSync, jobs *TranscriptionManager) SyncService {
	return &syncService{
		repo:         repo,
		zoomSync:     zoomSync,
		calendarSync: calendarSync,
		jobs:         jobs,
	}
}

func (s *syncService) ProcessTenantSync(ctx context.Context, message dto.TenantSyncMessage) error {
	zerolog.Ctx(ctx).Info().Str("tenant_id", message.TenantId.String()).Msg("processing tenant sync")

	tenant, err := s.repo.FindTenantById(ctx, message.TenantId)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("tenant_id", message.TenantId.String()).Msg("failed to find tenant")
		return err
	}

	if err := s.zoomSync.Run(ctx, tenant); err != nil {
		if errors.Is(err, ErrAuthUnavailable) {
			return err
		}
		// The calendar source is independent, keep going.
		zerolog.Ctx(ctx).Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("conference recording sync failed")
	}

	if err := s.calendarSync.Run(ctx, tenant); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("calendar recording sync failed")
		return err
	}

	zerolog.Ctx(ctx).Info().Str("tenant_id", tenant.ID.String()).Msg("tenant sync completed")
	return nil
}

// ProcessTranscriptPoll advances every submitted transcription job for
// the tenant by one poll. Jobs that are still running stay submitted.
func (s *syncService) ProcessTranscriptPoll(ctx context.Context, message dto.TranscriptPollMessage) error {
	tenant, err := s.repo.FindTenantById(ctx, message.TenantId)
	if err != nil {
		return err
	}

	meetings, err := s.repo.GetSubmittedRecordedMeetings(ctx, tenant.ID)
	if err != nil {
		return err
	}

	for _, meeting := range meetings {
		if err := s.jobs.Poll(ctx, meeting); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("meeting", meeting.Name).Msg("transcript poll failed")
		}
	}

	return nil
}
