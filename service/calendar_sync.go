package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"worker-recsync/entities"
	"worker-recsync/pkg/gworkspace"
	"worker-recsync/pkg/mirror"
	"worker-recsync/pkg/storage"
	"worker-recsync/repository"
)

const calendarRecordingsFolder = "calendar-recordings"

// CalendarSync reconciles recorded meetings that surface as calendar
// event attachments, merging them with whatever the conference source
// already wrote, and pushes the tenant's full record set to the
// read-mirror afterwards.
type CalendarSync interface {
	Run(ctx context.Context, tenant *entities.Tenant) error
}

type calendarSync struct {
	workspace WorkspaceAPI
	resolver  *CredentialResolver
	store     storage.ObjectStore
	relay     *Relay
	repo      repository.MeetingRepository
	mirror    mirror.Mirror
	jobs      *TranscriptionManager
}

func NewCalendarSync(
	workspace WorkspaceAPI,
	resolver *CredentialResolver,
	store storage.ObjectStore,
	relay *Relay,
	repo repository.MeetingRepository,
	mirror mirror.Mirror,
	jobs *TranscriptionManager,
) CalendarSync {
	return &calendarSync{
		workspace: workspace,
		resolver:  resolver,
		store:     store,
		relay:     relay,
		repo:      repo,
		mirror:    mirror,
		jobs:      jobs,
	}
}

// runState carries the within-run bookkeeping so runs stay composable,
// nothing here outlives one Run call.
type runState struct {
	processed map[string]struct{}
}

func newRunState() *runState {
	return &runState{processed: make(map[string]struct{})}
}

func (s *runState) done(eventID string) bool {
	_, ok := s.processed[eventID]
	return ok
}

func (s *runState) markDone(eventID string) {
	s.processed[eventID] = struct{}{}
}

func (s *calendarSync) Run(ctx context.Context, tenant *entities.Tenant) error {
	creds, err := s.resolver.Resolve(ctx, tenant, "", "")
	if err != nil {
		// Admin-level exhaustion, nothing on this source is reachable.
		return err
	}

	calendars, err := s.workspace.ListCalendars(ctx, creds.Token)
	if err != nil {
		return fmt.Errorf("listing calendars: %w", err)
	}

	state := newRunState()

	for _, calendar := range calendars {
		if !strings.HasSuffix(calendar.ID, tenant.Domain) {
			continue
		}

		// Walking one calendar can outlive a token's lifetime, resolve
		// fresh credentials per calendar.
		creds, err = s.resolver.Resolve(ctx, tenant, "", "")
		if err != nil {
			return err
		}

		zerolog.Ctx(ctx).Info().Str("calendar", calendar.ID).Msg("listing events with attachments")
		events, err := s.workspace.ListEvents(ctx, creds.Token, calendar.ID, time.Now().UTC())
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("calendar", calendar.ID).Msg("failed to list events, skipping calendar")
			continue
		}

		for _, event := range events {
			if state.done(event.ID) {
				continue
			}
			if len(event.Attachments) == 0 {
				continue
			}

			if err := s.syncEvent(ctx, tenant, state, event); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Str("event_id", event.ID).Str("event", event.Summary).Msg("skipping calendar event")
			}
		}
	}

	return s.pushMirror(ctx, tenant.ID)
}

func (s *calendarSync) syncEvent(ctx context.Context, tenant *entities.Tenant, state *runState, event gworkspace.Event) error {
	var owner string
	attendees := pq.StringArray{}
	for _, attendee := range event.Attendees {
		if !attendee.Resource {
			attendees = append(attendees, attendee.Email)
		}
		if attendee.Organizer && owner == "" && strings.HasSuffix(attendee.Email, tenant.Domain) {
			if _, err := s.repo.FindUserByEmailLocalPart(ctx, tenant.ID, EmailLocalPart(attendee.Email, tenant.Domain)); err == nil {
				owner = attendee.Email
			}
		}
	}

	var videoLink, chatLogLink string
	for _, attachment := range event.Attachments {
		if !strings.HasPrefix(attachment.Title, event.Summary) {
			continue
		}
		if attachment.MimeType == "video/mp4" {
			videoLink = attachment.FileURL
		}
		if attachment.MimeType == "text/plain" {
			chatLogLink = attachment.FileURL
		}
	}

	// No recorded video, nothing to reconcile.
	if videoLink == "" {
		return nil
	}

	videoID := gworkspace.FileIDFromLink(videoLink)
	chatLogID := gworkspace.FileIDFromLink(chatLogLink)

	if owner == "" {
		owner = s.ownerFromFileMetadata(ctx, tenant, videoID)
	}

	creds, err := s.resolver.Resolve(ctx, tenant, owner, videoID)
	if err != nil {
		return err
	}

	// Best effort, the download may still succeed through existing
	// access even when the grant fails.
	groupPrincipal := "all@" + tenant.Domain
	if chatLogID != "" {
		if err := s.workspace.GrantPermission(ctx, creds.Token, chatLogID, groupPrincipal, "writer", "group"); err != nil {
			zerolog.Ctx(ctx).Info().Err(err).Str("event", event.Summary).Msg("granting chat log permission failed")
		}
	}
	if err := s.workspace.GrantPermission(ctx, creds.Token, videoID, groupPrincipal, "writer", "group"); err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Str("event", event.Summary).Msg("granting video permission failed")
	}

	var chatLog string
	if chatLogLink != "" {
		contents, err := s.workspace.DownloadFile(ctx, creds.Token, chatLogID)
		if err != nil {
			zerolog.Ctx(ctx).Info().Err(err).Str("event", event.Summary).Msg("chat log download failed, continuing without it")
		}
		chatLog = strings.TrimSpace(string(contents))
	}

	video := videoLink
	var videoBytes []byte
	folder, err := s.store.CreateFolder(ctx, calendarRecordingsFolder, event.Start.DateTime.UTC().Format(time.RFC3339))
	if err == nil {
		fetch := func(ctx context.Context) ([]byte, error) {
			return s.workspace.DownloadFile(ctx, creds.Token, videoID)
		}
		ref, data, transferErr := s.relay.Transfer(ctx, fetch, folder, destFileName(event.Summary, "-video.mp4"), "video/mp4")
		if transferErr != nil {
			// Tolerated, the record still syncs without media bytes and
			// keeps the attachment link.
			zerolog.Ctx(ctx).Info().Err(transferErr).Str("event", event.Summary).Msg("video transfer failed, continuing without media")
		} else {
			video = ref
			videoBytes = data
			zerolog.Ctx(ctx).Info().Str("event", event.Summary).Int("size_bytes", len(data)).Msg("video relayed to durable storage")
		}
	}

	candidate := &entities.RecordedMeeting{
		TenantID:    tenant.ID,
		Name:        strings.TrimSpace(event.Summary),
		Description: strings.TrimSpace(event.Description),
		StartTime:   event.Start.DateTime,
		EndTime:     event.End.DateTime,
		Video:       video,
		ChatLogLink: chatLogLink,
		ChatLog:     chatLog,
		IsRecurring: event.RecurringEventID != "",
		Attendees:   attendees,
		Location:    event.Location,
		EventID:     event.ID,
		EventLink:   event.HTMLLink,
	}

	if err := s.backfillTranscript(ctx, tenant.ID, candidate); err != nil {
		return err
	}

	stored, err := s.repo.UpsertRecordedMeeting(ctx, candidate)
	if err != nil {
		return fmt.Errorf("upserting event %q: %w", event.Summary, err)
	}
	state.markDone(event.ID)

	if err := s.jobs.Advance(ctx, stored, videoBytes); err != nil {
		// MediaTooLarge and provider hiccups leave the state where it
		// was, a later run retries with the same media.
		zerolog.Ctx(ctx).Warn().Err(err).Str("event", event.Summary).Msg("transcription step failed")
	}

	return nil
}

// ownerFromFileMetadata finds the first recorded owner of the file who
// is a known tenant user. Best effort, an empty result just means the
// credential chain skips owner impersonation by hint.
func (s *calendarSync) ownerFromFileMetadata(ctx context.Context, tenant *entities.Tenant, fileID string) string {
	creds, err := s.resolver.Resolve(ctx, tenant, "", "")
	if err != nil {
		return ""
	}

	owners, err := s.workspace.GetFileOwners(ctx, creds.Token, fileID)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Str("file_id", fileID).Msg("file owner lookup failed")
		return ""
	}

	for _, candidate := range owners {
		if _, err := s.repo.FindUserByEmailLocalPart(ctx, tenant.ID, EmailLocalPart(candidate, tenant.Domain)); err == nil {
			return candidate
		}
	}
	return ""
}

// backfillTranscript merges transcript fields already obtained by prior
// runs into the candidate, canonical store first, then the read-mirror.
// This is the one place the two-level merge happens, the upsert itself
// re-checks monotonicity as a final guard.
func (s *calendarSync) backfillTranscript(ctx context.Context, tenantID uuid.UUID, candidate *entities.RecordedMeeting) error {
	existing, err := s.repo.GetRecordedMeetingByEventId(ctx, tenantID, candidate.EventID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	mergeTranscriptFields(candidate, existing)

	if candidate.Transcript != "" && candidate.TranscriptID != "" {
		return nil
	}

	mirrored, err := s.mirror.GetRecordedMeeting(ctx, tenantID, candidate.EventID)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Str("event_id", candidate.EventID).Msg("read-mirror lookup failed, skipping mirror backfill")
		return nil
	}
	mergeTranscriptFields(candidate, mirrored)

	return nil
}

func mergeTranscriptFields(dst, src *entities.RecordedMeeting) {
	if src == nil {
		return
	}
	if dst.Transcript == "" {
		dst.Transcript = src.Transcript
	}
	if dst.TranscriptID == "" {
		dst.TranscriptID = src.TranscriptID
	}
}

func (s *calendarSync) pushMirror(ctx context.Context, tenantID uuid.UUID) error {
	meetings, err := s.repo.GetRecordedMeetingsByTenantId(ctx, tenantID)
	if err != nil {
		return err
	}

	if err := s.mirror.PushRecordedMeetings(ctx, tenantID, meetings); err != nil {
		return fmt.Errorf("pushing records to read-mirror: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("tenant_id", tenantID.String()).Int("records", len(meetings)).Msg("pushed canonical records to read-mirror")
	return nil
}
