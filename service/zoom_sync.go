package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"worker-recsync/constant"
	"worker-recsync/entities"
	"worker-recsync/pkg/storage"
	"worker-recsync/pkg/zoom"
	"worker-recsync/repository"
)

// recordingWindow is the trailing window the provider allows when
// listing completed cloud recordings, one month at most.
const recordingWindow = 30 * 24 * time.Hour

const conferenceRecordingsFolder = "conference-recordings"

// ZoomSync pulls completed cloud recordings from the conferencing
// provider, relays every file into durable storage and deletes the
// upstream originals once the canonical record is persisted.
type ZoomSync interface {
	Run(ctx context.Context, tenant *entities.Tenant) error
}

type zoomSync struct {
	conference ConferenceAPI
	store      storage.ObjectStore
	relay      *Relay
	repo       repository.MeetingRepository
}

func NewZoomSync(conference ConferenceAPI, store storage.ObjectStore, relay *Relay, repo repository.MeetingRepository) ZoomSync {
	return &zoomSync{
		conference: conference,
		store:      store,
		relay:      relay,
		repo:       repo,
	}
}

func (s *zoomSync) Run(ctx context.Context, tenant *entities.Tenant) error {
	now := time.Now().UTC()
	meetings, err := s.conference.ListAccountRecordings(ctx, now.Add(-recordingWindow), now)
	if err != nil {
		return fmt.Errorf("listing recordings: %w", err)
	}
	if len(meetings) == 0 {
		return nil
	}

	root, err := s.store.CreateFolder(ctx, "", conferenceRecordingsFolder)
	if err != nil {
		return err
	}

	// One token per run, the download URLs take it as a parameter.
	token, err := s.conference.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("refreshing download token: %w", err)
	}

	for _, meeting := range meetings {
		if err := s.syncMeeting(ctx, tenant, root, token, meeting); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("tenant_id", tenant.ID.String()).Str("meeting", meeting.Topic).Msg("skipping conference meeting")
		}
	}

	return nil
}

// pendingDelete marks a file already relayed to durable storage. The
// upstream copy is deleted only after the canonical upsert succeeds, a
// crash before that point re-transfers the file on the next run.
type pendingDelete struct {
	meetingID string
	fileID    string
}

func (s *zoomSync) syncMeeting(ctx context.Context, tenant *entities.Tenant, root, token string, meeting zoom.Meeting) error {
	topic := strings.TrimSpace(meeting.Topic)
	if topic == "" {
		zerolog.Ctx(ctx).Warn().Str("meeting_uuid", meeting.UUID).Msg("meeting has no topic, skipping")
		return nil
	}

	folder, err := s.store.CreateFolder(ctx, root, meeting.StartTime.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	var (
		video        string
		eventLink    string
		chatLogLink  string
		chatLog      string
		transcript   string
		transcriptID string
		deletes      []pendingDelete
	)
	endTime := time.Now().UTC()

	for _, file := range meeting.RecordingFiles {
		kind := file.FileType
		if kind == constant.FileKindNoop || kind.Extension() == "" {
			zerolog.Ctx(ctx).Warn().Str("meeting", topic).Str("file_type", string(kind)).Msg("unusable recording file type, skipping file")
			continue
		}
		if file.Status != constant.RecordingStatusCompleted {
			zerolog.Ctx(ctx).Warn().Str("meeting", topic).Str("status", file.Status).Msg("recording file not completed, skipping file")
			continue
		}

		fetch := func(ctx context.Context) ([]byte, error) {
			return s.conference.Download(ctx, file.DownloadURL, token)
		}

		zerolog.Ctx(ctx).Info().Str("meeting", topic).Str("file_type", string(kind)).Msg("relaying recording file to durable storage")
		ref, data, err := s.relay.Transfer(ctx, fetch, folder, destFileName(topic, kind.Extension()), kind.MimeType())
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("meeting", topic).Str("file_type", string(kind)).Msg("failed to relay recording file")
			continue
		}

		switch kind {
		case constant.FileKindMP4:
			video = ref
			eventLink = ref
			if ended, parseErr := time.Parse(time.RFC3339, file.RecordingEnd); parseErr == nil {
				endTime = ended.UTC()
			}
		case constant.FileKindTranscript:
			transcript = string(data)
			transcriptID = file.ID
		case constant.FileKindChat:
			chatLogLink = ref
			chatLog = string(data)
		}

		deletes = append(deletes, pendingDelete{meetingID: file.MeetingID, fileID: file.ID})
	}

	host, err := s.repo.FindUserByConferenceHostId(ctx, tenant.ID, meeting.HostID)
	if err != nil {
		return fmt.Errorf("%w: host %s: %v", ErrMissingHost, meeting.HostID, err)
	}

	record := &entities.RecordedMeeting{
		TenantID:     tenant.ID,
		Name:         topic,
		StartTime:    meeting.StartTime,
		EndTime:      endTime,
		Video:        video,
		ChatLogLink:  chatLogLink,
		ChatLog:      chatLog,
		IsRecurring:  false,
		Attendees:    pq.StringArray{host.Email},
		Transcript:   transcript,
		TranscriptID: transcriptID,
		// The meeting instance id stands in for an event id, this
		// source has no calendar event.
		EventID:   meeting.UUID,
		EventLink: eventLink,
		Location:  "Meeting hosted by " + host.FullName(),
	}

	if _, err := s.repo.UpsertRecordedMeeting(ctx, record); err != nil {
		return fmt.Errorf("upserting meeting %q: %w", topic, err)
	}

	for _, del := range deletes {
		if err := s.conference.DeleteRecording(ctx, del.meetingID, del.fileID); err != nil {
			// The copy in durable storage is authoritative now, a
			// leftover upstream original is re-transferred next run.
			zerolog.Ctx(ctx).Error().Err(err).Str("meeting", topic).Str("file_id", del.fileID).Msg("failed to delete upstream recording")
			continue
		}
		zerolog.Ctx(ctx).Info().Str("meeting", topic).Str("file_id", del.fileID).Msg("deleted upstream recording after transfer")
	}

	return nil
}
