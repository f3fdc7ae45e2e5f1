package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"worker-recsync/constant"
	"worker-recsync/entities"
	"worker-recsync/repository"
)

// TranscriptionManager owns the NONE -> SUBMITTED -> COMPLETE state
// machine for a meeting's transcript. Transcription is asynchronous and
// usually outlives a sync run, so the state lives on the record and
// each run performs at most one transition.
type TranscriptionManager struct {
	transcriber   Transcriber
	repo          repository.MeetingRepository
	maxMediaBytes int64
}

func NewTranscriptionManager(transcriber Transcriber, repo repository.MeetingRepository, maxMediaBytes int64) *TranscriptionManager {
	return &TranscriptionManager{
		transcriber:   transcriber,
		repo:          repo,
		maxMediaBytes: maxMediaBytes,
	}
}

// Advance moves the record's transcript state forward by at most one
// step. Empty media is a no-op regardless of state.
func (t *TranscriptionManager) Advance(ctx context.Context, meeting *entities.RecordedMeeting, media []byte) error {
	if len(media) == 0 {
		return nil
	}

	switch meeting.TranscriptState() {
	case constant.TranscriptStateNone:
		return t.submit(ctx, meeting, media)
	case constant.TranscriptStateSubmitted:
		return t.Poll(ctx, meeting)
	default:
		return nil
	}
}

func (t *TranscriptionManager) submit(ctx context.Context, meeting *entities.RecordedMeeting, media []byte) error {
	if int64(len(media)) > t.maxMediaBytes {
		return fmt.Errorf("%w: %d bytes for %q", ErrMediaTooLarge, len(media), meeting.Name)
	}

	jobID, err := t.transcriber.SubmitJob(ctx, media)
	if err != nil {
		return fmt.Errorf("submitting media for %q: %w", meeting.Name, err)
	}

	meeting.TranscriptID = jobID
	if err := t.repo.UpdateRecordedMeeting(ctx, meeting); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("meeting", meeting.Name).Str("job_id", jobID).Msg("submitted transcription job")
	return nil
}

// Poll fetches the transcript for a submitted job. A job that is not
// ready yet leaves the state untouched, the next run polls again.
func (t *TranscriptionManager) Poll(ctx context.Context, meeting *entities.RecordedMeeting) error {
	if meeting.TranscriptState() != constant.TranscriptStateSubmitted {
		return nil
	}

	text, ready, err := t.transcriber.TranscriptText(ctx, meeting.TranscriptID)
	if err != nil {
		return fmt.Errorf("fetching transcript for %q: %w", meeting.Name, err)
	}
	if !ready {
		zerolog.Ctx(ctx).Info().Str("meeting", meeting.Name).Str("job_id", meeting.TranscriptID).Msg("transcript not ready yet")
		return nil
	}

	meeting.Transcript = strings.TrimSpace(text)
	if err := t.repo.UpdateRecordedMeeting(ctx, meeting); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("meeting", meeting.Name).Str("job_id", meeting.TranscriptID).Msg("transcript complete")
	return nil
}
