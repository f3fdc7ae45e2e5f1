package service

import (
	"context"
	"time"

	"worker-recsync/pkg/gworkspace"
	"worker-recsync/pkg/zoom"
)

// ConferenceAPI is the conferencing provider's cloud recording surface.
type ConferenceAPI interface {
	ListAccountRecordings(ctx context.Context, from, to time.Time) ([]zoom.Meeting, error)
	AccessToken(ctx context.Context) (string, error)
	Download(ctx context.Context, downloadURL, token string) ([]byte, error)
	DeleteRecording(ctx context.Context, meetingID, recordingID string) error
}

// WorkspaceAPI is the calendar/file provider surface.
type WorkspaceAPI interface {
	ListCalendars(ctx context.Context, token string) ([]gworkspace.Calendar, error)
	ListEvents(ctx context.Context, token, calendarID string, timeMax time.Time) ([]gworkspace.Event, error)
	GetFileOwners(ctx context.Context, token, fileID string) ([]string, error)
	DownloadFile(ctx context.Context, token, fileID string) ([]byte, error)
	GrantPermission(ctx context.Context, token, fileID, email, role, principalType string) error
}

// WorkspaceAuth mints access tokens for the workspace APIs.
type WorkspaceAuth interface {
	DelegatedToken(ctx context.Context, subject string) (string, error)
	StandingToken(ctx context.Context) (string, error)
}

// Transcriber is the asynchronous transcription provider.
type Transcriber interface {
	SubmitJob(ctx context.Context, media []byte) (string, error)
	TranscriptText(ctx context.Context, jobID string) (string, bool, error)
}
