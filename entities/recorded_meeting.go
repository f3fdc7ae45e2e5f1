package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"worker-recsync/constant"
)

// RecordedMeeting is the canonical record for one recorded meeting,
// reconciled from both recording sources. ExternalEventID is the stable
// key: the calendar event id for calendar-sourced meetings, the meeting
// instance uuid for conference-sourced ones.
type RecordedMeeting struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID     uuid.UUID      `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:unique_tenant_event"`
	Name         string         `json:"name" gorm:"type:varchar(255)"`
	Description  string         `json:"description" gorm:"type:text"`
	StartTime    time.Time      `json:"start_time" gorm:"type:timestamptz"`
	EndTime      time.Time      `json:"end_time" gorm:"type:timestamptz"`
	Video        string         `json:"video" gorm:"type:varchar(500)"`
	ChatLogLink  string         `json:"chat_log_link" gorm:"type:varchar(500)"`
	ChatLog      string         `json:"chat_log" gorm:"type:text"`
	IsRecurring  bool           `json:"is_recurring"`
	Attendees    pq.StringArray `json:"attendees" gorm:"type:text[]"`
	Transcript   string         `json:"transcript" gorm:"type:text"`
	TranscriptID string         `json:"transcript_id" gorm:"type:varchar(255)"`
	EventID      string         `json:"event_id" gorm:"column:external_event_id;type:varchar(255);not null;uniqueIndex:unique_tenant_event"`
	EventLink    string         `json:"event_link" gorm:"type:varchar(500)"`
	Location     string         `json:"location" gorm:"type:varchar(500)"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (RecordedMeeting) TableName() string {
	return "recorded_meetings"
}

// TranscriptState derives the transcription job state from the two
// transcript fields. Transitions only move forward: a job id appears
// first, then the transcript text.
func (m *RecordedMeeting) TranscriptState() constant.TranscriptState {
	if m.Transcript != "" {
		return constant.TranscriptStateComplete
	}
	if m.TranscriptID != "" {
		return constant.TranscriptStateSubmitted
	}
	return constant.TranscriptStateNone
}
