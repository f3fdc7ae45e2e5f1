package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"worker-recsync/entities"
)

// transcriptLimit is the mirror's per-field size ceiling, transcripts
// are truncated before pushing.
const transcriptLimit = 100000

// Mirror is the external read-mirror of the canonical recorded_meetings
// table. It is eventually consistent and used as a secondary backfill
// source for transcript fields.
type Mirror interface {
	GetRecordedMeeting(ctx context.Context, tenantId uuid.UUID, eventId string) (*entities.RecordedMeeting, error)
	PushRecordedMeetings(ctx context.Context, tenantId uuid.UUID, meetings []*entities.RecordedMeeting) error
}

type redisMirror struct {
	client *redis.Client
}

func NewRedisMirror(client *redis.Client) Mirror {
	return &redisMirror{
		client: client,
	}
}

func mirrorKey(tenantId uuid.UUID) string {
	return fmt.Sprintf("recorded_meetings:%s", tenantId)
}

// GetRecordedMeeting returns the mirrored copy of one record, or nil
// when the mirror has never seen the event.
func (m *redisMirror) GetRecordedMeeting(ctx context.Context, tenantId uuid.UUID, eventId string) (*entities.RecordedMeeting, error) {
	raw, err := m.client.HGet(ctx, mirrorKey(tenantId), eventId).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	meeting := &entities.RecordedMeeting{}
	if err := json.Unmarshal([]byte(raw), meeting); err != nil {
		return nil, err
	}

	return meeting, nil
}

// PushRecordedMeetings replaces the tenant's full mirrored set in one
// batch write.
func (m *redisMirror) PushRecordedMeetings(ctx context.Context, tenantId uuid.UUID, meetings []*entities.RecordedMeeting) error {
	if len(meetings) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(meetings))
	for _, meeting := range meetings {
		copied := *meeting
		if len(copied.Transcript) > transcriptLimit {
			copied.Transcript = copied.Transcript[:transcriptLimit]
		}

		raw, err := json.Marshal(&copied)
		if err != nil {
			return err
		}
		fields[meeting.EventID] = string(raw)
	}

	return m.client.HSet(ctx, mirrorKey(tenantId), fields).Err()
}
