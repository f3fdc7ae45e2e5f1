package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"worker-recsync/entities"
)

func TestPreserveTranscriptFields(t *testing.T) {
	existing := &entities.RecordedMeeting{Transcript: "hello", TranscriptID: "job-1"}

	incoming := &entities.RecordedMeeting{}
	preserveTranscriptFields(incoming, existing)
	assert.Equal(t, "hello", incoming.Transcript)
	assert.Equal(t, "job-1", incoming.TranscriptID)

	incoming = &entities.RecordedMeeting{Transcript: "newer", TranscriptID: "job-2"}
	preserveTranscriptFields(incoming, existing)
	assert.Equal(t, "newer", incoming.Transcript)
	assert.Equal(t, "job-2", incoming.TranscriptID)
}
