package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"worker-recsync/constant"
)

func TestRecordedMeetingTranscriptState(t *testing.T) {
	assert.Equal(t, constant.TranscriptStateNone, (&RecordedMeeting{}).TranscriptState())
	assert.Equal(t, constant.TranscriptStateSubmitted, (&RecordedMeeting{TranscriptID: "job-1"}).TranscriptState())
	assert.Equal(t, constant.TranscriptStateComplete, (&RecordedMeeting{TranscriptID: "job-1", Transcript: "hello"}).TranscriptState())
	// A transcript without a job id still counts as complete.
	assert.Equal(t, constant.TranscriptStateComplete, (&RecordedMeeting{Transcript: "hello"}).TranscriptState())
}
