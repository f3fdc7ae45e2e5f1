package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worker-recsync/constant"
	"worker-recsync/entities"
)

func TestTranscriptionManager_EmptyMediaIsNoop(t *testing.T) {
	transcriber := &fakeTranscriber{jobID: "job-1"}
	repo := newFakeRepo()
	manager := NewTranscriptionManager(transcriber, repo, 1<<20)

	meeting := &entities.RecordedMeeting{Name: "standup"}
	require.NoError(t, manager.Advance(context.Background(), meeting, nil))

	assert.Equal(t, constant.TranscriptStateNone, meeting.TranscriptState())
	assert.Zero(t, transcriber.submitCalls)
	assert.Zero(t, repo.updateCalls)
}

func TestTranscriptionManager_SubmitsFromNone(t *testing.T) {
	transcriber := &fakeTranscriber{jobID: "job-1"}
	repo := newFakeRepo()
	manager := NewTranscriptionManager(transcriber, repo, 1<<20)

	meeting := &entities.RecordedMeeting{Name: "standup", EventID: "evt-1"}
	require.NoError(t, manager.Advance(context.Background(), meeting, []byte("video")))

	assert.Equal(t, constant.TranscriptStateSubmitted, meeting.TranscriptState())
	assert.Equal(t, "job-1", meeting.TranscriptID)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestTranscriptionManager_MediaTooLarge(t *testing.T) {
	transcriber := &fakeTranscriber{jobID: "job-1"}
	manager := NewTranscriptionManager(transcriber, newFakeRepo(), 3)

	meeting := &entities.RecordedMeeting{Name: "standup"}
	err := manager.Advance(context.Background(), meeting, []byte("too big"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMediaTooLarge)
	// State stays NONE so the next run retries with the same media.
	assert.Equal(t, constant.TranscriptStateNone, meeting.TranscriptState())
	assert.Zero(t, transcriber.submitCalls)
}

func TestTranscriptionManager_PendingStaysSubmitted(t *testing.T) {
	transcriber := &fakeTranscriber{ready: false}
	repo := newFakeRepo()
	manager := NewTranscriptionManager(transcriber, repo, 1<<20)

	meeting := &entities.RecordedMeeting{Name: "standup", TranscriptID: "job-1"}
	require.NoError(t, manager.Advance(context.Background(), meeting, []byte("video")))

	assert.Equal(t, constant.TranscriptStateSubmitted, meeting.TranscriptState())
	assert.Equal(t, 1, transcriber.pollCalls)
	assert.Zero(t, repo.updateCalls)
}

func TestTranscriptionManager_CompletesFromSubmitted(t *testing.T) {
	transcriber := &fakeTranscriber{ready: true, text: "  hello world \n"}
	repo := newFakeRepo()
	manager := NewTranscriptionManager(transcriber, repo, 1<<20)

	meeting := &entities.RecordedMeeting{Name: "standup", EventID: "evt-1", TranscriptID: "job-1"}
	require.NoError(t, manager.Advance(context.Background(), meeting, []byte("video")))

	assert.Equal(t, constant.TranscriptStateComplete, meeting.TranscriptState())
	assert.Equal(t, "hello world", meeting.Transcript)
}

func TestTranscriptionManager_CompleteNeverChanges(t *testing.T) {
	transcriber := &fakeTranscriber{ready: true, text: "other"}
	repo := newFakeRepo()
	manager := NewTranscriptionManager(transcriber, repo, 1<<20)

	meeting := &entities.RecordedMeeting{Name: "standup", TranscriptID: "job-1", Transcript: "hello"}
	require.NoError(t, manager.Advance(context.Background(), meeting, []byte("video")))

	assert.Equal(t, "hello", meeting.Transcript)
	assert.Zero(t, transcriber.submitCalls)
	assert.Zero(t, transcriber.pollCalls)
}

func TestTranscriptionManager_PollIgnoresNonSubmitted(t *testing.T) {
	transcriber := &fakeTranscriber{ready: true, text: "text"}
	manager := NewTranscriptionManager(transcriber, newFakeRepo(), 1<<20)

	require.NoError(t, manager.Poll(context.Background(), &entities.RecordedMeeting{Name: "standup"}))
	assert.Zero(t, transcriber.pollCalls)
}
