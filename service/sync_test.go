package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worker-recsync/dto"
	"worker-recsync/entities"
)

type stubSource struct {
	err  error
	runs int
}

func (s *stubSource) Run(ctx context.Context, tenant *entities.Tenant) error {
	s.runs++
	return s.err
}

func TestSyncService_UnknownTenant(t *testing.T) {
	zoomSrc := &stubSource{}
	calSrc := &stubSource{}
	service := NewSyncService(newFakeRepo(), zoomSrc, calSrc, nil)

	err := service.ProcessTenantSync(context.Background(), dto.TenantSyncMessage{TenantId: uuid.New()})
	require.Error(t, err)
	assert.Zero(t, zoomSrc.runs)
	assert.Zero(t, calSrc.runs)
}

func TestSyncService_RunsBothSources(t *testing.T) {
	repo := newFakeRepo()
	tenant := testTenant()
	repo.tenants[tenant.ID] = tenant

	zoomSrc := &stubSource{}
	calSrc := &stubSource{}
	service := NewSyncService(repo, zoomSrc, calSrc, nil)

	require.NoError(t, service.ProcessTenantSync(context.Background(), dto.TenantSyncMessage{TenantId: tenant.ID}))
	assert.Equal(t, 1, zoomSrc.runs)
	assert.Equal(t, 1, calSrc.runs)
}

func TestSyncService_AuthExhaustionAborts(t *testing.T) {
	repo := newFakeRepo()
	tenant := testTenant()
	repo.tenants[tenant.ID] = tenant

	zoomSrc := &stubSource{err: fmt.Errorf("%w: delegation denied", ErrAuthUnavailable)}
	calSrc := &stubSource{}
	service := NewSyncService(repo, zoomSrc, calSrc, nil)

	err := service.ProcessTenantSync(context.Background(), dto.TenantSyncMessage{TenantId: tenant.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthUnavailable)
	assert.Zero(t, calSrc.runs)
}

func TestSyncService_ConferenceFailureIsNotFatal(t *testing.T) {
	repo := newFakeRepo()
	tenant := testTenant()
	repo.tenants[tenant.ID] = tenant

	zoomSrc := &stubSource{err: errors.New("provider down")}
	calSrc := &stubSource{}
	service := NewSyncService(repo, zoomSrc, calSrc, nil)

	require.NoError(t, service.ProcessTenantSync(context.Background(), dto.TenantSyncMessage{TenantId: tenant.ID}))
	assert.Equal(t, 1, calSrc.runs)
}

func TestSyncService_ProcessTranscriptPoll(t *testing.T) {
	repo := newFakeRepo()
	tenant := testTenant()
	repo.tenants[tenant.ID] = tenant
	repo.meetings["evt-1"] = &entities.RecordedMeeting{EventID: "evt-1", Name: "standup", TranscriptID: "job-1"}
	repo.meetings["evt-2"] = &entities.RecordedMeeting{EventID: "evt-2", Name: "retro", TranscriptID: "job-2", Transcript: "done"}

	transcriber := &fakeTranscriber{ready: true, text: "hello"}
	jobs := NewTranscriptionManager(transcriber, repo, 1<<20)
	service := NewSyncService(repo, &stubSource{}, &stubSource{}, jobs)

	require.NoError(t, service.ProcessTranscriptPoll(context.Background(), dto.TranscriptPollMessage{TenantId: tenant.ID}))

	// Only the pending job is polled, the completed one is left alone.
	assert.Equal(t, 1, transcriber.pollCalls)
	assert.Equal(t, "hello", repo.meetings["evt-1"].Transcript)
	assert.Equal(t, "done", repo.meetings["evt-2"].Transcript)
}
