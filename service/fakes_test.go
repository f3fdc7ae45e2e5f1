package service

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"worker-recsync/entities"
	"worker-recsync/pkg/gworkspace"
	"worker-recsync/pkg/zoom"
)

type fakeRepo struct {
	tenants     map[uuid.UUID]*entities.Tenant
	usersByHost map[string]*entities.User
	usersByPart map[string]*entities.User
	meetings    map[string]*entities.RecordedMeeting

	upsertCalls int
	updateCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tenants:     make(map[uuid.UUID]*entities.Tenant),
		usersByHost: make(map[string]*entities.User),
		usersByPart: make(map[string]*entities.User),
		meetings:    make(map[string]*entities.RecordedMeeting),
	}
}

func (f *fakeRepo) GetDB() *gorm.DB { return nil }

func (f *fakeRepo) FindTenantById(ctx context.Context, id uuid.UUID) (*entities.Tenant, error) {
	tenant, ok := f.tenants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tenant, nil
}

func (f *fakeRepo) FindUserByConferenceHostId(ctx context.Context, tenantId uuid.UUID, hostId string) (*entities.User, error) {
	user, ok := f.usersByHost[hostId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeRepo) FindUserByEmailLocalPart(ctx context.Context, tenantId uuid.UUID, localPart string) (*entities.User, error) {
	user, ok := f.usersByPart[localPart]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeRepo) GetRecordedMeetingByEventId(ctx context.Context, tenantId uuid.UUID, eventId string) (*entities.RecordedMeeting, error) {
	meeting, ok := f.meetings[eventId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *meeting
	return &copied, nil
}

func (f *fakeRepo) GetRecordedMeetingsByTenantId(ctx context.Context, tenantId uuid.UUID) ([]*entities.RecordedMeeting, error) {
	var meetings []*entities.RecordedMeeting
	for _, meeting := range f.meetings {
		copied := *meeting
		meetings = append(meetings, &copied)
	}
	return meetings, nil
}

func (f *fakeRepo) GetSubmittedRecordedMeetings(ctx context.Context, tenantId uuid.UUID) ([]*entities.RecordedMeeting, error) {
	var meetings []*entities.RecordedMeeting
	for _, meeting := range f.meetings {
		if meeting.TranscriptID != "" && meeting.Transcript == "" {
			copied := *meeting
			meetings = append(meetings, &copied)
		}
	}
	return meetings, nil
}

func (f *fakeRepo) UpsertRecordedMeeting(ctx context.Context, meeting *entities.RecordedMeeting) (*entities.RecordedMeeting, error) {
	f.upsertCalls++
	if existing, ok := f.meetings[meeting.EventID]; ok {
		if meeting.Transcript == "" {
			meeting.Transcript = existing.Transcript
		}
		if meeting.TranscriptID == "" {
			meeting.TranscriptID = existing.TranscriptID
		}
		meeting.ID = existing.ID
	} else {
		meeting.ID = uuid.New()
	}
	copied := *meeting
	f.meetings[meeting.EventID] = &copied
	return meeting, nil
}

func (f *fakeRepo) UpdateRecordedMeeting(ctx context.Context, meeting *entities.RecordedMeeting) error {
	f.updateCalls++
	copied := *meeting
	f.meetings[meeting.EventID] = &copied
	return nil
}

type fakeStore struct {
	uploads map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: make(map[string][]byte)}
}

func (f *fakeStore) CreateFolder(ctx context.Context, parent, name string) (string, error) {
	return path.Join(parent, name), nil
}

func (f *fakeStore) Upload(ctx context.Context, folder, name, mimeType string, data []byte) (string, error) {
	key := path.Join(folder, name)
	f.uploads[key] = data
	return "store://" + key, nil
}

type fakeConference struct {
	meetings  []zoom.Meeting
	listErr   error
	downloads map[string][]byte

	tokenCalls int
	deleted    []string
}

func (f *fakeConference) ListAccountRecordings(ctx context.Context, from, to time.Time) ([]zoom.Meeting, error) {
	return f.meetings, f.listErr
}

func (f *fakeConference) AccessToken(ctx context.Context) (string, error) {
	f.tokenCalls++
	return "conference-token", nil
}

func (f *fakeConference) Download(ctx context.Context, downloadURL, token string) ([]byte, error) {
	data, ok := f.downloads[downloadURL]
	if !ok {
		return nil, fmt.Errorf("no such download %s", downloadURL)
	}
	return data, nil
}

func (f *fakeConference) DeleteRecording(ctx context.Context, meetingID, recordingID string) error {
	f.deleted = append(f.deleted, recordingID)
	return nil
}

type fakeWorkspace struct {
	calendars   []gworkspace.Calendar
	eventsByCal map[string][]gworkspace.Event
	owners      map[string][]string
	files       map[string][]byte
	grantErr    error

	listCalendarCalls int
	ownerLookups      int
	downloadCalls     int
	grants            []string
}

func newFakeWorkspace() *fakeWorkspace {
	return &fakeWorkspace{
		eventsByCal: make(map[string][]gworkspace.Event),
		owners:      make(map[string][]string),
		files:       make(map[string][]byte),
	}
}

func (f *fakeWorkspace) ListCalendars(ctx context.Context, token string) ([]gworkspace.Calendar, error) {
	f.listCalendarCalls++
	return f.calendars, nil
}

func (f *fakeWorkspace) ListEvents(ctx context.Context, token, calendarID string, timeMax time.Time) ([]gworkspace.Event, error) {
	return f.eventsByCal[calendarID], nil
}

func (f *fakeWorkspace) GetFileOwners(ctx context.Context, token, fileID string) ([]string, error) {
	f.ownerLookups++
	return f.owners[fileID], nil
}

func (f *fakeWorkspace) DownloadFile(ctx context.Context, token, fileID string) ([]byte, error) {
	f.downloadCalls++
	data, ok := f.files[fileID]
	if !ok {
		return nil, fmt.Errorf("no such file %s", fileID)
	}
	return data, nil
}

func (f *fakeWorkspace) GrantPermission(ctx context.Context, token, fileID, email, role, principalType string) error {
	f.grants = append(f.grants, fileID)
	return f.grantErr
}

type fakeAuth struct {
	delegatedErr map[string]error
	standingErr  error

	delegatedCalls []string
	standingCalls  int
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{delegatedErr: make(map[string]error)}
}

func (f *fakeAuth) DelegatedToken(ctx context.Context, subject string) (string, error) {
	f.delegatedCalls = append(f.delegatedCalls, subject)
	if err, ok := f.delegatedErr[subject]; ok {
		return "", err
	}
	return "delegated-" + subject, nil
}

func (f *fakeAuth) StandingToken(ctx context.Context) (string, error) {
	f.standingCalls++
	if f.standingErr != nil {
		return "", f.standingErr
	}
	return "standing-token", nil
}

type fakeTranscriber struct {
	jobID     string
	submitErr error
	text      string
	ready     bool
	pollErr   error

	submitCalls int
	pollCalls   int
}

func (f *fakeTranscriber) SubmitJob(ctx context.Context, media []byte) (string, error) {
	f.submitCalls++
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.jobID, nil
}

func (f *fakeTranscriber) TranscriptText(ctx context.Context, jobID string) (string, bool, error) {
	f.pollCalls++
	if f.pollErr != nil {
		return "", false, f.pollErr
	}
	return f.text, f.ready, nil
}

type fakeMirror struct {
	records map[string]*entities.RecordedMeeting

	pushed [][]*entities.RecordedMeeting
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{records: make(map[string]*entities.RecordedMeeting)}
}

func (f *fakeMirror) GetRecordedMeeting(ctx context.Context, tenantId uuid.UUID, eventId string) (*entities.RecordedMeeting, error) {
	meeting, ok := f.records[eventId]
	if !ok {
		return nil, nil
	}
	copied := *meeting
	return &copied, nil
}

func (f *fakeMirror) PushRecordedMeetings(ctx context.Context, tenantId uuid.UUID, meetings []*entities.RecordedMeeting) error {
	f.pushed = append(f.pushed, meetings)
	return nil
}
