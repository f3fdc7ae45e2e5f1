package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"worker-recsync/entities"
)

type MeetingRepository interface {
	GetDB() *gorm.DB
	FindTenantById(ctx context.Context, id uuid.UUID) (*entities.Tenant, error)
	FindUserByConferenceHostId(ctx context.Context, tenantId uuid.UUID, hostId string) (*entities.User, error)
	FindUserByEmailLocalPart(ctx context.Context, tenantId uuid.UUID, localPart string) (*entities.User, error)
	GetRecordedMeetingByEventId(ctx context.Context, tenantId uuid.UUID, eventId string) (*entities.RecordedMeeting, error)
	GetRecordedMeetingsByTenantId(ctx context.Context, tenantId uuid.UUID) ([]*entities.RecordedMeeting, error)
	GetSubmittedRecordedMeetings(ctx context.Context, tenantId uuid.UUID) ([]*entities.RecordedMeeting, error)
	UpsertRecordedMeeting(ctx context.Context, meeting *entities.RecordedMeeting) (*entities.RecordedMeeting, error)
	UpdateRecordedMeeting(ctx context.Context, meeting *entities.RecordedMeeting) error
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *sql.DB) MeetingRepository {
	gormDB, _ := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		},
	)
	return &repo{
		db: gormDB,
	}
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}

func (r *repo) FindTenantById(ctx context.Context, id uuid.UUID) (*entities.Tenant, error) {
	tenant := &entities.Tenant{}
	err := r.GetDB().WithContext(ctx).First(tenant, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return tenant, nil
}

func (r *repo) FindUserByConferenceHostId(ctx context.Context, tenantId uuid.UUID, hostId string) (*entities.User, error) {
	user := &entities.User{}
	err := r.GetDB().WithContext(ctx).
		Where("tenant_id = ? AND conference_host_id = ?", tenantId, hostId).
		First(user).Error
	if err != nil {
		return nil, err
	}

	return user, nil
}

// FindUserByEmailLocalPart matches on the part of the address before the
// tenant domain, which is how the calendar source identifies people.
func (r *repo) FindUserByEmailLocalPart(ctx context.Context, tenantId uuid.UUID, localPart string) (*entities.User, error) {
	user := &entities.User{}
	err := r.GetDB().WithContext(ctx).
		Where("tenant_id = ? AND split_part(email, '@', 1) = ?", tenantId, strings.ToLower(localPart)).
		First(user).Error
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *repo) GetRecordedMeetingByEventId(ctx context.Context, tenantId uuid.UUID, eventId string) (*entities.RecordedMeeting, error) {
	meeting := &entities.RecordedMeeting{}
	err := r.GetDB().WithContext(ctx).
		Where("tenant_id = ? AND external_event_id = ?", tenantId, eventId).
		First(meeting).Error
	if err != nil {
		return nil, err
	}

	return meeting, nil
}

func (r *repo) GetRecordedMeetingsByTenantId(ctx context.Context, tenantId uuid.UUID) ([]*entities.RecordedMeeting, error) {
	var meetings []*entities.RecordedMeeting
	err := r.GetDB().WithContext(ctx).
		Where("tenant_id = ?", tenantId).
		Order("start_time ASC").
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}

	return meetings, nil
}

func (r *repo) GetSubmittedRecordedMeetings(ctx context.Context, tenantId uuid.UUID) ([]*entities.RecordedMeeting, error) {
	var meetings []*entities.RecordedMeeting
	err := r.GetDB().WithContext(ctx).
		Where("tenant_id = ? AND transcript_id <> '' AND transcript = ''", tenantId).
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}

	return meetings, nil
}

// UpsertRecordedMeeting is the only write path into recorded_meetings.
// The row is matched on (tenant_id, external_event_id); a second upsert
// with the same key updates the existing row. A non-empty stored
// transcript is never replaced by an empty incoming one.
func (r *repo) UpsertRecordedMeeting(ctx context.Context, meeting *entities.RecordedMeeting) (*entities.RecordedMeeting, error) {
	existing := &entities.RecordedMeeting{}
	err := r.GetDB().WithContext(ctx).
		Where("tenant_id = ? AND external_event_id = ?", meeting.TenantID, meeting.EventID).
		First(existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		if createErr := r.GetDB().WithContext(ctx).Create(meeting).Error; createErr != nil {
			return nil, createErr
		}
		return meeting, nil
	}

	preserveTranscriptFields(meeting, existing)

	meeting.ID = existing.ID
	meeting.CreatedAt = existing.CreatedAt
	if err := r.GetDB().WithContext(ctx).Save(meeting).Error; err != nil {
		return nil, err
	}

	return meeting, nil
}

func (r *repo) UpdateRecordedMeeting(ctx context.Context, meeting *entities.RecordedMeeting) error {
	return r.GetDB().WithContext(ctx).Save(meeting).Error
}

// preserveTranscriptFields keeps transcript progress monotonic on update.
// An incoming row that has not seen the transcript yet must not wipe out
// what an earlier run already stored.
func preserveTranscriptFields(incoming, existing *entities.RecordedMeeting) {
	if incoming.Transcript == "" {
		incoming.Transcript = existing.Transcript
	}
	if incoming.TranscriptID == "" {
		incoming.TranscriptID = existing.TranscriptID
	}
}
