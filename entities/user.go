package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a directory member of a tenant. ConferenceHostID is the id the
// conferencing provider assigns the user as a meeting host.
type User struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID         uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index:idx_users_tenant_id"`
	Email            string    `json:"email" gorm:"type:varchar(255);not null"`
	FirstName        string    `json:"first_name" gorm:"type:varchar(255)"`
	LastName         string    `json:"last_name" gorm:"type:varchar(255)"`
	ConferenceHostID string    `json:"conference_host_id" gorm:"type:varchar(255);index:idx_users_conference_host_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
