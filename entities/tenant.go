package entities

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Domain       string    `json:"domain" gorm:"type:varchar(255);not null;uniqueIndex:unique_tenant_domain"`
	AdminEmail   string    `json:"admin_email" gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}
