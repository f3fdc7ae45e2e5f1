package dto

import "github.com/google/uuid"

// TenantSyncMessage triggers a full recording sync run for one tenant.
type TenantSyncMessage struct {
	TenantId uuid.UUID `json:"tenantId"`
}

// TranscriptPollMessage re-drives transcript polling for a tenant's
// submitted jobs between sync runs.
type TranscriptPollMessage struct {
	TenantId uuid.UUID `json:"tenantId"`
}
