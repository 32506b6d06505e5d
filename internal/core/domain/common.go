package domain

import "time"

// AuditFields is embedded by every persisted entity and records who touched
// it and when. CreatedBy and LastUpdatedBy hold user IDs.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
