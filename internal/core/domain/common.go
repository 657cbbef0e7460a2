package domain

import "time"

// AuditFields records who created and last changed a ledger row and when.
// CreatedBy and LastUpdatedBy hold the actor's user ID.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
