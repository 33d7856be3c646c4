package models

import (
	"time"

	"github.com/google/uuid"
)

// Artifact kinds a reconciliation task can point at.
const (
	ArtifactCompanyRow      = "company_row"
	ArtifactStoreRow        = "store_row"
	ArtifactMembershipRow   = "membership_row"
	ArtifactSubscriptionRow = "subscription_row"
	ArtifactCompanyDoc      = "company_doc"
	ArtifactStoreDoc        = "store_doc"
)

// Stores an artifact can live in.
const (
	StoreRelational = "relational"
	StoreDocument   = "document"
)

// ReconciliationTask records an artifact whose compensating delete failed.
// The background sweep retries the delete with capped attempts.
type ReconciliationTask struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SagaID     uuid.UUID `json:"saga_id" db:"saga_id"`
	Artifact   string    `json:"artifact" db:"artifact"`
	ArtifactID string    `json:"artifact_id" db:"artifact_id"`
	Store      string    `json:"store" db:"store"`
	Attempts   int       `json:"attempts" db:"attempts"`
	LastError  *string   `json:"last_error" db:"last_error"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
