package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MembershipRoleAdmin = "admin"
)

// Membership links a user to a company. At most one membership per user
// carries IsDefault = true; this is enforced by an explicit update after
// insert, not by a database constraint.
type Membership struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CompanyID uuid.UUID `json:"company_id" db:"company_id"`
	Role      string    `json:"role" db:"role"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
