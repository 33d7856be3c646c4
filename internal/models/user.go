package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the internal identity behind an external-auth subject. Created at
// most once per subject; never deleted by provisioning.
type User struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	AuthSubject string     `json:"-" db:"auth_subject"`
	Email       string     `json:"email" db:"email"`
	FirstName   string     `json:"first_name" db:"first_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	Phone       string     `json:"phone" db:"phone"`
	BirthDate   *time.Time `json:"birth_date" db:"birth_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
