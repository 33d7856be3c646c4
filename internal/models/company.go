package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the relational projection of a tenant. The authoritative
// document lives in the document store; DocumentID cross-references it.
type Company struct {
	ID           uuid.UUID `json:"id" db:"id"`
	DocumentID   string    `json:"document_id" db:"document_id"`
	Name         string    `json:"name" db:"name"`
	NIT          string    `json:"nit" db:"nit"`
	Address      string    `json:"address" db:"address"`
	Phone        string    `json:"phone" db:"phone"`
	Email        string    `json:"email" db:"email"`
	SecurityCode string    `json:"-" db:"security_code"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
