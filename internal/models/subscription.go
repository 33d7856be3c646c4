package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPlanName is the plan every company starts on at provisioning time.
const DefaultPlanName = "basic"

type Subscription struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CompanyID uuid.UUID  `json:"company_id" db:"company_id"`
	PlanName  string     `json:"plan_name" db:"plan_name"`
	Status    string     `json:"status" db:"status"`
	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date" db:"end_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
