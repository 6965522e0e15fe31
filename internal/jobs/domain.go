package jobs

import "time"

// Job statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Job is an application tracked by a single user. Every operation is scoped
// to the owning user; there is no admin override.
type Job struct {
	ID        int64     `json:"id" db:"id"`
	Company   string    `json:"company" db:"company"`
	Position  string    `json:"position" db:"position"`
	Status    string    `json:"status" db:"status"`
	Salary    *int64    `json:"salary,omitempty" db:"salary"`
	CreatedBy int64     `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
