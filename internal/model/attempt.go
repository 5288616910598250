package model

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is the runtime record of scheduling and attempting delivery of one
// Job. The engine owns the attempt while it is live; reporters receive value
// copies and must not assume further updates after a terminal status.
type Attempt struct {
	ID        string
	Job       Job
	Status    Status
	Error     string
	UpdatedAt time.Time
}

// NewAttempt registers a job for scheduling.
func NewAttempt(job Job) *Attempt {
	return &Attempt{
		ID:        uuid.NewString(),
		Job:       job,
		Status:    Scheduled,
		UpdatedAt: time.Now().UTC(),
	}
}
