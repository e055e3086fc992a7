package uploads

import (
	"errors"
	"time"
)

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

var (
	// ErrJobNotFound is returned for unknown or pruned job ids.
	ErrJobNotFound = errors.New("upload job not found")
	// ErrShuttingDown rejects new jobs once the manager is closed.
	ErrShuttingDown = errors.New("upload manager is shutting down")
)

// Job is a progress snapshot of one asynchronous pipeline run.
type Job struct {
	ID         string
	FileName   string
	Status     string
	Progress   int
	Step       string
	Stage      string
	Error      string
	DocumentID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Terminal reports whether the job has finished.
func (j Job) Terminal() bool {
	return j.Status == StatusSucceeded || j.Status == StatusFailed
}
