package models

import (
	"time"
)

// Status values a job moves through. Transitions are forward-only:
// pending -> running -> complete | failed.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Job: full state of one requested download. Only the job's own worker
// writes the mutable fields; everyone else reads snapshots from the store.
type Job struct {
	ID            string    `json:"id"`
	SourceURL     string    `json:"url"`
	Quality       string    `json:"quality"`
	Status        Status    `json:"status"`
	Progress      int       `json:"progress"`
	Filename      string    `json:"filename,omitempty"`
	FilePath      string    `json:"-"`
	Error         string    `json:"error,omitempty"`
	BytesReceived int64     `json:"-"`
	TotalBytes    int64     `json:"-"`
	CreatedAt     time.Time `json:"-"`
}

type StartDownloadRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
}
