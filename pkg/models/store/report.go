package store

import "time"

// ReportRun is the persisted record of one report generation attempt.
type ReportRun struct {
	ID          string
	Account     string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Artifact    string
	RowsFetched int64
	RowsKept    int64
	Status      string
	CreatedAt   time.Time
}

// Run statuses.
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)
