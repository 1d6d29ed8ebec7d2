package model

import "time"

// RunStatus represents the current state of an enrichment run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunSource records where a run's inputs came from.
type RunSource struct {
	Players   string `json:"players"`
	Countries string `json:"countries"`
	Output    string `json:"output,omitempty"`
	Provider  string `json:"provider,omitempty"`
}

// RunSummary counts per-row outcomes of a run.
type RunSummary struct {
	Total          int                   `json:"total"`
	PERUndefined   int                   `json:"per_undefined"`
	Resolved       int                   `json:"resolved"`
	Unresolved     int                   `json:"unresolved"`
	CountryMissing int                   `json:"country_missing"`
	Failures       map[FailureReason]int `json:"failures,omitempty"`
}

// Run is a single invocation of the enrichment pipeline.
type Run struct {
	ID         string      `json:"id"`
	Source     RunSource   `json:"source"`
	Status     RunStatus   `json:"status"`
	Summary    *RunSummary `json:"summary,omitempty"`
	Error      string      `json:"error,omitempty"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// PlayerRecord is the persisted form of an enriched row.
type PlayerRecord struct {
	RunID             string   `json:"run_id"`
	Index             int      `json:"index"`
	Row               int      `json:"row"`
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	SchoolCity        string   `json:"school_city"`
	BirthplaceAddress string   `json:"birthplace_address"`
	PER               *float64 `json:"per,omitempty"`
	Miles             *float64 `json:"miles,omitempty"`
	FailureReason     string   `json:"failure_reason,omitempty"`
}
