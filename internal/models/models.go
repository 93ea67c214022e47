package models

import "time"

// MilestoneResult is the per-milestone outcome of one reminder run
type MilestoneResult struct {
	Milestone        int      `json:"milestone"`
	Processed        int      `json:"processed"`
	Errors           int      `json:"errors"`
	FailedBookingIDs []string `json:"failedBookingIds,omitempty"`
}

// RunResponse is returned by the payment reminders function
type RunResponse struct {
	Success bool              `json:"success"`
	Results []MilestoneResult `json:"results,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// RunReport is the operator-facing record of one reminder run
type RunReport struct {
	RunID      string            `json:"run_id"`
	Trigger    string            `json:"trigger"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	DurationMs int64             `json:"duration_ms"`
	Processed  int               `json:"processed"`
	Errors     int               `json:"errors"`
	Results    []MilestoneResult `json:"results"`
}
