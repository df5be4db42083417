package domain

import "time"

// TaskSummary aggregates task counts for a dashboard.
type TaskSummary struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	InProgress  int `json:"in_progress"`
	Completed   int `json:"completed"`
	DueToday    int `json:"due_today"`
	Overdue     int `json:"overdue"`
	AIExtracted int `json:"ai_extracted"`
}

// Dashboard is the payload behind one profession dashboard.
type Dashboard struct {
	Profile     ProfessionProfile `json:"profile"`
	Summary     TaskSummary       `json:"summary"`
	Upcoming    []Task            `json:"upcoming"`
	GeneratedAt time.Time         `json:"generated_at"`
}
