package domain

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// TaskSource tags where a task record came from.
type TaskSource string

const (
	SourceManual      TaskSource = "MANUAL"
	SourceAIExtracted TaskSource = "AI_EXTRACTED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (s TaskSource) Valid() bool {
	return s == SourceManual || s == SourceAIExtracted
}

// Task is a persisted task record.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueAt       *time.Time   `json:"due_at"`
	Source      TaskSource   `json:"source"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// ApplyDefaults fills the fields a caller may omit on creation.
func (t *Task) ApplyDefaults() {
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Source == "" {
		t.Source = SourceManual
	}
}

// Validate reports the first field that makes the task unstorable.
func (t *Task) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrTitleRequired
	}
	if !t.Status.Valid() {
		return NewError(ErrCodeInvalid, "invalid status")
	}
	if !t.Priority.Valid() {
		return NewError(ErrCodeInvalid, "invalid priority")
	}
	if !t.Source.Valid() {
		return NewError(ErrCodeInvalid, "invalid source")
	}
	return nil
}

// Candidate is an extraction result that has not been persisted yet.
type Candidate struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueAt       *time.Time   `json:"due_at"`
	Source      TaskSource   `json:"source"`
}

// Task converts the candidate into an unsaved task record.
func (c Candidate) Task() *Task {
	return &Task{
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		Priority:    c.Priority,
		DueAt:       c.DueAt,
		Source:      c.Source,
	}
}

// TaskPatch carries a partial update. Nil fields keep the stored value,
// so a patch can never clear a field back to empty.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueAt       *time.Time
}

func (p TaskPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return NewError(ErrCodeInvalid, "invalid status")
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return NewError(ErrCodeInvalid, "invalid priority")
	}
	return nil
}

// Apply merges the patch into t in place.
func (p TaskPatch) Apply(t *Task) {
	if t == nil {
		return
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueAt != nil {
		due := *p.DueAt
		t.DueAt = &due
	}
}
