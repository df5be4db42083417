package transport

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fastygo/taskdesk/domain"
)

var validate = validator.New()

// Validate runs the struct tags of a request DTO.
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// TaskRequest is the body of POST /api/tasks and PUT /api/tasks/{id}.
// Every field is optional at the transport level; title is enforced on create.
type TaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=500"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueAt       *string `json:"due_at"`
	Source      *string `json:"source" validate:"omitempty,oneof=MANUAL AI_EXTRACTED"`
}

// DueTime parses due_at. Empty or null means no due date.
func (r TaskRequest) DueTime() (*time.Time, error) {
	if r.DueAt == nil || strings.TrimSpace(*r.DueAt) == "" {
		return nil, nil
	}
	raw := strings.TrimSpace(*r.DueAt)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, domain.NewError(domain.ErrCodeInvalid, "invalid due_at")
}

func (r TaskRequest) Task() (*domain.Task, error) {
	due, err := r.DueTime()
	if err != nil {
		return nil, err
	}
	return &domain.Task{
		Title:       value(r.Title),
		Description: value(r.Description),
		Status:      domain.TaskStatus(value(r.Status)),
		Priority:    domain.TaskPriority(value(r.Priority)),
		DueAt:       due,
		Source:      domain.TaskSource(value(r.Source)),
	}, nil
}

// Patch treats empty strings like omitted fields.
func (r TaskRequest) Patch() (domain.TaskPatch, error) {
	due, err := r.DueTime()
	if err != nil {
		return domain.TaskPatch{}, err
	}
	patch := domain.TaskPatch{DueAt: due}
	if v := value(r.Title); v != "" {
		patch.Title = &v
	}
	if v := value(r.Description); v != "" {
		patch.Description = &v
	}
	if v := value(r.Status); v != "" {
		status := domain.TaskStatus(v)
		patch.Status = &status
	}
	if v := value(r.Priority); v != "" {
		priority := domain.TaskPriority(v)
		patch.Priority = &priority
	}
	return patch, nil
}

type ExtractRequest struct {
	Text *string `json:"text"`
}

type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfessionRequest struct {
	Profession string `json:"profession" validate:"required"`
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
