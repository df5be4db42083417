package dashboard

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/repository"
	"github.com/fastygo/taskdesk/usecase"
)

const upcomingLimit = 5

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{tasks: tasks, logger: logger, now: time.Now}
}

// Build assembles the dashboard for a profession id such as "student".
func (uc *UseCase) Build(ctx context.Context, profession string) (*domain.Dashboard, error) {
	if strings.TrimSpace(profession) == "" {
		return nil, domain.ErrNoProfession
	}
	id, err := domain.ParseProfession(profession)
	if err != nil {
		return nil, err
	}
	profile, _ := id.Profile()

	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, usecase.Internal("failed to load tasks", err)
	}

	now := uc.now()
	return &domain.Dashboard{
		Profile:     profile,
		Summary:     Summarize(tasks, now),
		Upcoming:    upcoming(tasks, upcomingLimit),
		GeneratedAt: now.UTC(),
	}, nil
}

// Summarize counts tasks relative to the calendar day of now. Completed
// tasks are never due or overdue.
func Summarize(tasks []domain.Task, now time.Time) domain.TaskSummary {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	var s domain.TaskSummary
	for _, t := range tasks {
		s.Total++
		switch t.Status {
		case domain.StatusPending:
			s.Pending++
		case domain.StatusInProgress:
			s.InProgress++
		case domain.StatusCompleted:
			s.Completed++
		}
		if t.Source == domain.SourceAIExtracted {
			s.AIExtracted++
		}
		if t.DueAt == nil || t.IsCompleted() {
			continue
		}
		due := t.DueAt.In(now.Location())
		switch {
		case due.Before(startOfDay):
			s.Overdue++
		case due.Before(endOfDay):
			s.DueToday++
		}
	}
	return s
}

// upcoming keeps repository order, which already puts the nearest due date first.
func upcoming(tasks []domain.Task, limit int) []domain.Task {
	out := make([]domain.Task, 0, limit)
	for _, t := range tasks {
		if t.IsCompleted() {
			continue
		}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out
}
