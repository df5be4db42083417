package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/repository/memory"
)

func at(t time.Time) *time.Time { return &t }

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{Status: domain.StatusPending, DueAt: at(now.Add(-26 * time.Hour))},
		{Status: domain.StatusPending, DueAt: at(now.Add(2 * time.Hour)), Source: domain.SourceAIExtracted},
		{Status: domain.StatusInProgress, DueAt: at(now.Add(-2 * time.Hour))},
		{Status: domain.StatusCompleted, DueAt: at(now.Add(-48 * time.Hour))},
		{Status: domain.StatusPending, DueAt: at(now.Add(20 * time.Hour))},
		{Status: domain.StatusPending, Source: domain.SourceAIExtracted},
	}

	s := Summarize(tasks, now)
	assert.Equal(t, domain.TaskSummary{
		Total:       6,
		Pending:     4,
		InProgress:  1,
		Completed:   1,
		DueToday:    2,
		Overdue:     1,
		AIExtracted: 2,
	}, s)
}

func TestBuild(t *testing.T) {
	repo := memory.NewTaskRepository()
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		status := domain.StatusPending
		if i == 0 {
			status = domain.StatusCompleted
		}
		_, err := repo.Create(ctx, &domain.Task{Title: "t", Status: status, DueAt: at(time.Now().Add(time.Duration(i) * time.Hour))})
		require.NoError(t, err)
	}

	uc := New(repo, nil)
	d, err := uc.Build(ctx, "Professional")
	require.NoError(t, err)

	assert.Equal(t, "Professional Dashboard", d.Profile.DashboardTitle)
	assert.Equal(t, 7, d.Summary.Total)
	require.Len(t, d.Upcoming, 5)
	for _, task := range d.Upcoming {
		assert.False(t, task.IsCompleted())
	}
}

func TestBuildUnknownProfession(t *testing.T) {
	uc := New(memory.NewTaskRepository(), nil)
	_, err := uc.Build(context.Background(), "pilot")
	assert.ErrorIs(t, err, domain.ErrUnknownProfession)
}

func TestBuildWithoutProfession(t *testing.T) {
	uc := New(memory.NewTaskRepository(), nil)
	for _, value := range []string{"", "   "} {
		_, err := uc.Build(context.Background(), value)
		assert.ErrorIs(t, err, domain.ErrNoProfession)
	}
}
