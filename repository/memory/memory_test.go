package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/repository"
)

// stepClock returns strictly increasing timestamps.
func stepClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestTaskRepositoryOrdering(t *testing.T) {
	repo := NewTaskRepository().(*taskRepository)
	repo.now = stepClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	later := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	sooner := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mk := func(title string, due *time.Time) {
		_, err := repo.Create(ctx, &domain.Task{Title: title, DueAt: due, Status: domain.StatusPending})
		require.NoError(t, err)
	}
	mk("undated-old", nil)
	mk("later", &later)
	mk("undated-new", nil)
	mk("sooner", &sooner)

	tasks, err := repo.List(ctx, repository.TaskFilter{})
	require.NoError(t, err)

	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"sooner", "later", "undated-new", "undated-old"}, titles)

	page, err := repo.List(ctx, repository.TaskFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "later", page[0].Title)

	empty, err := repo.List(ctx, repository.TaskFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTaskRepositoryOrderingWithEqualTimestamps(t *testing.T) {
	repo := NewTaskRepository().(*taskRepository)
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return frozen }
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third", "fourth"} {
		_, err := repo.Create(ctx, &domain.Task{Title: title, Status: domain.StatusPending})
		require.NoError(t, err)
	}

	for i := 0; i < 5; i++ {
		tasks, err := repo.List(ctx, repository.TaskFilter{})
		require.NoError(t, err)
		var titles []string
		for _, task := range tasks {
			titles = append(titles, task.Title)
		}
		require.Equal(t, []string{"fourth", "third", "second", "first"}, titles)
	}

	page, err := repo.List(ctx, repository.TaskFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "second", page[0].Title)
}

func TestTaskRepositoryFilters(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	_, _ = repo.Create(ctx, &domain.Task{Title: "a", Status: domain.StatusPending, Source: domain.SourceManual})
	_, _ = repo.Create(ctx, &domain.Task{Title: "b", Status: domain.StatusCompleted, Source: domain.SourceAIExtracted})

	done, err := repo.List(ctx, repository.TaskFilter{Status: domain.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "b", done[0].Title)

	ai, err := repo.List(ctx, repository.TaskFilter{Source: domain.SourceAIExtracted})
	require.NoError(t, err)
	assert.Len(t, ai, 1)
}

func TestTaskRepositoryUpdateCoalesces(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Task{Title: "Old", Description: "desc", Status: domain.StatusPending})
	require.NoError(t, err)

	empty := ""
	status := domain.StatusInProgress
	updated, err := repo.Update(ctx, created.ID, domain.TaskPatch{Title: &empty, Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "Old", updated.Title)
	assert.Equal(t, "desc", updated.Description)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	_, err = repo.Update(ctx, "missing", domain.TaskPatch{})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskRepositoryDelete(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Task{Title: "x"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), domain.ErrTaskNotFound)
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := &domain.User{FullName: "Ada", Email: "Ada@Example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	dup := &domain.User{FullName: "Other", Email: " ada@example.com ", PasswordHash: "x"}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrEmailTaken)

	got, err := repo.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	updated, err := repo.UpdateProfession(ctx, user.ID, domain.ProfessionStudent)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfessionStudent, updated.Profession)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = repo.UpdateProfession(ctx, "nope", domain.ProfessionSenior)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSessionRepositoryExpiry(t *testing.T) {
	repo := NewSessionRepository(time.Minute).(*sessionRepository)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "s1", UserID: "u1"}))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Minute), got.ExpiresAt)

	now = now.Add(2 * time.Minute)
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, repo.Save(ctx, &domain.Session{}), domain.ErrInvalidPayload)
	require.NoError(t, repo.Delete(ctx, "absent"))
}
