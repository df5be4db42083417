package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/internal/infrastructure/buffer"
	"github.com/fastygo/taskdesk/repository"
	"github.com/fastygo/taskdesk/repository/memory"
	"github.com/fastygo/taskdesk/usecase"
)

type staticHealth bool

func (h staticHealth) IsOnline() bool { return bool(h) }

func newProcessor(t *testing.T, online bool, cfg ProcessorConfig) (*BufferProcessor, *buffer.Store, repository.TaskRepository) {
	t.Helper()
	store, err := buffer.Open(filepath.Join(t.TempDir(), "buffer.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	repo := memory.NewTaskRepository()
	bp, err := NewBufferProcessor(store, staticHealth(online), repo, nil, cfg)
	require.NoError(t, err)
	return bp, store, repo
}

func TestDrainReplaysBufferedCreate(t *testing.T) {
	bp, store, repo := newProcessor(t, true, ProcessorConfig{})
	bridge := NewBufferBridge(bp)
	ctx := context.Background()

	task := &domain.Task{ID: "t-1", Title: "Pay rent", Status: domain.StatusPending, Priority: domain.PriorityHigh, Source: domain.SourceManual}
	require.NoError(t, bridge.BufferTask(ctx, usecase.TaskWrite{Operation: usecase.OperationCreate, Task: task}))
	assert.Equal(t, 1, bp.Size())

	require.NoError(t, bp.Drain(ctx))

	stored, err := repo.GetByID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", stored.Title)
	size, err := store.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestDrainIsIdempotent(t *testing.T) {
	bp, _, repo := newProcessor(t, true, ProcessorConfig{})
	bridge := NewBufferBridge(bp)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Task{ID: "t-1", Title: "Already there"})
	require.NoError(t, err)

	require.NoError(t, bridge.BufferTask(ctx, usecase.TaskWrite{Operation: usecase.OperationCreate, Task: &domain.Task{ID: "t-1", Title: "Replay"}}))
	require.NoError(t, bridge.BufferTask(ctx, usecase.TaskWrite{Operation: usecase.OperationDelete, Task: &domain.Task{ID: "missing"}}))
	require.NoError(t, bp.Drain(ctx))

	stored, err := repo.GetByID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "Already there", stored.Title)
	assert.Zero(t, bp.Size())
}

func TestDrainReplaysDelete(t *testing.T) {
	bp, _, repo := newProcessor(t, true, ProcessorConfig{})
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Task{ID: "t-2", Title: "Old"})
	require.NoError(t, err)
	require.NoError(t, NewBufferBridge(bp).BufferTask(ctx, usecase.TaskWrite{Operation: usecase.OperationDelete, Task: &domain.Task{ID: "t-2"}}))
	require.NoError(t, bp.Drain(ctx))

	_, err = repo.GetByID(ctx, "t-2")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestBufferedCreateThenDeleteLeavesNoTask(t *testing.T) {
	bp, _, repo := newProcessor(t, true, ProcessorConfig{})
	bridge := NewBufferBridge(bp)
	ctx := context.Background()

	task := &domain.Task{ID: "t-9", Title: "Short lived"}
	require.NoError(t, bridge.BufferTask(ctx, usecase.TaskWrite{Operation: usecase.OperationCreate, Task: task}))
	require.NoError(t, bridge.BufferTask(ctx, usecase.TaskWrite{Operation: usecase.OperationDelete, Task: task}))
	assert.Equal(t, 1, bp.Size(), "delete cancels the pending create")

	require.NoError(t, bp.Drain(ctx))

	_, err := repo.GetByID(ctx, "t-9")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Zero(t, bp.Size())
}

func TestDrainReplaysWritesInArrivalOrder(t *testing.T) {
	bp, store, repo := newProcessor(t, true, ProcessorConfig{})
	ctx := context.Background()

	payload := []byte(`{"id":"t-10","title":"Both in one batch"}`)
	stamp := time.Now()
	require.NoError(t, store.Enqueue(buffer.Item{Entity: buffer.EntityTask, Operation: buffer.OperationCreate, Ref: "t-10", Data: payload, Priority: 4, Timestamp: stamp}))
	require.NoError(t, store.Enqueue(buffer.Item{Entity: buffer.EntityTask, Operation: buffer.OperationDelete, Ref: "t-10", Data: payload, Priority: 4, Timestamp: stamp}))

	require.NoError(t, bp.Drain(ctx))

	_, err := repo.GetByID(ctx, "t-10")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Zero(t, bp.Size())
}

func TestDrainSkipsWhileOffline(t *testing.T) {
	bp, _, repo := newProcessor(t, false, ProcessorConfig{})
	ctx := context.Background()

	require.NoError(t, NewBufferBridge(bp).BufferTask(ctx, usecase.TaskWrite{Operation: usecase.OperationCreate, Task: &domain.Task{ID: "t-3", Title: "Wait"}}))
	require.NoError(t, bp.Drain(ctx))

	assert.Equal(t, 1, bp.Size())
	_, err := repo.GetByID(ctx, "t-3")
	assert.Error(t, err)
}

func TestDrainDropsAfterMaxRetries(t *testing.T) {
	bp, store, _ := newProcessor(t, true, ProcessorConfig{MaxRetries: 2})
	ctx := context.Background()
	require.NoError(t, store.Enqueue(buffer.Item{Entity: "profile", Operation: buffer.OperationCreate}))

	require.NoError(t, bp.Drain(ctx))
	assert.Equal(t, 1, bp.Size(), "first failure requeues")

	require.NoError(t, bp.Drain(ctx))
	assert.Zero(t, bp.Size(), "second failure drops")
}

func TestDrainDropsExpiredItems(t *testing.T) {
	bp, store, _ := newProcessor(t, false, ProcessorConfig{Retention: time.Hour})
	require.NoError(t, store.Enqueue(buffer.Item{Entity: buffer.EntityTask, Operation: buffer.OperationDelete, Timestamp: time.Now().Add(-2 * time.Hour)}))

	require.NoError(t, bp.Drain(context.Background()))
	assert.Zero(t, bp.Size())
}

func TestBridgeRejectsUnknownOperation(t *testing.T) {
	bp, _, _ := newProcessor(t, true, ProcessorConfig{})
	err := NewBufferBridge(bp).BufferTask(context.Background(), usecase.TaskWrite{Operation: "update", Task: &domain.Task{ID: "x"}})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestStartStop(t *testing.T) {
	bp, _, _ := newProcessor(t, true, ProcessorConfig{Interval: time.Second})
	bp.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	bp.Stop(ctx)
}
