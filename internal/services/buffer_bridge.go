package services

import (
	"context"
	"encoding/json"

	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/internal/infrastructure/buffer"
	"github.com/fastygo/taskdesk/usecase"
)

// Task writes share one priority so they replay in the order they arrived.
const priorityTask = 4

// BufferBridge adapts the processor to the use case buffer port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferTask(ctx context.Context, write usecase.TaskWrite) error {
	if b.processor == nil || write.Task == nil {
		return domain.ErrInvalidPayload
	}

	switch write.Operation {
	case usecase.OperationCreate, usecase.OperationDelete:
	default:
		return domain.NewError(domain.ErrCodeInvalid, "unsupported buffered operation "+write.Operation)
	}

	payload, err := json.Marshal(write.Task)
	if err != nil {
		return err
	}
	return b.processor.Enqueue(ctx, buffer.Item{
		Entity:    buffer.EntityTask,
		Ref:       write.Task.ID,
		Operation: write.Operation,
		Data:      payload,
		Priority:  priorityTask,
	})
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
