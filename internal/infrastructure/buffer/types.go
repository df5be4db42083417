package buffer

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	EntityTask = "task"

	OperationCreate = "create"
	OperationDelete = "delete"

	defaultPriority = 3
	maxPriority     = 5
)

// ErrFull is returned by Enqueue once the store holds its configured maximum.
var ErrFull = errors.New("buffer: store is full")

// Item is a write waiting for primary storage to come back.
// Lower Priority values drain first. Ref names the record the write targets.
type Item struct {
	ID        string          `json:"id"`
	Ref       string          `json:"ref,omitempty"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
	Priority  int             `json:"priority"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > maxPriority {
		i.Priority = defaultPriority
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
