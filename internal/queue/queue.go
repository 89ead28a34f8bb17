// Package queue holds the ephemeral upload progress list rendered while a
// batch is in flight. It is cosmetic local state: snapshots drive a progress
// display and nothing else, there is no network or cross-component effect.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brainink-app/afterschool-go/internal/models"
)

// Item states.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusUploading Status = "uploading"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
)

// Item is one queued upload and its display state.
type Item struct {
	ID         string
	File       models.UploadFile
	Status     Status
	Error      string
	EnqueuedAt time.Time
}

// Queue is an in-memory, never-persisted upload list. Watch re-emits a
// snapshot once per second purely so the display can refresh.
type Queue struct {
	mu    sync.Mutex
	items []Item
	now   func() time.Time
}

// New constructs an empty queue.
func New() *Queue {
	return &Queue{now: time.Now}
}

// Enqueue adds a file in the queued state and returns its id.
func (q *Queue) Enqueue(file models.UploadFile) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	item := Item{
		ID:         uuid.NewString(),
		File:       file,
		Status:     StatusQueued,
		EnqueuedAt: q.now(),
	}
	q.items = append(q.items, item)
	return item.ID
}

// SetStatus transitions one item; failed transitions carry a message.
func (q *Queue) SetStatus(id string, status Status, errMsg string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := range q.items {
		if q.items[i].ID == id {
			q.items[i].Status = status
			q.items[i].Error = errMsg
			return
		}
	}
}

// Snapshot returns a copy of the current items in enqueue order.
func (q *Queue) Snapshot() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Item, len(q.items))
	copy(out, q.items)
	return out
}

// CompletedCount reports how many items reached the done state.
func (q *Queue) CompletedCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := 0
	for _, item := range q.items {
		if item.Status == StatusDone {
			count++
		}
	}
	return count
}

// Watch emits a snapshot once per second until the context ends. Slow
// consumers miss intermediate snapshots rather than blocking the ticker.
func (q *Queue) Watch(ctx context.Context) <-chan []Item {
	out := make(chan []Item, 1)

	go func() {
		defer close(out)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- q.Snapshot():
				default:
				}
			}
		}
	}()

	return out
}
