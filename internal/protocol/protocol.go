// Package protocol keeps an in-memory trail of raw requests and responses
// for debugging. Entries are only written when full request logging is
// enabled; the trail is bounded and drops the oldest entries first.
package protocol

import (
	"context"
	"sync"
	"time"

	"github.com/havnhq/havn-sdk-go/internal/ctxvalues"
)

var NowFunc = time.Now

// Entry is one recorded protocol event.
type Entry struct {
	ReferenceId string // caller-side reference, e.g. the payment gateway transaction id
	Kind        string // "raw", "error" or "success"
	Message     string
	Details     string
	RequestId   string
	Time        time.Time
}

// Repository records protocol entries.
type Repository interface {
	WriteEntry(ctx context.Context, e *Entry) error

	// Entries returns a copy of the recorded entries, oldest first.
	Entries() []Entry

	Clear()
}

type inMemoryImpl struct {
	mu      sync.Mutex
	entries []Entry
	limit   int
}

// NewInMemoryRepository creates a bounded in-memory repository keeping at
// most limit entries.
func NewInMemoryRepository(limit int) Repository {
	return &inMemoryImpl{
		entries: make([]Entry, 0),
		limit:   limit,
	}
}

func (r *inMemoryImpl) WriteEntry(ctx context.Context, e *Entry) error {
	entry := *e
	entry.Time = NowFunc()
	if entry.RequestId == "" {
		entry.RequestId = ctxvalues.RequestId(ctx)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if len(r.entries) > r.limit {
		r.entries = r.entries[len(r.entries)-r.limit:]
	}
	return nil
}

func (r *inMemoryImpl) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make([]Entry, len(r.entries))
	copy(copied, r.entries)
	return copied
}

func (r *inMemoryImpl) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make([]Entry, 0)
}
