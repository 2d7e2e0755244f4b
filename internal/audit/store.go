// Copyright 2026 The ClarityRCM Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entry is one persisted audit record. Entries are append-only and never
// mutated after creation.
type Entry struct {
	ID             string
	ActorID        *string
	Action         string
	ResourceType   string
	ResourceID     *string
	OrganizationID *string
	Details        map[string]any
	IPAddress      string
	UserAgent      string
	CreatedAt      time.Time
}

// Filter narrows an audit query. Zero-valued fields are ignored.
type Filter struct {
	OrganizationID string
	ActorID        string
	Action         string
	ResourceType   string
	Limit          int
	Offset         int
}

// Store defines the interface for audit entry persistence
type Store interface {
	Insert(ctx context.Context, entry *Entry) error

	// List returns matching entries newest-first plus the total match count
	List(ctx context.Context, filter Filter) ([]*Entry, int, error)
}

// StoreRecorder implements Recorder by handing events to a background
// worker that writes them through a Store. Record never blocks: when the
// buffer is full the event is dropped with a warning, honoring the
// best-effort contract over the primary operation.
type StoreRecorder struct {
	store   Store
	events  chan Event
	done    chan struct{}
	once    sync.Once
	timeout time.Duration
}

// NewStoreRecorder creates a store-backed recorder and starts its worker
func NewStoreRecorder(store Store, buffer int) *StoreRecorder {
	if buffer <= 0 {
		buffer = 256
	}
	r := &StoreRecorder{
		store:   store,
		events:  make(chan Event, buffer),
		done:    make(chan struct{}),
		timeout: 5 * time.Second,
	}
	go r.run()
	return r
}

// Record queues the event for persistence
func (r *StoreRecorder) Record(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case r.events <- event:
	default:
		slog.WarnContext(ctx, "audit buffer full, dropping event",
			slog.String("action", event.Action),
			slog.String("resource_type", event.ResourceType),
		)
	}
}

// Close drains queued events and stops the worker
func (r *StoreRecorder) Close() {
	r.once.Do(func() {
		close(r.events)
		<-r.done
	})
}

func (r *StoreRecorder) run() {
	defer close(r.done)
	for event := range r.events {
		entry := entryFromEvent(event)

		// The request that produced the event has moved on; writes get
		// their own deadline.
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		if err := r.store.Insert(ctx, entry); err != nil {
			slog.Error("failed to persist audit entry",
				slog.String("action", entry.Action),
				slog.String("resource_type", entry.ResourceType),
				slog.String("error", err.Error()),
			)
		}
		cancel()
	}
}

func entryFromEvent(event Event) *Entry {
	entry := &Entry{
		ID:           ulid.Make().String(),
		Action:       event.Action,
		ResourceType: event.ResourceType,
		Details:      event.Details,
		IPAddress:    event.IPAddress,
		UserAgent:    event.UserAgent,
		CreatedAt:    event.Timestamp,
	}
	if event.ActorID != "" {
		entry.ActorID = &event.ActorID
	}
	if event.ResourceID != "" {
		entry.ResourceID = &event.ResourceID
	}
	if event.OrganizationID != "" {
		entry.OrganizationID = &event.OrganizationID
	}
	return entry
}
