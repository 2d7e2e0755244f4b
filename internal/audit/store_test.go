package audit

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu      sync.Mutex
	entries []*Entry
}

func (f *fakeStore) Insert(ctx context.Context, entry *Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeStore) List(ctx context.Context, filter Filter) ([]*Entry, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries, len(f.entries), nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// TestPurpose: Validates asynchronous, non-blocking audit persistence.
// Scope: Unit Test
// Expected: Record returns immediately; Close drains every queued event into
// the store.
func TestStoreRecorder_DeliversAndDrains(t *testing.T) {
	store := &fakeStore{}
	recorder := NewStoreRecorder(store, 16)

	for i := 0; i < 5; i++ {
		recorder.Record(context.Background(), Event{
			ActorID:      "actor-1",
			Action:       ActionCreate,
			ResourceType: ResourceRole,
			ResourceID:   "role-1",
		})
	}

	recorder.Close()

	if got := store.count(); got != 5 {
		t.Fatalf("store received %d entries, want 5", got)
	}
}

// TestPurpose: Validates that Close is idempotent and safe after delivery.
// Scope: Unit Test
// Expected: A second Close neither panics nor blocks.
func TestStoreRecorder_CloseIdempotent(t *testing.T) {
	store := &fakeStore{}
	recorder := NewStoreRecorder(store, 4)

	recorder.Record(context.Background(), Event{Action: ActionDelete, ResourceType: ResourceGroup})

	recorder.Close()
	recorder.Close()

	if got := store.count(); got != 1 {
		t.Fatalf("store received %d entries, want 1", got)
	}
}

// TestPurpose: Validates that a missing timestamp is filled at record time.
// Scope: Unit Test
// Expected: Persisted entries always carry a creation time.
func TestStoreRecorder_FillsTimestamp(t *testing.T) {
	store := &fakeStore{}
	recorder := NewStoreRecorder(store, 4)

	recorder.Record(context.Background(), Event{Action: ActionUpdate, ResourceType: ResourcePermission})
	recorder.Close()

	if got := store.count(); got != 1 {
		t.Fatalf("store received %d entries, want 1", got)
	}
	entry, _, _ := store.List(context.Background(), Filter{})
	if entry[0].CreatedAt.IsZero() || time.Since(entry[0].CreatedAt) > time.Minute {
		t.Error("entry timestamp should be set to record time")
	}
}
