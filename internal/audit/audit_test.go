package audit

import (
	"context"
	"testing"
)

// TestPurpose: Validates that sensitive detail keys are identified so their
// values are redacted before logging.
// Scope: Unit Test
// Security: Data Masking and Leakage Prevention (CWE-532)
// Expected: Returns true for keys containing 'password', 'token', 'secret',
// etc., and false for non-sensitive keys.
func TestAudit_IsSecret(t *testing.T) {
	tests := []struct {
		key      string
		isSecret bool
	}{
		{"password", true},
		{"Password", true},
		{"PASSWORD", true},
		{"token", true},
		{"access_token", true},
		{"secret", true},
		{"api_key", true},
		{"hash", true},
		{"password_hash", true},
		{"credential", true},
		{"private_key", true},
		{"authorization", true},
		{"user_id", false},
		{"organization_id", false},
		{"email", false},
		{"role_id", false},
		{"status", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := isSecret(tt.key); got != tt.isSecret {
				t.Errorf("isSecret(%q) = %v, want %v", tt.key, got, tt.isSecret)
			}
		})
	}
}

type countingRecorder struct {
	events []Event
}

func (c *countingRecorder) Record(ctx context.Context, event Event) {
	c.events = append(c.events, event)
}

// TestPurpose: Validates the fanout recorder.
// Scope: Unit Test
// Expected: One Record call reaches every wrapped recorder.
func TestAudit_MultiFansOut(t *testing.T) {
	first := &countingRecorder{}
	second := &countingRecorder{}
	recorder := Multi(first, second)

	recorder.Record(context.Background(), Event{
		Action:       ActionAssignRole,
		ResourceType: ResourceUser,
		ResourceID:   "user-1",
	})

	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("fanout delivered %d/%d events, want 1/1", len(first.events), len(second.events))
	}
	if first.events[0].Action != ActionAssignRole {
		t.Errorf("action = %q, want %q", first.events[0].Action, ActionAssignRole)
	}
}

// TestPurpose: Validates event-to-entry mapping for persistence.
// Scope: Unit Test
// Expected: Empty identifier fields become nil pointers so they persist as
// SQL NULL rather than empty strings.
func TestAudit_EntryFromEvent(t *testing.T) {
	entry := entryFromEvent(Event{
		ActorID:      "actor-1",
		Action:       ActionCreate,
		ResourceType: ResourcePermission,
		ResourceID:   "perm-1",
	})

	if entry.ID == "" {
		t.Error("entry should be assigned an ID")
	}
	if entry.ActorID == nil || *entry.ActorID != "actor-1" {
		t.Error("actor id should round-trip")
	}
	if entry.OrganizationID != nil {
		t.Error("empty organization id should map to nil")
	}
	if entry.ResourceID == nil || *entry.ResourceID != "perm-1" {
		t.Error("resource id should round-trip")
	}
}
