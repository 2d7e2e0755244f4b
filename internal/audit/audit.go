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
	"strings"
	"time"
)

// Action verbs recorded on authorization-relevant mutations
const (
	ActionCreate           = "create"
	ActionUpdate           = "update"
	ActionDelete           = "delete"
	ActionAssignRole       = "assign_role"
	ActionRevokeRole       = "revoke_role"
	ActionAssignPermission = "assign_permission"
	ActionRevokePermission = "revoke_permission"
	ActionAddToGroup       = "add_to_group"
	ActionRemoveFromGroup  = "remove_from_group"
)

// Resource types
const (
	ResourcePermission   = "permission"
	ResourceRole         = "role"
	ResourceGroup        = "group"
	ResourceUser         = "user"
	ResourceOrganization = "organization"
)

// Event describes one auditable mutation. ActorID is empty for system
// actions.
type Event struct {
	ActorID        string
	Action         string
	ResourceType   string
	ResourceID     string
	OrganizationID string
	Details        map[string]any
	IPAddress      string
	UserAgent      string
	Timestamp      time.Time
}

// Recorder receives audit events. Implementations are best-effort: Record
// must never block the calling operation and must never fail it — delivery
// problems are the recorder's to log and swallow.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// SlogRecorder implements Recorder on the structured log stream
type SlogRecorder struct{}

// NewSlogRecorder creates a new log-backed audit recorder
func NewSlogRecorder() *SlogRecorder {
	return &SlogRecorder{}
}

// Record emits the event as a structured log entry
func (r *SlogRecorder) Record(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	attrs := []any{
		slog.String("action", event.Action),
		slog.String("resource_type", event.ResourceType),
		slog.String("resource_id", event.ResourceID),
		slog.String("organization_id", event.OrganizationID),
		slog.String("actor_id", event.ActorID),
		slog.Time("timestamp", event.Timestamp),
	}

	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}

	if len(event.Details) > 0 {
		group := []any{}
		for k, v := range event.Details {
			if isSecret(k) {
				v = "[REDACTED]"
			}
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("details", group...))
	}

	slog.InfoContext(ctx, "AUDIT_EVENT", append(attrs, slog.String("component", "audit"))...)
}

// Multi fans one event out to several recorders
func Multi(recorders ...Recorder) Recorder {
	return multiRecorder(recorders)
}

type multiRecorder []Recorder

func (m multiRecorder) Record(ctx context.Context, event Event) {
	for _, r := range m {
		r.Record(ctx, event)
	}
}

// isSecret checks if a detail key likely contains a secret
func isSecret(key string) bool {
	key = strings.ToLower(key)
	markers := []string{"password", "secret", "token", "key", "hash", "credential", "authorization"}
	for _, m := range markers {
		if strings.Contains(key, m) {
			return true
		}
	}
	return false
}
