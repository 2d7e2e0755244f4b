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

package http

import (
	"net/http"
	"time"

	"github.com/clarityrcm/clarityrcm/internal/audit"
)

// AuditEntryResponse is the wire shape of an audit log entry
type AuditEntryResponse struct {
	ID             string         `json:"id"`
	ActorID        *string        `json:"actor_id,omitempty"`
	Action         string         `json:"action"`
	ResourceType   string         `json:"resource_type"`
	ResourceID     *string        `json:"resource_id,omitempty"`
	OrganizationID *string        `json:"organization_id,omitempty"`
	Details        map[string]any `json:"details,omitempty"`
	IPAddress      string         `json:"ip_address,omitempty"`
	UserAgent      string         `json:"user_agent,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ListAuditLogs retrieves audit entries newest-first with optional filters
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r, 50)

	query := r.URL.Query()
	filter := audit.Filter{
		OrganizationID: query.Get("organization_id"),
		ActorID:        query.Get("actor_id"),
		Action:         query.Get("action"),
		ResourceType:   query.Get("resource_type"),
		Limit:          limit,
		Offset:         offset,
	}

	entries, total, err := h.auditStore.List(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list audit logs")
		return
	}

	responses := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, AuditEntryResponse{
			ID:             entry.ID,
			ActorID:        entry.ActorID,
			Action:         entry.Action,
			ResourceType:   entry.ResourceType,
			ResourceID:     entry.ResourceID,
			OrganizationID: entry.OrganizationID,
			Details:        entry.Details,
			IPAddress:      entry.IPAddress,
			UserAgent:      entry.UserAgent,
			CreatedAt:      entry.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"entries": responses,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}
