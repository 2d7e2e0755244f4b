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

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clarityrcm/clarityrcm/internal/audit"
)

// AuditRepository implements audit.Store
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert appends an audit entry. Entries are never updated or deleted.
func (r *AuditRepository) Insert(ctx context.Context, entry *audit.Entry) error {
	var details []byte
	if entry.Details != nil {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to encode audit details: %w", err)
		}
	}

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO audit_logs (
			id, actor_id, action, resource_type, resource_id,
			organization_id, details, ip_address, user_agent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		entry.ID, entry.ActorID, entry.Action, entry.ResourceType, entry.ResourceID,
		entry.OrganizationID, details, entry.IPAddress, entry.UserAgent, entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}

// List returns matching entries newest-first plus the total match count
func (r *AuditRepository) List(ctx context.Context, filter audit.Filter) ([]*audit.Entry, int, error) {
	where, args := buildAuditFilter(filter)

	var total int
	err := r.db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM audit_logs"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, actor_id, action, resource_type, resource_id,
		       organization_id, details, ip_address, user_agent, created_at
		FROM audit_logs
	` + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, filter.Offset)

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry
	for rows.Next() {
		var entry audit.Entry
		var details []byte
		if err := rows.Scan(
			&entry.ID, &entry.ActorID, &entry.Action, &entry.ResourceType, &entry.ResourceID,
			&entry.OrganizationID, &details, &entry.IPAddress, &entry.UserAgent, &entry.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, 0, fmt.Errorf("failed to decode audit details: %w", err)
			}
		}
		entries = append(entries, &entry)
	}

	return entries, total, rows.Err()
}

func buildAuditFilter(filter audit.Filter) (string, []any) {
	var clauses []string
	var args []any

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add("organization_id", filter.OrganizationID)
	add("actor_id", filter.ActorID)
	add("action", filter.Action)
	add("resource_type", filter.ResourceType)

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
