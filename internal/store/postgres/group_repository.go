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
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clarityrcm/clarityrcm/internal/authz"
)

// GroupRepository implements authz.GroupRepository
type GroupRepository struct {
	db *DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create creates a new group
func (r *GroupRepository) Create(ctx context.Context, group *authz.Group) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO groups (
			id, name, description, organization_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`,
		group.ID, group.Name, group.Description, group.OrganizationID,
		group.CreatedAt, group.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	return nil
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*authz.Group, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT id, name, description, organization_id, created_at, updated_at
		FROM groups
		WHERE id = $1
	`, id)

	return scanGroup(row)
}

// GetByName retrieves a group by name within an organization
func (r *GroupRepository) GetByName(ctx context.Context, organizationID, name string) (*authz.Group, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT id, name, description, organization_id, created_at, updated_at
		FROM groups
		WHERE organization_id = $1 AND name = $2
	`, organizationID, name)

	return scanGroup(row)
}

// List retrieves the organization's groups
func (r *GroupRepository) List(ctx context.Context, organizationID string) ([]*authz.Group, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, description, organization_id, created_at, updated_at
		FROM groups
		WHERE organization_id = $1
		ORDER BY name
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*authz.Group
	for rows.Next() {
		var group authz.Group
		if err := rows.Scan(
			&group.ID, &group.Name, &group.Description, &group.OrganizationID,
			&group.CreatedAt, &group.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, &group)
	}

	return groups, rows.Err()
}

// Update updates a group's description
func (r *GroupRepository) Update(ctx context.Context, group *authz.Group) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE groups SET
			description = $2,
			updated_at = $3
		WHERE id = $1
	`,
		group.ID, group.Description, group.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}

	if result.RowsAffected() == 0 {
		return authz.ErrGroupNotFound
	}

	return nil
}

// Delete removes a group and, via cascade, its memberships and role edges
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM groups WHERE id = $1
	`, id)

	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	if result.RowsAffected() == 0 {
		return authz.ErrGroupNotFound
	}

	return nil
}

// Roles retrieves the roles attached to a group
func (r *GroupRepository) Roles(ctx context.Context, groupID string) ([]*authz.Role, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT r.id, r.name, r.description, r.organization_id, r.created_at, r.updated_at
		FROM roles r
		JOIN group_roles gr ON gr.role_id = r.id
		WHERE gr.group_id = $1
		ORDER BY r.name
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group roles: %w", err)
	}
	defer rows.Close()

	return scanRoles(rows)
}

func scanGroup(row rowScanner) (*authz.Group, error) {
	var group authz.Group
	err := row.Scan(
		&group.ID, &group.Name, &group.Description, &group.OrganizationID,
		&group.CreatedAt, &group.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, authz.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return &group, nil
}
