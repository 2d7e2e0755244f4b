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

// RoleRepository implements authz.RoleRepository
type RoleRepository struct {
	db *DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create creates a new role
func (r *RoleRepository) Create(ctx context.Context, role *authz.Role) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO roles (
			id, name, description, organization_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`,
		role.ID, role.Name, role.Description, role.OrganizationID,
		role.CreatedAt, role.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}

	return nil
}

// GetByID retrieves a role by ID
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*authz.Role, error) {
	return r.get(ctx, "id = $1", id)
}

// GetByName retrieves a role by its system-wide unique name
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*authz.Role, error) {
	return r.get(ctx, "name = $1", name)
}

func (r *RoleRepository) get(ctx context.Context, where string, arg any) (*authz.Role, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT id, name, description, organization_id, created_at, updated_at
		FROM roles
		WHERE `+where,
		arg,
	)

	var role authz.Role
	err := row.Scan(
		&role.ID, &role.Name, &role.Description, &role.OrganizationID,
		&role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, authz.ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return &role, nil
}

// List retrieves roles. With a nil organizationID every role is returned;
// otherwise the organization's own roles plus system-wide roles.
func (r *RoleRepository) List(ctx context.Context, organizationID *string) ([]*authz.Role, error) {
	query := `
		SELECT id, name, description, organization_id, created_at, updated_at
		FROM roles
	`
	args := []any{}
	if organizationID != nil {
		query += " WHERE organization_id = $1 OR organization_id IS NULL"
		args = append(args, *organizationID)
	}
	query += " ORDER BY name"

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	return scanRoles(rows)
}

// Update updates a role's description
func (r *RoleRepository) Update(ctx context.Context, role *authz.Role) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE roles SET
			description = $2,
			updated_at = $3
		WHERE id = $1
	`,
		role.ID, role.Description, role.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return authz.ErrRoleNotFound
	}

	return nil
}

// Delete removes a role and, via cascade, every assignment edge touching it
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM roles WHERE id = $1
	`, id)

	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return authz.ErrRoleNotFound
	}

	return nil
}

// Permissions retrieves the permissions attached to a role
func (r *RoleRepository) Permissions(ctx context.Context, roleID string) ([]*authz.Permission, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT p.id, p.name, p.resource, p.action, p.description, p.conditions,
		       p.created_at, p.updated_at
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.name
	`, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role permissions: %w", err)
	}
	defer rows.Close()

	return scanPermissions(rows)
}

func scanRoles(rows pgx.Rows) ([]*authz.Role, error) {
	var roles []*authz.Role
	for rows.Next() {
		var role authz.Role
		if err := rows.Scan(
			&role.ID, &role.Name, &role.Description, &role.OrganizationID,
			&role.CreatedAt, &role.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, &role)
	}
	return roles, rows.Err()
}
