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

	"github.com/jackc/pgx/v5"

	"github.com/clarityrcm/clarityrcm/internal/authz"
)

// PermissionRepository implements authz.PermissionRepository
type PermissionRepository struct {
	db *DB
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(db *DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// Create creates a new permission
func (r *PermissionRepository) Create(ctx context.Context, permission *authz.Permission) error {
	conditions, err := marshalConditions(permission.Conditions)
	if err != nil {
		return err
	}

	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO permissions (
			id, name, resource, action, description, conditions, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		permission.ID, permission.Name, permission.Resource, permission.Action,
		permission.Description, conditions, permission.CreatedAt, permission.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create permission: %w", err)
	}

	return nil
}

// GetByID retrieves a permission by ID
func (r *PermissionRepository) GetByID(ctx context.Context, id string) (*authz.Permission, error) {
	return r.get(ctx, "id = $1", id)
}

// GetByName retrieves a permission by its globally unique name
func (r *PermissionRepository) GetByName(ctx context.Context, name string) (*authz.Permission, error) {
	return r.get(ctx, "name = $1", name)
}

func (r *PermissionRepository) get(ctx context.Context, where string, arg any) (*authz.Permission, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT id, name, resource, action, description, conditions, created_at, updated_at
		FROM permissions
		WHERE `+where,
		arg,
	)

	permission, err := scanPermission(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, authz.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}

	return permission, nil
}

// List retrieves permissions, optionally filtered by resource
func (r *PermissionRepository) List(ctx context.Context, resource string, limit, offset int) ([]*authz.Permission, error) {
	query := `
		SELECT id, name, resource, action, description, conditions, created_at, updated_at
		FROM permissions
	`
	args := []any{}
	if resource != "" {
		query += " WHERE resource = $1"
		args = append(args, resource)
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	return scanPermissions(rows)
}

// Update updates a permission's description and conditions
func (r *PermissionRepository) Update(ctx context.Context, permission *authz.Permission) error {
	conditions, err := marshalConditions(permission.Conditions)
	if err != nil {
		return err
	}

	result, err := r.db.pool.Exec(ctx, `
		UPDATE permissions SET
			description = $2,
			conditions = $3,
			updated_at = $4
		WHERE id = $1
	`,
		permission.ID, permission.Description, conditions, permission.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update permission: %w", err)
	}

	if result.RowsAffected() == 0 {
		return authz.ErrPermissionNotFound
	}

	return nil
}

// Delete removes a permission. The role_permissions and
// organization_user_permissions edges cascade, so no grant can survive the
// permission it refers to.
func (r *PermissionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM permissions WHERE id = $1
	`, id)

	if err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}

	if result.RowsAffected() == 0 {
		return authz.ErrPermissionNotFound
	}

	return nil
}

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPermission(row rowScanner) (*authz.Permission, error) {
	var permission authz.Permission
	var conditions []byte

	if err := row.Scan(
		&permission.ID, &permission.Name, &permission.Resource, &permission.Action,
		&permission.Description, &conditions, &permission.CreatedAt, &permission.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(conditions) > 0 {
		if err := json.Unmarshal(conditions, &permission.Conditions); err != nil {
			return nil, fmt.Errorf("failed to decode permission conditions: %w", err)
		}
	}

	return &permission, nil
}

func scanPermissions(rows pgx.Rows) ([]*authz.Permission, error) {
	var permissions []*authz.Permission
	for rows.Next() {
		permission, err := scanPermission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		permissions = append(permissions, permission)
	}
	return permissions, rows.Err()
}

func marshalConditions(conditions authz.ConditionSet) ([]byte, error) {
	if conditions == nil {
		return nil, nil
	}
	data, err := json.Marshal(conditions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode permission conditions: %w", err)
	}
	return data, nil
}
