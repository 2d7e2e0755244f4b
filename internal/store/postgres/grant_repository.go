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

	"github.com/clarityrcm/clarityrcm/internal/authz"
)

// GrantRepository implements authz.GrantRepository. Every Assign/Add insert
// relies on the composite primary key plus ON CONFLICT DO NOTHING, so
// re-asserting an edge is a no-op rather than an error.
type GrantRepository struct {
	db *DB
}

// NewGrantRepository creates a new grant repository
func NewGrantRepository(db *DB) *GrantRepository {
	return &GrantRepository{db: db}
}

// AssignRoleToUser assigns a role to a user within an organization
func (r *GrantRepository) AssignRoleToUser(ctx context.Context, assignment *authz.RoleAssignment) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO organization_user_roles (
			organization_id, user_id, role_id, assigned_at, assigned_by
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organization_id, user_id, role_id) DO NOTHING
	`,
		assignment.OrganizationID, assignment.UserID, assignment.RoleID,
		assignment.AssignedAt, nullString(assignment.AssignedBy),
	)

	if err != nil {
		return fmt.Errorf("failed to assign role to user: %w", err)
	}

	return nil
}

// RevokeRoleFromUser removes a user's role assignment. Revoking an edge that
// does not exist is a no-op.
func (r *GrantRepository) RevokeRoleFromUser(ctx context.Context, organizationID, userID, roleID string) error {
	_, err := r.db.pool.Exec(ctx, `
		DELETE FROM organization_user_roles
		WHERE organization_id = $1 AND user_id = $2 AND role_id = $3
	`, organizationID, userID, roleID)

	if err != nil {
		return fmt.Errorf("failed to revoke role from user: %w", err)
	}

	return nil
}

// AssignPermissionToUser binds a permission directly to a user within an
// organization
func (r *GrantRepository) AssignPermissionToUser(ctx context.Context, assignment *authz.PermissionAssignment) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO organization_user_permissions (
			organization_id, user_id, permission_id, assigned_at, assigned_by
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organization_id, user_id, permission_id) DO NOTHING
	`,
		assignment.OrganizationID, assignment.UserID, assignment.PermissionID,
		assignment.AssignedAt, nullString(assignment.AssignedBy),
	)

	if err != nil {
		return fmt.Errorf("failed to assign permission to user: %w", err)
	}

	return nil
}

// RevokePermissionFromUser removes a user's direct permission
func (r *GrantRepository) RevokePermissionFromUser(ctx context.Context, organizationID, userID, permissionID string) error {
	_, err := r.db.pool.Exec(ctx, `
		DELETE FROM organization_user_permissions
		WHERE organization_id = $1 AND user_id = $2 AND permission_id = $3
	`, organizationID, userID, permissionID)

	if err != nil {
		return fmt.Errorf("failed to revoke permission from user: %w", err)
	}

	return nil
}

// AddUserToGroup places a user in a group within an organization
func (r *GrantRepository) AddUserToGroup(ctx context.Context, membership *authz.GroupMembership) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO organization_user_groups (
			organization_id, user_id, group_id, joined_at
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (organization_id, user_id, group_id) DO NOTHING
	`,
		membership.OrganizationID, membership.UserID, membership.GroupID,
		membership.JoinedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to add user to group: %w", err)
	}

	return nil
}

// RemoveUserFromGroup removes a user's group membership
func (r *GrantRepository) RemoveUserFromGroup(ctx context.Context, organizationID, userID, groupID string) error {
	_, err := r.db.pool.Exec(ctx, `
		DELETE FROM organization_user_groups
		WHERE organization_id = $1 AND user_id = $2 AND group_id = $3
	`, organizationID, userID, groupID)

	if err != nil {
		return fmt.Errorf("failed to remove user from group: %w", err)
	}

	return nil
}

// AssignRoleToGroup attaches a role to a group
func (r *GrantRepository) AssignRoleToGroup(ctx context.Context, groupID, roleID string) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO group_roles (group_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, role_id) DO NOTHING
	`, groupID, roleID)

	if err != nil {
		return fmt.Errorf("failed to assign role to group: %w", err)
	}

	return nil
}

// RevokeRoleFromGroup detaches a role from a group
func (r *GrantRepository) RevokeRoleFromGroup(ctx context.Context, groupID, roleID string) error {
	_, err := r.db.pool.Exec(ctx, `
		DELETE FROM group_roles
		WHERE group_id = $1 AND role_id = $2
	`, groupID, roleID)

	if err != nil {
		return fmt.Errorf("failed to revoke role from group: %w", err)
	}

	return nil
}

// AssignPermissionToRole attaches a permission to a role
func (r *GrantRepository) AssignPermissionToRole(ctx context.Context, roleID, permissionID string) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO role_permissions (role_id, permission_id)
		VALUES ($1, $2)
		ON CONFLICT (role_id, permission_id) DO NOTHING
	`, roleID, permissionID)

	if err != nil {
		return fmt.Errorf("failed to assign permission to role: %w", err)
	}

	return nil
}

// RevokePermissionFromRole detaches a permission from a role
func (r *GrantRepository) RevokePermissionFromRole(ctx context.Context, roleID, permissionID string) error {
	_, err := r.db.pool.Exec(ctx, `
		DELETE FROM role_permissions
		WHERE role_id = $1 AND permission_id = $2
	`, roleID, permissionID)

	if err != nil {
		return fmt.Errorf("failed to revoke permission from role: %w", err)
	}

	return nil
}

// DirectPermissions retrieves permissions bound straight to the user within
// the organization
func (r *GrantRepository) DirectPermissions(ctx context.Context, userID, organizationID string) ([]*authz.Permission, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT p.id, p.name, p.resource, p.action, p.description, p.conditions,
		       p.created_at, p.updated_at
		FROM permissions p
		JOIN organization_user_permissions oup ON oup.permission_id = p.id
		WHERE oup.user_id = $1 AND oup.organization_id = $2
	`, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get direct permissions: %w", err)
	}
	defer rows.Close()

	return scanPermissions(rows)
}

// RolePermissions retrieves permissions reachable through the user's role
// assignments within the organization
func (r *GrantRepository) RolePermissions(ctx context.Context, userID, organizationID string) ([]*authz.Permission, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT DISTINCT p.id, p.name, p.resource, p.action, p.description, p.conditions,
		       p.created_at, p.updated_at
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN organization_user_roles our ON our.role_id = rp.role_id
		WHERE our.user_id = $1 AND our.organization_id = $2
	`, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role permissions: %w", err)
	}
	defer rows.Close()

	return scanPermissions(rows)
}

// GroupRolePermissions retrieves permissions reachable through roles of
// groups the user belongs to within the organization
func (r *GrantRepository) GroupRolePermissions(ctx context.Context, userID, organizationID string) ([]*authz.Permission, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT DISTINCT p.id, p.name, p.resource, p.action, p.description, p.conditions,
		       p.created_at, p.updated_at
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN group_roles gr ON gr.role_id = rp.role_id
		JOIN organization_user_groups oug ON oug.group_id = gr.group_id
		WHERE oug.user_id = $1 AND oug.organization_id = $2
	`, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group role permissions: %w", err)
	}
	defer rows.Close()

	return scanPermissions(rows)
}

// UserRoles retrieves the roles assigned to a user within the organization
func (r *GrantRepository) UserRoles(ctx context.Context, userID, organizationID string) ([]*authz.Role, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT r.id, r.name, r.description, r.organization_id, r.created_at, r.updated_at
		FROM roles r
		JOIN organization_user_roles our ON our.role_id = r.id
		WHERE our.user_id = $1 AND our.organization_id = $2
		ORDER BY r.name
	`, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	defer rows.Close()

	return scanRoles(rows)
}

// nullString maps "" to SQL NULL for nullable foreign keys
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
