package authz

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrPermissionNotFound      = errors.New("permission not found")
	ErrPermissionAlreadyExists = errors.New("permission already exists")
	ErrRoleNotFound            = errors.New("role not found")
	ErrRoleAlreadyExists       = errors.New("role already exists")
	ErrGroupNotFound           = errors.New("group not found")
	ErrGroupAlreadyExists      = errors.New("group already exists")
	ErrAccessDenied            = errors.New("access denied")
)

// Permission is a named capability on a (resource, action) pair, optionally
// gated by ABAC conditions. Name is globally unique; (resource, action) is
// not — several permissions may target the same pair with different
// conditions, and any one of them satisfying the request grants access.
type Permission struct {
	ID          string
	Name        string
	Resource    string
	Action      string
	Description string
	Conditions  ConditionSet
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Matches reports whether the permission targets the requested pair.
func (p *Permission) Matches(resource, action string) bool {
	return p.Resource == resource && p.Action == action
}

// Role is a named bundle of permissions. OrganizationID is nil for
// system-wide roles visible across all organizations. Role names are unique
// across the whole system, not per organization.
type Role struct {
	ID             string
	Name           string
	Description    string
	OrganizationID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Group is an organization-scoped collection of roles used to bulk-manage
// the effective roles of many users at once.
type Group struct {
	ID             string
	Name           string
	Description    string
	OrganizationID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RoleAssignment binds a role to a user within an organization.
type RoleAssignment struct {
	OrganizationID string
	UserID         string
	RoleID         string
	AssignedAt     time.Time
	AssignedBy     string
}

// PermissionAssignment binds a permission directly to a user within an
// organization, bypassing roles.
type PermissionAssignment struct {
	OrganizationID string
	UserID         string
	PermissionID   string
	AssignedAt     time.Time
	AssignedBy     string
}

// GroupMembership places a user in a group within an organization.
type GroupMembership struct {
	OrganizationID string
	UserID         string
	GroupID        string
	JoinedAt       time.Time
}

// ResourceAction names a requested (resource, action) pair.
type ResourceAction struct {
	Resource string
	Action   string
}

// Actor identifies who performed an administrative mutation, for auditing.
type Actor struct {
	UserID    string
	IPAddress string
	UserAgent string
}

// PermissionRepository defines the interface for permission persistence
type PermissionRepository interface {
	Create(ctx context.Context, permission *Permission) error

	GetByID(ctx context.Context, id string) (*Permission, error)

	GetByName(ctx context.Context, name string) (*Permission, error)

	// List retrieves permissions, optionally filtered by resource
	List(ctx context.Context, resource string, limit, offset int) ([]*Permission, error)

	Update(ctx context.Context, permission *Permission) error

	// Delete removes the permission and every role/user edge referencing it
	Delete(ctx context.Context, id string) error
}

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error

	GetByID(ctx context.Context, id string) (*Role, error)

	// GetByName retrieves a role by its system-wide unique name
	GetByName(ctx context.Context, name string) (*Role, error)

	// List retrieves roles; organizationID nil lists all, otherwise roles
	// scoped to that organization plus system-wide roles
	List(ctx context.Context, organizationID *string) ([]*Role, error)

	Update(ctx context.Context, role *Role) error

	Delete(ctx context.Context, id string) error

	// Permissions retrieves the permissions attached to a role
	Permissions(ctx context.Context, roleID string) ([]*Permission, error)
}

// GroupRepository defines the interface for group persistence
type GroupRepository interface {
	Create(ctx context.Context, group *Group) error

	GetByID(ctx context.Context, id string) (*Group, error)

	GetByName(ctx context.Context, organizationID, name string) (*Group, error)

	List(ctx context.Context, organizationID string) ([]*Group, error)

	Update(ctx context.Context, group *Group) error

	Delete(ctx context.Context, id string) error

	// Roles retrieves the roles attached to a group
	Roles(ctx context.Context, groupID string) ([]*Role, error)
}

// GrantRepository owns the assignment edges between users, roles, groups,
// and permissions. All Assign/Add operations are idempotent: re-asserting an
// existing edge is a no-op success and never creates a duplicate.
type GrantRepository interface {
	AssignRoleToUser(ctx context.Context, assignment *RoleAssignment) error
	RevokeRoleFromUser(ctx context.Context, organizationID, userID, roleID string) error

	AssignPermissionToUser(ctx context.Context, assignment *PermissionAssignment) error
	RevokePermissionFromUser(ctx context.Context, organizationID, userID, permissionID string) error

	AddUserToGroup(ctx context.Context, membership *GroupMembership) error
	RemoveUserFromGroup(ctx context.Context, organizationID, userID, groupID string) error

	// Group-role and role-permission edges are global, not organization-keyed
	AssignRoleToGroup(ctx context.Context, groupID, roleID string) error
	RevokeRoleFromGroup(ctx context.Context, groupID, roleID string) error

	AssignPermissionToRole(ctx context.Context, roleID, permissionID string) error
	RevokePermissionFromRole(ctx context.Context, roleID, permissionID string) error

	// DirectPermissions retrieves permissions bound straight to the user
	// within the organization
	DirectPermissions(ctx context.Context, userID, organizationID string) ([]*Permission, error)

	// RolePermissions retrieves permissions reachable through the user's
	// role assignments within the organization
	RolePermissions(ctx context.Context, userID, organizationID string) ([]*Permission, error)

	// GroupRolePermissions retrieves permissions reachable through roles of
	// groups the user belongs to within the organization (user -> group ->
	// role -> permission)
	GroupRolePermissions(ctx context.Context, userID, organizationID string) ([]*Permission, error)

	// UserRoles retrieves the roles assigned to a user within the organization
	UserRoles(ctx context.Context, userID, organizationID string) ([]*Role, error)
}
