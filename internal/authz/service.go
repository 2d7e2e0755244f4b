package authz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/clarityrcm/clarityrcm/internal/audit"
)

// Service provides the administrative surface over permissions, roles,
// groups, and the grant edges between them. Every mutation emits an audit
// event; emission is fire-and-forget and never fails the mutation.
type Service struct {
	permissions PermissionRepository
	roles       RoleRepository
	groups      GroupRepository
	grants      GrantRepository
	recorder    audit.Recorder
}

// NewService creates a new authorization administration service
func NewService(
	permissions PermissionRepository,
	roles RoleRepository,
	groups GroupRepository,
	grants GrantRepository,
	recorder audit.Recorder,
) *Service {
	return &Service{
		permissions: permissions,
		roles:       roles,
		groups:      groups,
		grants:      grants,
		recorder:    recorder,
	}
}

// CreatePermission creates a new permission. Names are globally unique.
func (s *Service) CreatePermission(ctx context.Context, actor Actor, permission *Permission) (*Permission, error) {
	if permission.Name == "" || permission.Resource == "" || permission.Action == "" {
		return nil, fmt.Errorf("permission name, resource, and action are required")
	}

	if _, err := s.permissions.GetByName(ctx, permission.Name); err == nil {
		return nil, ErrPermissionAlreadyExists
	} else if err != ErrPermissionNotFound {
		return nil, fmt.Errorf("failed to check permission name: %w", err)
	}

	now := time.Now()
	permission.ID = ulid.Make().String()
	permission.Action = strings.ToLower(permission.Action)
	permission.CreatedAt = now
	permission.UpdatedAt = now

	if err := s.permissions.Create(ctx, permission); err != nil {
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:      actor.UserID,
		Action:       audit.ActionCreate,
		ResourceType: audit.ResourcePermission,
		ResourceID:   permission.ID,
		Details: map[string]any{
			"name":     permission.Name,
			"resource": permission.Resource,
			"action":   permission.Action,
		},
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	})

	return permission, nil
}

// GetPermission retrieves a permission by ID
func (s *Service) GetPermission(ctx context.Context, id string) (*Permission, error) {
	return s.permissions.GetByID(ctx, id)
}

// ListPermissions lists permissions, optionally filtered by resource
func (s *Service) ListPermissions(ctx context.Context, resource string, limit, offset int) ([]*Permission, error) {
	return s.permissions.List(ctx, resource, limit, offset)
}

// UpdatePermission updates a permission's description and conditions. Name,
// resource, and action are immutable; grants reference them by identity.
func (s *Service) UpdatePermission(ctx context.Context, actor Actor, id string, description *string, conditions ConditionSet) (*Permission, error) {
	permission, err := s.permissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if description != nil {
		permission.Description = *description
	}
	if conditions != nil {
		permission.Conditions = conditions
	}
	permission.UpdatedAt = time.Now()

	if err := s.permissions.Update(ctx, permission); err != nil {
		return nil, fmt.Errorf("failed to update permission: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:      actor.UserID,
		Action:       audit.ActionUpdate,
		ResourceType: audit.ResourcePermission,
		ResourceID:   permission.ID,
		Details:      map[string]any{"name": permission.Name},
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
	})

	return permission, nil
}

// DeletePermission removes a permission. The store cascades removal of
// every role and user edge referencing it so no grant silently persists.
func (s *Service) DeletePermission(ctx context.Context, actor Actor, id string) error {
	permission, err := s.permissions.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.permissions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:      actor.UserID,
		Action:       audit.ActionDelete,
		ResourceType: audit.ResourcePermission,
		ResourceID:   id,
		Details:      map[string]any{"name": permission.Name},
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
	})

	return nil
}

// CreateRole creates a new role. Role names are unique across the whole
// system, even for organization-scoped roles.
func (s *Service) CreateRole(ctx context.Context, actor Actor, role *Role) (*Role, error) {
	if role.Name == "" {
		return nil, fmt.Errorf("role name is required")
	}

	if _, err := s.roles.GetByName(ctx, role.Name); err == nil {
		return nil, ErrRoleAlreadyExists
	} else if err != ErrRoleNotFound {
		return nil, fmt.Errorf("failed to check role name: %w", err)
	}

	now := time.Now()
	role.ID = ulid.Make().String()
	role.CreatedAt = now
	role.UpdatedAt = now

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	details := map[string]any{"name": role.Name}
	orgID := ""
	if role.OrganizationID != nil {
		orgID = *role.OrganizationID
	}
	s.recorder.Record(ctx, audit.Event{
		ActorID:        actor.UserID,
		Action:         audit.ActionCreate,
		ResourceType:   audit.ResourceRole,
		ResourceID:     role.ID,
		OrganizationID: orgID,
		Details:        details,
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	})

	return role, nil
}

// GetRole retrieves a role by ID
func (s *Service) GetRole(ctx context.Context, id string) (*Role, error) {
	return s.roles.GetByID(ctx, id)
}

// RolePermissions retrieves the permissions attached to a role
func (s *Service) RolePermissions(ctx context.Context, roleID string) ([]*Permission, error) {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		return nil, err
	}
	return s.roles.Permissions(ctx, roleID)
}

// ListRoles lists roles, optionally scoped to an organization
func (s *Service) ListRoles(ctx context.Context, organizationID *string) ([]*Role, error) {
	return s.roles.List(ctx, organizationID)
}

// UpdateRole updates a role's description
func (s *Service) UpdateRole(ctx context.Context, actor Actor, id, description string) (*Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role.Description = description
	role.UpdatedAt = time.Now()

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:      actor.UserID,
		Action:       audit.ActionUpdate,
		ResourceType: audit.ResourceRole,
		ResourceID:   role.ID,
		Details:      map[string]any{"name": role.Name},
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
	})

	return role, nil
}

// DeleteRole removes a role and cascades removal of its assignments
func (s *Service) DeleteRole(ctx context.Context, actor Actor, id string) error {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.roles.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:      actor.UserID,
		Action:       audit.ActionDelete,
		ResourceType: audit.ResourceRole,
		ResourceID:   id,
		Details:      map[string]any{"name": role.Name},
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
	})

	return nil
}

// CreateGroup creates a new group within an organization. Group names are
// unique per organization.
func (s *Service) CreateGroup(ctx context.Context, actor Actor, group *Group) (*Group, error) {
	if group.Name == "" {
		return nil, fmt.Errorf("group name is required")
	}
	if group.OrganizationID == "" {
		return nil, fmt.Errorf("group organization is required")
	}

	if _, err := s.groups.GetByName(ctx, group.OrganizationID, group.Name); err == nil {
		return nil, ErrGroupAlreadyExists
	} else if err != ErrGroupNotFound {
		return nil, fmt.Errorf("failed to check group name: %w", err)
	}

	now := time.Now()
	group.ID = ulid.Make().String()
	group.CreatedAt = now
	group.UpdatedAt = now

	if err := s.groups.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:        actor.UserID,
		Action:         audit.ActionCreate,
		ResourceType:   audit.ResourceGroup,
		ResourceID:     group.ID,
		OrganizationID: group.OrganizationID,
		Details:        map[string]any{"name": group.Name},
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	})

	return group, nil
}

// GetGroup retrieves a group by ID
func (s *Service) GetGroup(ctx context.Context, id string) (*Group, error) {
	return s.groups.GetByID(ctx, id)
}

// GroupRoles retrieves the roles attached to a group
func (s *Service) GroupRoles(ctx context.Context, groupID string) ([]*Role, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.groups.Roles(ctx, groupID)
}

// ListGroups lists the groups of an organization
func (s *Service) ListGroups(ctx context.Context, organizationID string) ([]*Group, error) {
	return s.groups.List(ctx, organizationID)
}

// UpdateGroup updates a group's name and description
func (s *Service) UpdateGroup(ctx context.Context, actor Actor, id string, name, description *string) (*Group, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		group.Name = *name
	}
	if description != nil {
		group.Description = *description
	}
	group.UpdatedAt = time.Now()

	if err := s.groups.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:        actor.UserID,
		Action:         audit.ActionUpdate,
		ResourceType:   audit.ResourceGroup,
		ResourceID:     group.ID,
		OrganizationID: group.OrganizationID,
		Details:        map[string]any{"name": group.Name},
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	})

	return group, nil
}

// DeleteGroup removes a group and cascades removal of its memberships
func (s *Service) DeleteGroup(ctx context.Context, actor Actor, id string) error {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.groups.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:        actor.UserID,
		Action:         audit.ActionDelete,
		ResourceType:   audit.ResourceGroup,
		ResourceID:     id,
		OrganizationID: group.OrganizationID,
		Details:        map[string]any{"name": group.Name},
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	})

	return nil
}

// AssignRoleToUser grants a role to a user within an organization.
// Re-assigning an existing grant is a no-op success.
func (s *Service) AssignRoleToUser(ctx context.Context, actor Actor, organizationID, userID, roleID string) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		return err
	}

	assignment := &RoleAssignment{
		OrganizationID: organizationID,
		UserID:         userID,
		RoleID:         roleID,
		AssignedAt:     time.Now(),
		AssignedBy:     actor.UserID,
	}
	if err := s.grants.AssignRoleToUser(ctx, assignment); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:        actor.UserID,
		Action:         audit.ActionAssignRole,
		ResourceType:   audit.ResourceUser,
		ResourceID:     userID,
		OrganizationID: organizationID,
		Details:        map[string]any{"role_id": roleID},
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	})

	return nil
}

// RevokeRoleFromUser removes a role grant from a user within an organization
func (s *Service) RevokeRoleFromUser(ctx context.Context, actor Actor, organizationID, userID, roleID string) error {
	if err := s.grants.RevokeRoleFromUser(ctx, organizationID, userID, roleID); err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:        actor.UserID,
		Action:         audit.ActionRevokeRole,
		ResourceType:   audit.ResourceUser,
		ResourceID:     userID,
		OrganizationID: organizationID,
		Details:        map[string]any{"role_id": roleID},
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	})

	return nil
}

// AssignPermissionToUser grants a permission directly to a user within an
// organization. Idempotent.
func (s *Service) AssignPermissionToUser(ctx context.Context, actor Actor, organizationID, userID, permissionID string) error {
	if _, err := s.permissions.GetByID(ctx, permissionID); err != nil {
		return err
	}

	assignment := &PermissionAssignment{
		OrganizationID: organizationID,
		UserID:         userID,
		PermissionID:   permissionID,
		AssignedAt:     time.Now(),
		AssignedBy:     actor.UserID,
	}
	if err := s.grants.AssignPermissionToUser(ctx, assignment); err != nil {
		return fmt.Errorf("failed to assign permission: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:        actor.UserID,
		Action:         audit.ActionAssignPermission,
		ResourceType:   audit.ResourceUser,
		ResourceID:     userID,
		OrganizationID: organizationID,
		Details:        map[string]any{"permission_id": permissionID},
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	})

	return nil
}

// RevokePermissionFromUser removes a direct permission grant
func (s *Service) RevokePermissionFromUser(ctx context.Context, actor Actor, organizationID, userID, permissionID string) error {
	if err := s.grants.RevokePermissionFromUser(ctx, organizationID, userID, permissionID); err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:        actor.UserID,
		Action:         audit.ActionRevokePermission,
		ResourceType:   audit.ResourceUser,
		ResourceID:     userID,
		OrganizationID: organizationID,
		Details:        map[string]any{"permission_id": permissionID},
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	})

	return nil
}

// AddUserToGroup places a user in a group within an organization. Idempotent.
func (s *Service) AddUserToGroup(ctx context.Context, actor Actor, organizationID, userID, groupID string) error {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return err
	}

	membership := &GroupMembership{
		OrganizationID: organizationID,
		UserID:         userID,
		GroupID:        groupID,
		JoinedAt:       time.Now(),
	}
	if err := s.grants.AddUserToGroup(ctx, membership); err != nil {
		return fmt.Errorf("failed to add user to group: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:        actor.UserID,
		Action:         audit.ActionAddToGroup,
		ResourceType:   audit.ResourceUser,
		ResourceID:     userID,
		OrganizationID: organizationID,
		Details:        map[string]any{"group_id": groupID},
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	})

	return nil
}

// RemoveUserFromGroup removes a user from a group within an organization
func (s *Service) RemoveUserFromGroup(ctx context.Context, actor Actor, organizationID, userID, groupID string) error {
	if err := s.grants.RemoveUserFromGroup(ctx, organizationID, userID, groupID); err != nil {
		return fmt.Errorf("failed to remove user from group: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:        actor.UserID,
		Action:         audit.ActionRemoveFromGroup,
		ResourceType:   audit.ResourceUser,
		ResourceID:     userID,
		OrganizationID: organizationID,
		Details:        map[string]any{"group_id": groupID},
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	})

	return nil
}

// AssignRoleToGroup attaches a role to a group. The edge is global: the
// group's roles apply wherever the group is used. Idempotent.
func (s *Service) AssignRoleToGroup(ctx context.Context, actor Actor, groupID, roleID string) error {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		return err
	}

	if err := s.grants.AssignRoleToGroup(ctx, groupID, roleID); err != nil {
		return fmt.Errorf("failed to assign role to group: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:        actor.UserID,
		Action:         audit.ActionAssignRole,
		ResourceType:   audit.ResourceGroup,
		ResourceID:     groupID,
		OrganizationID: group.OrganizationID,
		Details:        map[string]any{"role_id": roleID},
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	})

	return nil
}

// RevokeRoleFromGroup detaches a role from a group
func (s *Service) RevokeRoleFromGroup(ctx context.Context, actor Actor, groupID, roleID string) error {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	if err := s.grants.RevokeRoleFromGroup(ctx, groupID, roleID); err != nil {
		return fmt.Errorf("failed to revoke role from group: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:        actor.UserID,
		Action:         audit.ActionRevokeRole,
		ResourceType:   audit.ResourceGroup,
		ResourceID:     groupID,
		OrganizationID: group.OrganizationID,
		Details:        map[string]any{"role_id": roleID},
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	})

	return nil
}

// AssignPermissionToRole attaches a permission to a role. The edge is
// global. Idempotent.
func (s *Service) AssignPermissionToRole(ctx context.Context, actor Actor, roleID, permissionID string) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		return err
	}
	if _, err := s.permissions.GetByID(ctx, permissionID); err != nil {
		return err
	}

	if err := s.grants.AssignPermissionToRole(ctx, roleID, permissionID); err != nil {
		return fmt.Errorf("failed to assign permission to role: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:      actor.UserID,
		Action:       audit.ActionAssignPermission,
		ResourceType: audit.ResourceRole,
		ResourceID:   roleID,
		Details:      map[string]any{"permission_id": permissionID},
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
	})

	return nil
}

// RevokePermissionFromRole detaches a permission from a role
func (s *Service) RevokePermissionFromRole(ctx context.Context, actor Actor, roleID, permissionID string) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		return err
	}

	if err := s.grants.RevokePermissionFromRole(ctx, roleID, permissionID); err != nil {
		return fmt.Errorf("failed to revoke permission from role: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:      actor.UserID,
		Action:       audit.ActionRevokePermission,
		ResourceType: audit.ResourceRole,
		ResourceID:   roleID,
		Details:      map[string]any{"permission_id": permissionID},
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
	})

	return nil
}

// UserRoles retrieves the roles a user holds in an organization
func (s *Service) UserRoles(ctx context.Context, userID, organizationID string) ([]*Role, error) {
	return s.grants.UserRoles(ctx, userID, organizationID)
}
