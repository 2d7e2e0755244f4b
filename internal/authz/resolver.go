package authz

import (
	"context"
	"fmt"
)

// Resolver computes the effective permission set of a user within an
// organization by unioning the three grant paths: direct user grants,
// role-derived grants, and group-role-derived grants.
type Resolver struct {
	grants GrantRepository
}

// NewResolver creates a new grant resolver
func NewResolver(grants GrantRepository) *Resolver {
	return &Resolver{grants: grants}
}

// ResolvePermissions returns the deduplicated permissions the user holds in
// the organization. A permission reachable through several paths counts
// once. An empty organizationID yields an empty set: decisions without an
// organization context fail closed rather than erroring.
func (r *Resolver) ResolvePermissions(ctx context.Context, userID, organizationID string) ([]*Permission, error) {
	if organizationID == "" {
		return nil, nil
	}

	byID := make(map[string]*Permission)

	direct, err := r.grants.DirectPermissions(ctx, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve direct permissions: %w", err)
	}
	for _, p := range direct {
		byID[p.ID] = p
	}

	viaRoles, err := r.grants.RolePermissions(ctx, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve role permissions: %w", err)
	}
	for _, p := range viaRoles {
		byID[p.ID] = p
	}

	viaGroups, err := r.grants.GroupRolePermissions(ctx, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve group permissions: %w", err)
	}
	for _, p := range viaGroups {
		byID[p.ID] = p
	}

	permissions := make([]*Permission, 0, len(byID))
	for _, p := range byID {
		permissions = append(permissions, p)
	}
	return permissions, nil
}
