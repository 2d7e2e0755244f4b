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

package authz_test

import (
	"context"
	"testing"

	"github.com/clarityrcm/clarityrcm/internal/authz"
	"github.com/clarityrcm/clarityrcm/internal/identity"
)

// fakeGrantRepository implements authz.GrantRepository in memory, resolving
// the same joins the SQL queries perform.
type fakeGrantRepository struct {
	permissions map[string]*authz.Permission // by ID
	roles       map[string]*authz.Role       // by ID

	rolePermissions map[string][]string // roleID -> permissionIDs
	groupRoles      map[string][]string // groupID -> roleIDs
	userRoles       map[string][]string // org|user -> roleIDs
	userPermissions map[string][]string // org|user -> permissionIDs
	userGroups      map[string][]string // org|user -> groupIDs
}

func newFakeGrantRepository() *fakeGrantRepository {
	return &fakeGrantRepository{
		permissions:     map[string]*authz.Permission{},
		roles:           map[string]*authz.Role{},
		rolePermissions: map[string][]string{},
		groupRoles:      map[string][]string{},
		userRoles:       map[string][]string{},
		userPermissions: map[string][]string{},
		userGroups:      map[string][]string{},
	}
}

func scopeKey(organizationID, userID string) string {
	return organizationID + "|" + userID
}

func appendOnce(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func (f *fakeGrantRepository) addPermission(p *authz.Permission) { f.permissions[p.ID] = p }
func (f *fakeGrantRepository) addRole(r *authz.Role)             { f.roles[r.ID] = r }

func (f *fakeGrantRepository) AssignRoleToUser(ctx context.Context, a *authz.RoleAssignment) error {
	k := scopeKey(a.OrganizationID, a.UserID)
	f.userRoles[k] = appendOnce(f.userRoles[k], a.RoleID)
	return nil
}

func (f *fakeGrantRepository) RevokeRoleFromUser(ctx context.Context, organizationID, userID, roleID string) error {
	k := scopeKey(organizationID, userID)
	f.userRoles[k] = remove(f.userRoles[k], roleID)
	return nil
}

func (f *fakeGrantRepository) AssignPermissionToUser(ctx context.Context, a *authz.PermissionAssignment) error {
	k := scopeKey(a.OrganizationID, a.UserID)
	f.userPermissions[k] = appendOnce(f.userPermissions[k], a.PermissionID)
	return nil
}

func (f *fakeGrantRepository) RevokePermissionFromUser(ctx context.Context, organizationID, userID, permissionID string) error {
	k := scopeKey(organizationID, userID)
	f.userPermissions[k] = remove(f.userPermissions[k], permissionID)
	return nil
}

func (f *fakeGrantRepository) AddUserToGroup(ctx context.Context, m *authz.GroupMembership) error {
	k := scopeKey(m.OrganizationID, m.UserID)
	f.userGroups[k] = appendOnce(f.userGroups[k], m.GroupID)
	return nil
}

func (f *fakeGrantRepository) RemoveUserFromGroup(ctx context.Context, organizationID, userID, groupID string) error {
	k := scopeKey(organizationID, userID)
	f.userGroups[k] = remove(f.userGroups[k], groupID)
	return nil
}

func (f *fakeGrantRepository) AssignRoleToGroup(ctx context.Context, groupID, roleID string) error {
	f.groupRoles[groupID] = appendOnce(f.groupRoles[groupID], roleID)
	return nil
}

func (f *fakeGrantRepository) RevokeRoleFromGroup(ctx context.Context, groupID, roleID string) error {
	f.groupRoles[groupID] = remove(f.groupRoles[groupID], roleID)
	return nil
}

func (f *fakeGrantRepository) AssignPermissionToRole(ctx context.Context, roleID, permissionID string) error {
	f.rolePermissions[roleID] = appendOnce(f.rolePermissions[roleID], permissionID)
	return nil
}

func (f *fakeGrantRepository) RevokePermissionFromRole(ctx context.Context, roleID, permissionID string) error {
	f.rolePermissions[roleID] = remove(f.rolePermissions[roleID], permissionID)
	return nil
}

func (f *fakeGrantRepository) DirectPermissions(ctx context.Context, userID, organizationID string) ([]*authz.Permission, error) {
	return f.lookup(f.userPermissions[scopeKey(organizationID, userID)]), nil
}

func (f *fakeGrantRepository) RolePermissions(ctx context.Context, userID, organizationID string) ([]*authz.Permission, error) {
	var ids []string
	for _, roleID := range f.userRoles[scopeKey(organizationID, userID)] {
		ids = append(ids, f.rolePermissions[roleID]...)
	}
	return f.lookup(ids), nil
}

func (f *fakeGrantRepository) GroupRolePermissions(ctx context.Context, userID, organizationID string) ([]*authz.Permission, error) {
	var ids []string
	for _, groupID := range f.userGroups[scopeKey(organizationID, userID)] {
		for _, roleID := range f.groupRoles[groupID] {
			ids = append(ids, f.rolePermissions[roleID]...)
		}
	}
	return f.lookup(ids), nil
}

func (f *fakeGrantRepository) UserRoles(ctx context.Context, userID, organizationID string) ([]*authz.Role, error) {
	var roles []*authz.Role
	for _, roleID := range f.userRoles[scopeKey(organizationID, userID)] {
		if role, ok := f.roles[roleID]; ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (f *fakeGrantRepository) lookup(ids []string) []*authz.Permission {
	var permissions []*authz.Permission
	for _, id := range ids {
		if p, ok := f.permissions[id]; ok {
			permissions = append(permissions, p)
		}
	}
	return permissions
}

// ---------------------------------------------------------------------------

const (
	orgA = "org-a"
	orgB = "org-b"
)

func newEngine(grants *fakeGrantRepository) *authz.Engine {
	return authz.NewEngine(authz.NewResolver(grants), nil)
}

func member(id string, org string) *identity.User {
	o := org
	return &identity.User{ID: id, CurrentOrganizationID: &o}
}

// TestPurpose: Validates the global administrator bypass.
// Scope: Unit Test
// Security: Admin short-circuit must not depend on grants or conditions
// Expected: An admin with zero grants is allowed anything, anywhere.
func TestEngine_AdminBypass(t *testing.T) {
	engine := newEngine(newFakeGrantRepository())
	admin := &identity.User{ID: "user-admin", IsAdmin: true}

	decision, err := engine.Check(context.Background(), admin, "claims", "delete", "", authz.RequestContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Granted {
		t.Error("admin should bypass permission resolution")
	}
	if decision.Reason != authz.ReasonAdminBypass {
		t.Errorf("reason = %q, want %q", decision.Reason, authz.ReasonAdminBypass)
	}
	if decision.DecisionID == "" {
		t.Error("decision should carry a correlation ID")
	}
}

// TestPurpose: Validates fail-closed behavior when no organization scope can
// be established.
// Scope: Unit Test
// Security: Missing tenant context must never widen access
// Expected: Denied with the no-organization reason, and no error.
func TestEngine_NoOrganizationFailsClosed(t *testing.T) {
	grants := newFakeGrantRepository()
	engine := newEngine(grants)

	// no current organization, none supplied on the check
	user := &identity.User{ID: "user-1"}

	decision, err := engine.Check(context.Background(), user, "claims", "read", "", authz.RequestContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Granted {
		t.Error("check without organization context should be denied")
	}
	if decision.Reason != authz.ReasonNoOrganization {
		t.Errorf("reason = %q, want %q", decision.Reason, authz.ReasonNoOrganization)
	}
}

// TestPurpose: Validates each of the three grant paths in isolation.
// Scope: Unit Test
// Expected: Direct, role, and group-role grants each independently allow the
// action; an unrelated user stays denied.
func TestEngine_GrantPaths(t *testing.T) {
	ctx := context.Background()
	grants := newFakeGrantRepository()
	engine := newEngine(grants)

	read := &authz.Permission{ID: "perm-read", Name: "claims:read", Resource: "claims", Action: "read"}
	grants.addPermission(read)
	grants.addRole(&authz.Role{ID: "role-viewer", Name: "claims_viewer"})
	grants.AssignPermissionToRole(ctx, "role-viewer", "perm-read")

	// direct path
	grants.AssignPermissionToUser(ctx, &authz.PermissionAssignment{
		OrganizationID: orgA, UserID: "user-direct", PermissionID: "perm-read",
	})
	// role path
	grants.AssignRoleToUser(ctx, &authz.RoleAssignment{
		OrganizationID: orgA, UserID: "user-role", RoleID: "role-viewer",
	})
	// group path
	grants.AssignRoleToGroup(ctx, "group-billing", "role-viewer")
	grants.AddUserToGroup(ctx, &authz.GroupMembership{
		OrganizationID: orgA, UserID: "user-group", GroupID: "group-billing",
	})

	for _, userID := range []string{"user-direct", "user-role", "user-group"} {
		allowed, err := engine.HasPermission(ctx, member(userID, orgA), "claims", "read", orgA, authz.RequestContext{})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", userID, err)
		}
		if !allowed {
			t.Errorf("%s should be allowed claims:read", userID)
		}
	}

	allowed, err := engine.HasPermission(ctx, member("user-none", orgA), "claims", "read", orgA, authz.RequestContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Error("user with no grants should be denied")
	}
}

// TestPurpose: Validates that grants are confined to their organization.
// Scope: Unit Test
// Security: Multi-tenancy isolation (prevents lateral movement)
// Expected: A grant in organization A confers nothing in organization B.
func TestEngine_OrganizationIsolation(t *testing.T) {
	ctx := context.Background()
	grants := newFakeGrantRepository()
	engine := newEngine(grants)

	grants.addPermission(&authz.Permission{ID: "perm-read", Name: "claims:read", Resource: "claims", Action: "read"})
	grants.AssignPermissionToUser(ctx, &authz.PermissionAssignment{
		OrganizationID: orgA, UserID: "user-1", PermissionID: "perm-read",
	})

	allowed, err := engine.HasPermission(ctx, member("user-1", orgA), "claims", "read", orgB, authz.RequestContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Error("grant in org A must not apply in org B")
	}
}

// TestPurpose: Validates that revocation takes effect on the next check.
// Scope: Unit Test
// Expected: Allowed while the role edge exists, denied after it is removed.
func TestEngine_RevocationReverts(t *testing.T) {
	ctx := context.Background()
	grants := newFakeGrantRepository()
	engine := newEngine(grants)

	grants.addPermission(&authz.Permission{ID: "perm-submit", Name: "claims:submit", Resource: "claims", Action: "submit"})
	grants.addRole(&authz.Role{ID: "role-processor", Name: "claims_processor"})
	grants.AssignPermissionToRole(ctx, "role-processor", "perm-submit")
	grants.AssignRoleToUser(ctx, &authz.RoleAssignment{OrganizationID: orgA, UserID: "user-1", RoleID: "role-processor"})

	user := member("user-1", orgA)

	allowed, _ := engine.HasPermission(ctx, user, "claims", "submit", orgA, authz.RequestContext{})
	if !allowed {
		t.Fatal("expected claims:submit to be allowed before revocation")
	}

	grants.RevokeRoleFromUser(ctx, orgA, "user-1", "role-processor")

	allowed, _ = engine.HasPermission(ctx, user, "claims", "submit", orgA, authz.RequestContext{})
	if allowed {
		t.Error("expected claims:submit to be denied after revocation")
	}
}

// TestPurpose: Validates union-with-dedup across overlapping grant paths.
// Scope: Unit Test
// Expected: A permission reachable both directly and through a role appears
// once in the effective set.
func TestEngine_EffectivePermissionsDeduplicated(t *testing.T) {
	ctx := context.Background()
	grants := newFakeGrantRepository()
	engine := newEngine(grants)

	read := &authz.Permission{ID: "perm-read", Name: "claims:read", Resource: "claims", Action: "read"}
	export := &authz.Permission{ID: "perm-export", Name: "reports:export", Resource: "reports", Action: "export"}
	grants.addPermission(read)
	grants.addPermission(export)
	grants.addRole(&authz.Role{ID: "role-viewer", Name: "claims_viewer"})
	grants.AssignPermissionToRole(ctx, "role-viewer", "perm-read")

	grants.AssignPermissionToUser(ctx, &authz.PermissionAssignment{OrganizationID: orgA, UserID: "user-1", PermissionID: "perm-read"})
	grants.AssignPermissionToUser(ctx, &authz.PermissionAssignment{OrganizationID: orgA, UserID: "user-1", PermissionID: "perm-export"})
	grants.AssignRoleToUser(ctx, &authz.RoleAssignment{OrganizationID: orgA, UserID: "user-1", RoleID: "role-viewer"})

	effective, err := engine.EffectivePermissions(ctx, "user-1", orgA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(effective) != 2 {
		t.Fatalf("effective permissions = %d, want 2 (deduplicated)", len(effective))
	}

	seen := map[string]bool{}
	for _, p := range effective {
		if seen[p.ID] {
			t.Errorf("permission %s appears more than once", p.ID)
		}
		seen[p.ID] = true
	}
}

// TestPurpose: Validates conditional grants end to end through the engine.
// Scope: Unit Test
// Security: ABAC gating of an otherwise-held permission
// Expected: The export grant works inside its time window and is refused
// outside it; the unconditioned read grant is unaffected.
func TestEngine_ConditionalGrant(t *testing.T) {
	ctx := context.Background()
	grants := newFakeGrantRepository()
	engine := newEngine(grants)

	export := &authz.Permission{
		ID: "perm-export", Name: "reports:export", Resource: "reports", Action: "export",
		Conditions: authz.ParseConditions(map[string]any{
			"time_between": []any{"10:00", "18:00"},
		}),
	}
	read := &authz.Permission{ID: "perm-read", Name: "reports:read", Resource: "reports", Action: "read"}
	grants.addPermission(export)
	grants.addPermission(read)
	grants.AssignPermissionToUser(ctx, &authz.PermissionAssignment{OrganizationID: orgA, UserID: "user-1", PermissionID: "perm-export"})
	grants.AssignPermissionToUser(ctx, &authz.PermissionAssignment{OrganizationID: orgA, UserID: "user-1", PermissionID: "perm-read"})

	user := member("user-1", orgA)

	inside := authz.RequestContext{CurrentTime: at(12, 0), DayOfWeek: "monday"}
	allowed, _ := engine.HasPermission(ctx, user, "reports", "export", orgA, inside)
	if !allowed {
		t.Error("export should be allowed at 12:00")
	}

	outside := authz.RequestContext{CurrentTime: at(20, 0), DayOfWeek: "monday"}
	allowed, _ = engine.HasPermission(ctx, user, "reports", "export", orgA, outside)
	if allowed {
		t.Error("export should be denied at 20:00")
	}

	// unconditioned permission is unaffected by the clock
	allowed, _ = engine.HasPermission(ctx, user, "reports", "read", orgA, outside)
	if !allowed {
		t.Error("read should be allowed regardless of time")
	}
}

// TestPurpose: Validates the organization fallback to the user's currently
// selected organization.
// Scope: Unit Test
// Expected: A check naming no organization uses CurrentOrganizationID.
func TestEngine_CurrentOrganizationFallback(t *testing.T) {
	ctx := context.Background()
	grants := newFakeGrantRepository()
	engine := newEngine(grants)

	grants.addPermission(&authz.Permission{ID: "perm-read", Name: "claims:read", Resource: "claims", Action: "read"})
	grants.AssignPermissionToUser(ctx, &authz.PermissionAssignment{OrganizationID: orgA, UserID: "user-1", PermissionID: "perm-read"})

	decision, err := engine.Check(ctx, member("user-1", orgA), "claims", "read", "", authz.RequestContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Granted {
		t.Error("check should fall back to the user's current organization")
	}
	if decision.Reason != authz.ReasonGranted {
		t.Errorf("reason = %q, want %q", decision.Reason, authz.ReasonGranted)
	}
}
