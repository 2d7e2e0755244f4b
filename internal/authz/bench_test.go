package authz_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/clarityrcm/clarityrcm/internal/authz"
)

// benchGrants builds a grant graph sized roughly like a mid-size practice:
// one user holding a few direct grants plus two roles of 25 permissions each.
func benchGrants() *fakeGrantRepository {
	ctx := context.Background()
	grants := newFakeGrantRepository()

	for r := 0; r < 2; r++ {
		roleID := fmt.Sprintf("role-%d", r)
		grants.addRole(&authz.Role{ID: roleID, Name: roleID})
		for p := 0; p < 25; p++ {
			permID := fmt.Sprintf("perm-%d-%d", r, p)
			grants.addPermission(&authz.Permission{
				ID:       permID,
				Name:     permID,
				Resource: fmt.Sprintf("resource-%d", p),
				Action:   "read",
			})
			grants.AssignPermissionToRole(ctx, roleID, permID)
		}
		grants.AssignRoleToUser(ctx, &authz.RoleAssignment{
			OrganizationID: orgA, UserID: "user-1", RoleID: roleID,
		})
	}

	grants.addPermission(&authz.Permission{
		ID: "perm-direct", Name: "claims:submit", Resource: "claims", Action: "submit",
	})
	grants.AssignPermissionToUser(ctx, &authz.PermissionAssignment{
		OrganizationID: orgA, UserID: "user-1", PermissionID: "perm-direct",
	})

	return grants
}

func BenchmarkEngine_Check(b *testing.B) {
	ctx := context.Background()
	engine := newEngine(benchGrants())
	user := member("user-1", orgA)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		decision, err := engine.Check(ctx, user, "resource-12", "read", orgA, authz.RequestContext{})
		if err != nil {
			b.Fatal(err)
		}
		if !decision.Granted {
			b.Fatal("expected grant")
		}
	}
}

func BenchmarkEngine_EffectivePermissions(b *testing.B) {
	ctx := context.Background()
	engine := newEngine(benchGrants())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		effective, err := engine.EffectivePermissions(ctx, "user-1", orgA)
		if err != nil {
			b.Fatal(err)
		}
		if len(effective) != 51 {
			b.Fatalf("effective = %d", len(effective))
		}
	}
}
