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

package authz

// -----------------------------------------------------------------------------
// Default permission catalog
// These are the canonical permission names seeded at install time. The seed
// is idempotent: existing names are left untouched.
// -----------------------------------------------------------------------------

// DefaultPermission describes one seeded permission.
type DefaultPermission struct {
	Name        string
	Resource    string
	Action      string
	Description string
}

// DefaultPermissions is the baseline revenue-cycle permission catalog.
var DefaultPermissions = []DefaultPermission{
	// Claims
	{"claims:create", "claims", "create", "Create new claims"},
	{"claims:read", "claims", "read", "View claims"},
	{"claims:update", "claims", "update", "Update existing claims"},
	{"claims:delete", "claims", "delete", "Delete claims"},
	{"claims:approve", "claims", "approve", "Approve claims"},
	{"claims:submit", "claims", "submit", "Submit claims"},
	{"claims:void", "claims", "void", "Void claims"},

	// Reports
	{"reports:read", "reports", "read", "View reports"},
	{"reports:create", "reports", "create", "Create new reports"},
	{"reports:generate", "reports", "generate", "Generate reports"},
	{"reports:export", "reports", "export", "Export reports"},

	// User management
	{"users:create", "users", "create", "Create new users"},
	{"users:read", "users", "read", "View user information"},
	{"users:update", "users", "update", "Update user information"},
	{"users:delete", "users", "delete", "Delete users"},
	{"users:manage_roles", "users", "manage_roles", "Manage user roles"},

	// Organizations
	{"organizations:create", "organizations", "create", "Create organizations"},
	{"organizations:read", "organizations", "read", "View organizations"},
	{"organizations:update", "organizations", "update", "Update organizations"},
	{"organizations:delete", "organizations", "delete", "Delete organizations"},

	// Patients
	{"patients:create", "patients", "create", "Create patient records"},
	{"patients:read", "patients", "read", "View patient records"},
	{"patients:update", "patients", "update", "Update patient records"},
	{"patients:delete", "patients", "delete", "Delete patient records"},

	// Billing
	{"billing:read", "billing", "read", "View billing information"},
	{"billing:update", "billing", "update", "Update billing information"},
	{"billing:process", "billing", "process", "Process billing transactions"},

	// Permission management
	{"permissions:read", "permissions", "read", "View permissions"},
	{"permissions:create", "permissions", "create", "Create permissions"},
	{"permissions:update", "permissions", "update", "Update permissions"},
	{"permissions:delete", "permissions", "delete", "Delete permissions"},
	{"permissions:assign", "permissions", "assign", "Assign permissions to roles and users"},

	// Role management
	{"roles:read", "roles", "read", "View roles"},
	{"roles:create", "roles", "create", "Create roles"},
	{"roles:update", "roles", "update", "Update roles"},
	{"roles:delete", "roles", "delete", "Delete roles"},

	// Group management
	{"groups:read", "groups", "read", "View groups"},
	{"groups:create", "groups", "create", "Create groups"},
	{"groups:update", "groups", "update", "Update groups"},
	{"groups:delete", "groups", "delete", "Delete groups"},

	// Audit
	{"audit:read", "audit", "read", "View audit logs"},
}

// -----------------------------------------------------------------------------
// Default roles
// System-wide roles (no organization scope) seeded at install time.
// -----------------------------------------------------------------------------

// DefaultRole describes one seeded role. Permissions lists permission names
// from the default catalog; nil means every catalog permission.
type DefaultRole struct {
	Name        string
	Description string
	Permissions []string
}

// Canonical seeded role names.
const (
	RoleSystemAdmin        = "system_admin"
	RoleOrgAdmin           = "org_admin"
	RoleBillingManager     = "billing_manager"
	RoleClaimsProcessor    = "claims_processor"
	RoleRCMSpecialist      = "rcm_specialist"
	RoleClaimsViewer       = "claims_viewer"
	RoleAuditor            = "auditor"
	RolePatientCoordinator = "patient_coordinator"
)

// DefaultRoles is the baseline role catalog.
var DefaultRoles = []DefaultRole{
	{
		Name:        RoleSystemAdmin,
		Description: "System administrator with all permissions",
		Permissions: nil, // all
	},
	{
		Name:        RoleOrgAdmin,
		Description: "Organization administrator",
		Permissions: []string{
			"users:create", "users:read", "users:update", "users:manage_roles",
			"organizations:read", "organizations:update",
			"groups:create", "groups:read", "groups:update", "groups:delete",
			"roles:read",
			"claims:read", "claims:update", "claims:approve",
			"reports:read", "reports:generate",
			"patients:create", "patients:read", "patients:update",
			"billing:read", "billing:update",
		},
	},
	{
		Name:        RoleBillingManager,
		Description: "Billing department manager",
		Permissions: []string{
			"claims:create", "claims:read", "claims:update", "claims:approve", "claims:submit",
			"reports:read", "reports:generate", "reports:export",
			"patients:read", "patients:update",
			"billing:read", "billing:update", "billing:process",
		},
	},
	{
		Name:        RoleClaimsProcessor,
		Description: "Claims processing specialist",
		Permissions: []string{
			"claims:create", "claims:read", "claims:update", "claims:submit",
			"patients:read", "patients:update",
			"billing:read", "billing:update",
		},
	},
	{
		Name:        RoleRCMSpecialist,
		Description: "Revenue cycle management specialist",
		Permissions: []string{
			"claims:create", "claims:read", "claims:update", "claims:submit",
			"patients:read", "patients:update",
			"billing:read", "billing:update", "billing:process",
		},
	},
	{
		Name:        RoleClaimsViewer,
		Description: "Read-only access to claims",
		Permissions: []string{
			"claims:read",
			"patients:read",
			"reports:read",
		},
	},
	{
		Name:        RoleAuditor,
		Description: "Auditor with read-only access to most resources",
		Permissions: []string{
			"claims:read", "reports:read", "patients:read", "billing:read",
			"users:read", "organizations:read", "audit:read",
			"permissions:read", "roles:read", "groups:read",
		},
	},
	{
		Name:        RolePatientCoordinator,
		Description: "Patient services coordinator",
		Permissions: []string{
			"patients:create", "patients:read", "patients:update",
			"claims:read",
			"billing:read",
		},
	},
}
