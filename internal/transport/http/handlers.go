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

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/clarityrcm/clarityrcm/internal/audit"
	"github.com/clarityrcm/clarityrcm/internal/authz"
	"github.com/clarityrcm/clarityrcm/internal/identity"
	"github.com/clarityrcm/clarityrcm/internal/organization"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	authzService *authz.Service
	orgService   *organization.Service
	engine       *authz.Engine
	users        identity.Repository
	auditStore   audit.Store

	jwtSecret string
	jwtIssuer string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	authzService *authz.Service,
	orgService *organization.Service,
	engine *authz.Engine,
	users identity.Repository,
	auditStore audit.Store,
	jwtSecret string,
	jwtIssuer string,
) *Handler {
	return &Handler{
		authzService: authzService,
		orgService:   orgService,
		engine:       engine,
		users:        users,
		auditStore:   auditStore,
		jwtSecret:    jwtSecret,
		jwtIssuer:    jwtIssuer,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, guard *Guard, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	// API routes. Everything below requires an authenticated caller; route
	// access beyond that is decided by the permission engine, not by route
	// placement.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		// Decision surface
		r.Post("/authz/check", h.CheckAccess)
		r.Get("/authz/permissions", h.MyPermissions)

		// Permission management
		r.Route("/permissions", func(r chi.Router) {
			r.With(guard.RequirePermission("permissions", "read")).Get("/", h.ListPermissions)
			r.With(guard.RequirePermission("permissions", "create")).Post("/", h.CreatePermission)
			r.With(guard.RequirePermission("permissions", "read")).Get("/{permissionID}", h.GetPermission)
			r.With(guard.RequirePermission("permissions", "update")).Put("/{permissionID}", h.UpdatePermission)
			r.With(guard.RequirePermission("permissions", "delete")).Delete("/{permissionID}", h.DeletePermission)
		})

		// Role management
		r.Route("/roles", func(r chi.Router) {
			r.With(guard.RequirePermission("roles", "read")).Get("/", h.ListRoles)
			r.With(guard.RequirePermission("roles", "create")).Post("/", h.CreateRole)
			r.With(guard.RequirePermission("roles", "read")).Get("/{roleID}", h.GetRole)
			r.With(guard.RequirePermission("roles", "update")).Put("/{roleID}", h.UpdateRole)
			r.With(guard.RequirePermission("roles", "delete")).Delete("/{roleID}", h.DeleteRole)

			r.With(guard.RequirePermission("roles", "read")).Get("/{roleID}/permissions", h.RolePermissions)
			r.With(guard.RequirePermission("permissions", "assign")).Post("/{roleID}/permissions/{permissionID}", h.AssignPermissionToRole)
			r.With(guard.RequirePermission("permissions", "assign")).Delete("/{roleID}/permissions/{permissionID}", h.RevokePermissionFromRole)
		})

		// Group management
		r.Route("/groups", func(r chi.Router) {
			r.With(guard.RequirePermission("groups", "read")).Get("/", h.ListGroups)
			r.With(guard.RequirePermission("groups", "create")).Post("/", h.CreateGroup)
			r.With(guard.RequirePermission("groups", "read")).Get("/{groupID}", h.GetGroup)
			r.With(guard.RequirePermission("groups", "update")).Put("/{groupID}", h.UpdateGroup)
			r.With(guard.RequirePermission("groups", "delete")).Delete("/{groupID}", h.DeleteGroup)

			r.With(guard.RequirePermission("groups", "read")).Get("/{groupID}/roles", h.GroupRoles)
			r.With(guard.RequirePermission("users", "manage_roles")).Post("/{groupID}/roles/{roleID}", h.AssignRoleToGroup)
			r.With(guard.RequirePermission("users", "manage_roles")).Delete("/{groupID}/roles/{roleID}", h.RevokeRoleFromGroup)
		})

		// Per-user grants and the self-service views
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/permissions", h.UserEffectivePermissions)
			r.Get("/roles", h.UserRoles)

			r.With(guard.RequirePermission("users", "manage_roles")).Post("/roles/{roleID}", h.AssignRoleToUser)
			r.With(guard.RequirePermission("users", "manage_roles")).Delete("/roles/{roleID}", h.RevokeRoleFromUser)

			r.With(guard.RequirePermission("permissions", "assign")).Post("/permissions/{permissionID}", h.AssignPermissionToUser)
			r.With(guard.RequirePermission("permissions", "assign")).Delete("/permissions/{permissionID}", h.RevokePermissionFromUser)

			r.With(guard.RequirePermission("groups", "update")).Post("/groups/{groupID}", h.AddUserToGroup)
			r.With(guard.RequirePermission("groups", "update")).Delete("/groups/{groupID}", h.RemoveUserFromGroup)
		})

		// Organizations
		r.Route("/organizations", func(r chi.Router) {
			r.With(guard.RequirePermission("organizations", "read")).Get("/", h.ListOrganizations)
			r.With(guard.RequirePermission("organizations", "read")).Get("/{organizationID}", h.GetOrganization)
			r.With(RequireAdmin).Post("/", h.CreateOrganization)
		})

		// Audit trail
		r.With(guard.RequirePermission("audit", "read")).Get("/audit-logs", h.ListAuditLogs)
	})

	return r
}

// HealthCheck provides a health status endpoint
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "clarityrcm-authz",
	})
}

// actorFromRequest captures who performed a mutation, for the audit trail
func actorFromRequest(r *http.Request) authz.Actor {
	actor := authz.Actor{
		IPAddress: getClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if user := GetUser(r.Context()); user != nil {
		actor.UserID = user.ID
	}
	return actor
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
