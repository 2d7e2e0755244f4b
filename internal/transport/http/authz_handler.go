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
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clarityrcm/clarityrcm/internal/authz"
	"github.com/clarityrcm/clarityrcm/internal/identity"
)

// PermissionResponse is the wire shape of a permission
type PermissionResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Resource    string         `json:"resource"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	Conditions  map[string]any `json:"conditions,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// RoleResponse is the wire shape of a role
type RoleResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	OrganizationID *string   `json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GroupResponse is the wire shape of a group
type GroupResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	OrganizationID string    `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toPermissionResponse(p *authz.Permission) PermissionResponse {
	resp := PermissionResponse{
		ID:          p.ID,
		Name:        p.Name,
		Resource:    p.Resource,
		Action:      p.Action,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if len(p.Conditions) > 0 {
		conditions := make(map[string]any, len(p.Conditions))
		for _, c := range p.Conditions {
			conditions[c.Key] = c.Raw
		}
		resp.Conditions = conditions
	}
	return resp
}

func toPermissionResponses(permissions []*authz.Permission) []PermissionResponse {
	responses := make([]PermissionResponse, 0, len(permissions))
	for _, p := range permissions {
		responses = append(responses, toPermissionResponse(p))
	}
	return responses
}

func toRoleResponse(r *authz.Role) RoleResponse {
	return RoleResponse{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		OrganizationID: r.OrganizationID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toRoleResponses(roles []*authz.Role) []RoleResponse {
	responses := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		responses = append(responses, toRoleResponse(r))
	}
	return responses
}

func toGroupResponse(g *authz.Group) GroupResponse {
	return GroupResponse{
		ID:             g.ID,
		Name:           g.Name,
		Description:    g.Description,
		OrganizationID: g.OrganizationID,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

// respondAuthzError maps domain errors to HTTP status codes
func respondAuthzError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrPermissionNotFound),
		errors.Is(err, authz.ErrRoleNotFound),
		errors.Is(err, authz.ErrGroupNotFound),
		errors.Is(err, identity.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, authz.ErrPermissionAlreadyExists),
		errors.Is(err, authz.ErrRoleAlreadyExists),
		errors.Is(err, authz.ErrGroupAlreadyExists):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// ---------------------------------------------------------------------------
// Decision surface
// ---------------------------------------------------------------------------

// CheckAccessRequest asks whether a user may perform an action on a resource
type CheckAccessRequest struct {
	UserID         string `json:"user_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	Resource       string `json:"resource"`
	Action         string `json:"action"`

	Context struct {
		Time       string `json:"time,omitempty"` // HH:MM
		DayOfWeek  string `json:"day_of_week,omitempty"`
		IPAddress  string `json:"ip_address,omitempty"`
		Department string `json:"department,omitempty"`
	} `json:"context"`
}

// CheckAccessResponse is the decision outcome
type CheckAccessResponse struct {
	Granted    bool   `json:"granted"`
	Reason     string `json:"reason"`
	DecisionID string `json:"decision_id"`
}

// CheckAccess evaluates a single authorization decision. Non-admin callers
// may only ask about themselves; only administrators can probe another
// user's access.
func (h *Handler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	caller := GetUser(r.Context())

	var req CheckAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Resource == "" || req.Action == "" {
		respondError(w, http.StatusBadRequest, "resource and action are required")
		return
	}

	subject := caller
	if req.UserID != "" && req.UserID != caller.ID {
		if !caller.IsAdmin {
			respondError(w, http.StatusForbidden, "cannot check access for another user")
			return
		}
		var err error
		subject, err = h.users.GetByID(r.Context(), req.UserID)
		if err != nil {
			respondAuthzError(w, err)
			return
		}
	}

	rc := authz.RequestContext{
		DayOfWeek:  req.Context.DayOfWeek,
		IPAddress:  req.Context.IPAddress,
		Department: req.Context.Department,
	}
	if rc.IPAddress == "" {
		rc.IPAddress = getClientIP(r)
	}
	if req.Context.Time != "" {
		t, err := authz.ParseTimeOfDay(req.Context.Time)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid time, expected HH:MM")
			return
		}
		rc.CurrentTime = &t
	}

	decision, err := h.engine.Check(r.Context(), subject, req.Resource, req.Action, req.OrganizationID, rc)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to evaluate access")
		return
	}

	respondJSON(w, http.StatusOK, CheckAccessResponse{
		Granted:    decision.Granted,
		Reason:     decision.Reason,
		DecisionID: decision.DecisionID,
	})
}

// MyPermissions lists the caller's effective permissions in their current
// organization
func (h *Handler) MyPermissions(w http.ResponseWriter, r *http.Request) {
	caller := GetUser(r.Context())

	orgID := r.URL.Query().Get("organization_id")
	if orgID == "" {
		orgID = GetOrganizationID(r.Context())
	}

	permissions, err := h.engine.EffectivePermissions(r.Context(), caller.ID, orgID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to resolve permissions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"organization_id": orgID,
		"permissions":     toPermissionResponses(permissions),
	})
}

// UserEffectivePermissions lists another user's effective permissions.
// Callers may always view their own; viewing someone else's requires the
// users:read permission or admin.
func (h *Handler) UserEffectivePermissions(w http.ResponseWriter, r *http.Request) {
	caller := GetUser(r.Context())
	userID := chi.URLParam(r, "userID")

	if userID != caller.ID {
		allowed, err := h.engine.HasPermission(
			r.Context(), caller, "users", "read",
			GetOrganizationID(r.Context()), requestContext(r),
		)
		if err != nil || !allowed {
			respondError(w, http.StatusForbidden, "access denied")
			return
		}
	}

	orgID := r.URL.Query().Get("organization_id")
	if orgID == "" {
		orgID = GetOrganizationID(r.Context())
	}

	permissions, err := h.engine.EffectivePermissions(r.Context(), userID, orgID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to resolve permissions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":         userID,
		"organization_id": orgID,
		"permissions":     toPermissionResponses(permissions),
	})
}

// UserRoles lists a user's assigned roles within an organization
func (h *Handler) UserRoles(w http.ResponseWriter, r *http.Request) {
	caller := GetUser(r.Context())
	userID := chi.URLParam(r, "userID")

	if userID != caller.ID {
		allowed, err := h.engine.HasPermission(
			r.Context(), caller, "users", "read",
			GetOrganizationID(r.Context()), requestContext(r),
		)
		if err != nil || !allowed {
			respondError(w, http.StatusForbidden, "access denied")
			return
		}
	}

	orgID := r.URL.Query().Get("organization_id")
	if orgID == "" {
		orgID = GetOrganizationID(r.Context())
	}
	if orgID == "" {
		respondError(w, http.StatusBadRequest, "organization_id is required")
		return
	}

	roles, err := h.authzService.UserRoles(r.Context(), userID, orgID)
	if err != nil {
		respondAuthzError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":         userID,
		"organization_id": orgID,
		"roles":           toRoleResponses(roles),
	})
}

// ---------------------------------------------------------------------------
// Permission management
// ---------------------------------------------------------------------------

// CreatePermissionRequest represents permission creation data
type CreatePermissionRequest struct {
	Name        string         `json:"name"`
	Resource    string         `json:"resource"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	Conditions  map[string]any `json:"conditions,omitempty"`
}

// CreatePermission handles permission creation
func (h *Handler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var req CreatePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Resource == "" || req.Action == "" {
		respondError(w, http.StatusBadRequest, "name, resource, and action are required")
		return
	}

	permission := &authz.Permission{
		Name:        req.Name,
		Resource:    req.Resource,
		Action:      req.Action,
		Description: req.Description,
		Conditions:  authz.ParseConditions(req.Conditions),
	}

	created, err := h.authzService.CreatePermission(r.Context(), actorFromRequest(r), permission)
	if err != nil {
		respondAuthzError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toPermissionResponse(created))
}

// GetPermission retrieves a single permission
func (h *Handler) GetPermission(w http.ResponseWriter, r *http.Request) {
	permission, err := h.authzService.GetPermission(r.Context(), chi.URLParam(r, "permissionID"))
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPermissionResponse(permission))
}

// ListPermissions lists permissions, optionally filtered by resource
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r, 100)

	permissions, err := h.authzService.ListPermissions(r.Context(), r.URL.Query().Get("resource"), limit, offset)
	if err != nil {
		respondAuthzError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"permissions": toPermissionResponses(permissions),
	})
}

// UpdatePermissionRequest represents permission update data. Omitted fields
// are left unchanged.
type UpdatePermissionRequest struct {
	Description *string        `json:"description,omitempty"`
	Conditions  map[string]any `json:"conditions,omitempty"`
}

// UpdatePermission handles permission updates
func (h *Handler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	var req UpdatePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var conditions authz.ConditionSet
	if req.Conditions != nil {
		conditions = authz.ParseConditions(req.Conditions)
	}

	permission, err := h.authzService.UpdatePermission(
		r.Context(), actorFromRequest(r), chi.URLParam(r, "permissionID"),
		req.Description, conditions,
	)
	if err != nil {
		respondAuthzError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toPermissionResponse(permission))
}

// DeletePermission handles permission deletion
func (h *Handler) DeletePermission(w http.ResponseWriter, r *http.Request) {
	if err := h.authzService.DeletePermission(r.Context(), actorFromRequest(r), chi.URLParam(r, "permissionID")); err != nil {
		respondAuthzError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Role management
// ---------------------------------------------------------------------------

// CreateRoleRequest represents role creation data
type CreateRoleRequest struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	OrganizationID *string `json:"organization_id,omitempty"`
}

// CreateRole handles role creation
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	role := &authz.Role{
		Name:           req.Name,
		Description:    req.Description,
		OrganizationID: req.OrganizationID,
	}

	created, err := h.authzService.CreateRole(r.Context(), actorFromRequest(r), role)
	if err != nil {
		respondAuthzError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toRoleResponse(created))
}

// GetRole retrieves a single role
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.authzService.GetRole(r.Context(), chi.URLParam(r, "roleID"))
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRoleResponse(role))
}

// ListRoles lists roles visible in the caller's organization scope
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	var orgID *string
	if v := r.URL.Query().Get("organization_id"); v != "" {
		orgID = &v
	} else if v := GetOrganizationID(r.Context()); v != "" {
		orgID = &v
	}

	roles, err := h.authzService.ListRoles(r.Context(), orgID)
	if err != nil {
		respondAuthzError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"roles": toRoleResponses(roles),
	})
}

// UpdateRoleRequest represents role update data
type UpdateRoleRequest struct {
	Description string `json:"description"`
}

// UpdateRole handles role updates
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := h.authzService.UpdateRole(r.Context(), actorFromRequest(r), chi.URLParam(r, "roleID"), req.Description)
	if err != nil {
		respondAuthzError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toRoleResponse(role))
}

// DeleteRole handles role deletion
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := h.authzService.DeleteRole(r.Context(), actorFromRequest(r), chi.URLParam(r, "roleID")); err != nil {
		respondAuthzError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RolePermissions lists the permissions attached to a role
func (h *Handler) RolePermissions(w http.ResponseWriter, r *http.Request) {
	permissions, err := h.authzService.RolePermissions(r.Context(), chi.URLParam(r, "roleID"))
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"permissions": toPermissionResponses(permissions),
	})
}

// AssignPermissionToRole attaches a permission to a role
func (h *Handler) AssignPermissionToRole(w http.ResponseWriter, r *http.Request) {
	err := h.authzService.AssignPermissionToRole(
		r.Context(), actorFromRequest(r),
		chi.URLParam(r, "roleID"), chi.URLParam(r, "permissionID"),
	)
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}

// RevokePermissionFromRole detaches a permission from a role
func (h *Handler) RevokePermissionFromRole(w http.ResponseWriter, r *http.Request) {
	err := h.authzService.RevokePermissionFromRole(
		r.Context(), actorFromRequest(r),
		chi.URLParam(r, "roleID"), chi.URLParam(r, "permissionID"),
	)
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// ---------------------------------------------------------------------------
// Group management
// ---------------------------------------------------------------------------

// CreateGroupRequest represents group creation data
type CreateGroupRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	OrganizationID string `json:"organization_id"`
}

// CreateGroup handles group creation
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrganizationID == "" {
		req.OrganizationID = GetOrganizationID(r.Context())
	}
	if req.Name == "" || req.OrganizationID == "" {
		respondError(w, http.StatusBadRequest, "name and organization_id are required")
		return
	}

	group := &authz.Group{
		Name:           req.Name,
		Description:    req.Description,
		OrganizationID: req.OrganizationID,
	}

	created, err := h.authzService.CreateGroup(r.Context(), actorFromRequest(r), group)
	if err != nil {
		respondAuthzError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toGroupResponse(created))
}

// GetGroup retrieves a single group
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.authzService.GetGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGroupResponse(group))
}

// ListGroups lists the organization's groups
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("organization_id")
	if orgID == "" {
		orgID = GetOrganizationID(r.Context())
	}
	if orgID == "" {
		respondError(w, http.StatusBadRequest, "organization_id is required")
		return
	}

	groups, err := h.authzService.ListGroups(r.Context(), orgID)
	if err != nil {
		respondAuthzError(w, err)
		return
	}

	responses := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		responses = append(responses, toGroupResponse(g))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"groups": responses,
	})
}

// UpdateGroupRequest represents group update data. Omitted fields are left
// unchanged.
type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateGroup handles group updates
func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.authzService.UpdateGroup(
		r.Context(), actorFromRequest(r), chi.URLParam(r, "groupID"),
		req.Name, req.Description,
	)
	if err != nil {
		respondAuthzError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toGroupResponse(group))
}

// DeleteGroup handles group deletion
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.authzService.DeleteGroup(r.Context(), actorFromRequest(r), chi.URLParam(r, "groupID")); err != nil {
		respondAuthzError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GroupRoles lists the roles attached to a group
func (h *Handler) GroupRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.authzService.GroupRoles(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"roles": toRoleResponses(roles),
	})
}

// AssignRoleToGroup attaches a role to a group
func (h *Handler) AssignRoleToGroup(w http.ResponseWriter, r *http.Request) {
	err := h.authzService.AssignRoleToGroup(
		r.Context(), actorFromRequest(r),
		chi.URLParam(r, "groupID"), chi.URLParam(r, "roleID"),
	)
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}

// RevokeRoleFromGroup detaches a role from a group
func (h *Handler) RevokeRoleFromGroup(w http.ResponseWriter, r *http.Request) {
	err := h.authzService.RevokeRoleFromGroup(
		r.Context(), actorFromRequest(r),
		chi.URLParam(r, "groupID"), chi.URLParam(r, "roleID"),
	)
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// ---------------------------------------------------------------------------
// Per-user grants
// ---------------------------------------------------------------------------

// organizationScope resolves the organization a grant mutation applies to:
// explicit query parameter first, then the caller's session scope.
func organizationScope(r *http.Request) string {
	if v := r.URL.Query().Get("organization_id"); v != "" {
		return v
	}
	return GetOrganizationID(r.Context())
}

// AssignRoleToUser assigns a role to a user within an organization
func (h *Handler) AssignRoleToUser(w http.ResponseWriter, r *http.Request) {
	orgID := organizationScope(r)
	if orgID == "" {
		respondError(w, http.StatusBadRequest, "organization_id is required")
		return
	}

	err := h.authzService.AssignRoleToUser(
		r.Context(), actorFromRequest(r), orgID,
		chi.URLParam(r, "userID"), chi.URLParam(r, "roleID"),
	)
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}

// RevokeRoleFromUser removes a user's role assignment
func (h *Handler) RevokeRoleFromUser(w http.ResponseWriter, r *http.Request) {
	orgID := organizationScope(r)
	if orgID == "" {
		respondError(w, http.StatusBadRequest, "organization_id is required")
		return
	}

	err := h.authzService.RevokeRoleFromUser(
		r.Context(), actorFromRequest(r), orgID,
		chi.URLParam(r, "userID"), chi.URLParam(r, "roleID"),
	)
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// AssignPermissionToUser binds a permission directly to a user
func (h *Handler) AssignPermissionToUser(w http.ResponseWriter, r *http.Request) {
	orgID := organizationScope(r)
	if orgID == "" {
		respondError(w, http.StatusBadRequest, "organization_id is required")
		return
	}

	err := h.authzService.AssignPermissionToUser(
		r.Context(), actorFromRequest(r), orgID,
		chi.URLParam(r, "userID"), chi.URLParam(r, "permissionID"),
	)
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}

// RevokePermissionFromUser removes a user's direct permission
func (h *Handler) RevokePermissionFromUser(w http.ResponseWriter, r *http.Request) {
	orgID := organizationScope(r)
	if orgID == "" {
		respondError(w, http.StatusBadRequest, "organization_id is required")
		return
	}

	err := h.authzService.RevokePermissionFromUser(
		r.Context(), actorFromRequest(r), orgID,
		chi.URLParam(r, "userID"), chi.URLParam(r, "permissionID"),
	)
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// AddUserToGroup places a user in a group
func (h *Handler) AddUserToGroup(w http.ResponseWriter, r *http.Request) {
	orgID := organizationScope(r)
	if orgID == "" {
		respondError(w, http.StatusBadRequest, "organization_id is required")
		return
	}

	err := h.authzService.AddUserToGroup(
		r.Context(), actorFromRequest(r), orgID,
		chi.URLParam(r, "userID"), chi.URLParam(r, "groupID"),
	)
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveUserFromGroup removes a user's group membership
func (h *Handler) RemoveUserFromGroup(w http.ResponseWriter, r *http.Request) {
	orgID := organizationScope(r)
	if orgID == "" {
		respondError(w, http.StatusBadRequest, "organization_id is required")
		return
	}

	err := h.authzService.RemoveUserFromGroup(
		r.Context(), actorFromRequest(r), orgID,
		chi.URLParam(r, "userID"), chi.URLParam(r, "groupID"),
	)
	if err != nil {
		respondAuthzError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func paginationParams(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
