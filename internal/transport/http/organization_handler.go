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

	"github.com/go-chi/chi/v5"

	"github.com/clarityrcm/clarityrcm/internal/organization"
)

// CreateOrganizationRequest represents organization creation data
type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

// CreateOrganization handles organization creation
func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	actor := actorFromRequest(r)
	org, err := h.orgService.Create(r.Context(), actor.UserID, req.Name)
	if err != nil {
		if errors.Is(err, organization.ErrOrganizationAlreadyExists) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, org)
}

// GetOrganization retrieves a single organization
func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.orgService.Get(r.Context(), chi.URLParam(r, "organizationID"))
	if err != nil {
		if errors.Is(err, organization.ErrOrganizationNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, org)
}

// ListOrganizations lists organizations
func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r, 100)

	orgs, err := h.orgService.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"organizations": orgs,
	})
}
