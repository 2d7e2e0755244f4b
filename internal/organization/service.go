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

package organization

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/clarityrcm/clarityrcm/internal/audit"
)

// Service provides organization management business logic
type Service struct {
	repo     Repository
	recorder audit.Recorder
}

// NewService creates a new organization service
func NewService(repo Repository, recorder audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// Create creates a new organization
func (s *Service) Create(ctx context.Context, actorID, name string) (*Organization, error) {
	if name == "" {
		return nil, fmt.Errorf("organization name is required")
	}

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, ErrOrganizationAlreadyExists
	} else if err != ErrOrganizationNotFound {
		return nil, fmt.Errorf("failed to check organization name: %w", err)
	}

	now := time.Now()
	org := &Organization{
		ID:        ulid.Make().String(),
		Name:      name,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		ActorID:        actorID,
		Action:         audit.ActionCreate,
		ResourceType:   audit.ResourceOrganization,
		ResourceID:     org.ID,
		OrganizationID: org.ID,
		Details:        map[string]any{"name": org.Name},
	})

	return org, nil
}

// Get retrieves an organization by ID
func (s *Service) Get(ctx context.Context, id string) (*Organization, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists organizations with pagination
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Organization, error) {
	return s.repo.List(ctx, limit, offset)
}
