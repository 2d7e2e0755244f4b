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

package organization_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarityrcm/clarityrcm/internal/audit"
	"github.com/clarityrcm/clarityrcm/internal/organization"
)

type fakeRepository struct {
	byID map[string]*organization.Organization
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: map[string]*organization.Organization{}}
}

func (f *fakeRepository) Create(ctx context.Context, org *organization.Organization) error {
	f.byID[org.ID] = org
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (*organization.Organization, error) {
	if org, ok := f.byID[id]; ok {
		return org, nil
	}
	return nil, organization.ErrOrganizationNotFound
}

func (f *fakeRepository) GetByName(ctx context.Context, name string) (*organization.Organization, error) {
	for _, org := range f.byID {
		if org.Name == name {
			return org, nil
		}
	}
	return nil, organization.ErrOrganizationNotFound
}

func (f *fakeRepository) Update(ctx context.Context, org *organization.Organization) error {
	f.byID[org.ID] = org
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeRepository) List(ctx context.Context, limit, offset int) ([]*organization.Organization, error) {
	var out []*organization.Organization
	for _, org := range f.byID {
		out = append(out, org)
	}
	return out, nil
}

type recordedEvents struct {
	events []audit.Event
}

func (r *recordedEvents) Record(ctx context.Context, event audit.Event) {
	r.events = append(r.events, event)
}

// TestPurpose: Validates organization provisioning with its audit trail.
// Scope: Unit Test
// Expected: A ULID is assigned, the status starts active, and a create
// event is recorded with the creating admin as actor.
func TestOrganizationService_Create(t *testing.T) {
	repo := newFakeRepository()
	recorder := &recordedEvents{}
	svc := organization.NewService(repo, recorder)

	org, err := svc.Create(context.Background(), "admin-1", "Lakeside Medical Billing")
	require.NoError(t, err)

	assert.Len(t, org.ID, 26)
	assert.Equal(t, organization.StatusActive, org.Status)

	stored, err := repo.GetByID(context.Background(), org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lakeside Medical Billing", stored.Name)

	require.Len(t, recorder.events, 1)
	event := recorder.events[0]
	assert.Equal(t, "admin-1", event.ActorID)
	assert.Equal(t, audit.ActionCreate, event.Action)
	assert.Equal(t, audit.ResourceOrganization, event.ResourceType)
	assert.Equal(t, org.ID, event.OrganizationID)
}

// TestPurpose: Validates name uniqueness and input validation on create.
// Scope: Unit Test
// Expected: A duplicate name and an empty name are both rejected, with no
// audit event for the failed attempts.
func TestOrganizationService_CreateRejectsDuplicateAndEmpty(t *testing.T) {
	repo := newFakeRepository()
	recorder := &recordedEvents{}
	svc := organization.NewService(repo, recorder)

	_, err := svc.Create(context.Background(), "admin-1", "Lakeside Medical Billing")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "admin-1", "Lakeside Medical Billing")
	assert.ErrorIs(t, err, organization.ErrOrganizationAlreadyExists)

	_, err = svc.Create(context.Background(), "admin-1", "")
	assert.Error(t, err)

	assert.Len(t, recorder.events, 1)
}
