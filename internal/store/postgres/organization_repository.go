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

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clarityrcm/clarityrcm/internal/organization"
)

// OrganizationRepository implements organization.Repository
type OrganizationRepository struct {
	db *DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Create creates a new organization
func (r *OrganizationRepository) Create(ctx context.Context, org *organization.Organization) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO organizations (id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		org.ID, org.Name, org.Status, org.CreatedAt, org.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	return nil
}

// GetByID retrieves an organization by ID
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*organization.Organization, error) {
	return r.get(ctx, "id = $1", id)
}

// GetByName retrieves an organization by name
func (r *OrganizationRepository) GetByName(ctx context.Context, name string) (*organization.Organization, error) {
	return r.get(ctx, "name = $1", name)
}

func (r *OrganizationRepository) get(ctx context.Context, where string, arg any) (*organization.Organization, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM organizations
		WHERE `+where,
		arg,
	)

	var org organization.Organization
	err := row.Scan(&org.ID, &org.Name, &org.Status, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, organization.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &org, nil
}

// Update updates an organization's name and status
func (r *OrganizationRepository) Update(ctx context.Context, org *organization.Organization) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE organizations SET
			name = $2,
			status = $3,
			updated_at = $4
		WHERE id = $1
	`,
		org.ID, org.Name, org.Status, org.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}

	if result.RowsAffected() == 0 {
		return organization.ErrOrganizationNotFound
	}

	return nil
}

// Delete removes an organization and cascades its scoped data
func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM organizations WHERE id = $1
	`, id)

	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	if result.RowsAffected() == 0 {
		return organization.ErrOrganizationNotFound
	}

	return nil
}

// List retrieves organizations ordered by name
func (r *OrganizationRepository) List(ctx context.Context, limit, offset int) ([]*organization.Organization, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM organizations
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*organization.Organization
	for rows.Next() {
		var org organization.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Status, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, &org)
	}

	return orgs, rows.Err()
}
