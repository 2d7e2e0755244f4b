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

package identity

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// User is the read-side identity record the authorization engine works
// with. Authentication and credential storage live in the external identity
// provider; this service only needs the attributes that drive decisions.
type User struct {
	ID       string
	Email    string
	FullName string

	// IsAdmin marks a global administrator. Admins bypass permission
	// resolution entirely; the engine checks this flag first.
	IsAdmin bool

	// CurrentOrganizationID is the organization the user last selected.
	// Used as the decision scope when a check names no organization.
	// Nil when the user has not selected one.
	CurrentOrganizationID *string

	// Department feeds the department ABAC condition.
	Department string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines the interface for user lookup
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
