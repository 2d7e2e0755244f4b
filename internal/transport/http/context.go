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
	"context"

	"github.com/clarityrcm/clarityrcm/internal/identity"
)

type contextKey string

const (
	userKey           contextKey = "user"
	organizationIDKey contextKey = "organization_id"
)

// GetUser retrieves the authenticated user from context. Nil when the
// request did not pass AuthMiddleware.
func GetUser(ctx context.Context) *identity.User {
	if user, ok := ctx.Value(userKey).(*identity.User); ok {
		return user
	}
	return nil
}

// GetOrganizationID retrieves the request's organization scope from context.
// Empty when no scope was established.
func GetOrganizationID(ctx context.Context) string {
	if val, ok := ctx.Value(organizationIDKey).(string); ok {
		return val
	}
	return ""
}
