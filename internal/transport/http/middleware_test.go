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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarityrcm/clarityrcm/internal/identity"
)

const (
	testSecret = "test-secret"
	testIssuer = "clarityrcm-idp"
)

type stubUsers struct {
	users map[string]*identity.User
}

func (s *stubUsers) GetByID(ctx context.Context, id string) (*identity.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, identity.ErrUserNotFound
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

func authTestHandler(users map[string]*identity.User) *Handler {
	return &Handler{
		users:     &stubUsers{users: users},
		jwtSecret: testSecret,
		jwtIssuer: testIssuer,
	}
}

func signToken(t *testing.T, secret, issuer, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// captureHandler records whether the wrapped handler ran and the user it saw.
func captureHandler(seen **identity.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = GetUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

// TestPurpose: Validates that a well-formed token loads the caller identity.
// Scope: Unit Test
// Security: Token subject maps to a known user before any route runs
// Expected: 200 with the user and organization scope in context.
func TestAuthMiddleware_ValidToken(t *testing.T) {
	org := "org-a"
	h := authTestHandler(map[string]*identity.User{
		"user-1": {ID: "user-1", Email: "biller@example.com", CurrentOrganizationID: &org},
	})

	var seen *identity.User
	var seenOrg string
	mw := h.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUser(r.Context())
		seenOrg = GetOrganizationID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/authz/permissions", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, testIssuer, "user-1", time.Hour))
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.ID)
	assert.Equal(t, "org-a", seenOrg)
}

// TestPurpose: Validates rejection of absent and malformed credentials.
// Scope: Unit Test
// Security: No anonymous access to the API surface
// Expected: 401 and the wrapped handler never runs.
func TestAuthMiddleware_Rejections(t *testing.T) {
	h := authTestHandler(map[string]*identity.User{
		"user-1": {ID: "user-1"},
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", testIssuer, "user-1", time.Hour)},
		{"wrong issuer", "Bearer " + signToken(t, testSecret, "someone-else", "user-1", time.Hour)},
		{"expired", "Bearer " + signToken(t, testSecret, testIssuer, "user-1", -time.Minute)},
		{"unknown subject", "Bearer " + signToken(t, testSecret, testIssuer, "ghost", time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *identity.User
			mw := h.AuthMiddleware(captureHandler(&seen))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/authz/permissions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, seen)
		})
	}
}

// TestPurpose: Validates tokens signed with a non-HMAC algorithm are refused.
// Scope: Unit Test
// Security: Guards against algorithm confusion on token verification
// Expected: 401 for an unsigned token.
func TestAuthMiddleware_RejectsNoneAlgorithm(t *testing.T) {
	h := authTestHandler(map[string]*identity.User{"user-1": {ID: "user-1"}})

	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	var seen *identity.User
	mw := h.AuthMiddleware(captureHandler(&seen))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/authz/permissions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

// TestPurpose: Validates client IP extraction behind and without proxies.
// Scope: Unit Test
// Expected: X-Forwarded-For wins, then X-Real-IP, then RemoteAddr.
func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:51234"
	assert.Equal(t, "192.0.2.10", getClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 198.51.100.7")
	assert.Equal(t, "203.0.113.5", getClientIP(req))
}
