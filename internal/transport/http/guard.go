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
	"log/slog"
	"net/http"

	"github.com/clarityrcm/clarityrcm/internal/authz"
	"github.com/clarityrcm/clarityrcm/internal/observability/logger"
)

// Guard turns engine decisions into route middleware. Routes behind a guard
// fail closed: any error during evaluation denies the request.
type Guard struct {
	engine *authz.Engine
}

// NewGuard creates a new guard
func NewGuard(engine *authz.Engine) *Guard {
	return &Guard{engine: engine}
}

// RequirePermission allows the request through only when the caller holds
// an applicable grant for the resource/action pair
func (g *Guard) RequirePermission(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil {
				respondError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			decision, err := g.engine.Check(
				r.Context(), user, resource, action,
				GetOrganizationID(r.Context()), requestContext(r),
			)
			if err != nil {
				slog.ErrorContext(r.Context(), "permission check failed",
					logger.UserID(user.ID),
					logger.Resource(resource),
					logger.Action(action),
					logger.Error(err),
				)
				respondError(w, http.StatusForbidden, "access denied")
				return
			}
			if !decision.Granted {
				slog.InfoContext(r.Context(), "access denied",
					logger.UserID(user.ID),
					logger.Resource(resource),
					logger.Action(action),
					logger.DecisionID(decision.DecisionID),
				)
				respondError(w, http.StatusForbidden, "access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission allows the request through when the caller holds an
// applicable grant for at least one of the pairs
func (g *Guard) RequireAnyPermission(pairs ...authz.ResourceAction) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil {
				respondError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			orgID := GetOrganizationID(r.Context())
			rc := requestContext(r)

			for _, pair := range pairs {
				decision, err := g.engine.Check(r.Context(), user, pair.Resource, pair.Action, orgID, rc)
				if err != nil {
					slog.ErrorContext(r.Context(), "permission check failed",
						logger.UserID(user.ID),
						logger.Resource(pair.Resource),
						logger.Action(pair.Action),
						logger.Error(err),
					)
					continue
				}
				if decision.Granted {
					next.ServeHTTP(w, r)
					return
				}
			}

			slog.InfoContext(r.Context(), "access denied",
				logger.UserID(user.ID),
				logger.Path(r.URL.Path),
			)
			respondError(w, http.StatusForbidden, "access denied")
		})
	}
}

// requestContext captures the request attributes the condition evaluator
// works with. Time and day default inside the engine.
func requestContext(r *http.Request) authz.RequestContext {
	return authz.RequestContext{
		IPAddress: getClientIP(r),
	}
}
