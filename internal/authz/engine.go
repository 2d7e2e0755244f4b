package authz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/clarityrcm/clarityrcm/internal/identity"
	"github.com/clarityrcm/clarityrcm/internal/observability/metrics"
)

// Decision reasons surfaced to callers of Check.
const (
	ReasonAdminBypass    = "admin"
	ReasonGranted        = "granted"
	ReasonNoOrganization = "no organization context"
	ReasonNoPermission   = "permission denied"
)

// Decision is the outcome of a single authorization check. DecisionID
// correlates the decision with audit and log entries.
type Decision struct {
	Granted    bool
	Reason     string
	DecisionID string
}

// Engine answers "can this user perform this action on this resource in
// this organization". A denied outcome is a value, never an error: denials
// are frequent and expected.
type Engine struct {
	resolver *Resolver
	metrics  *metrics.DecisionMetrics
}

// NewEngine creates a new decision engine. metrics may be nil.
func NewEngine(resolver *Resolver, m *metrics.DecisionMetrics) *Engine {
	return &Engine{resolver: resolver, metrics: m}
}

// HasPermission reports whether the user may perform action on resource.
//
// The admin bypass is deliberately the first check and nothing else runs
// for admins; keep it here, in the open, so the security-critical path
// stays auditable and testable in isolation.
//
// organizationID is optional: when empty the user's currently selected
// organization is used, and when neither is present the check fails closed.
func (e *Engine) HasPermission(ctx context.Context, user *identity.User, resource, action, organizationID string, rc RequestContext) (bool, error) {
	d, err := e.Check(ctx, user, resource, action, organizationID, rc)
	if err != nil {
		return false, err
	}
	return d.Granted, nil
}

// Check performs the full decision and returns the outcome with a reason.
func (e *Engine) Check(ctx context.Context, user *identity.User, resource, action, organizationID string, rc RequestContext) (Decision, error) {
	start := time.Now()
	decisionID := uuid.NewString()

	d, err := e.check(ctx, user, resource, action, organizationID, rc)
	d.DecisionID = decisionID

	if e.metrics != nil && err == nil {
		outcome := "denied"
		if d.Granted {
			outcome = "granted"
		}
		attrs := metric.WithAttributes(
			attribute.String("outcome", outcome),
			attribute.String("resource", resource),
		)
		e.metrics.Decisions.Add(ctx, 1, attrs)
		e.metrics.Latency.Record(ctx, float64(time.Since(start).Microseconds())/1000.0, attrs)
	}

	return d, err
}

func (e *Engine) check(ctx context.Context, user *identity.User, resource, action, organizationID string, rc RequestContext) (Decision, error) {
	// Global admins supersede all grants and conditions.
	if user.IsAdmin {
		return Decision{Granted: true, Reason: ReasonAdminBypass}, nil
	}

	if organizationID == "" && user.CurrentOrganizationID != nil {
		organizationID = *user.CurrentOrganizationID
	}
	if organizationID == "" {
		slog.DebugContext(ctx, "authorization check without organization context",
			slog.String("user_id", user.ID),
			slog.String("resource", resource),
			slog.String("action", action),
		)
		return Decision{Granted: false, Reason: ReasonNoOrganization}, nil
	}

	fillContextDefaults(&rc, user)

	permissions, err := e.resolver.ResolvePermissions(ctx, user.ID, organizationID)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to resolve permissions: %w", err)
	}

	// Any matching permission whose conditions hold is sufficient; order
	// carries no priority semantics.
	for _, p := range permissions {
		if p.Matches(resource, action) && p.Conditions.Evaluate(ctx, rc) {
			slog.DebugContext(ctx, "permission granted",
				slog.String("user_id", user.ID),
				slog.String("organization_id", organizationID),
				slog.String("resource", resource),
				slog.String("action", action),
				slog.String("permission_id", p.ID),
			)
			return Decision{Granted: true, Reason: ReasonGranted}, nil
		}
	}

	slog.DebugContext(ctx, "permission denied",
		slog.String("user_id", user.ID),
		slog.String("organization_id", organizationID),
		slog.String("resource", resource),
		slog.String("action", action),
	)
	return Decision{Granted: false, Reason: ReasonNoPermission}, nil
}

// EffectivePermissions lists everything the user can currently do in the
// organization, for the self-service "what can I do" surface.
func (e *Engine) EffectivePermissions(ctx context.Context, userID, organizationID string) ([]*Permission, error) {
	return e.resolver.ResolvePermissions(ctx, userID, organizationID)
}

func fillContextDefaults(rc *RequestContext, user *identity.User) {
	if rc.CurrentTime == nil {
		t := TimeOfDayFrom(time.Now())
		rc.CurrentTime = &t
	}
	if rc.DayOfWeek == "" {
		rc.DayOfWeek = strings.ToLower(time.Now().Weekday().String())
	}
	if rc.Department == "" {
		rc.Department = user.Department
	}
}
