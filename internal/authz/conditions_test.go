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

package authz_test

import (
	"context"
	"testing"

	"github.com/clarityrcm/clarityrcm/internal/authz"
)

func at(hour, minute int) *authz.TimeOfDay {
	t := authz.TimeOfDay{Hour: hour, Minute: minute}
	return &t
}

// TestPurpose: Validates the business-hours window check, including its
// inclusive boundaries.
// Scope: Unit Test
// Security: ABAC time-of-day restriction enforcement
// Expected: Times inside [start, end] pass, times outside fail.
func TestConditions_TimeBetween(t *testing.T) {
	conditions := authz.ParseConditions(map[string]any{
		"time_between": []any{"09:00", "17:00"},
	})

	tests := []struct {
		name string
		time *authz.TimeOfDay
		want bool
	}{
		{"start boundary inclusive", at(9, 0), true},
		{"end boundary inclusive", at(17, 0), true},
		{"midday", at(12, 0), true},
		{"before window", at(8, 0), false},
		{"one minute before start", at(8, 59), false},
		{"after window", at(18, 0), false},
		{"one minute after end", at(17, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := authz.RequestContext{CurrentTime: tt.time, DayOfWeek: "monday"}
			if got := conditions.Evaluate(context.Background(), rc); got != tt.want {
				t.Errorf("Evaluate at %v = %v, want %v", tt.time, got, tt.want)
			}
		})
	}
}

// TestPurpose: Validates weekday restriction matching regardless of case.
// Scope: Unit Test
// Security: ABAC day-of-week restriction enforcement
// Expected: Listed days pass case-insensitively, unlisted days fail.
func TestConditions_DayOfWeek(t *testing.T) {
	conditions := authz.ParseConditions(map[string]any{
		"day_of_week": []any{"Monday", "tuesday", "WEDNESDAY"},
	})

	tests := []struct {
		day  string
		want bool
	}{
		{"monday", true},
		{"Monday", true},
		{"TUESDAY", true},
		{"wednesday", true},
		{"saturday", false},
		{"sunday", false},
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			rc := authz.RequestContext{CurrentTime: at(12, 0), DayOfWeek: tt.day}
			if got := conditions.Evaluate(context.Background(), rc); got != tt.want {
				t.Errorf("Evaluate day %q = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

// TestPurpose: Validates that the IP allowlist matches whole strings only.
// Scope: Unit Test
// Security: ABAC source-address restriction enforcement
// Expected: Exact entries pass; prefixes, subnets, and CIDR notation do not
// grant containment semantics.
func TestConditions_IPRange_ExactMatch(t *testing.T) {
	conditions := authz.ParseConditions(map[string]any{
		"ip_range": []any{"10.0.0.5", "10.1.0.0/16"},
	})

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.0.0.5", true},
		// entries are opaque strings, not parsed CIDR blocks
		{"10.1.0.0/16", true},
		{"10.1.2.3", false},
		{"10.0.0.50", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			rc := authz.RequestContext{CurrentTime: at(12, 0), DayOfWeek: "monday", IPAddress: tt.ip}
			if got := conditions.Evaluate(context.Background(), rc); got != tt.want {
				t.Errorf("Evaluate ip %q = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}

// TestPurpose: Validates department restriction and the AND semantics of
// multi-condition sets.
// Scope: Unit Test
// Security: ABAC attribute enforcement
// Expected: All conditions must hold; one failing condition denies.
func TestConditions_DepartmentAndConjunction(t *testing.T) {
	conditions := authz.ParseConditions(map[string]any{
		"department":   "billing",
		"time_between": []any{"09:00", "17:00"},
	})

	rc := authz.RequestContext{CurrentTime: at(10, 0), DayOfWeek: "monday", Department: "billing"}
	if !conditions.Evaluate(context.Background(), rc) {
		t.Error("expected pass when all conditions hold")
	}

	rc.Department = "radiology"
	if conditions.Evaluate(context.Background(), rc) {
		t.Error("expected failure for wrong department")
	}

	rc.Department = "billing"
	rc.CurrentTime = at(20, 0)
	if conditions.Evaluate(context.Background(), rc) {
		t.Error("expected failure outside time window even with right department")
	}
}

// TestPurpose: Validates the compatibility posture for conditions the
// evaluator does not understand.
// Scope: Unit Test
// Expected: Unknown condition kinds pass (with a warning); structurally
// malformed known conditions fail closed.
func TestConditions_UnknownAndMalformed(t *testing.T) {
	rc := authz.RequestContext{CurrentTime: at(12, 0), DayOfWeek: "monday"}

	unknown := authz.ParseConditions(map[string]any{
		"geo_fence": map[string]any{"lat": 40.7, "lng": -74.0},
	})
	if !unknown.Evaluate(context.Background(), rc) {
		t.Error("unknown condition kinds should not block access")
	}

	malformed := authz.ParseConditions(map[string]any{
		"time_between": []any{"9am", "5pm"},
	})
	if malformed.Evaluate(context.Background(), rc) {
		t.Error("malformed time_between should fail closed")
	}

	truncated := authz.ParseConditions(map[string]any{
		"time_between": []any{"09:00"},
	})
	if truncated.Evaluate(context.Background(), rc) {
		t.Error("time_between with one endpoint should fail closed")
	}
}

// TestPurpose: Validates that an unconditioned permission always applies.
// Scope: Unit Test
// Expected: An empty condition set evaluates true.
func TestConditions_EmptySet(t *testing.T) {
	var conditions authz.ConditionSet
	if !conditions.Evaluate(context.Background(), authz.RequestContext{}) {
		t.Error("empty condition set should pass")
	}
}

// TestPurpose: Validates clock string parsing for the time window condition.
// Scope: Unit Test
// Expected: HH:MM parses; out-of-range and garbage inputs error.
func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"09:00", 9, 0, false},
		{"17:30", 17, 30, false},
		{"00:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"9am", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := authz.ParseTimeOfDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTimeOfDay(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) unexpected error: %v", tt.input, err)
			}
			if got.Hour != tt.hour || got.Minute != tt.minute {
				t.Errorf("ParseTimeOfDay(%q) = %02d:%02d, want %02d:%02d",
					tt.input, got.Hour, got.Minute, tt.hour, tt.minute)
			}
		})
	}
}
