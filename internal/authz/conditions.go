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

package authz

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConditionKind enumerates the recognized ABAC condition kinds.
type ConditionKind string

const (
	// CondTimeBetween passes when the request time falls within an
	// inclusive [start, end] window of the day.
	CondTimeBetween ConditionKind = "time_between"

	// CondIPRange passes when the request IP exactly equals one of the
	// listed values. Despite the name, no CIDR containment is performed;
	// this preserves the behavior of the system this engine replaced.
	// See the risk note in DESIGN.md before changing it.
	CondIPRange ConditionKind = "ip_range"

	// CondDayOfWeek passes when the request weekday (case-insensitive)
	// is among the listed day names.
	CondDayOfWeek ConditionKind = "day_of_week"

	// CondDepartment passes when the requesting user's department exactly
	// equals the configured value.
	CondDepartment ConditionKind = "department"

	// CondUnknown carries a condition kind this build does not recognize.
	// Unknown conditions evaluate true (pass-through) so that permissions
	// written against a newer evaluator do not break older deployments.
	// This is deliberately fail-open; see DESIGN.md.
	CondUnknown ConditionKind = "unknown"
)

// TimeOfDay is a wall-clock time with minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// TimeOfDayFrom extracts the wall-clock time from t.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

func (t TimeOfDay) minutes() int { return t.Hour*60 + t.Minute }

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// RequestContext carries the runtime attributes a single authorization
// decision is evaluated against. CurrentTime and DayOfWeek default to the
// evaluation-moment wall clock when left unset.
type RequestContext struct {
	CurrentTime *TimeOfDay
	DayOfWeek   string
	IPAddress   string
	Department  string
}

// Condition is one ABAC condition in tagged-variant form. Exactly the fields
// for its Kind are populated. Key and Raw always hold the original JSON
// entry so unknown and malformed conditions round-trip unchanged.
type Condition struct {
	Kind ConditionKind

	Start TimeOfDay // time_between
	End   TimeOfDay

	IPs []string // ip_range

	Days []string // day_of_week, lowercased

	Department string // department

	Key string
	Raw any

	malformed bool
}

// Malformed reports whether the condition's parameters could not be decoded.
// Malformed conditions always evaluate false.
func (c Condition) Malformed() bool { return c.malformed }

// evaluate applies a single condition. Known kinds fail closed on mismatch
// or missing context; unknown kinds log a warning and pass.
func (c Condition) evaluate(ctx context.Context, rc RequestContext) bool {
	if c.malformed {
		slog.WarnContext(ctx, "malformed permission condition treated as failed",
			slog.String("condition", c.Key),
			slog.Any("value", c.Raw),
		)
		return false
	}

	switch c.Kind {
	case CondTimeBetween:
		now := rc.CurrentTime
		if now == nil {
			t := TimeOfDayFrom(time.Now())
			now = &t
		}
		// Boundary-inclusive on both ends.
		return c.Start.minutes() <= now.minutes() && now.minutes() <= c.End.minutes()

	case CondIPRange:
		if rc.IPAddress == "" {
			return false
		}
		for _, ip := range c.IPs {
			if ip == rc.IPAddress {
				return true
			}
		}
		return false

	case CondDayOfWeek:
		day := rc.DayOfWeek
		if day == "" {
			day = strings.ToLower(time.Now().Weekday().String())
		}
		day = strings.ToLower(day)
		for _, d := range c.Days {
			if d == day {
				return true
			}
		}
		return false

	case CondDepartment:
		return rc.Department == c.Department

	default:
		slog.WarnContext(ctx, "unknown permission condition kind, treating as passed",
			slog.String("condition", c.Key),
		)
		return true
	}
}

// ConditionSet is the full set of conditions on one permission. Distinct
// entries combine with implicit AND; an empty set is unconditional.
type ConditionSet []Condition

// Evaluate reports whether every condition in the set passes against rc.
// An empty or nil set always passes.
func (cs ConditionSet) Evaluate(ctx context.Context, rc RequestContext) bool {
	for _, c := range cs {
		if !c.evaluate(ctx, rc) {
			return false
		}
	}
	return true
}

// ParseConditions decodes the open key -> value mapping stored on a
// permission into tagged variants. Recognized kinds with undecodable
// parameters become malformed (fail-closed) entries; unrecognized keys
// become CondUnknown (fail-open) entries.
func ParseConditions(raw map[string]any) ConditionSet {
	if len(raw) == 0 {
		return nil
	}
	set := make(ConditionSet, 0, len(raw))
	for key, value := range raw {
		set = append(set, parseCondition(key, value))
	}
	return set
}

func parseCondition(key string, value any) Condition {
	c := Condition{Key: key, Raw: value}

	switch ConditionKind(key) {
	case CondTimeBetween:
		c.Kind = CondTimeBetween
		window, ok := stringSlice(value)
		if !ok || len(window) < 2 {
			c.malformed = true
			return c
		}
		var err error
		if c.Start, err = ParseTimeOfDay(window[0]); err != nil {
			c.malformed = true
			return c
		}
		if c.End, err = ParseTimeOfDay(window[1]); err != nil {
			c.malformed = true
			return c
		}

	case CondIPRange:
		c.Kind = CondIPRange
		ips, ok := stringSlice(value)
		if !ok {
			c.malformed = true
			return c
		}
		c.IPs = ips

	case CondDayOfWeek:
		c.Kind = CondDayOfWeek
		days, ok := stringSlice(value)
		if !ok {
			c.malformed = true
			return c
		}
		c.Days = make([]string, len(days))
		for i, d := range days {
			c.Days[i] = strings.ToLower(d)
		}

	case CondDepartment:
		c.Kind = CondDepartment
		dept, ok := value.(string)
		if !ok {
			c.malformed = true
			return c
		}
		c.Department = dept

	default:
		c.Kind = CondUnknown
	}

	return c
}

func stringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// MarshalJSON emits the original open-map wire format so conditions stored
// through this engine remain readable by every other consumer of the schema.
func (cs ConditionSet) MarshalJSON() ([]byte, error) {
	if cs == nil {
		return []byte("null"), nil
	}
	m := make(map[string]any, len(cs))
	for _, c := range cs {
		m[c.Key] = c.Raw
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the open-map wire format into tagged variants.
func (cs *ConditionSet) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*cs = ParseConditions(m)
	return nil
}
