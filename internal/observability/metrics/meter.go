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

package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Config holds metrics configuration
type Config struct {
	Enabled bool
}

// Meter wraps the OpenTelemetry meter
type Meter struct {
	meter metric.Meter
}

// New creates a new meter instance
func New(ctx context.Context, cfg Config, serviceName string) (*Meter, error) {
	if !cfg.Enabled {
		return &Meter{meter: otel.Meter("noop")}, nil
	}

	// Get meter from the global meter provider. In production, configure a
	// proper meter provider with exporters.
	return &Meter{meter: otel.Meter(serviceName)}, nil
}

// DecisionMetrics holds the instruments recorded on every authorization
// decision.
type DecisionMetrics struct {
	Decisions metric.Int64Counter
	Latency   metric.Float64Histogram
}

// NewDecisionMetrics creates the authorization decision instruments
func (m *Meter) NewDecisionMetrics() (*DecisionMetrics, error) {
	decisions, err := m.meter.Int64Counter(
		"authz_decisions_total",
		metric.WithDescription("Authorization decisions, partitioned by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision counter: %w", err)
	}

	latency, err := m.meter.Float64Histogram(
		"authz_decision_duration_ms",
		metric.WithDescription("Authorization decision latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision histogram: %w", err)
	}

	return &DecisionMetrics{Decisions: decisions, Latency: latency}, nil
}

// NewCounter creates a counter metric
func (m *Meter) NewCounter(name, description string) (metric.Int64Counter, error) {
	counter, err := m.meter.Int64Counter(
		name,
		metric.WithDescription(description),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return counter, nil
}
