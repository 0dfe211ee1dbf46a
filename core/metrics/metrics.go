// Package metrics defines the sink abstraction used to export prediction
// telemetry. Sinks observe which tier answered each request so the fallback
// rate can be audited.
package metrics

import "time"

// PredictionEvent describes one completed prediction request.
type PredictionEvent struct {
	VehicleID         string
	ServiceType       string
	CostModelUsed     string
	IntervalModelUsed string
	EstimatedCost     float64
	IntervalKm        int
	Confidence        float64
	Time              time.Time
}

// MetricsSink records prediction events.
type MetricsSink interface {
	RecordPrediction(PredictionEvent) error
	Close() error
}

// NopSink discards all events.
type NopSink struct{}

// RecordPrediction implements MetricsSink.
func (NopSink) RecordPrediction(PredictionEvent) error { return nil }

// Close implements MetricsSink.
func (NopSink) Close() error { return nil }
