package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/fleetsense/autocare/core/metrics"
)

func TestPromSinkRecordPrediction(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	ev := coremetrics.PredictionEvent{
		VehicleID:         "veh1",
		ServiceType:       "major_service",
		CostModelUsed:     "rule_based_fallback",
		IntervalModelUsed: "rule_based_fallback",
		EstimatedCost:     12963.07,
		IntervalKm:        7000,
		Confidence:        0.72,
		Time:              time.Now(),
	}
	if err := sink.RecordPrediction(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	got := testutil.ToFloat64(sink.predictions.WithLabelValues("major_service", "rule_based_fallback", "rule_based_fallback"))
	if got != 1 {
		t.Fatalf("counter: got %f", got)
	}
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration must reuse collectors: %v", err)
	}
}
