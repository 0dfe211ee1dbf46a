package metrics

import (
	coremetrics "github.com/fleetsense/autocare/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records prediction events in Prometheus metrics. The model_used
// label exposes the fallback rate of each estimator tier.
type PromSink struct {
	predictions *prometheus.CounterVec
	cost        prometheus.Histogram
	interval    prometheus.Histogram
}

// NewPromSink registers prediction metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer. A nil
// registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "maintenance_predictions_total",
		Help: "Total number of maintenance predictions",
	}, []string{"service_type", "cost_model", "interval_model"})
	cost := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "maintenance_estimated_cost",
		Help:    "Estimated maintenance cost per prediction",
		Buckets: prometheus.ExponentialBuckets(500, 2, 8),
	})
	interval := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "maintenance_oil_interval_km",
		Help:    "Recommended oil-change interval per prediction",
		Buckets: prometheus.LinearBuckets(4000, 1000, 12),
	})
	if err := reg.Register(predictions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			predictions = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(cost); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cost = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(interval); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			interval = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	return &PromSink{predictions: predictions, cost: cost, interval: interval}, nil
}

// RecordPrediction implements coremetrics.MetricsSink.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predictions.WithLabelValues(ev.ServiceType, ev.CostModelUsed, ev.IntervalModelUsed).Inc()
	s.cost.Observe(ev.EstimatedCost)
	s.interval.Observe(float64(ev.IntervalKm))
	return nil
}

// Close implements coremetrics.MetricsSink.
func (s *PromSink) Close() error { return nil }
