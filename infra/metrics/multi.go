package metrics

import coremetrics "github.com/fleetsense/autocare/core/metrics"

// MultiSink fans prediction events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPrediction forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes all sinks.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
