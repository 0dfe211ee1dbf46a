// Package estimate implements the maintenance prediction engine: cost
// estimation, oil-change interval optimization and schedule composition.
//
// Every estimator runs two tiers. The model tier queries a trained regressor
// obtained from the predictor gateway; whenever no usable predictor exists the
// deterministic rule-based tier answers instead. The engine never fails for
// degraded inputs: it always returns a best-effort number and labels which
// tier produced it via the ModelUsed field.
package estimate
