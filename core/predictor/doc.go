// Package predictor models trained regression artifacts as an optional
// capability. Estimators ask the Gateway for a predictor of a given kind and
// branch on availability; a missing or corrupt artifact is never an error,
// only a reason to use the deterministic fallback tier.
package predictor
