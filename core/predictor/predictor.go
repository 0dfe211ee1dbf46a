package predictor

import "sync"

// Kind selects which predictor artifact an estimator wants.
type Kind string

const (
	// KindCost selects the maintenance-cost regressor.
	KindCost Kind = "cost"
	// KindInterval selects the oil-change interval regressor.
	KindInterval Kind = "interval"
)

// Row is a flat feature row fed to a predictor. Numeric features map to raw
// values, categorical features to their string levels.
type Row struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// Predictor produces a scalar prediction from a single feature row.
type Predictor interface {
	Predict(row Row) (float64, error)
}

// Handle pairs a loaded predictor with its declared name. A Handle is
// immutable once loaded.
type Handle struct {
	Name  string
	Model Predictor
}

// Store loads raw predictor artifacts. Implementations must report absence
// instead of failing: any load or decode problem is expressed as ok=false.
type Store interface {
	Load(kind Kind) (Handle, bool)
}

// Gateway wraps a Store with a process-wide, write-once-per-kind cache.
// Artifacts are immutable for the process lifetime, so a successful load is
// never invalidated; an unavailable result is also cached since re-probing a
// missing artifact on every call buys nothing.
type Gateway struct {
	store Store

	mu    sync.RWMutex
	cache map[Kind]cached
}

type cached struct {
	handle Handle
	ok     bool
}

// NewGateway creates a Gateway over the given store.
func NewGateway(store Store) *Gateway {
	return &Gateway{store: store, cache: make(map[Kind]cached)}
}

// Load returns the predictor for kind, or ok=false when no usable artifact
// exists. It never returns an error: absence and corruption degrade to the
// fallback tier.
func (g *Gateway) Load(kind Kind) (Handle, bool) {
	g.mu.RLock()
	c, hit := g.cache[kind]
	g.mu.RUnlock()
	if hit {
		return c.handle, c.ok
	}

	h, ok := g.store.Load(kind)
	if ok && h.Model == nil {
		ok = false
	}

	g.mu.Lock()
	// First writer wins; a concurrent load of the same immutable artifact is
	// discarded without harm.
	if prev, hit := g.cache[kind]; hit {
		g.mu.Unlock()
		return prev.handle, prev.ok
	}
	g.cache[kind] = cached{handle: h, ok: ok}
	g.mu.Unlock()
	return h, ok
}
