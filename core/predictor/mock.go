package predictor

// MockStore is an in-memory Store for tests.
type MockStore struct {
	Handles map[Kind]Handle
	Loads   int
}

// Load returns the configured handle for kind.
func (s *MockStore) Load(kind Kind) (Handle, bool) {
	s.Loads++
	h, ok := s.Handles[kind]
	return h, ok
}

// StaticModel is a Predictor returning a fixed value, optionally with an
// error.
type StaticModel struct {
	Value float64
	Err   error
}

// Predict returns the configured value.
func (m StaticModel) Predict(Row) (float64, error) { return m.Value, m.Err }
