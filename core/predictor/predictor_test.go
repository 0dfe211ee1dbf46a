package predictor

import (
	"sync"
	"testing"
)

func TestGatewayCachesPerKind(t *testing.T) {
	store := &MockStore{Handles: map[Kind]Handle{
		KindCost: {Name: "m", Model: StaticModel{Value: 1}},
	}}
	g := NewGateway(store)

	for i := 0; i < 3; i++ {
		if _, ok := g.Load(KindCost); !ok {
			t.Fatalf("expected cost predictor")
		}
	}
	// Absence is cached too.
	for i := 0; i < 3; i++ {
		if _, ok := g.Load(KindInterval); ok {
			t.Fatalf("unexpected interval predictor")
		}
	}
	if store.Loads != 2 {
		t.Fatalf("expected one store load per kind, got %d", store.Loads)
	}
}

func TestGatewayNilModelIsUnavailable(t *testing.T) {
	store := &MockStore{Handles: map[Kind]Handle{KindCost: {Name: "empty"}}}
	g := NewGateway(store)
	if _, ok := g.Load(KindCost); ok {
		t.Fatalf("handle without model must be unavailable")
	}
}

func TestGatewayConcurrentLoad(t *testing.T) {
	store := &MockStore{Handles: map[Kind]Handle{
		KindInterval: {Name: "m", Model: StaticModel{Value: 9000}},
	}}
	g := NewGateway(store)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, ok := g.Load(KindInterval)
			if !ok || h.Name != "m" {
				t.Errorf("unexpected handle %+v ok=%v", h, ok)
			}
		}()
	}
	wg.Wait()
}

func TestParseLinearModel(t *testing.T) {
	data := []byte(`{
		"model_name": "cost_v2",
		"intercept": 100,
		"weights": {"vehicle_age": 10, "current_mileage": 0.001},
		"categories": {"fuel_type": {"diesel": 50}}
	}`)
	m, err := ParseLinearModel(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Name() != "cost_v2" {
		t.Fatalf("name: %s", m.Name())
	}
	row := Row{
		Numeric:     map[string]float64{"vehicle_age": 5, "current_mileage": 100000},
		Categorical: map[string]string{"fuel_type": "diesel"},
	}
	got, err := m.Predict(row)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	want := 100 + 5*10 + 100000*0.001 + 50.0
	if got != want {
		t.Fatalf("predict: got %f want %f", got, want)
	}
}

func TestParseLinearModelRejectsGarbage(t *testing.T) {
	if _, err := ParseLinearModel([]byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := ParseLinearModel([]byte(`{"model_name":"x"}`)); err == nil {
		t.Fatalf("expected empty-weights error")
	}
}

func TestPredictIgnoresUnknownLevels(t *testing.T) {
	m, err := ParseLinearModel([]byte(`{"intercept": 7, "weights": {"a": 2}, "categories": {"c": {"x": 5}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := m.Predict(Row{Numeric: map[string]float64{"a": 3, "other": 99}, Categorical: map[string]string{"c": "unseen"}})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if got != 13 {
		t.Fatalf("got %f want 13", got)
	}
}
