package predictor

import (
	"encoding/json"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// LinearModel is a fitted linear regressor with one-hot encoded categorical
// terms. It is the on-disk artifact format understood by the gateway: the
// offline training pipeline exports its regression as intercept + weights so
// serving does not depend on the training runtime.
type LinearModel struct {
	name       string
	intercept  float64
	weights    map[string]float64
	categories map[string]map[string]float64
}

type linearArtifact struct {
	ModelName  string                        `json:"model_name"`
	Intercept  float64                       `json:"intercept"`
	Weights    map[string]float64            `json:"weights"`
	Categories map[string]map[string]float64 `json:"categories"`
}

// ParseLinearModel decodes a JSON artifact into a LinearModel.
func ParseLinearModel(data []byte) (*LinearModel, error) {
	var a linearArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if len(a.Weights) == 0 && len(a.Categories) == 0 {
		return nil, fmt.Errorf("model artifact has no weights")
	}
	return &LinearModel{
		name:       a.ModelName,
		intercept:  a.Intercept,
		weights:    a.Weights,
		categories: a.Categories,
	}, nil
}

// Name returns the declared model name, which may be empty.
func (m *LinearModel) Name() string { return m.name }

// Predict evaluates the regression for one feature row. Features the model
// does not know are ignored; features the model knows but the row lacks
// contribute zero.
func (m *LinearModel) Predict(row Row) (float64, error) {
	names := make([]string, 0, len(m.weights))
	for n := range m.weights {
		names = append(names, n)
	}
	sort.Strings(names)

	w := mat.NewVecDense(len(names)+1, nil)
	x := mat.NewVecDense(len(names)+1, nil)
	for i, n := range names {
		w.SetVec(i, m.weights[n])
		x.SetVec(i, row.Numeric[n])
	}
	w.SetVec(len(names), m.intercept)
	x.SetVec(len(names), 1)

	y := mat.Dot(w, x)
	for field, levels := range m.categories {
		if level, ok := row.Categorical[field]; ok {
			y += levels[level]
		}
	}
	return y, nil
}
