// Package brand wraps an external brand classification model behind a small,
// total API: ranked predictions for raw merchant text, and the confidence
// threshold policy that turns a top prediction into an assigned brand.
package brand

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/cleared-dev/txnenrich/internal/model"
	"github.com/cleared-dev/txnenrich/internal/normalize"
)

// Model is the contract a brand classifier artifact must satisfy. Text passed
// to Predict and PredictProba is already normalized.
type Model interface {
	// Labels returns the fixed, ordered label vocabulary.
	Labels() []string
	// Predict returns the most likely label.
	Predict(text string) string
	// PredictProba returns one probability per label, aligned to Labels.
	PredictProba(text string) []float64
}

// Loader produces a Model, typically by reading an artifact from disk.
// Loaders should return an error wrapping fs.ErrNotExist when the artifact
// is missing.
type Loader func() (Model, error)

// Adapter lazily loads a Model once and serves ranked predictions. The zero
// value is not usable; construct with NewAdapter.
type Adapter struct {
	name string
	load Loader

	once  sync.Once
	model Model
}

// NewAdapter returns an Adapter that loads its model on first use. name
// identifies the artifact in log messages.
func NewAdapter(name string, load Loader) *Adapter {
	return &Adapter{name: name, load: load}
}

// FromModel returns an Adapter over an already loaded model.
func FromModel(m Model) *Adapter {
	a := &Adapter{name: "in-memory"}
	a.once.Do(func() { a.model = m })
	return a
}

// ensure loads the model exactly once. Concurrent callers block until the
// first load finishes.
func (a *Adapter) ensure() Model {
	a.once.Do(func() {
		if a.load == nil {
			slog.Warn("brand classifier unavailable: no loader configured", "model", a.name)
			return
		}
		m, err := a.load()
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("brand classifier model not found; brand predictions disabled",
				"model", a.name,
				"hint", "run `txnenrich train` to build one")
		case err != nil:
			slog.Warn("brand classifier model could not be loaded; brand predictions disabled",
				"model", a.name, "error", err)
		case m == nil:
			slog.Warn("brand classifier loader returned no model", "model", a.name)
		default:
			a.model = m
			slog.Debug("brand classifier loaded", "model", a.name, "labels", len(m.Labels()))
		}
	})
	return a.model
}

// Available reports whether a model is loaded, loading it if necessary.
func (a *Adapter) Available() bool {
	return a.ensure() != nil
}

// Rank returns every label ranked by descending confidence, ties broken by
// vocabulary order. Blank text yields nil without touching the model.
// Callers can apply different thresholds to one ranking without re-running
// the model.
func (a *Adapter) Rank(text string) []model.Prediction {
	if normalize.Blank(text) {
		return nil
	}
	m := a.ensure()
	if m == nil {
		return nil
	}
	return rank(a.name, m, normalize.Merchant(text))
}

// TopK returns at most k predictions in rank order.
func (a *Adapter) TopK(text string, k int) []model.Prediction {
	if k <= 0 {
		return nil
	}
	preds := a.Rank(text)
	if len(preds) > k {
		preds = preds[:k]
	}
	return preds
}

// Top1 returns the best prediction, or false when there is none.
func (a *Adapter) Top1(text string) (model.Prediction, bool) {
	preds := a.TopK(text, 1)
	if len(preds) == 0 {
		return model.Prediction{}, false
	}
	return preds[0], true
}

func rank(name string, m Model, cleaned string) (preds []model.Prediction) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("brand classifier panicked", "model", name, "panic", fmt.Sprint(r))
			preds = nil
		}
	}()

	labels := m.Labels()
	proba := m.PredictProba(cleaned)
	if len(labels) == 0 || len(proba) != len(labels) {
		slog.Debug("brand classifier returned misaligned probabilities",
			"model", name, "labels", len(labels), "proba", len(proba))
		return nil
	}

	idx := make([]int, len(labels))
	for i := range idx {
		if math.IsNaN(proba[i]) {
			return nil
		}
		idx[i] = i
	}
	sort.SliceStable(idx, func(x, y int) bool {
		return proba[idx[x]] > proba[idx[y]]
	})

	preds = make([]model.Prediction, len(idx))
	for i, j := range idx {
		preds[i] = model.Prediction{Brand: labels[j], Confidence: clamp(proba[j])}
	}
	return preds
}

func clamp(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

var shared = struct {
	mu       sync.Mutex
	adapters map[string]*Adapter
}{adapters: make(map[string]*Adapter)}

// Shared returns the process-wide Adapter for the artifact at path, creating
// it on first request. Every caller asking for the same path gets the same
// adapter, so the artifact is read at most once per process.
func Shared(path string) *Adapter {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if a, ok := shared.adapters[path]; ok {
		return a
	}
	a := NewAdapter(path, FileLoader(path))
	shared.adapters[path] = a
	return a
}
