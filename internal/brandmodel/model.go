// Package brandmodel is the reference brand classifier: a character n-gram
// multinomial naive Bayes model persisted as a JSON artifact.
package brandmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
)

const formatVersion = 1

// Model is a trained classifier. It is read-only after Load or Train and
// safe for concurrent use.
type Model struct {
	Version       int         `json:"version"`
	MinN          int         `json:"min_n"`
	MaxN          int         `json:"max_n"`
	Classes       []string    `json:"classes"`
	LogPriors     []float64   `json:"log_priors"`
	Features      []string    `json:"features"`
	LogLikelihood [][]float64 `json:"log_likelihood"` // [class][feature]

	index map[string]int
}

// Labels returns the class vocabulary in sorted order.
func (m *Model) Labels() []string {
	return m.Classes
}

// PredictProba returns the posterior probability of each class for already
// normalized text. Features outside the training vocabulary are ignored, so
// text with no known n-grams gets the class priors.
func (m *Model) PredictProba(text string) []float64 {
	scores := make([]float64, len(m.Classes))
	copy(scores, m.LogPriors)

	for gram, tf := range ngrams(text, m.MinN, m.MaxN) {
		j, ok := m.index[gram]
		if !ok {
			continue
		}
		for c := range scores {
			scores[c] += float64(tf) * m.LogLikelihood[c][j]
		}
	}
	return softmax(scores)
}

// Predict returns the most probable class, the earliest class on ties.
func (m *Model) Predict(text string) string {
	proba := m.PredictProba(text)
	best := -1
	for i, p := range proba {
		if best < 0 || p > proba[best] {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return m.Classes[best]
}

func softmax(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func (m *Model) validate() error {
	if m.Version != formatVersion {
		return fmt.Errorf("unsupported model version %d", m.Version)
	}
	if m.MinN < 1 || m.MaxN < m.MinN {
		return fmt.Errorf("invalid n-gram range [%d,%d]", m.MinN, m.MaxN)
	}
	if len(m.Classes) == 0 {
		return errors.New("model has no classes")
	}
	if !sort.StringsAreSorted(m.Classes) {
		return errors.New("model classes are not sorted")
	}
	if len(m.LogPriors) != len(m.Classes) || len(m.LogLikelihood) != len(m.Classes) {
		return fmt.Errorf("model has %d classes but %d priors and %d likelihood rows",
			len(m.Classes), len(m.LogPriors), len(m.LogLikelihood))
	}
	for c, row := range m.LogLikelihood {
		if len(row) != len(m.Features) {
			return fmt.Errorf("class %q has %d likelihoods for %d features", m.Classes[c], len(row), len(m.Features))
		}
	}
	return nil
}

func (m *Model) buildIndex() {
	m.index = make(map[string]int, len(m.Features))
	for i, f := range m.Features {
		m.index[f] = i
	}
}

// Load reads a model artifact. A missing file returns an error wrapping
// fs.ErrNotExist.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("validating model: %w", err)
	}
	m.buildIndex()
	return &m, nil
}

// Save writes the model artifact, creating parent directories.
func Save(path string, m *Model) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating model dir: %w", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing model: %w", err)
	}
	return nil
}
