package brand

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/txnenrich/internal/brandmodel"
	"github.com/cleared-dev/txnenrich/internal/model"
)

// mockModel implements Model for testing.
type mockModel struct {
	mock.Mock
}

func (m *mockModel) Labels() []string {
	return m.Called().Get(0).([]string)
}

func (m *mockModel) Predict(text string) string {
	return m.Called(text).String(0)
}

func (m *mockModel) PredictProba(text string) []float64 {
	return m.Called(text).Get(0).([]float64)
}

// staticModel returns the same distribution for every input.
type staticModel struct {
	labels []string
	proba  []float64
}

func (s staticModel) Labels() []string              { return s.labels }
func (s staticModel) PredictProba(string) []float64 { return s.proba }
func (s staticModel) Predict(string) string {
	best := 0
	for i, p := range s.proba {
		if p > s.proba[best] {
			best = i
		}
	}
	return s.labels[best]
}

func countingLoader(m Model, err error, calls *atomic.Int32) Loader {
	return func() (Model, error) {
		calls.Add(1)
		return m, err
	}
}

func TestRank_NormalizesBeforePredicting(t *testing.T) {
	m := &mockModel{}
	m.On("Labels").Return([]string{"Other", "starbucks"})
	m.On("PredictProba", "starbucks").Return([]float64{0.1, 0.9})

	a := FromModel(m)
	preds := a.Rank("STARBUCKS #123!")

	require.Len(t, preds, 2)
	assert.Equal(t, model.Prediction{Brand: "starbucks", Confidence: 0.9}, preds[0])
	assert.Equal(t, model.Prediction{Brand: "Other", Confidence: 0.1}, preds[1])
	m.AssertExpectations(t)
}

func TestRank_TiesUseVocabularyOrder(t *testing.T) {
	a := FromModel(staticModel{
		labels: []string{"a", "b", "c", "d"},
		proba:  []float64{0.2, 0.3, 0.3, 0.2},
	})

	for range 5 {
		preds := a.Rank("anything")
		got := make([]string, len(preds))
		for i, p := range preds {
			got[i] = p.Brand
		}
		assert.Equal(t, []string{"b", "c", "a", "d"}, got)
	}
}

func TestTopK(t *testing.T) {
	a := FromModel(staticModel{
		labels: []string{"grab", "shell", "starbucks"},
		proba:  []float64{0.2, 0.1, 0.7},
	})

	assert.Len(t, a.TopK("x", 2), 2)
	assert.Len(t, a.TopK("x", 10), 3)
	assert.Empty(t, a.TopK("x", 0))
	assert.Empty(t, a.TopK("x", -1))
	assert.Equal(t, "starbucks", a.TopK("x", 1)[0].Brand)

	top, ok := a.Top1("x")
	require.True(t, ok)
	assert.Equal(t, "starbucks", top.Brand)
	assert.InDelta(t, 0.7, top.Confidence, 1e-9)
}

func TestBlankInputNeverLoads(t *testing.T) {
	var calls atomic.Int32
	a := NewAdapter("test", countingLoader(staticModel{labels: []string{"x"}, proba: []float64{1}}, nil, &calls))

	for _, in := range []string{"", " ", "\t\n"} {
		assert.Empty(t, a.Rank(in))
		assert.Empty(t, a.TopK(in, 3))
		_, ok := a.Top1(in)
		assert.False(t, ok)
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestBlankInputWithLoadedModel(t *testing.T) {
	m := &mockModel{}
	a := FromModel(m)

	assert.Empty(t, a.TopK("   ", 3))
	m.AssertNotCalled(t, "PredictProba", mock.Anything)
}

func TestMissingModel(t *testing.T) {
	var calls atomic.Int32
	missing := fmt.Errorf("loading: %w", fs.ErrNotExist)
	a := NewAdapter("missing.json", countingLoader(nil, missing, &calls))

	assert.False(t, a.Available())
	for range 3 {
		assert.Empty(t, a.TopK("STARBUCKS", 3))
		_, ok := a.Top1("STARBUCKS")
		assert.False(t, ok)
	}
	assert.Equal(t, int32(1), calls.Load(), "loader must run once")
}

func TestCorruptModelIsUnavailable(t *testing.T) {
	var calls atomic.Int32
	a := NewAdapter("bad.json", countingLoader(nil, fmt.Errorf("parsing model: bad"), &calls))

	assert.Empty(t, a.TopK("STARBUCKS", 3))
	assert.False(t, a.Available())
	assert.Equal(t, int32(1), calls.Load())
}

func TestNilLoader(t *testing.T) {
	a := NewAdapter("none", nil)
	assert.False(t, a.Available())
	assert.Empty(t, a.Rank("x"))
}

func TestConcurrentFirstUseLoadsOnce(t *testing.T) {
	var calls atomic.Int32
	slow := func() (Model, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return staticModel{labels: []string{"grab", "shell"}, proba: []float64{0.4, 0.6}}, nil
	}
	a := NewAdapter("slow", slow)

	var wg sync.WaitGroup
	results := make([]int, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = len(a.TopK("shell", 3))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, n := range results {
		assert.Equal(t, 2, n, "every caller must see the loaded model")
	}
}

func TestMisalignedProbabilities(t *testing.T) {
	a := FromModel(staticModel{labels: []string{"a", "b"}, proba: []float64{1}})
	assert.Empty(t, a.Rank("x"))
}

type panickyModel struct{ staticModel }

func (panickyModel) PredictProba(string) []float64 { panic("boom") }

func TestPanickingModel(t *testing.T) {
	a := FromModel(panickyModel{})
	assert.NotPanics(t, func() {
		assert.Empty(t, a.Rank("x"))
	})
}

func TestConfidenceIsClamped(t *testing.T) {
	a := FromModel(staticModel{labels: []string{"a", "b"}, proba: []float64{1.2, -0.2}})
	preds := a.Rank("x")
	require.Len(t, preds, 2)
	assert.Equal(t, 1.0, preds[0].Confidence)
	assert.Equal(t, 0.0, preds[1].Confidence)
}

func TestShared(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.json")
	a := Shared(path)
	b := Shared(path)
	assert.Same(t, a, b)
	assert.NotSame(t, a, Shared(path+".other"))
}

func TestFileLoader(t *testing.T) {
	m, err := brandmodel.Train([]brandmodel.Example{
		{Text: "starbucks", Label: "starbucks"},
		{Text: "starbucks tokyo", Label: "starbucks"},
		{Text: "shell", Label: "shell"},
		{Text: "shell sydney", Label: "shell"},
	}, brandmodel.Options{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "brand_classifier.json")
	require.NoError(t, brandmodel.Save(path, m))

	a := NewAdapter(path, FileLoader(path))
	top, ok := a.Top1("STARBUCKS #123")
	require.True(t, ok)
	assert.Equal(t, "starbucks", top.Brand)
}

func TestFileLoader_Missing(t *testing.T) {
	_, err := FileLoader(filepath.Join(t.TempDir(), "nope.json"))()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
