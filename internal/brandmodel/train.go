package brandmodel

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cleared-dev/txnenrich/internal/normalize"
)

// Example is one labeled training row.
type Example struct {
	Text  string
	Label string
}

// Options controls training.
type Options struct {
	MinN  int     // smallest n-gram, default 3
	MaxN  int     // largest n-gram, default 5
	Alpha float64 // additive smoothing, default 1
}

func (o Options) withDefaults() Options {
	if o.MinN == 0 {
		o.MinN = 3
	}
	if o.MaxN == 0 {
		o.MaxN = 5
	}
	if o.Alpha == 0 {
		o.Alpha = 1
	}
	return o
}

// ErrNoExamples is returned when training data is empty.
var ErrNoExamples = errors.New("no training examples")

// Train fits a model on examples. Text is normalized before feature
// extraction, so raw merchant strings and pre-cleaned text both work.
func Train(examples []Example, opts Options) (*Model, error) {
	opts = opts.withDefaults()
	if opts.MinN < 1 || opts.MaxN < opts.MinN {
		return nil, fmt.Errorf("invalid n-gram range [%d,%d]", opts.MinN, opts.MaxN)
	}
	if opts.Alpha < 0 {
		return nil, fmt.Errorf("invalid smoothing %v", opts.Alpha)
	}

	docs := make(map[string][]map[string]int)
	vocab := make(map[string]struct{})
	for _, ex := range examples {
		if ex.Label == "" {
			continue
		}
		grams := ngrams(normalize.Merchant(ex.Text), opts.MinN, opts.MaxN)
		for g := range grams {
			vocab[g] = struct{}{}
		}
		docs[ex.Label] = append(docs[ex.Label], grams)
	}
	if len(docs) == 0 {
		return nil, ErrNoExamples
	}

	classes := make([]string, 0, len(docs))
	for c := range docs {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	features := make([]string, 0, len(vocab))
	for f := range vocab {
		features = append(features, f)
	}
	sort.Strings(features)
	index := make(map[string]int, len(features))
	for i, f := range features {
		index[f] = i
	}

	total := 0
	for _, d := range docs {
		total += len(d)
	}

	m := &Model{
		Version:       formatVersion,
		MinN:          opts.MinN,
		MaxN:          opts.MaxN,
		Classes:       classes,
		LogPriors:     make([]float64, len(classes)),
		Features:      features,
		LogLikelihood: make([][]float64, len(classes)),
	}
	for c, class := range classes {
		m.LogPriors[c] = math.Log(float64(len(docs[class])) / float64(total))

		counts := make([]float64, len(features))
		var sum float64
		for _, grams := range docs[class] {
			for g, tf := range grams {
				counts[index[g]] += float64(tf)
				sum += float64(tf)
			}
		}
		denom := sum + opts.Alpha*float64(len(features))
		row := make([]float64, len(features))
		for j, n := range counts {
			row[j] = math.Log((n + opts.Alpha) / denom)
		}
		m.LogLikelihood[c] = row
	}
	m.buildIndex()
	return m, nil
}
