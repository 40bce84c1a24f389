package brandmodel

import (
	"math/rand/v2"
	"sort"

	"github.com/cleared-dev/txnenrich/internal/normalize"
)

// Split partitions examples into train and test sets, holding out testFrac
// of every label (at least one row for labels with two or more rows).
// The split is deterministic for a given seed.
func Split(examples []Example, testFrac float64, seed uint64) (train, test []Example) {
	byLabel := make(map[string][]Example)
	var labels []string
	for _, ex := range examples {
		if _, ok := byLabel[ex.Label]; !ok {
			labels = append(labels, ex.Label)
		}
		byLabel[ex.Label] = append(byLabel[ex.Label], ex)
	}
	sort.Strings(labels)

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for _, label := range labels {
		group := append([]Example(nil), byLabel[label]...)
		rng.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })

		n := int(float64(len(group)) * testFrac)
		if n == 0 && len(group) >= 2 && testFrac > 0 {
			n = 1
		}
		test = append(test, group[:n]...)
		train = append(train, group[n:]...)
	}
	return train, test
}

// LabelMetrics are per-label hold-out scores.
type LabelMetrics struct {
	Label     string
	Precision float64
	Recall    float64
	Support   int
}

// Report summarizes a hold-out evaluation.
type Report struct {
	Accuracy float64
	Total    int
	Labels   []LabelMetrics
}

// Evaluate scores m against labeled examples.
func Evaluate(m *Model, examples []Example) Report {
	tp := make(map[string]int)
	predicted := make(map[string]int)
	support := make(map[string]int)

	correct := 0
	for _, ex := range examples {
		got := m.Predict(normalize.Merchant(ex.Text))
		support[ex.Label]++
		predicted[got]++
		if got == ex.Label {
			tp[ex.Label]++
			correct++
		}
	}

	r := Report{Total: len(examples)}
	if len(examples) > 0 {
		r.Accuracy = float64(correct) / float64(len(examples))
	}
	for _, label := range m.Classes {
		lm := LabelMetrics{Label: label, Support: support[label]}
		if predicted[label] > 0 {
			lm.Precision = float64(tp[label]) / float64(predicted[label])
		}
		if support[label] > 0 {
			lm.Recall = float64(tp[label]) / float64(support[label])
		}
		r.Labels = append(r.Labels, lm)
	}
	return r
}
