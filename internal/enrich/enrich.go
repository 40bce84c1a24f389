// Package enrich runs the per-row enrichment pipeline: normalize the
// merchant text, classify the brand, apply the confidence threshold and
// resolve the industry.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/txnenrich/internal/brand"
	"github.com/cleared-dev/txnenrich/internal/model"
	"github.com/cleared-dev/txnenrich/internal/normalize"
)

// ErrMissingColumn is returned when the input lacks a required column.
var ErrMissingColumn = errors.New("input is missing required columns")

// RequiredColumns must be present in every input table.
var RequiredColumns = []string{model.ColRawMerchant, model.ColMCCCode}

// Classifier predicts the top brand for raw merchant text.
type Classifier interface {
	Top1(text string) (model.Prediction, bool)
}

// Resolver maps an assigned brand and MCC to an industry.
type Resolver interface {
	Resolve(b model.Brand, mcc model.MCC) (model.Industry, bool)
}

// ProgressFunc is called after each row with the number of rows done. It
// may be called from several goroutines.
type ProgressFunc func(done, total int)

// Pipeline enriches transaction tables. It holds no per-run state and is
// safe for concurrent use.
type Pipeline struct {
	classifier Classifier
	resolver   Resolver
	threshold  float64
	workers    int
	progress   ProgressFunc
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithThreshold sets the brand confidence threshold.
func WithThreshold(t float64) Option {
	return func(p *Pipeline) { p.threshold = t }
}

// WithWorkers sets how many rows are processed concurrently. Values below 1
// mean sequential processing.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.progress = fn }
}

// New creates a Pipeline. It fails only for an invalid threshold.
func New(classifier Classifier, resolver Resolver, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		classifier: classifier,
		resolver:   resolver,
		threshold:  brand.DefaultThreshold,
		workers:    1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := brand.ValidateThreshold(p.threshold); err != nil {
		return nil, err
	}
	if p.workers < 1 {
		p.workers = 1
	}
	return p, nil
}

// Threshold returns the configured confidence threshold.
func (p *Pipeline) Threshold() float64 { return p.threshold }

// Validate checks that table carries every required column.
func Validate(table model.Table) error {
	var missing []string
	for _, c := range RequiredColumns {
		if !table.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// EnrichRow derives the enrichment attributes for one transaction. It never
// fails; degraded inputs produce empty brand or industry fields.
func (p *Pipeline) EnrichRow(txn model.Transaction) model.EnrichedTransaction {
	out := model.EnrichedTransaction{
		Transaction:     txn,
		CleanedMerchant: normalize.Merchant(txn.RawMerchant),
	}

	var (
		pred model.Prediction
		ok   bool
	)
	if p.classifier != nil {
		pred, ok = p.classifier.Top1(txn.RawMerchant)
	}
	out.Brand = brand.Assign(pred, ok, p.threshold)

	if p.resolver != nil {
		out.Industry, _ = p.resolver.Resolve(out.Brand, txn.MCC())
	}
	return out
}

// Run validates table and enriches every row, preserving row order.
// Validation failures are reported before any row is processed.
func (p *Pipeline) Run(ctx context.Context, table model.Table) (model.EnrichedTable, error) {
	if err := Validate(table); err != nil {
		return model.EnrichedTable{}, err
	}

	total := len(table.Rows)
	rows := make([]model.EnrichedTransaction, total)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range table.Rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = p.EnrichRow(table.Rows[i])
			n := done.Add(1)
			if p.progress != nil {
				p.progress(int(n), total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.EnrichedTable{}, fmt.Errorf("enriching rows: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return model.EnrichedTable{}, fmt.Errorf("enriching rows: %w", err)
	}

	slog.Debug("enrichment finished", "rows", total, "workers", p.workers, "threshold", p.threshold)
	return model.EnrichedTable{Columns: table.Columns, Rows: rows}, nil
}
