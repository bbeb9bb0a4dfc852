package doping

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ajitpratap0/dopant/pkg/dataset"
	"github.com/ajitpratap0/dopant/pkg/errors"
	"github.com/ajitpratap0/dopant/pkg/logger"
	"github.com/ajitpratap0/dopant/pkg/metrics"
	"github.com/ajitpratap0/dopant/pkg/observability"
)

// Transformer runs doping transforms. It holds no per-call state and may be
// reused, including from several goroutines.
type Transformer struct {
	logger         *zap.Logger
	metricsEnabled bool
}

// Option configures a Transformer
type Option func(*Transformer)

// WithLogger sets the logger used for diagnostics and progress
func WithLogger(l *zap.Logger) Option {
	return func(t *Transformer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMetrics toggles Prometheus instrumentation (on by default)
func WithMetrics(enabled bool) Option {
	return func(t *Transformer) { t.metricsEnabled = enabled }
}

// NewTransformer creates a Transformer
func NewTransformer(opts ...Option) *Transformer {
	t := &Transformer{
		logger:         logger.Component("doping"),
		metricsEnabled: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform runs one transform with a default Transformer
func Transform(ctx context.Context, ds *dataset.Dataset, opts Options) (*Result, error) {
	return NewTransformer().Transform(ctx, ds, opts)
}

// Transform copies ds, injects anomalies into the copy and returns it with
// the per-row outlier scores. ds itself is never modified.
//
// Invalid options produce a nil Result and an error wrapping
// ErrInvalidOptions; nothing is copied or modified in that case. The context
// is checked between drawn rows.
func (t *Transformer) Transform(ctx context.Context, ds *dataset.Dataset, opts Options) (res *Result, err error) {
	timer := metrics.NewTimer("doping.transform")
	ctx, span := observability.StartSpan(ctx, "doping.transform")
	defer func() {
		span.RecordError(err)
		span.End()
		if t.metricsEnabled {
			metrics.ObserveTransform(metrics.OutcomeFor(err), timer.Stop())
		}
	}()

	log := logger.FromContext(ctx, t.logger)
	span.SetAttribute("dataset.rows", ds.RowCount())
	span.SetAttribute("dataset.columns", ds.ColumnCount())
	span.SetAttribute("doping.num_rows_to_modify", opts.NumRowsToModify)
	span.SetAttribute("doping.random_state", opts.RandomState)

	opts, err = opts.resolve(ds.RowCount(), ds.ColumnCount())
	if err != nil {
		log.Warn("invalid doping options, nothing modified", zap.Error(err))
		return nil, err
	}

	rnd := newRandSource(opts.RandomState)
	work := ds.Clone()
	types := Classify(work)

	selector := newSelector(rnd, work.RowCount(), work.ColumnNames(), opts.MinColsPerModification, opts.MaxColsPerModification, log)
	synth := newSynthesizer(rnd, opts.AllowNewCategoricalValues, opts.AllowNewNumericValues)
	scorer := NewScorer(work.RowCount())

	res = &Result{ColumnTypes: types}
	rows := selector.Rows(opts.NumRowsToModify)

	for i, row := range rows {
		if cerr := ctx.Err(); cerr != nil {
			return nil, errors.Wrap(cerr, errors.ErrorTypeCanceled, "doping transform canceled").
				WithDetail("rows_done", i)
		}

		n := selector.ColumnCount()
		columns := selector.Columns(n)
		if opts.Verbose {
			log.Info(fmt.Sprintf("Modifying row %d of %d. Modifying %d columns", i, opts.NumRowsToModify, n),
				zap.Int("row", row),
				zap.Strings("columns", columns))
		}

		for _, name := range columns {
			col, _ := work.Column(name)
			typ := types[name]

			out, ok := synth.Synthesize(col, typ, row)
			if !ok {
				res.Skipped++
				if t.metricsEnabled {
					metrics.CellsSkipped.Inc()
				}
				log.Debug("skipping cell in all-missing numeric column",
					zap.Int("row", row), zap.String("column", name))
				continue
			}

			ev := Event{Row: row, Column: name, Prior: col.Values[row], Value: out.value, Novel: out.novel}
			if typ == Numeric {
				ev.Value = storeNumeric(col, row, out.value.(float64))
			} else {
				col.Values[row] = out.value
			}
			scorer.Record(ev)
			res.Events = append(res.Events, ev)
			if t.metricsEnabled {
				metrics.ObserveCell(typ.String(), ev.Novel)
			}
		}
	}

	res.Dataset = work
	res.Scores = scorer.Scores()
	if t.metricsEnabled {
		metrics.ObserveScores(res.Scores)
	}
	span.SetAttribute("doping.events", len(res.Events))

	log.Debug("doping transform complete",
		zap.Stringer("dataset", work),
		zap.Int("draws", len(rows)),
		zap.Int("events", len(res.Events)),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

// storeNumeric writes v into a numeric column and returns the value stored.
// An int64 column keeps whole values as int64; any other value promotes the
// whole column to float64.
func storeNumeric(c *dataset.Column, row int, v float64) interface{} {
	if _, integral := c.Values[row].(int64); integral {
		if isWhole(v) {
			c.Values[row] = int64(v)
			return c.Values[row]
		}
		for i, x := range c.Values {
			if n, ok := x.(int64); ok {
				c.Values[i] = float64(n)
			}
		}
	}
	c.Values[row] = v
	return v
}
