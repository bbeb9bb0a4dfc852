// Package metrics provides Prometheus instrumentation for dopant runs.
//
// All collectors register with the default Prometheus registry at package
// init, the same way promauto does for any long-running service. A harness
// that embeds dopant can expose them with promhttp.Handler().
//
// # Basic Usage
//
//	timer := metrics.NewTimer("transform")
//	result, err := transformer.Transform(ctx, ds, opts)
//	metrics.ObserveTransform(metrics.OutcomeFor(err), timer.Stop())
//
// # Metric Types
//
// Counter: cells modified, cells skipped, records read and written
// Histogram: transform duration, per-row outlier score
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/dopant/pkg/errors"
)

// Outcome labels for TransformsTotal
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeCanceled = "canceled"
	OutcomeFailed   = "failed"
)

var (
	// TransformsTotal counts doping transform calls.
	// Labels: outcome (success/invalid/canceled/failed)
	TransformsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dopant_transforms_total",
			Help: "Total number of doping transform calls",
		},
		[]string{"outcome"},
	)

	// TransformDuration tracks wall time of a transform call in seconds
	TransformDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dopant_transform_duration_seconds",
			Help:    "Duration of doping transform calls",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		},
	)

	// CellsModified counts synthesized cells.
	// Labels: column_type (categorical/numeric), novel (true/false)
	//
	// Example:
	//	metrics.CellsModified.WithLabelValues("numeric", "true").Inc()
	CellsModified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dopant_cells_modified_total",
			Help: "Total number of cells replaced with synthetic values",
		},
		[]string{"column_type", "novel"},
	)

	// CellsSkipped counts selected cells left alone because their numeric
	// column had no values
	CellsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dopant_cells_skipped_total",
			Help: "Selected cells skipped because the numeric column was entirely missing",
		},
	)

	// RowScore tracks the distribution of non-zero outlier scores
	RowScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dopant_row_outlier_score",
			Help:    "Outlier score of rows that received at least one modification",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
	)

	// RecordsRead counts rows loaded by source connectors.
	// Labels: connector
	RecordsRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dopant_records_read_total",
			Help: "Total number of rows read by source connectors",
		},
		[]string{"connector"},
	)

	// RecordsWritten counts rows written by destination connectors.
	// Labels: connector
	RecordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dopant_records_written_total",
			Help: "Total number of rows written by destination connectors",
		},
		[]string{"connector"},
	)
)

// ObserveTransform records the outcome and duration of one transform call
func ObserveTransform(outcome string, d time.Duration) {
	TransformsTotal.WithLabelValues(outcome).Inc()
	TransformDuration.Observe(d.Seconds())
}

// ObserveCell records one synthesized cell
func ObserveCell(columnType string, novel bool) {
	label := "false"
	if novel {
		label = "true"
	}
	CellsModified.WithLabelValues(columnType, label).Inc()
}

// ObserveScores records every non-zero row score
func ObserveScores(scores []int) {
	for _, s := range scores {
		if s > 0 {
			RowScore.Observe(float64(s))
		}
	}
}

// OutcomeFor maps a transform error to its outcome label
func OutcomeFor(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.IsType(err, errors.ErrorTypeValidation):
		return OutcomeInvalid
	case errors.IsType(err, errors.ErrorTypeCanceled):
		return OutcomeCanceled
	default:
		return OutcomeFailed
	}
}

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop returns the elapsed duration since creation. It can be called more
// than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// Name returns the timer's name
func (t *Timer) Name() string { return t.name }
