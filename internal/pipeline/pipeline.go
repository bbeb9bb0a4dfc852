// Package pipeline runs a doping job: it loads a dataset from a source
// connector, dopes it, and writes the result and its ground truth out.
//
//	p, err := pipeline.FromJob(job, logger)
//	summary, err := p.Run(ctx)
//
// A run is sequential. The whole dataset is held in memory because row
// selection draws from every row.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ajitpratap0/dopant/pkg/config"
	"github.com/ajitpratap0/dopant/pkg/connector/core"
	"github.com/ajitpratap0/dopant/pkg/connector/registry"
	"github.com/ajitpratap0/dopant/pkg/dataset"
	"github.com/ajitpratap0/dopant/pkg/doping"
	"github.com/ajitpratap0/dopant/pkg/errors"
	"github.com/ajitpratap0/dopant/pkg/logger"
	"github.com/ajitpratap0/dopant/pkg/observability"

	// connectors register themselves
	_ "github.com/ajitpratap0/dopant/pkg/connector/destinations"
	_ "github.com/ajitpratap0/dopant/pkg/connector/sources"
)

// Pipeline wires one source and one destination around a doping transform
type Pipeline struct {
	job         *config.JobConfig
	source      core.Source
	destination core.Destination
	transformer *doping.Transformer
	logger      *zap.Logger
}

// Summary describes a finished run
type Summary struct {
	RunID        string
	Rows         int
	Columns      int
	Events       int
	ModifiedRows int
	Skipped      int
	Duration     time.Duration
	ManifestPath string
}

// New creates a pipeline from ready-made connectors
func New(job *config.JobConfig, source core.Source, destination core.Destination, log *zap.Logger) *Pipeline {
	if log == nil {
		log = logger.Get()
	}
	log = log.With(zap.String("job", job.Name))
	return &Pipeline{
		job:         job,
		source:      source,
		destination: destination,
		transformer: doping.NewTransformer(
			doping.WithLogger(log.With(zap.String("component", "doping"))),
			doping.WithMetrics(job.Observability.EnableMetrics),
		),
		logger: log,
	}
}

// FromJob creates the job's connectors through the registry
func FromJob(job *config.JobConfig, log *zap.Logger) (*Pipeline, error) {
	if err := job.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid job")
	}
	if err := registry.CheckProperties("source", job.Source.Type, job.Source.Properties); err != nil {
		return nil, err
	}
	if err := registry.CheckProperties("destination", job.Destination.Type, job.Destination.Properties); err != nil {
		return nil, err
	}
	source, err := registry.CreateSource(job.Source.Type, &job.Source)
	if err != nil {
		return nil, err
	}
	destination, err := registry.CreateDestination(job.Destination.Type, &job.Destination)
	if err != nil {
		return nil, err
	}
	return New(job, source, destination, log), nil
}

// Run executes the job once. Invalid doping options end the run before the
// destination is touched; the returned error wraps doping.ErrInvalidOptions.
func (p *Pipeline) Run(ctx context.Context) (summary *Summary, err error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, runID)
	log := logger.FromContext(ctx, p.logger)

	ctx, span := observability.StartSpan(ctx, "pipeline.run")
	span.SetAttribute("job.name", p.job.Name)
	span.SetAttribute("run.id", runID)
	defer func() {
		if err != nil {
			log.Error("doping run failed",
				zap.String("error_type", string(errors.TypeOf(err))),
				zap.Any("details", errors.DetailsOf(err)),
				zap.Error(err))
		}
		span.RecordError(err)
		span.End()
	}()

	log.Info("starting doping run",
		zap.String("source", p.job.Source.Type),
		zap.String("destination", p.job.Destination.Type),
		zap.Int("num_rows_to_modify", p.job.Doping.NumRowsToModify),
		zap.Int64("random_state", p.job.Doping.RandomState))

	ds, err := p.read(ctx)
	if err != nil {
		return nil, err
	}

	res, err := p.transformer.Transform(ctx, ds, p.job.Doping)
	if err != nil {
		return nil, err
	}

	out := res.Dataset
	if p.job.ScoreColumn {
		if out, err = res.WithScoreColumn(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to append score column")
		}
	}

	if err := p.write(ctx, out); err != nil {
		return nil, err
	}

	summary = &Summary{
		RunID:        runID,
		Rows:         ds.RowCount(),
		Columns:      ds.ColumnCount(),
		Events:       len(res.Events),
		ModifiedRows: len(res.ModifiedRows()),
		Skipped:      res.Skipped,
	}

	if p.job.EventsPath != "" {
		m := NewManifest(p.job.Name, runID, p.job.Doping, res)
		if err := WriteManifest(p.job.EventsPath, m); err != nil {
			return nil, err
		}
		summary.ManifestPath = p.job.EventsPath
	}

	summary.Duration = time.Since(start)
	span.SetAttribute("run.events", summary.Events)
	log.Info("doping run completed",
		zap.Int("rows", summary.Rows),
		zap.Int("events", summary.Events),
		zap.Int("modified_rows", summary.ModifiedRows),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", summary.Duration))
	return summary, nil
}

func (p *Pipeline) read(ctx context.Context) (ds *dataset.Dataset, err error) {
	if err := p.source.Initialize(ctx, &p.job.Source); err != nil {
		return nil, fmt.Errorf("failed to initialize source: %w", err)
	}
	defer func() {
		if cerr := p.source.Close(ctx); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close source: %w", cerr)
		}
	}()

	ds, err = p.source.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return ds, nil
}

func (p *Pipeline) write(ctx context.Context, ds *dataset.Dataset) (err error) {
	if err := p.destination.Initialize(ctx, &p.job.Destination); err != nil {
		return fmt.Errorf("failed to initialize destination: %w", err)
	}
	defer func() {
		// Close flushes compressed output
		if cerr := p.destination.Close(ctx); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close destination: %w", cerr)
		}
	}()

	if err := p.destination.Write(ctx, ds); err != nil {
		return fmt.Errorf("failed to write destination: %w", err)
	}
	return nil
}
