package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/dopant/internal/pipeline"
	"github.com/ajitpratap0/dopant/pkg/config"
	"github.com/ajitpratap0/dopant/pkg/errors"
	"github.com/ajitpratap0/dopant/pkg/logger"
	"github.com/ajitpratap0/dopant/pkg/observability"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Dope a dataset",
		Long: `Read a dataset from a source connector, inject anomalies into a copy of it,
and write the copy to a destination connector.

Settings come from an optional YAML job file (--config), DOPANT_* environment
variables and flags, in increasing order of precedence.`,
		Example: `  # 20 anomalous rows, reproducible, with scores appended
  dopant run --source clean.csv --destination doped.csv --rows 20 --seed 42 --score-column

  # Compressed JSON Lines out, ground truth to a manifest
  dopant run --source clean.csv --destination doped.jsonl.zst --events truth.json

  # Rows from PostgreSQL
  dopant run --source-driver pgx --source-dsn "$PG_DSN" --source-query "SELECT * FROM sales" \
    --destination doped.csv

  # Everything from a job file, seed overridden
  DOPANT_SEED=7 dopant run --config job.yaml

  # Record the merged settings for a later rerun
  dopant run --source clean.csv --destination doped.csv --seed 3 --write-config job.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}
			job, err := buildJob(v)
			if err != nil {
				return err
			}
			if path := v.GetString("write-config"); path != "" {
				if err := config.SaveJob(path, job); err != nil {
					return err
				}
			}
			return runJob(cmd, job, runSettings{
				timeout:     v.GetDuration("timeout"),
				cpuProfile:  v.GetString("cpuprofile"),
				metricsFile: v.GetString("metrics-file"),
			})
		},
	}

	f := cmd.Flags()
	f.StringP("config", "c", "", "Path to a YAML job file")
	f.String("write-config", "", "Save the effective job (file, env and flags merged) to this path before running")
	f.String("name", "", "Job name used in logs and the manifest")
	addConnectorFlags(cmd, "source", true)
	addConnectorFlags(cmd, "destination", false)

	f.Int("rows", 10, "Number of rows to modify (drawn with replacement)")
	f.Int("min-cols", 1, "Minimum columns modified per row")
	f.Int("max-cols", -1, "Maximum columns modified per row (-1 for every column)")
	f.Bool("no-new-categorical", false, "Only reuse existing categorical values")
	f.Bool("no-new-numeric", false, "Only draw numeric values inside the observed range")
	f.Int64("seed", -1, "Random seed; negative for a random run")
	f.BoolP("verbose", "v", false, "Log one line per modified row")

	f.String("events", "", "Write a JSON manifest of every modification to this path")
	f.Bool("score-column", false, "Append the OUTLIER SCORE column to the output")

	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-encoding", "console", "Log encoding (console, json)")
	f.Bool("metrics", true, "Record Prometheus metrics")
	f.String("metrics-file", "", "Write metrics in Prometheus text format to this path after the run")
	f.Bool("tracing", false, "Export OpenTelemetry spans to stderr")
	f.Duration("timeout", 30*time.Minute, "Run timeout")
	f.String("cpuprofile", "", "Write a CPU profile to this path")

	return cmd
}

type runSettings struct {
	timeout     time.Duration
	cpuProfile  string
	metricsFile string
}

func runJob(cmd *cobra.Command, job *config.JobConfig, settings runSettings) error {
	if err := job.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid job")
	}

	if err := logger.Init(logger.Config{
		Level:    job.Observability.LogLevel,
		Encoding: job.Observability.LogEncoding,
	}); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Component("dopant-cli")

	if job.Observability.EnableTracing {
		tc := observability.DefaultTracingConfig()
		tc.ServiceVersion = version
		tc.Writer = cmd.ErrOrStderr()
		if err := observability.Init(tc); err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := observability.Shutdown(ctx); err != nil {
				log.Warn("failed to flush traces", zap.Error(err))
			}
		}()
	}

	if settings.cpuProfile != "" {
		f, err := os.Create(settings.cpuProfile)
		if err != nil {
			return fmt.Errorf("failed to create cpu profile: %w", err)
		}
		defer f.Close() //nolint:errcheck
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("failed to start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if settings.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.timeout)
		defer cancel()
	}

	p, err := pipeline.FromJob(job, log)
	if err != nil {
		return err
	}

	summary, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("doping run failed: %w", err)
	}

	if settings.metricsFile != "" {
		if err := prometheus.WriteToTextfile(settings.metricsFile, prometheus.DefaultGatherer); err != nil {
			log.Warn("failed to write metrics file", zap.String("path", settings.metricsFile), zap.Error(err))
		}
	}

	if job.Destination.Path != "-" {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "run %s: %d rows, %d modifications across %d rows (%d skipped) in %s\n",
			summary.RunID, summary.Rows, summary.Events, summary.ModifiedRows, summary.Skipped,
			summary.Duration.Round(time.Millisecond))
		if summary.ManifestPath != "" {
			fmt.Fprintf(out, "manifest: %s\n", summary.ManifestPath)
		}
	}
	return nil
}
