// Package base provides the BaseConnector that dopant connectors embed. It
// holds the connector config and a scoped logger, opens files through the
// compression layer, and records row counts.
//
//	type CSVSource struct {
//	    *base.BaseConnector
//	}
//
//	func NewCSVSource(cfg *config.ConnectorConfig) (core.Source, error) {
//	    return &CSVSource{BaseConnector: base.NewBaseConnector("csv", core.ConnectorTypeSource, "1.0.0")}, nil
//	}
package base

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ajitpratap0/dopant/pkg/compression"
	"github.com/ajitpratap0/dopant/pkg/config"
	"github.com/ajitpratap0/dopant/pkg/connector/core"
	"github.com/ajitpratap0/dopant/pkg/errors"
	"github.com/ajitpratap0/dopant/pkg/logger"
	"github.com/ajitpratap0/dopant/pkg/metrics"
	"go.uber.org/zap"
)

// StdioPath selects stdin for sources and stdout for destinations
const StdioPath = "-"

// BaseConnector provides common functionality for all connectors
type BaseConnector struct {
	name          string
	connectorType core.ConnectorType
	version       string
	config        *config.ConnectorConfig
	logger        *zap.Logger

	closers    []io.Closer
	closed     bool
	closeMutex sync.Mutex
}

// NewBaseConnector creates a new base connector with the specified name, type, and version.
func NewBaseConnector(name string, connectorType core.ConnectorType, version string) *BaseConnector {
	return &BaseConnector{
		name:          name,
		connectorType: connectorType,
		version:       version,
		logger: logger.Component("connector").With(
			zap.String("connector", name),
			zap.String("connector_type", string(connectorType)),
		),
	}
}

// Initialize stores the connector config
func (bc *BaseConnector) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if cfg == nil {
		return errors.New(errors.ErrorTypeConfig, "connector config is required")
	}
	bc.config = cfg
	bc.logger.Debug("connector initialized", zap.String("path", cfg.Path))
	return nil
}

// Name returns the connector name
func (bc *BaseConnector) Name() string { return bc.name }

// Type returns the connector type
func (bc *BaseConnector) Type() core.ConnectorType { return bc.connectorType }

// Version returns the connector version
func (bc *BaseConnector) Version() string { return bc.version }

// Config returns the connector config, nil before Initialize
func (bc *BaseConnector) Config() *config.ConnectorConfig { return bc.config }

// GetLogger returns the connector's scoped logger
func (bc *BaseConnector) GetLogger() *zap.Logger { return bc.logger }

// ContextLogger returns the connector's logger tagged with the run ID in ctx
func (bc *BaseConnector) ContextLogger(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx, bc.logger)
}

// OpenInput opens the configured path for reading and wraps it in a
// decompressor. The stream is closed by Close.
func (bc *BaseConnector) OpenInput() (io.Reader, error) {
	if bc.config == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "connector not initialized")
	}
	alg, err := compression.Parse(bc.config.Compression, bc.config.Path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid compression")
	}

	var raw io.Reader = os.Stdin
	if bc.config.Path != StdioPath {
		f, err := os.Open(bc.config.Path) //nolint:gosec // path comes from job config
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open input").
				WithDetail("path", bc.config.Path)
		}
		bc.closers = append(bc.closers, f)
		raw = f
	}

	r, err := compression.NewReader(raw, alg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open compressed input").
			WithDetail("path", bc.config.Path)
	}
	// decompressor first, so it closes before its file
	bc.closers = append([]io.Closer{r}, bc.closers...)
	bc.logger.Debug("input opened", zap.String("path", bc.config.Path), zap.String("compression", string(alg)))
	return r, nil
}

// CreateOutput creates the configured path, including parent directories,
// and wraps it in a compressor. Close flushes the compressor then the file.
func (bc *BaseConnector) CreateOutput() (io.Writer, error) {
	if bc.config == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "connector not initialized")
	}
	alg, err := compression.Parse(bc.config.Compression, bc.config.Path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid compression")
	}

	var raw io.Writer = os.Stdout
	if bc.config.Path != StdioPath {
		if dir := filepath.Dir(bc.config.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
				return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output directory").
					WithDetail("path", dir)
			}
		}
		f, err := os.Create(bc.config.Path) //nolint:gosec // path comes from job config
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output").
				WithDetail("path", bc.config.Path)
		}
		bc.closers = append(bc.closers, f)
		raw = f
	}

	level := compression.Default
	if bc.config.Property("compression_level", "") == "best" {
		level = compression.Best
	}
	w, err := compression.NewWriter(raw, alg, level)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open compressed output").
			WithDetail("path", bc.config.Path)
	}
	bc.closers = append([]io.Closer{w}, bc.closers...)
	bc.logger.Debug("output created", zap.String("path", bc.config.Path), zap.String("compression", string(alg)))
	return w, nil
}

// Track registers a resource to be released by Close
func (bc *BaseConnector) Track(c io.Closer) {
	bc.closers = append(bc.closers, c)
}

// RecordsRead counts rows a source produced
func (bc *BaseConnector) RecordsRead(n int) {
	metrics.RecordsRead.WithLabelValues(bc.name).Add(float64(n))
}

// RecordsWritten counts rows a destination persisted
func (bc *BaseConnector) RecordsWritten(n int) {
	metrics.RecordsWritten.WithLabelValues(bc.name).Add(float64(n))
}

// Close releases every tracked resource in order. It is safe to call twice.
func (bc *BaseConnector) Close(ctx context.Context) error {
	bc.closeMutex.Lock()
	defer bc.closeMutex.Unlock()

	if bc.closed {
		return nil
	}
	bc.closed = true

	var firstErr error
	for _, c := range bc.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	bc.closers = nil
	if firstErr != nil {
		return errors.Wrap(firstErr, errors.ErrorTypeFile, "failed to close connector")
	}
	return nil
}
