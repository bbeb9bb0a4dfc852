// Package csv provides the CSV destination connector.
package csv

import (
	"context"
	"encoding/csv"
	"unicode/utf8"

	"github.com/ajitpratap0/dopant/pkg/config"
	"github.com/ajitpratap0/dopant/pkg/connector/base"
	"github.com/ajitpratap0/dopant/pkg/connector/core"
	"github.com/ajitpratap0/dopant/pkg/connector/registry"
	"github.com/ajitpratap0/dopant/pkg/dataset"
	"github.com/ajitpratap0/dopant/pkg/errors"
	"go.uber.org/zap"
)

func init() {
	_ = registry.RegisterDestination("csv", NewCSVDestination)

	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:         "csv",
		Type:         "destination",
		Description:  "CSV file with a header row; missing values are written as empty cells",
		Version:      "1.0.0",
		Capabilities: []string{"compression", "stdout"},
		ConfigSchema: map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"required":    true,
				"description": "Output path, or - for stdout",
			},
			"delimiter": map[string]interface{}{
				"type":    "string",
				"default": ",",
			},
			"compression_level": map[string]interface{}{
				"type":        "string",
				"default":     "default",
				"description": "Set to best for the highest compression ratio",
			},
		},
	})
}

// CSVDestination writes a dataset as CSV
type CSVDestination struct {
	*base.BaseConnector
	delimiter rune
}

// NewCSVDestination creates a new CSV destination
func NewCSVDestination(cfg *config.ConnectorConfig) (core.Destination, error) {
	return &CSVDestination{
		BaseConnector: base.NewBaseConnector("csv", core.ConnectorTypeDestination, "1.0.0"),
		delimiter:     ',',
	}, nil
}

// Initialize reads the delimiter property
func (d *CSVDestination) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if err := d.BaseConnector.Initialize(ctx, cfg); err != nil {
		return err
	}
	delim := cfg.Property("delimiter", ",")
	r, size := utf8.DecodeRuneInString(delim)
	if size != len(delim) {
		return errors.Newf(errors.ErrorTypeConfig, "delimiter must be a single character, got %q", delim)
	}
	d.delimiter = r
	return nil
}

// Write writes the header and every row. Output is flushed by Close.
func (d *CSVDestination) Write(ctx context.Context, ds *dataset.Dataset) error {
	out, err := d.CreateOutput()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(out)
	writer.Comma = d.delimiter

	if err := writer.Write(ds.ColumnNames()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write csv header")
	}

	record := make([]string, ds.ColumnCount())
	columns := ds.Columns()
	for row := 0; row < ds.RowCount(); row++ {
		if row%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, errors.ErrorTypeCanceled, "csv write canceled")
			}
		}
		for i, c := range columns {
			record[i] = dataset.FormatValue(c.Values[row])
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write csv record").
				WithDetail("row", row)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush csv output")
	}

	d.RecordsWritten(ds.RowCount())
	d.ContextLogger(ctx).Info("csv written",
		zap.String("path", d.Config().Path),
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", ds.ColumnCount()))
	return nil
}
