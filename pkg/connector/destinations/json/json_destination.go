// Package json provides the JSON Lines destination connector.
package json

import (
	"bufio"
	"context"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/dopant/pkg/config"
	"github.com/ajitpratap0/dopant/pkg/connector/base"
	"github.com/ajitpratap0/dopant/pkg/connector/core"
	"github.com/ajitpratap0/dopant/pkg/connector/registry"
	"github.com/ajitpratap0/dopant/pkg/dataset"
	"github.com/ajitpratap0/dopant/pkg/errors"
	"go.uber.org/zap"
)

func init() {
	_ = registry.RegisterDestination("json", NewJSONDestination)

	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:         "json",
		Type:         "destination",
		Description:  "JSON Lines file, one object per row with keys in column order",
		Version:      "1.0.0",
		Capabilities: []string{"compression", "json_lines", "stdout"},
		ConfigSchema: map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"required":    true,
				"description": "Output path, or - for stdout",
			},
			"compression_level": map[string]interface{}{
				"type":        "string",
				"default":     "default",
				"description": "Set to best for the highest compression ratio",
			},
		},
	})
}

// JSONDestination writes a dataset as JSON Lines
type JSONDestination struct {
	*base.BaseConnector
}

// NewJSONDestination creates a new JSON Lines destination
func NewJSONDestination(cfg *config.ConnectorConfig) (core.Destination, error) {
	return &JSONDestination{
		BaseConnector: base.NewBaseConnector("json", core.ConnectorTypeDestination, "1.0.0"),
	}, nil
}

// Write emits one object per row
func (d *JSONDestination) Write(ctx context.Context, ds *dataset.Dataset) error {
	out, err := d.CreateOutput()
	if err != nil {
		return err
	}
	w := bufio.NewWriterSize(out, 64*1024)

	columns := ds.Columns()
	keys := make([][]byte, len(columns))
	for i, c := range columns {
		if keys[i], err = gojson.Marshal(c.Name); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "failed to encode column name")
		}
	}

	var line []byte
	for row := 0; row < ds.RowCount(); row++ {
		if row%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, errors.ErrorTypeCanceled, "json write canceled")
			}
		}

		line = append(line[:0], '{')
		for i, c := range columns {
			if i > 0 {
				line = append(line, ',')
			}
			line = append(line, keys[i]...)
			line = append(line, ':')
			v, err := encodeValue(c.Values[row])
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeData, "failed to encode value").
					WithDetail("row", row).
					WithDetail("column", c.Name)
			}
			line = append(line, v...)
		}
		line = append(line, '}', '\n')

		if _, err := w.Write(line); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write json line")
		}
	}

	if err := w.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush json output")
	}

	d.RecordsWritten(ds.RowCount())
	d.ContextLogger(ctx).Info("json written",
		zap.String("path", d.Config().Path),
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", ds.ColumnCount()))
	return nil
}

func encodeValue(v interface{}) ([]byte, error) {
	if dataset.IsMissing(v) {
		return []byte("null"), nil
	}
	return gojson.Marshal(v)
}
