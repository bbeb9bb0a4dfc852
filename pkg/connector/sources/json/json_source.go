// Package json provides the JSON Lines source connector.
package json

import (
	"context"
	"io"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/dopant/pkg/config"
	"github.com/ajitpratap0/dopant/pkg/connector/base"
	"github.com/ajitpratap0/dopant/pkg/connector/core"
	"github.com/ajitpratap0/dopant/pkg/connector/registry"
	"github.com/ajitpratap0/dopant/pkg/dataset"
	"github.com/ajitpratap0/dopant/pkg/errors"
	"github.com/ajitpratap0/dopant/pkg/pool"
	"go.uber.org/zap"
)

func init() {
	_ = registry.RegisterSource("json", NewJSONSource)

	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:         "json",
		Type:         "source",
		Description:  "JSON Lines file, one object per row",
		Version:      "1.0.0",
		Capabilities: []string{"compression", "json_lines", "stdin"},
		ConfigSchema: map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"required":    true,
				"description": "Path to the JSON Lines file, or - for stdin",
			},
			"columns": map[string]interface{}{
				"type":        "string",
				"required":    false,
				"description": "Comma-separated column order; other keys follow in order of appearance",
			},
		},
	})
}

// JSONSource reads JSON Lines into a dataset
type JSONSource struct {
	*base.BaseConnector
	columns []string
}

// NewJSONSource creates a new JSON Lines source
func NewJSONSource(cfg *config.ConnectorConfig) (core.Source, error) {
	return &JSONSource{
		BaseConnector: base.NewBaseConnector("json", core.ConnectorTypeSource, "1.0.0"),
	}, nil
}

// Initialize reads the columns property
func (s *JSONSource) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if err := s.BaseConnector.Initialize(ctx, cfg); err != nil {
		return err
	}
	s.columns = nil
	if cols := cfg.Property("columns", ""); cols != "" {
		for _, c := range strings.Split(cols, ",") {
			if c = strings.TrimSpace(c); c != "" {
				s.columns = append(s.columns, c)
			}
		}
	}
	return nil
}

// Read decodes every object in the input. Keys missing from an object are
// missing cells; a key first seen late is back-filled with missing cells.
func (s *JSONSource) Read(ctx context.Context) (*dataset.Dataset, error) {
	in, err := s.OpenInput()
	if err != nil {
		return nil, err
	}

	dec := gojson.NewDecoder(in)
	dec.UseNumber()

	ds := dataset.New(s.columns...)
	interner := pool.NewStringInternPool(0)
	for row := 0; ; row++ {
		if row%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeCanceled, "json read canceled")
			}
		}

		var obj map[string]interface{}
		if err := dec.Decode(&obj); err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode json object").
				WithDetail("row", row)
		}
		if obj == nil {
			return nil, errors.Newf(errors.ErrorTypeData, "row %d is not a json object", row)
		}

		var added []string
		for key := range obj {
			if _, ok := ds.Column(key); !ok {
				added = append(added, key)
			}
		}
		sort.Strings(added)
		for _, key := range added {
			if err := ds.AddColumn(key, nil); err != nil {
				return nil, err
			}
		}

		values := make(map[string]interface{}, len(obj))
		for key, v := range obj {
			cell := convertValue(v)
			if text, ok := cell.(string); ok {
				cell = interner.Intern(text)
			}
			values[key] = cell
		}
		if err := ds.AppendRow(values); err != nil {
			return nil, err
		}
	}

	s.RecordsRead(ds.RowCount())
	s.ContextLogger(ctx).Info("json read",
		zap.String("path", s.Config().Path),
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", ds.ColumnCount()))
	return ds, nil
}

// convertValue maps decoded JSON onto dataset cells: integral numbers to
// int64, other numbers to float64, and nested values to compact JSON text.
func convertValue(v interface{}) interface{} {
	switch x := v.(type) {
	case nil, string, bool:
		return x
	case gojson.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	default:
		raw, err := gojson.Marshal(x)
		if err != nil {
			return nil
		}
		return string(raw)
	}
}
