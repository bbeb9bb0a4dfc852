// Package csv provides the CSV source connector.
package csv

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"unicode/utf8"

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
	_ = registry.RegisterSource("csv", NewCSVSource)

	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:         "csv",
		Type:         "source",
		Description:  "CSV file with a header row; empty cells are missing values",
		Version:      "1.0.0",
		Capabilities: []string{"compression", "type_inference", "stdin"},
		ConfigSchema: map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"required":    true,
				"description": "Path to the CSV file, or - for stdin",
			},
			"delimiter": map[string]interface{}{
				"type":    "string",
				"default": ",",
			},
			"infer_types": map[string]interface{}{
				"type":        "bool",
				"default":     true,
				"description": "Convert all-integer columns to int64 and all-numeric columns to float64",
			},
		},
	})
}

// CSVSource reads a CSV file into a dataset
type CSVSource struct {
	*base.BaseConnector
	delimiter  rune
	inferTypes bool
}

// NewCSVSource creates a new CSV source
func NewCSVSource(cfg *config.ConnectorConfig) (core.Source, error) {
	return &CSVSource{
		BaseConnector: base.NewBaseConnector("csv", core.ConnectorTypeSource, "1.0.0"),
		delimiter:     ',',
		inferTypes:    true,
	}, nil
}

// Initialize reads the delimiter and infer_types properties
func (s *CSVSource) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if err := s.BaseConnector.Initialize(ctx, cfg); err != nil {
		return err
	}
	if d := cfg.Property("delimiter", ","); d != "" {
		r, size := utf8.DecodeRuneInString(d)
		if size != len(d) {
			return errors.Newf(errors.ErrorTypeConfig, "delimiter must be a single character, got %q", d)
		}
		s.delimiter = r
	}
	infer, err := strconv.ParseBool(cfg.Property("infer_types", "true"))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid infer_types")
	}
	s.inferTypes = infer
	return nil
}

// Read loads the whole file. The first record is the header.
func (s *CSVSource) Read(ctx context.Context) (*dataset.Dataset, error) {
	in, err := s.OpenInput()
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(in)
	reader.Comma = s.delimiter
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrorTypeData, "csv input has no header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read csv header")
	}
	names := append([]string(nil), header...)

	cells := make([][]string, len(names))
	rows := 0
	for {
		if rows%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeCanceled, "csv read canceled")
			}
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read csv record").
				WithDetail("row", rows)
		}
		for i := range names {
			cells[i] = append(cells[i], record[i])
		}
		rows++
	}

	interner := pool.NewStringInternPool(0)
	columns := make([]*dataset.Column, len(names))
	for i, name := range names {
		columns[i] = &dataset.Column{Name: name, Values: convertColumn(cells[i], s.inferTypes, interner)}
	}
	ds, err := dataset.FromColumns(columns...)
	if err != nil {
		return nil, err
	}

	s.RecordsRead(ds.RowCount())
	s.ContextLogger(ctx).Info("csv read",
		zap.String("path", s.Config().Path),
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", ds.ColumnCount()))
	return ds, nil
}

// convertColumn maps empty cells to missing and, when infer is set, turns a
// column whose present cells all parse as integers into int64 and one whose
// cells all parse as numbers into float64. A column with missing cells is
// never int64. Text cells go through strings.
func convertColumn(raw []string, infer bool, strings *pool.StringInternPool) []interface{} {
	values := make([]interface{}, len(raw))
	allInt, allFloat, present, missing := infer, infer, 0, false
	for _, cell := range raw {
		if cell == "" {
			missing = true
			continue
		}
		present++
		if allInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				allFloat = false
			}
		}
	}
	if present == 0 {
		allInt, allFloat = false, false
	}

	for i, cell := range raw {
		switch {
		case cell == "":
			values[i] = nil
		case allInt && !missing:
			n, _ := strconv.ParseInt(cell, 10, 64)
			values[i] = n
		case allFloat:
			f, _ := strconv.ParseFloat(cell, 64)
			values[i] = f
		default:
			values[i] = strings.Intern(cell)
		}
	}
	return values
}
