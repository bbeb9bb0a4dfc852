package pipeline

import (
	"os"
	"path/filepath"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/dopant/pkg/dataset"
	"github.com/ajitpratap0/dopant/pkg/doping"
	"github.com/ajitpratap0/dopant/pkg/errors"
)

// Manifest is the ground truth of one run: what was changed, where, and the
// resulting scores. Benchmarks compare detector output against it.
type Manifest struct {
	Job          string            `json:"job"`
	RunID        string            `json:"run_id"`
	CreatedAt    time.Time         `json:"created_at"`
	Options      doping.Options    `json:"options"`
	Rows         int               `json:"rows"`
	ColumnTypes  map[string]string `json:"column_types"`
	ModifiedRows []int             `json:"modified_rows"`
	Scores       []int             `json:"scores"`
	Skipped      int               `json:"skipped"`
	Events       []doping.Event    `json:"events"`
}

// NewManifest builds the manifest for a transform result
func NewManifest(job, runID string, opts doping.Options, res *doping.Result) *Manifest {
	types := make(map[string]string, len(res.ColumnTypes))
	for name, t := range res.ColumnTypes {
		types[name] = t.String()
	}

	events := make([]doping.Event, len(res.Events))
	for i, e := range res.Events {
		// NaN has no JSON form
		if dataset.IsMissing(e.Prior) {
			e.Prior = nil
		}
		events[i] = e
	}

	return &Manifest{
		Job:          job,
		RunID:        runID,
		CreatedAt:    time.Now().UTC(),
		Options:      opts,
		Rows:         res.Dataset.RowCount(),
		ColumnTypes:  types,
		ModifiedRows: res.ModifiedRows(),
		Scores:       res.Scores,
		Skipped:      res.Skipped,
		Events:       events,
	}
}

// WriteManifest writes m as indented JSON
func WriteManifest(path string, m *Manifest) error {
	data, err := gojson.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to encode manifest")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to create manifest directory")
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write manifest").
			WithDetail("path", path)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest. Numbers in event
// values decode as float64.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read manifest").
			WithDetail("path", path)
	}
	var m Manifest
	if err := gojson.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode manifest")
	}
	return &m, nil
}
