package config

import (
	"fmt"

	"github.com/ajitpratap0/dopant/pkg/doping"
)

// JobConfig describes one doping run
type JobConfig struct {
	// Name identifies the job in logs and traces
	Name string `yaml:"name" json:"name"`

	// Source is where the clean dataset is read from
	Source ConnectorConfig `yaml:"source" json:"source"`

	// Destination is where the doped dataset is written
	Destination ConnectorConfig `yaml:"destination" json:"destination"`

	// Doping holds the transform options
	Doping doping.Options `yaml:"doping" json:"doping"`

	// EventsPath, when set, receives a JSON manifest of every modification
	EventsPath string `yaml:"events_path" json:"events_path"`

	// ScoreColumn appends the OUTLIER SCORE column to the written dataset
	ScoreColumn bool `yaml:"score_column" json:"score_column"`

	// Observability settings for logging, metrics and tracing
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// ConnectorConfig configures a source or destination connector
type ConnectorConfig struct {
	// Type selects the connector (csv, json, sql)
	Type string `yaml:"type" json:"type"`
	// Path is the file path for file connectors; "-" means stdin/stdout
	Path string `yaml:"path" json:"path"`
	// Compression overrides detection from the file extension
	Compression string `yaml:"compression" json:"compression"`
	// Driver is the database/sql driver name for the sql source
	Driver string `yaml:"driver" json:"driver"`
	// DSN is the data source name for the sql source
	DSN string `yaml:"dsn" json:"dsn"`
	// Query selects the rows for the sql source
	Query string `yaml:"query" json:"query"`
	// Properties carries connector-specific settings
	Properties map[string]string `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// ObservabilityConfig contains monitoring and debugging settings
type ObservabilityConfig struct {
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// LogEncoding selects json or console output
	LogEncoding string `yaml:"log_encoding" json:"log_encoding"`
	// EnableMetrics records Prometheus metrics for the run
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// EnableTracing exports OpenTelemetry spans to stderr
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing"`
}

// NewJobConfig creates a JobConfig with defaults: csv in and out, the
// default doping options, info logging, metrics on, tracing off.
func NewJobConfig(name string) *JobConfig {
	return &JobConfig{
		Name:        name,
		Source:      ConnectorConfig{Type: "csv"},
		Destination: ConnectorConfig{Type: "csv"},
		Doping:      doping.DefaultOptions(),
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			LogEncoding:   "console",
			EnableMetrics: true,
			EnableTracing: false,
		},
	}
}

// Validate checks the parts of the job that do not depend on the data.
// Doping option bounds are checked by the transform against the dataset.
func (c *JobConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := c.Source.validate("source"); err != nil {
		return err
	}
	if err := c.Destination.validate("destination"); err != nil {
		return err
	}
	if c.Doping.NumRowsToModify < 1 {
		return fmt.Errorf("doping.num_rows_to_modify must be at least 1")
	}
	if c.Doping.MinColsPerModification < 1 {
		return fmt.Errorf("doping.min_cols_per_modification must be at least 1")
	}
	if c.Doping.MaxColsPerModification >= 0 && c.Doping.MaxColsPerModification < c.Doping.MinColsPerModification {
		return fmt.Errorf("doping.max_cols_per_modification must be negative (unbounded) or at least min_cols_per_modification")
	}
	switch c.Observability.LogEncoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("observability.log_encoding must be json or console")
	}
	return nil
}

func (cc *ConnectorConfig) validate(role string) error {
	if cc.Type == "" {
		return fmt.Errorf("%s.type is required", role)
	}
	switch cc.Type {
	case "sql":
		if cc.Driver == "" || cc.DSN == "" || cc.Query == "" {
			return fmt.Errorf("%s: sql connector needs driver, dsn and query", role)
		}
	default:
		if cc.Path == "" {
			return fmt.Errorf("%s.path is required for %s connector", role, cc.Type)
		}
	}
	return nil
}

// Property returns a connector property or def when unset
func (cc *ConnectorConfig) Property(key, def string) string {
	if v, ok := cc.Properties[key]; ok && v != "" {
		return v
	}
	return def
}
