package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/dopant/pkg/compression"
	"github.com/ajitpratap0/dopant/pkg/config"
)

// addConnectorFlags registers the flags that describe a source or destination
func addConnectorFlags(cmd *cobra.Command, role string, withSQL bool) {
	f := cmd.Flags()
	f.String(role, "", "Path to the "+role+" file (- for std stream)")
	f.String(role+"-type", "", "Connector type for the "+role+" (default: from file extension)")
	f.String(role+"-compression", "", "Compression for the "+role+" (default: from file extension)")
	if withSQL {
		f.String(role+"-driver", "", "database/sql driver for the sql connector (pgx, mysql, sqlite)")
		f.String(role+"-dsn", "", "Data source name for the sql connector")
		f.String(role+"-query", "", "Query for the sql connector")
	}
}

// newViper binds cmd's flags and DOPANT_* environment variables. Flag names
// map to variables by upper-casing and replacing '-' with '_', so --min-cols
// reads DOPANT_MIN_COLS.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("DOPANT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return v, nil
}

// buildJob loads the --config job file, if any, over the defaults and
// applies every flag or environment variable that is set.
// Precedence (highest to lowest): flags > env vars > job file > defaults
func buildJob(v *viper.Viper) (*config.JobConfig, error) {
	job := config.NewJobConfig("dopant")
	if path := v.GetString("config"); path != "" {
		loaded, err := config.ReadJob(path)
		if err != nil {
			return nil, err
		}
		job = loaded
	}

	if v.IsSet("name") {
		job.Name = v.GetString("name")
	}
	applyConnector(v, "source", &job.Source)
	applyConnector(v, "destination", &job.Destination)

	if v.IsSet("rows") {
		job.Doping.NumRowsToModify = v.GetInt("rows")
	}
	if v.IsSet("min-cols") {
		job.Doping.MinColsPerModification = v.GetInt("min-cols")
	}
	if v.IsSet("max-cols") {
		job.Doping.MaxColsPerModification = v.GetInt("max-cols")
	}
	if v.IsSet("no-new-categorical") {
		job.Doping.AllowNewCategoricalValues = !v.GetBool("no-new-categorical")
	}
	if v.IsSet("no-new-numeric") {
		job.Doping.AllowNewNumericValues = !v.GetBool("no-new-numeric")
	}
	if v.IsSet("seed") {
		job.Doping.RandomState = v.GetInt64("seed")
	}
	if v.IsSet("verbose") {
		job.Doping.Verbose = v.GetBool("verbose")
	}
	if v.IsSet("events") {
		job.EventsPath = v.GetString("events")
	}
	if v.IsSet("score-column") {
		job.ScoreColumn = v.GetBool("score-column")
	}
	if v.IsSet("log-level") {
		job.Observability.LogLevel = v.GetString("log-level")
	}
	if v.IsSet("log-encoding") {
		job.Observability.LogEncoding = v.GetString("log-encoding")
	}
	if v.IsSet("tracing") {
		job.Observability.EnableTracing = v.GetBool("tracing")
	}
	if v.IsSet("metrics") {
		job.Observability.EnableMetrics = v.GetBool("metrics")
	}
	return job, nil
}

func applyConnector(v *viper.Viper, role string, cc *config.ConnectorConfig) {
	if v.IsSet(role) {
		cc.Path = v.GetString(role)
	}
	if v.IsSet(role + "-type") {
		cc.Type = v.GetString(role + "-type")
	} else if v.IsSet(role) {
		cc.Type = connectorTypeFor(cc.Path)
	}
	if v.IsSet(role + "-compression") {
		cc.Compression = v.GetString(role + "-compression")
	}
	if v.IsSet(role + "-driver") {
		cc.Driver = v.GetString(role + "-driver")
		if !v.IsSet(role + "-type") {
			cc.Type = "sql"
		}
	}
	if v.IsSet(role + "-dsn") {
		cc.DSN = v.GetString(role + "-dsn")
	}
	if v.IsSet(role + "-query") {
		cc.Query = v.GetString(role + "-query")
	}
}

// connectorTypeFor picks a file connector from the path's extension,
// looking through a compression suffix
func connectorTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(compression.TrimExtension(path))) {
	case ".json", ".jsonl", ".ndjson":
		return "json"
	default:
		return "csv"
	}
}
