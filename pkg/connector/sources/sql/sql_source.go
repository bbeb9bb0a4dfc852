// Package sql provides a source connector that loads the result of a query
// through database/sql. The pgx, mysql and sqlite drivers are linked in.
package sql

import (
	"context"
	"database/sql"
	"slices"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql" // registers "mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"

	"github.com/ajitpratap0/dopant/pkg/config"
	"github.com/ajitpratap0/dopant/pkg/connector/base"
	"github.com/ajitpratap0/dopant/pkg/connector/core"
	"github.com/ajitpratap0/dopant/pkg/connector/registry"
	"github.com/ajitpratap0/dopant/pkg/dataset"
	"github.com/ajitpratap0/dopant/pkg/errors"
	"go.uber.org/zap"
)

func init() {
	_ = registry.RegisterSource("sql", NewSQLSource)

	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:         "sql",
		Type:         "source",
		Description:  "Rows returned by a SQL query (PostgreSQL via pgx, MySQL, SQLite)",
		Version:      "1.0.0",
		Capabilities: []string{"postgresql", "mysql", "sqlite", "retry"},
		ConfigSchema: map[string]interface{}{
			"driver": map[string]interface{}{
				"type":     "string",
				"required": true,
				"enum":     []string{"pgx", "mysql", "sqlite"},
			},
			"dsn": map[string]interface{}{
				"type":        "string",
				"required":    true,
				"description": "Driver-specific data source name",
			},
			"query": map[string]interface{}{
				"type":     "string",
				"required": true,
			},
			"connect_attempts": map[string]interface{}{
				"type":    "integer",
				"default": 3,
			},
		},
	})
}

// SQLSource loads a query result into a dataset
type SQLSource struct {
	*base.BaseConnector
	db          *sql.DB
	retryPolicy *base.RetryPolicy
}

// NewSQLSource creates a new SQL source
func NewSQLSource(cfg *config.ConnectorConfig) (core.Source, error) {
	return &SQLSource{
		BaseConnector: base.NewBaseConnector("sql", core.ConnectorTypeSource, "1.0.0"),
		retryPolicy:   base.DefaultRetryPolicy(),
	}, nil
}

// Initialize opens the connection pool and pings the database, retrying
// with backoff.
func (s *SQLSource) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if err := s.BaseConnector.Initialize(ctx, cfg); err != nil {
		return err
	}
	if cfg.Driver == "" || cfg.DSN == "" || cfg.Query == "" {
		return errors.New(errors.ErrorTypeConfig, "sql source needs driver, dsn and query")
	}
	if !slices.Contains(sql.Drivers(), cfg.Driver) {
		return errors.Newf(errors.ErrorTypeConfig, "unknown sql driver %q", cfg.Driver).
			WithDetail("available", sql.Drivers())
	}

	attempts, err := strconv.Atoi(cfg.Property("connect_attempts", "3"))
	if err != nil || attempts < 1 {
		return errors.Newf(errors.ErrorTypeConfig, "connect_attempts must be a positive integer, got %q", cfg.Property("connect_attempts", ""))
	}
	s.retryPolicy = base.NewRetryPolicy(attempts, 500*time.Millisecond)
	s.retryPolicy.OnRetry = func(attempt int, delay time.Duration, err error) {
		s.GetLogger().Warn("database ping failed, retrying",
			zap.String("driver", cfg.Driver),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to open database")
	}
	s.db = db
	s.Track(db)

	err = s.retryPolicy.Execute(ctx, func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeQuery, "failed to connect to database").
			WithDetail("driver", cfg.Driver)
	}
	return nil
}

// Read runs the query and materializes every row
func (s *SQLSource) Read(ctx context.Context) (*dataset.Dataset, error) {
	if s.db == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "sql source not initialized")
	}

	rows, err := s.db.QueryContext(ctx, s.Config().Query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to execute query")
	}
	defer rows.Close() // Ignore close error

	names, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to read result columns")
	}

	ds := dataset.New()
	for _, name := range names {
		if err := ds.AddColumn(name, nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "query returned duplicate column names")
		}
	}

	raw := make([]interface{}, len(names))
	dest := make([]interface{}, len(names))
	for i := range raw {
		dest[i] = &raw[i]
	}
	row := make([]interface{}, len(names))

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to scan row").
				WithDetail("row", ds.RowCount())
		}
		for i, v := range raw {
			row[i] = convertValue(v)
		}
		if err := ds.AppendValues(row...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed while iterating rows")
	}

	s.RecordsRead(ds.RowCount())
	s.ContextLogger(ctx).Info("sql read",
		zap.String("driver", s.Config().Driver),
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", ds.ColumnCount()))
	return ds, nil
}

// convertValue normalizes driver values onto dataset cells
func convertValue(v interface{}) interface{} {
	switch x := v.(type) {
	case nil, string, int64, float64, bool:
		return x
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int16:
		return int64(x)
	case int8:
		return int64(x)
	case uint32:
		return int64(x)
	case uint16:
		return int64(x)
	case uint8:
		return int64(x)
	case float32:
		return float64(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return dataset.FormatValue(x)
	}
}
