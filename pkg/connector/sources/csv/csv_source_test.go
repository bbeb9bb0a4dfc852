package csv

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/dopant/pkg/config"
	"github.com/ajitpratap0/dopant/pkg/connector/registry"
	"github.com/ajitpratap0/dopant/pkg/errors"
	"github.com/ajitpratap0/dopant/pkg/pool"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newSource(t *testing.T, cfg *config.ConnectorConfig) *CSVSource {
	t.Helper()
	src, err := NewCSVSource(cfg)
	require.NoError(t, err)
	s := src.(*CSVSource)
	require.NoError(t, s.Initialize(context.Background(), cfg))
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestReadInfersTypes(t *testing.T) {
	path := writeFile(t, "in.csv", "region,amount,count,note\nnorth,10.5,1,\nsouth,,2,x\neast,7,3,y\n")
	s := newSource(t, &config.ConnectorConfig{Type: "csv", Path: path})

	ds, err := s.Read(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "amount", "count", "note"}, ds.ColumnNames())
	assert.Equal(t, 3, ds.RowCount())

	region, _ := ds.Column("region")
	assert.Equal(t, []interface{}{"north", "south", "east"}, region.Values)

	amount, _ := ds.Column("amount")
	assert.Equal(t, []interface{}{10.5, nil, 7.0}, amount.Values)

	count, _ := ds.Column("count")
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(3)}, count.Values)

	note, _ := ds.Column("note")
	assert.Equal(t, []interface{}{nil, "x", "y"}, note.Values)
}

func TestIntegerColumnWithMissingBecomesFloat(t *testing.T) {
	values := convertColumn([]string{"1", "", "3"}, true, pool.NewStringInternPool(0))
	assert.Equal(t, []interface{}{1.0, nil, 3.0}, values)

	assert.Equal(t, []interface{}{"1", nil}, convertColumn([]string{"1", ""}, false, pool.NewStringInternPool(0)))
	assert.Equal(t, []interface{}{nil, nil}, convertColumn([]string{"", ""}, true, pool.NewStringInternPool(0)))
}

func TestReadGzipWithDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte("a;b\n1;x\n2;y\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	cfg := &config.ConnectorConfig{Type: "csv", Path: path, Properties: map[string]string{"delimiter": ";"}}
	s := newSource(t, cfg)
	ds, err := s.Read(context.Background())
	require.NoError(t, err)

	a, _ := ds.Column("a")
	assert.Equal(t, []interface{}{int64(1), int64(2)}, a.Values)
}

func TestReadErrors(t *testing.T) {
	ctx := context.Background()

	s := newSource(t, &config.ConnectorConfig{Type: "csv", Path: writeFile(t, "empty.csv", "")})
	_, err := s.Read(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")

	s = newSource(t, &config.ConnectorConfig{Type: "csv", Path: writeFile(t, "ragged.csv", "a,b\n1\n")})
	_, err = s.Read(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	s = newSource(t, &config.ConnectorConfig{Type: "csv", Path: writeFile(t, "ok.csv", "a\n1\n")})
	_, err = s.Read(canceled)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInitializeRejectsBadProperties(t *testing.T) {
	src, err := NewCSVSource(nil)
	require.NoError(t, err)

	err = src.Initialize(context.Background(), &config.ConnectorConfig{Path: "x.csv", Properties: map[string]string{"delimiter": "::"}})
	require.Error(t, err)

	err = src.Initialize(context.Background(), &config.ConnectorConfig{Path: "x.csv", Properties: map[string]string{"infer_types": "maybe"}})
	require.Error(t, err)
}

func TestRegistered(t *testing.T) {
	assert.True(t, registry.GetRegistry().HasSource("csv"))
	info, err := registry.GetConnectorInfo("source", "csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", info.Name)
}
