package json

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/dopant/pkg/config"
	"github.com/ajitpratap0/dopant/pkg/connector/registry"
	"github.com/ajitpratap0/dopant/pkg/errors"
)

func newSource(t *testing.T, content string, props map[string]string) *JSONSource {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := &config.ConnectorConfig{Type: "json", Path: path, Properties: props}
	src, err := NewJSONSource(cfg)
	require.NoError(t, err)
	require.NoError(t, src.Initialize(context.Background(), cfg))
	t.Cleanup(func() { _ = src.Close(context.Background()) })
	return src.(*JSONSource)
}

func TestReadJSONLines(t *testing.T) {
	content := `{"region":"north","amount":10,"ok":true}
{"amount":2.5,"region":"south","tags":["a","b"]}
{"region":null}
`
	ds, err := newSource(t, content, nil).Read(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, ds.RowCount())
	assert.Equal(t, []string{"amount", "ok", "region", "tags"}, ds.ColumnNames())

	amount, _ := ds.Column("amount")
	assert.Equal(t, []interface{}{int64(10), 2.5, nil}, amount.Values)

	ok, _ := ds.Column("ok")
	assert.Equal(t, []interface{}{true, nil, nil}, ok.Values)

	region, _ := ds.Column("region")
	assert.Equal(t, []interface{}{"north", "south", nil}, region.Values)

	tags, _ := ds.Column("tags")
	assert.Equal(t, []interface{}{nil, `["a","b"]`, nil}, tags.Values)
}

func TestReadColumnOrderProperty(t *testing.T) {
	content := `{"b":1,"a":2,"c":3}` + "\n"
	ds, err := newSource(t, content, map[string]string{"columns": "c, a"}).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ds.ColumnNames())
}

func TestReadErrors(t *testing.T) {
	_, err := newSource(t, "{\"a\":1}\n{broken\n", nil).Read(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))

	_, err = newSource(t, "null\n", nil).Read(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a json object")
}

func TestReadEmpty(t *testing.T) {
	ds, err := newSource(t, "", nil).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ds.RowCount())
	assert.Equal(t, 0, ds.ColumnCount())
}

func TestRegistered(t *testing.T) {
	assert.True(t, registry.GetRegistry().HasSource("json"))
}
