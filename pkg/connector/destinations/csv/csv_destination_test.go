package csv

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/dopant/pkg/config"
	"github.com/ajitpratap0/dopant/pkg/connector/registry"
	"github.com/ajitpratap0/dopant/pkg/dataset"
)

func sample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New("region", "amount", "score")
	require.NoError(t, ds.AppendValues("north", 10.5, int64(0)))
	require.NoError(t, ds.AppendValues("NEW VALUE1", math.NaN(), int64(2)))
	require.NoError(t, ds.AppendValues("a,b", nil, int64(1)))
	return ds
}

func write(t *testing.T, cfg *config.ConnectorConfig, ds *dataset.Dataset) {
	t.Helper()
	ctx := context.Background()
	dst, err := NewCSVDestination(cfg)
	require.NoError(t, err)
	require.NoError(t, dst.Initialize(ctx, cfg))
	require.NoError(t, dst.Write(ctx, ds))
	require.NoError(t, dst.Close(ctx))
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "doped.csv")
	write(t, &config.ConnectorConfig{Type: "csv", Path: path}, sample(t))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "region,amount,score\nnorth,10.5,0\nNEW VALUE1,,2\n\"a,b\",,1\n", string(data))
}

func TestWriteDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doped.tsv")
	write(t, &config.ConnectorConfig{Type: "csv", Path: path, Properties: map[string]string{"delimiter": "\t"}}, sample(t))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "region\tamount\tscore\n")
	assert.Contains(t, string(data), "a,b\t\t1\n")
}

func TestWriteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &config.ConnectorConfig{Type: "csv", Path: filepath.Join(t.TempDir(), "x.csv")}
	dst, err := NewCSVDestination(cfg)
	require.NoError(t, err)
	require.NoError(t, dst.Initialize(ctx, cfg))
	err = dst.Write(ctx, sample(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, dst.Close(ctx))
}

func TestRegistered(t *testing.T) {
	assert.True(t, registry.GetRegistry().HasDestination("csv"))
}
