package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/dopant/pkg/config"
	"github.com/ajitpratap0/dopant/pkg/connector/core"
	"github.com/ajitpratap0/dopant/pkg/dataset"
	"github.com/ajitpratap0/dopant/pkg/errors"
)

type stubSource struct{ path string }

func (s *stubSource) Initialize(context.Context, *config.ConnectorConfig) error { return nil }
func (s *stubSource) Read(context.Context) (*dataset.Dataset, error)            { return dataset.New("a"), nil }
func (s *stubSource) Close(context.Context) error                               { return nil }

type stubDestination struct{}

func (stubDestination) Initialize(context.Context, *config.ConnectorConfig) error { return nil }
func (stubDestination) Write(context.Context, *dataset.Dataset) error             { return nil }
func (stubDestination) Close(context.Context) error                               { return nil }

func TestRegisterAndCreate(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterSource("stub", func(cfg *config.ConnectorConfig) (core.Source, error) {
		return &stubSource{path: cfg.Path}, nil
	}))
	require.NoError(t, r.RegisterDestination("stub", func(*config.ConnectorConfig) (core.Destination, error) {
		return stubDestination{}, nil
	}))

	err := r.RegisterSource("stub", nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	src, err := r.CreateSource("stub", &config.ConnectorConfig{Path: "x.csv"})
	require.NoError(t, err)
	assert.Equal(t, "x.csv", src.(*stubSource).path)

	_, err = r.CreateDestination("stub", &config.ConnectorConfig{})
	require.NoError(t, err)

	assert.True(t, r.HasSource("stub"))
	assert.False(t, r.HasDestination("parquet"))
}

func TestCreateUnknownAndFailingFactory(t *testing.T) {
	r := NewRegistry()

	_, err := r.CreateSource("nope", &config.ConnectorConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source connector nope not found")

	require.NoError(t, r.RegisterDestination("broken", func(*config.ConnectorConfig) (core.Destination, error) {
		return nil, fmt.Errorf("boom")
	}))
	_, err = r.CreateDestination("broken", &config.ConnectorConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestListsAreSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"sql", "csv", "json"} {
		require.NoError(t, r.RegisterSource(name, func(*config.ConnectorConfig) (core.Source, error) { return &stubSource{}, nil }))
	}
	assert.Equal(t, []string{"csv", "json", "sql"}, r.ListSources())
	assert.Empty(t, r.ListDestinations())
}

func TestCatalog(t *testing.T) {
	c := NewConnectorCatalog()
	require.NoError(t, c.Register(&ConnectorInfo{Name: "csv", Type: "destination"}))
	require.NoError(t, c.Register(&ConnectorInfo{Name: "csv", Type: "source"}))
	require.NoError(t, c.Register(&ConnectorInfo{Name: "sql", Type: "source"}))
	require.Error(t, c.Register(&ConnectorInfo{Name: "csv", Type: "source"}))

	info, err := c.Get("source", "sql")
	require.NoError(t, err)
	assert.Equal(t, "sql", info.Name)

	_, err = c.Get("destination", "sql")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, "source", list[0].Type)
	assert.Equal(t, "csv", list[0].Name)
	assert.Equal(t, "sql", list[1].Name)
	assert.Equal(t, "destination", list[2].Type)
}

func TestCheckProperties(t *testing.T) {
	c := NewConnectorCatalog()
	require.NoError(t, c.Register(&ConnectorInfo{
		Name: "csv",
		Type: "source",
		ConfigSchema: map[string]interface{}{
			"path":        map[string]interface{}{"type": "string"},
			"delimiter":   map[string]interface{}{"type": "string"},
			"infer_types": map[string]interface{}{"type": "bool"},
		},
	}))

	assert.NoError(t, c.CheckProperties("source", "csv", nil))
	assert.NoError(t, c.CheckProperties("source", "csv", map[string]string{"delimiter": ";"}))
	assert.NoError(t, c.CheckProperties("source", "parquet", map[string]string{"anything": "x"}))

	err := c.CheckProperties("source", "csv", map[string]string{"delimter": ";", "infer_type": "false"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "unknown properties [delimter infer_type]")
	assert.Equal(t, []string{"delimiter", "infer_types", "path"}, errors.DetailsOf(err)["known"])
}
