package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpanRecordsAttributesAndErrors(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	cfg := DefaultTracingConfig()
	require.NoError(t, InitWithExporter(cfg, nil, exporter))
	defer func() { _ = Shutdown(context.Background()) }()

	_, span := StartSpan(context.Background(), "doping.transform")
	span.SetAttribute("rows", 5)
	span.SetAttribute("seed", int64(7))
	span.SetAttribute("verbose", true)
	span.RecordError(errors.New("boom"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "doping.transform", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, attribute.Int("rows", 5))
	assert.Contains(t, spans[0].Attributes, attribute.Int64("seed", 7))
}

func TestInitWritesToConfiguredWriter(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultTracingConfig()
	cfg.Writer = &buf
	require.NoError(t, Init(cfg))

	_, span := StartSpan(context.Background(), "pipeline.run")
	span.End()
	require.NoError(t, Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "pipeline.run")
}

func TestNeverSample(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	cfg := DefaultTracingConfig()
	cfg.SamplingRate = 0
	require.NoError(t, InitWithExporter(cfg, nil, exporter))
	defer func() { _ = Shutdown(context.Background()) }()

	_, span := StartSpan(context.Background(), "ignored")
	span.End()
	assert.Empty(t, exporter.GetSpans())
}
