// Package core defines the interfaces every dopant connector implements.
package core

import (
	"context"

	"github.com/ajitpratap0/dopant/pkg/config"
	"github.com/ajitpratap0/dopant/pkg/dataset"
)

// ConnectorType represents the type of connector
type ConnectorType string

const (
	ConnectorTypeSource      ConnectorType = "source"
	ConnectorTypeDestination ConnectorType = "destination"
)

// Source loads a whole dataset. Doping needs every row in memory, so
// sources return a materialized dataset rather than a stream.
type Source interface {
	Initialize(ctx context.Context, config *config.ConnectorConfig) error
	Read(ctx context.Context) (*dataset.Dataset, error)
	Close(ctx context.Context) error
}

// Destination persists a whole dataset
type Destination interface {
	Initialize(ctx context.Context, config *config.ConnectorConfig) error
	Write(ctx context.Context, ds *dataset.Dataset) error
	Close(ctx context.Context) error
}
