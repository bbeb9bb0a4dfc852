// Package testutil provides testing utilities for dopant
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/dopant/pkg/dataset"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// RegionAmount returns a five-row dataset with one categorical column
// (region) and one float numeric column (amount).
func RegionAmount(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New("region", "amount")
	rows := [][]interface{}{
		{"north", 10.0},
		{"south", 25.5},
		{"east", 40.0},
		{"west", 55.25},
		{"north", 70.0},
	}
	for _, r := range rows {
		if err := ds.AppendValues(r...); err != nil {
			t.Fatalf("building fixture: %v", err)
		}
	}
	return ds
}

// Mixed returns a dataset with n rows: one string column, two float columns
// and an all-missing column. Values are already in their classified
// representation, so untouched rows compare equal after a transform.
func Mixed(t *testing.T, n int) *dataset.Dataset {
	t.Helper()
	colors := []string{"red", "green", "blue", "amber"}
	ds := dataset.New("color", "price", "code", "blank")
	for i := 0; i < n; i++ {
		err := ds.AppendValues(
			colors[i%len(colors)],
			float64(i)*1.5+3,
			float64(100+i%7),
			nil,
		)
		if err != nil {
			t.Fatalf("building fixture: %v", err)
		}
	}
	return ds
}
