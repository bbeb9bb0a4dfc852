package metrics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ajitpratap0/dopant/pkg/errors"
)

func TestOutcomeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, OutcomeSuccess},
		{"validation", errors.New(errors.ErrorTypeValidation, "bad"), OutcomeInvalid},
		{"canceled", errors.Wrap(context.Canceled, errors.ErrorTypeCanceled, "stopped"), OutcomeCanceled},
		{"plain", fmt.Errorf("boom"), OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutcomeFor(tt.err))
		})
	}
}

func TestObserveCell(t *testing.T) {
	before := testutil.ToFloat64(CellsModified.WithLabelValues("numeric", "true"))
	ObserveCell("numeric", true)
	ObserveCell("numeric", false)
	assert.Equal(t, before+1, testutil.ToFloat64(CellsModified.WithLabelValues("numeric", "true")))
}

func TestObserveTransform(t *testing.T) {
	before := testutil.ToFloat64(TransformsTotal.WithLabelValues(OutcomeInvalid))
	ObserveTransform(OutcomeInvalid, 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(TransformsTotal.WithLabelValues(OutcomeInvalid)))
}

func TestTimer(t *testing.T) {
	timer := NewTimer("op")
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, timer.Stop(), time.Millisecond)
	assert.Equal(t, "op", timer.Name())
}
