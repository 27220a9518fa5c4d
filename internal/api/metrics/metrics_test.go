package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/coursehub/account-service/internal/core/pipeline"
)

func TestDispatchObserver_CountsByKindAndOutcome(t *testing.T) {
	obs := NewDispatchObserver()
	before := testutil.ToFloat64(DispatchTotal.WithLabelValues("test.kind", "failure"))

	obs.ObserveDispatch("test.kind", pipeline.OutcomeFailure, 5*time.Millisecond)
	obs.ObserveDispatch("test.kind", pipeline.OutcomeFailure, 5*time.Millisecond)

	assert.Equal(t, before+2, testutil.ToFloat64(DispatchTotal.WithLabelValues("test.kind", "failure")))
}

func TestCountValidationErrors(t *testing.T) {
	before := testutil.ToFloat64(ValidationErrorsTotal.WithLabelValues("test.kind", "email"))

	CountValidationErrors("test.kind", []pipeline.ValidationError{
		{Field: "email", Message: "bad"},
		{Field: "password", Message: "short"},
	})

	assert.Equal(t, before+1, testutil.ToFloat64(ValidationErrorsTotal.WithLabelValues("test.kind", "email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ValidationErrorsTotal.WithLabelValues("test.kind", "password")))
}
