package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bakery-admin/internal/lib/apperr"
)

func TestStepError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperr.NewStepError(apperr.StepProfile, cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "profile")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStepError_ExtractableThroughWrapping(t *testing.T) {
	err := apperr.NewStepError(apperr.StepSubscription, errors.New("db error"))
	wrapped := fmt.Errorf("services.provision.Create: %w", err)

	var stepErr *apperr.StepError
	require.True(t, errors.As(wrapped, &stepErr))
	assert.Equal(t, apperr.StepSubscription, stepErr.Step)
}

func TestSentinels_AreDistinct(t *testing.T) {
	sentinels := []error{
		apperr.ErrUnauthenticated,
		apperr.ErrForbidden,
		apperr.ErrInvalidArgument,
		apperr.ErrNotFound,
		apperr.ErrUnknown,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b))
		}
	}
}
