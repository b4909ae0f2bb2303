package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrorMessageNamesIdentifiers(t *testing.T) {
	err := NewNotFoundError("AAPL")
	assert.Equal(t, "ticker 'AAPL' not found", err.Error())
	assert.True(t, Is(err, ErrNotFound))

	batch := NewNotFoundError("AAPL", "MSFT")
	assert.Contains(t, batch.Error(), "AAPL, MSFT")
}

func TestNotFoundErrorWithDetail(t *testing.T) {
	err := NewNotFoundErrorWithDetail("no historical data for 2023-01-01 to 2023-01-03", "AAPL")
	assert.Contains(t, err.Error(), "AAPL")
	assert.Contains(t, err.Error(), "2023-01-01 to 2023-01-03")
}

func TestRateLimitErrorSuggestsBackoff(t *testing.T) {
	err := NewRateLimitError("quote")
	assert.Contains(t, err.Error(), "try again later")
	assert.True(t, Is(err, ErrRateLimited))
}

func TestValidationErrorCarriesFieldAndMessage(t *testing.T) {
	err := NewValidationError("fromDate", "2030-01-01", "must not be in the future")
	assert.Contains(t, err.Error(), "fromDate")
	assert.Contains(t, err.Error(), "must not be in the future")
	assert.True(t, Is(err, ErrValidation))
}

func TestUpstreamErrorPreservesOriginalMessage(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewUpstreamError("quote", cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, Is(err, cause))
}

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "context %d", 1))
}
