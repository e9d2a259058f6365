package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	err := NewAppError("Merge contracts", "Please select at least 2 contracts to merge.")
	assert.Equal(t, "Merge contracts: Please select at least 2 contracts to merge.", err.Error())

	var appErr *AppError
	wrapped := fmt.Errorf("merge: %w", err)
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "Merge contracts", appErr.Header)

	assert.Equal(t, "body only", NewAppError("", "body only").Error())
}

func TestStatusErrorUnwrapsToTransport(t *testing.T) {
	err := &StatusError{URL: "/dashboard", StatusCode: 502}
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "/dashboard returned status 502", err.Error())
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not load transactions", ErrMissingDataIsland)
	assert.ErrorIs(t, err, ErrMissingDataIsland)
	assert.Equal(t, "could not load transactions: data island not found", err.Error())
}
