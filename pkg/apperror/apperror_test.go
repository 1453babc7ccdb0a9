package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = Validation("sample_rule", "sample rule failed")

func TestErrorIsMatchesByKindAndCode(t *testing.T) {
	wrapped := fmt.Errorf("booking: %w", errSample.Withf("custom message"))

	assert.True(t, errors.Is(wrapped, errSample))
	assert.False(t, errors.Is(wrapped, Validation("other_rule", "x")))
	assert.False(t, errors.Is(wrapped, NotFound("sample_rule", "x")))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", errSample, KindValidation},
		{"conflict wrapped", fmt.Errorf("x: %w", Conflict("slot_taken", "taken")), KindConflict},
		{"plain error", errors.New("boom"), KindInternal},
		{"internal", Internal("db failed", errors.New("boom")), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestInternalUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("failed to load appointment", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load appointment: connection reset", err.Error())
	assert.Equal(t, "internal", CodeOf(err))
}

func TestRetryable(t *testing.T) {
	assert.True(t, KindConflict.Retryable())
	assert.False(t, KindValidation.Retryable())
	assert.False(t, KindInvalidTransition.Retryable())
}
