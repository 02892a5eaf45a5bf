package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound_WrapsSentinel(t *testing.T) {
	err := NotFound("concept", 7)

	assert.True(t, IsNotFound(err))
	assert.Equal(t, "concept 7: not found", err.Error())
}

func TestInvalid_IsValidation(t *testing.T) {
	err := Invalid("question is required")

	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "question is required")
}

func TestIsValidation_Difficulty(t *testing.T) {
	wrapped := fmt.Errorf("rate card: %w", ErrInvalidDifficulty)

	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsValidation(errors.New("boom")))
}
