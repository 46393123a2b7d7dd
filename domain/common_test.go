package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorAddKeepsFirstMessage(t *testing.T) {
	err := NewValidationError()
	assert.False(t, err.HasErrors())

	err.Add("name", "name is required")
	err.Add("name", "something else")

	assert.True(t, err.HasErrors())
	assert.Equal(t, "name is required", err.Fields["name"])
}

func TestValidationErrorMessageIsDeterministic(t *testing.T) {
	err := NewValidationError()
	err.Add("tags", "at least one tag is required")
	err.Add("amount", "ingredient amount must be between 1 and 1000")

	assert.Equal(t,
		"amount: ingredient amount must be between 1 and 1000; tags: at least one tag is required",
		err.Error(),
	)
}
