package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Validation, KindOf(New(Validation, "bad input")))
	assert.Equal(t, NotFound, KindOf(New(NotFound, "missing")))
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
	assert.Equal(t, Unknown, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := New(NotFound, "vendor not found")
	outer := fmt.Errorf("handling request: %w", inner)

	assert.Equal(t, NotFound, KindOf(outer))
	assert.True(t, Is(outer, NotFound))
	assert.False(t, Is(outer, Validation))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(Storage, "failed to store vendor", cause)

	assert.Equal(t, Storage, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to store vendor")
	assert.Contains(t, err.Error(), "connection refused")
}
