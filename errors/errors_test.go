package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("provider failed"), "check provider registration order")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "check provider registration order", hints[0])
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound bool
		canceled bool
	}{
		{"not found", NewNotFoundError("response %d", 7), true, false},
		{"wrapped canceled", Wrap(ErrCanceled, "collecting candidates"), false, true},
		{"invalid request", NewInvalidRequestError("bad index %d", -1), false, false},
		{"nil", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.canceled, IsCanceledError(tt.err))
		})
	}
}

func TestNewNotFoundError_Message(t *testing.T) {
	err := NewNotFoundError("response %d", 42)
	assert.Contains(t, err.Error(), "response 42")
	assert.Contains(t, err.Error(), "not found")
}

func TestIsAny_ContextErrors(t *testing.T) {
	err := Wrap(context.Canceled, "rank")
	assert.True(t, IsAny(err, context.Canceled, context.DeadlineExceeded))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
}

func ExampleWrap() {
	baseErr := New("result length 2, want 3")
	err := Wrap(baseErr, "provider history")
	fmt.Println(err)
	// Output: provider history: result length 2, want 3
}
