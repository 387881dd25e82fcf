package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"not found", NotFound("order.Get", "order not found"), ErrNotFound},
		{"invalid", InvalidArgument("order.Create", "quantity must be positive"), ErrInvalidArgument},
		{"conflict", Conflict("payment.Complete", "order already paid"), ErrConflict},
		{"forbidden", Forbidden("merchant.UpdateStatus", "not your order"), ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
			assert.True(t, IsDomain(wrapped))
			assert.NotEmpty(t, Message(wrapped))
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NotFound("user.Get", "user not found").Wrap(cause)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "user.Get: user not found: disk on fire", err.Error())
}

func TestPlainErrorIsNotDomain(t *testing.T) {
	err := errors.New("connection reset")
	assert.False(t, IsDomain(err))
	assert.Empty(t, Message(err))
}
