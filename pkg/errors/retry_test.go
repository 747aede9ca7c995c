package errors

import (
	"context"
	"errors"
	"testing"
)

func TestRetryable(t *testing.T) {
	t.Run("wraps error", func(t *testing.T) {
		inner := New(ErrCodeSelectionExhausted, "no pair found")
		err := Retryable(inner)

		if !IsRetryable(err) {
			t.Error("IsRetryable() = false, want true")
		}
		if err.Error() != inner.Error() {
			t.Errorf("Error() = %v, want %v", err.Error(), inner.Error())
		}
		if !Is(err, ErrCodeSelectionExhausted) {
			t.Error("code lost through Retryable wrapping")
		}
	})

	t.Run("nil passthrough", func(t *testing.T) {
		if err := Retryable(nil); err != nil {
			t.Errorf("Retryable(nil) = %v, want nil", err)
		}
	})

	t.Run("plain error is not retryable", func(t *testing.T) {
		if IsRetryable(errors.New("plain")) {
			t.Error("IsRetryable(plain) = true, want false")
		}
	})
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("RetryWithBackoff: %v", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("non-retryable fails immediately", func(t *testing.T) {
		calls := 0
		wantErr := New(ErrCodeInvalidInput, "bad input")
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Errorf("err = %v, want %v", err, wantErr)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("cancelled context stops retries", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := RetryWithBackoff(ctx, func() error {
			return Retryable(errors.New("transient"))
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}
