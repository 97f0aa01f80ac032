package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:    maxRetries,
		BackoffFactor: 1.0,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
	}
}

func TestRetry_SuccessOnFirstTry(t *testing.T) {
	counter := 0
	err := NewRetrier(fastConfig(3)).Do(context.Background(), func() error {
		counter++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, counter)
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	counter := 0
	err := NewRetrier(fastConfig(3)).Do(context.Background(), func() error {
		counter++
		if counter < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, counter)
}

func TestRetry_MaxRetriesExceeded(t *testing.T) {
	expectedErr := errors.New("still failing")
	counter := 0
	err := NewRetrier(fastConfig(2)).Do(context.Background(), func() error {
		counter++
		return expectedErr
	})

	require.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 3, counter) // initial try + 2 retries
}

func TestRetry_PermanentStopsImmediately(t *testing.T) {
	notFound := errors.New("HTTP 404")
	counter := 0
	err := NewRetrier(fastConfig(5)).Do(context.Background(), func() error {
		counter++
		return Permanent(notFound)
	})

	require.ErrorIs(t, err, notFound)
	assert.Equal(t, 1, counter)
	assert.Equal(t, "HTTP 404", err.Error())
}

func TestRetry_PermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	retrier := NewRetrier(&Config{
		MaxRetries:    3,
		BackoffFactor: 1.0,
		InitialDelay:  time.Second,
		MaxDelay:      time.Second,
	})

	err := retrier.Do(ctx, func() error {
		cancel()
		return errors.New("operation error after cancel")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetry_Backoff(t *testing.T) {
	cfg := &Config{
		MaxRetries:    2,
		BackoffFactor: 2.0,
		InitialDelay:  20 * time.Millisecond,
		MaxDelay:      time.Second,
	}

	start := time.Now()
	_ = NewRetrier(cfg).Do(context.Background(), func() error {
		return errors.New("error")
	})
	elapsed := time.Since(start)

	// 20ms before the first retry, 40ms before the second.
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}
