package collaborator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/config"
)

func testRetryConfig() config.RetryConfig {
	return config.RetryConfig{
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		CallTimeout:    time.Second,
	}
}

func testBreakerConfig() config.BreakerConfig {
	return config.BreakerConfig{
		ConsecutiveFailures: 100,
		Interval:            time.Minute,
		Timeout:             time.Minute,
	}
}

func TestAdapter(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"success without retries":          testNoRetries,
		"transient failures are retried":   testTransientRetried,
		"permanent failure stops retrying": testPermanentStops,
		"conflict surfaces unretried":      testConflictSurfaces,
		"exhausted budget turns permanent": testExhaustedBudget,
	} {
		t.Run(scenario, fn)
	}
}

func testNoRetries(t *testing.T) {
	adapter := NewAdapter("test", 3, testRetryConfig(), testBreakerConfig())
	result, retries, err := Call(adapter, context.Background(), func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", result)
	require.Zero(t, retries)
}

func testTransientRetried(t *testing.T) {
	adapter := NewAdapter("test", 5, testRetryConfig(), testBreakerConfig())
	calls := 0
	result, retries, err := Call(adapter, context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls <= 3 {
			return "", Transient(errors.New("unavailable"))
		}
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", result)
	require.Equal(t, 3, retries)
	require.Equal(t, 4, calls)
}

func testPermanentStops(t *testing.T) {
	adapter := NewAdapter("test", 5, testRetryConfig(), testBreakerConfig())
	calls := 0
	_, retries, err := Call(adapter, context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", Permanent(errors.New("unknown component"))
	})
	require.Error(t, err)
	require.Equal(t, PERMANENT, Classify(err))
	require.Equal(t, 1, calls)
	require.Zero(t, retries)
}

func testConflictSurfaces(t *testing.T) {
	adapter := NewAdapter("test", 5, testRetryConfig(), testBreakerConfig())
	calls := 0
	_, _, err := Call(adapter, context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", Conflict(errors.New("slot already booked"))
	})
	require.Error(t, err)
	require.Equal(t, CONFLICT, Classify(err))
	require.Equal(t, 1, calls)
}

func testExhaustedBudget(t *testing.T) {
	adapter := NewAdapter("test", 3, testRetryConfig(), testBreakerConfig())
	calls := 0
	_, retries, err := Call(adapter, context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", Transient(errors.New("unavailable"))
	})
	require.Error(t, err)
	// callers are not asked to retry what the adapter already retried
	require.Equal(t, PERMANENT, Classify(err))
	require.Equal(t, 3, calls)
	require.Equal(t, 2, retries)
}
