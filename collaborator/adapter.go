package collaborator

import (
	"context"
	"errors"
	"time"

	bckoff "github.com/cenkalti/backoff/v4"
	cb "github.com/sony/gobreaker"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/config"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
	"go.uber.org/zap"
)

// Adapter wraps one collaborator with a per-call timeout, bounded
// exponential-backoff retry and a circuit breaker. Transient and timeout
// failures are retried up to the attempt budget; permanent and conflict
// failures stop the loop immediately.
type Adapter struct {
	name           string
	breaker        *cb.CircuitBreaker
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	callTimeout    time.Duration
}

func NewAdapter(name string, maxAttempts int, retry config.RetryConfig, breaker config.BreakerConfig) *Adapter {
	settings := cb.Settings{
		Name:     name,
		Interval: breaker.Interval,
		Timeout:  breaker.Timeout,
		ReadyToTrip: func(counts cb.Counts) bool {
			return counts.ConsecutiveFailures > breaker.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to cb.State) {
			logger.Warn("circuit breaker state change", zap.String("collaborator", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
	return &Adapter{
		name:           name,
		breaker:        cb.NewCircuitBreaker(settings),
		maxAttempts:    maxAttempts,
		initialBackoff: retry.InitialBackoff,
		maxBackoff:     retry.MaxBackoff,
		callTimeout:    retry.CallTimeout,
	}
}

func (a *Adapter) Name() string {
	return a.name
}

// Call invokes fn through the adapter's breaker and retry policy. It
// returns the result, the number of retries that were needed (0 when the
// first attempt succeeded) and the final classified error.
func Call[T any](a *Adapter, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, int, error) {
	var result T
	retries := 0

	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
		defer cancel()
		out, err := a.breaker.Execute(func() (any, error) {
			return fn(callCtx)
		})
		if err == nil {
			result = out.(T)
			return nil
		}
		if errors.Is(err, cb.ErrOpenState) || errors.Is(err, cb.ErrTooManyRequests) {
			err = Transient(err)
		}
		switch Classify(err) {
		case PERMANENT, CONFLICT:
			return bckoff.Permanent(err)
		default:
			retries++
			logger.Debug("collaborator call failed, retrying", zap.String("collaborator", a.name), zap.Int("retry", retries), zap.Error(err))
			return err
		}
	}

	expBackoff := bckoff.NewExponentialBackOff()
	expBackoff.InitialInterval = a.initialBackoff
	expBackoff.MaxInterval = a.maxBackoff
	expBackoff.MaxElapsedTime = 0

	err := bckoff.Retry(operation, bckoff.WithContext(bckoff.WithMaxRetries(expBackoff, uint64(a.maxAttempts-1)), ctx))
	if err != nil {
		// the attempt that exhausted the budget was not followed by a retry
		if retries > 0 {
			retries--
		}
		if Classify(err) == TIMEOUT || Classify(err) == TRANSIENT {
			// exhausted budget upgrades to permanent for the caller
			err = Permanent(err)
		}
		return result, retries, err
	}
	return result, retries, nil
}
