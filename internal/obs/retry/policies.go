package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

func DefaultOutboxPolicy(log *zap.Logger) Policy {
	return Policy{
		Name:     "outbox",
		Attempts: 6,
		Backoff:  ExpoJitter{Base: 200 * time.Millisecond, Max: 30 * time.Second, Jitter: 0.2},
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("outbox retry", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("outbox retries exhausted", zap.Error(err))
			}
		},
	}
}

// HTTPPolicy retries errors accepted by retryable; callers mark client errors
// as permanent so they are not retried.
func HTTPPolicy(name string, attempts int, retryable func(error) bool, log *zap.Logger) Policy {
	return Policy{
		Name:      name,
		Attempts:  attempts,
		Backoff:   ExpoJitter{Base: 250 * time.Millisecond, Max: 10 * time.Second, Jitter: 0.2},
		Retryable: retryable,
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Debug("http retry", zap.String("client", name), zap.Int("attempt", i+1), zap.Error(err))
			}
		},
	}
}

// ConsumerPolicy redelivers a message to its handler in-process; the offset
// is not committed while attempts remain.
func ConsumerPolicy(attempts int, retryable func(error) bool, log *zap.Logger) Policy {
	return Policy{
		Name:      "kafka_consume",
		Attempts:  attempts,
		Backoff:   ExpoJitter{Base: 500 * time.Millisecond, Max: 15 * time.Second, Jitter: 0.2},
		Retryable: retryable,
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("handler failed; redelivering", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
	}
}
