package retry

import (
	"fmt"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultInterval    = 200 * time.Millisecond
)

type Operation func() error

// Constant retries fn at a fixed interval. Used around best-effort
// notification publishes; the engine itself never retries settlements.
func Constant(fn Operation, interval time.Duration, attempts int) error {
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts {
			time.Sleep(interval)
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}
