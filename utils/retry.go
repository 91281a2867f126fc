package utils

import (
	"fmt"
	"time"
)

// Retry runs fn up to maxAttempts times with exponential back-off, starting
// at baseDelay. It is used for connection establishment only; batch work is
// never retried — a failed run is rerun from source.
func Retry(logger *Logger, name string, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	var lastErr error
	delay := baseDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < maxAttempts {
			logger.Warn("[retry] %s failed (attempt %d/%d): %v — retrying in %v",
				name, attempt, maxAttempts, lastErr, delay)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, maxAttempts, lastErr)
}
