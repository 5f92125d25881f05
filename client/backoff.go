package client

import "time"

const (
	// ReconnectBase is the delay before the first reconnection attempt.
	ReconnectBase = time.Second
	// ReconnectCap bounds the delay between reconnection attempts.
	ReconnectCap = 10 * time.Second
	// MaxReconnectAttempts is the number of automatic reconnection
	// attempts before the connection is left disconnected for good.
	MaxReconnectAttempts = 5
)

// ReconnectDelay returns the wait before the given zero-based
// reconnection attempt: the base delay doubled per attempt, capped.
func ReconnectDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		return ReconnectCap
	}
	delay := ReconnectBase << uint(attempt)
	if delay > ReconnectCap {
		return ReconnectCap
	}
	return delay
}
