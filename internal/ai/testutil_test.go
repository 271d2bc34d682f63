package ai

import (
	"testing"
	"time"
)

// EnsureNoRealAPIKeys unsets the API key for the duration of the test so no
// test can reach the real API by accident. Tests talk to httptest servers.
func EnsureNoRealAPIKeys(t *testing.T) {
	t.Helper()
	t.Setenv("ANTHROPIC_API_KEY", "")
}

// noSleep makes retry backoff instant for the duration of the test and
// records the requested delays.
func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	orig := timeSleep
	timeSleep = func(d time.Duration) <-chan time.Time {
		delays = append(delays, d)
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}
	t.Cleanup(func() { timeSleep = orig })
	return &delays
}
