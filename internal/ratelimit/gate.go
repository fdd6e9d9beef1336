package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum spacing between accepted requests
const DefaultInterval = 3 * time.Second

// Gate admits at most one request per interval across the whole process.
// It is not keyed by caller, and separate processes do not share state.
type Gate struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewGate creates a gate with the given spacing. Non-positive intervals fall
// back to DefaultInterval.
func NewGate(interval time.Duration) *Gate {
	return newGateWithClock(interval, time.Now)
}

func newGateWithClock(interval time.Duration, now func() time.Time) *Gate {
	if interval <= 0 {
		interval = DefaultInterval
	}
	// A single token refilled once per interval: a rejected call leaves the
	// bucket untouched, an admitted call empties it.
	return &Gate{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		now:     now,
	}
}

// Admit reports whether a request may proceed now and records it if so.
func (g *Gate) Admit() bool {
	return g.limiter.AllowN(g.now(), 1)
}
