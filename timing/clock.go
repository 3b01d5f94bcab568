// Package timing produces the randomized wait intervals that drive the
// simulation loops. A clock decides how long a loop sleeps between ticks;
// the sleep itself is cooperative and aborts on context cancellation.
package timing

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Clock yields bounded randomized intervals and sleeps through them.
type Clock interface {
	// Next returns the duration until the next tick.
	Next() time.Duration
	// Wait sleeps for one interval. It returns false when ctx was
	// cancelled before the interval elapsed; this is the only shutdown
	// signal a simulation loop observes.
	Wait(ctx context.Context) bool
}

// Jitter draws uniformly from [Min, Max]. Events paced by it are neither
// perfectly regular nor delayed beyond Max.
type Jitter struct {
	Min time.Duration
	Max time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewJitter builds a Jitter clock with its own seeded source. Min must be
// positive and Max at least Min; out-of-order bounds are swapped rather
// than rejected so a misconfigured loop still ticks.
func NewJitter(min, max time.Duration) *Jitter {
	if max < min {
		min, max = max, min
	}
	if min <= 0 {
		min = time.Millisecond
	}
	if max < min {
		max = min
	}
	return &Jitter{
		Min: min,
		Max: max,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (j *Jitter) Next() time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()
	span := j.Max - j.Min
	if span <= 0 {
		return j.Min
	}
	return j.Min + time.Duration(j.rng.Int63n(int64(span)+1))
}

func (j *Jitter) Wait(ctx context.Context) bool {
	t := time.NewTimer(j.Next())
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
