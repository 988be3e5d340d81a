package games

import "time"

// SkipGrace is how long a first-time player waits before a game can be
// skipped.
const SkipGrace = 60 * time.Second

// SkipPolicy decides when a front end may offer to skip a game: at once if
// the learner completed it before, otherwise after the grace period.
type SkipPolicy struct {
	Started         time.Time
	CompletedBefore bool
	Grace           time.Duration
}

// NewSkipPolicy starts the grace period at now.
func NewSkipPolicy(now time.Time, completedBefore bool) SkipPolicy {
	return SkipPolicy{Started: now, CompletedBefore: completedBefore, Grace: SkipGrace}
}

// Remaining returns the time left until skipping unlocks.
func (p SkipPolicy) Remaining(now time.Time) time.Duration {
	if p.CompletedBefore {
		return 0
	}
	left := p.Grace - now.Sub(p.Started)
	if left < 0 {
		return 0
	}
	return left
}

func (p SkipPolicy) CanSkip(now time.Time) bool {
	return p.Remaining(now) == 0
}
