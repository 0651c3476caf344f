package main

import "time"

// maxSpindownSteps is the number of consecutive damped deceleration steps
// allowed before the raw curve duty is accepted.
const maxSpindownSteps = 3

// dampingState is owned by a single Controller and only touched from Tick.
type dampingState struct {
	// duty is the last value written to the fan, nil before the first write.
	duty *Duty

	// slidingMax is the smoothed ceiling that triggers re-evaluation.
	slidingMax Duty

	lastUpdated    *time.Time
	lastMaxUpdated time.Time

	spindownCount int
}

func newDampingState(now time.Time) dampingState {
	return dampingState{lastMaxUpdated: now}
}

func (s *dampingState) sinceUpdate(now time.Time) (time.Duration, bool) {
	if s.lastUpdated == nil {
		return 0, false
	}
	return now.Sub(*s.lastUpdated), true
}
