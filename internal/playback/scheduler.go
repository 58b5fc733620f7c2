package playback

import "time"

// Timer is a cancelable pending callback.
type Timer interface {
	// Stop prevents the callback from firing if it has not fired yet.
	Stop() bool
}

// Scheduler arms one-shot callbacks. The Controller never holds more than
// one outstanding Timer.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules callbacks on the Go runtime timer.
type RealScheduler struct{}

// AfterFunc wraps time.AfterFunc.
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
