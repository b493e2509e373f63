// Package clock provides an injectable time source so timer-driven logic can
// be tested with deterministic virtual time. Production code uses Real();
// tests use Fake() and advance time explicitly.
package clock

import "time"

// Clock abstracts the time operations the monitor's timers depend on.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives once duration d has elapsed.
	After(d time.Duration) <-chan time.Time

	// AfterFunc waits for duration d, then calls f. The returned Timer
	// can cancel the pending call with Stop; its C field is nil,
	// matching time.AfterFunc.
	AfterFunc(d time.Duration, f func()) *Timer

	// NewTicker returns a Ticker delivering ticks at the given interval.
	// Panics if d <= 0.
	NewTicker(d time.Duration) *Ticker

	// Sleep pauses the calling goroutine for at least duration d.
	Sleep(d time.Duration)
}

// Ticker wraps a periodic timer. Its C channel has capacity 1, matching
// time.Ticker: if the consumer falls behind, ticks are dropped, not queued.
type Ticker struct {
	// C delivers ticks.
	C <-chan time.Time

	stop  func()
	reset func(time.Duration)
}

// Stop turns off the ticker. It does not close C.
func (t *Ticker) Stop() { t.stop() }

// Reset changes the ticker's interval and restarts the tick cycle.
func (t *Ticker) Reset(d time.Duration) { t.reset(d) }

// Timer represents a single scheduled event. Timers created by AfterFunc
// have a nil C field.
type Timer struct {
	// C delivers the timer event, when non-nil.
	C <-chan time.Time

	stop  func() bool
	reset func(time.Duration) bool
}

// Stop prevents the timer from firing. It returns false if the timer has
// already fired or been stopped.
func (t *Timer) Stop() bool { return t.stop() }

// Reset changes the timer to fire after duration d. It returns true if the
// timer was still active.
func (t *Timer) Reset(d time.Duration) bool { return t.reset(d) }
