package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock pinned to the given time. Time stands still until
// Advance is called; pending timers, tickers, and sleeps fire when the clock
// advances past their deadline.
func Fake(initial time.Time) *FakeClock {
	c := &FakeClock{current: initial}
	c.changed = sync.NewCond(&c.mu)
	return c
}

// FakeClock is a deterministic Clock for tests. It is safe for concurrent
// use. AfterFunc callbacks run synchronously inside Advance, in deadline
// order; a callback must not call Advance or Sleep on the same clock.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	pending []*fakeTimer
	changed *sync.Cond
}

// fakeTimer is one pending timer, ticker, or sleep.
type fakeTimer struct {
	deadline time.Time

	// ch receives the fire time for After, Sleep, and Ticker timers.
	// Nil for AfterFunc timers.
	ch chan time.Time

	// fn runs synchronously during Advance for AfterFunc timers.
	fn func()

	// interval is non-zero for tickers; the timer is rescheduled to
	// deadline+interval after each fire.
	interval time.Duration

	stopped bool
	fired   bool
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After returns a channel that receives once the clock advances past d.
// If d <= 0 the channel receives immediately.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.current
		return ch
	}

	c.pending = append(c.pending, &fakeTimer{
		deadline: c.current.Add(d),
		ch:       ch,
	})
	c.changed.Broadcast()
	return ch
}

// AfterFunc schedules f to run when the clock advances past d. If d <= 0,
// f runs synchronously before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	c.mu.Lock()

	if d <= 0 {
		c.mu.Unlock()
		f()
		return &Timer{
			stop:  func() bool { return false },
			reset: func(time.Duration) bool { return false },
		}
	}

	ft := &fakeTimer{
		deadline: c.current.Add(d),
		fn:       f,
	}
	c.pending = append(c.pending, ft)
	c.changed.Broadcast()
	c.mu.Unlock()

	return &Timer{
		stop: func() bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			if ft.stopped || ft.fired {
				return false
			}
			ft.stopped = true
			return true
		},
		reset: func(d time.Duration) bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			wasActive := !ft.stopped && !ft.fired
			ft.stopped = false
			ft.fired = false
			ft.deadline = c.current.Add(d)
			// Re-register only if the timer was dropped from the pending
			// list; a stopped entry may still be sitting there, and a
			// duplicate would fire the callback twice in one advance.
			if !c.isPendingLocked(ft) {
				c.pending = append(c.pending, ft)
			}
			c.changed.Broadcast()
			return wasActive
		},
	}
}

// NewTicker returns a Ticker that fires once per interval as the clock
// advances. Panics if d <= 0.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	ft := &fakeTimer{
		deadline: c.current.Add(d),
		ch:       ch,
		interval: d,
	}
	c.pending = append(c.pending, ft)
	c.changed.Broadcast()

	return &Ticker{
		C: ch,
		stop: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			ft.stopped = true
		},
		reset: func(d time.Duration) {
			c.mu.Lock()
			defer c.mu.Unlock()
			ft.interval = d
			ft.deadline = c.current.Add(d)
			ft.stopped = false
		},
	}
}

// Sleep blocks the calling goroutine until the clock advances past d.
func (c *FakeClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	<-c.After(d)
}

// Advance moves the clock forward by d and fires every pending timer whose
// deadline falls within the new time, in deadline order. Channel sends are
// non-blocking, matching time.Ticker's drop-if-full behavior; if the advance
// spans several ticker intervals the ticker fires once per interval.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	target := c.current
	c.mu.Unlock()

	for {
		expired := c.takeExpired(target)
		if len(expired) == 0 {
			return
		}

		sort.Slice(expired, func(i, j int) bool {
			return expired[i].deadline.Before(expired[j].deadline)
		})

		for _, ft := range expired {
			if ft.fn != nil {
				ft.fn()
			} else if ft.ch != nil {
				select {
				case ft.ch <- target:
				default:
				}
			}
		}
	}
}

// takeExpired removes expired timers from the pending list, reschedules
// tickers for their next interval, and returns the timers to fire.
func (c *FakeClock) takeExpired(target time.Time) []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expired, remaining []*fakeTimer
	for _, ft := range c.pending {
		if ft.stopped {
			continue
		}
		if !ft.deadline.After(target) {
			expired = append(expired, ft)
		} else {
			remaining = append(remaining, ft)
		}
	}

	for _, ft := range expired {
		if ft.interval > 0 {
			ft.deadline = ft.deadline.Add(ft.interval)
			remaining = append(remaining, ft)
		} else {
			ft.fired = true
		}
	}

	c.pending = remaining
	return expired
}

// WaitForTimers blocks until at least n timers, tickers, or sleeps are
// pending. It closes the race between a goroutine registering a timer and
// the test advancing the clock.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pendingLocked() < n {
		c.changed.Wait()
	}
}

// PendingCount returns the number of active pending timers.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingLocked()
}

func (c *FakeClock) isPendingLocked(ft *fakeTimer) bool {
	for _, p := range c.pending {
		if p == ft {
			return true
		}
	}
	return false
}

func (c *FakeClock) pendingLocked() int {
	count := 0
	for _, ft := range c.pending {
		if !ft.stopped {
			count++
		}
	}
	return count
}
