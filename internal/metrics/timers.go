// Package metrics keeps wall-clock timers for the stages of a run.
package metrics

import (
	"sync"
	"time"
)

// Timers records named stages. Set closes the previous lap and opens a new
// one; Add starts a timer that runs independently of the laps.
type Timers struct {
	mu     sync.Mutex
	timers map[string]*Timer
	order  []string
	last   string
	now    func() time.Time
}

// Timer is a single stage. Seconds is set once the stage is stopped.
type Timer struct {
	Name    string  `json:"name"`
	Seconds float64 `json:"seconds"`

	start   time.Time
	stopped bool
}

func NewTimers() *Timers {
	return newTimersWithClock(time.Now)
}

func newTimersWithClock(now func() time.Time) *Timers {
	return &Timers{timers: make(map[string]*Timer), now: now}
}

// set starts k, or stops it when already running.
func (ts *Timers) set(k string) {
	t, ok := ts.timers[k]
	if !ok {
		ts.timers[k] = &Timer{Name: k, start: ts.now()}
		ts.order = append(ts.order, k)
		return
	}
	if !t.stopped {
		t.Seconds = ts.now().Sub(t.start).Seconds()
		t.stopped = true
	}
}

// Set stops the current lap and starts k.
func (ts *Timers) Set(k string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.last != "" && ts.last != k {
		ts.set(ts.last)
	}
	ts.set(k)
	ts.last = k
}

// Add starts k, or stops it when it is already running.
func (ts *Timers) Add(k string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.set(k)
}

// Done stops every running timer.
func (ts *Timers) Done() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, k := range ts.order {
		ts.set(k)
	}
	ts.last = ""
}

// Stages returns a copy of the timers in start order.
func (ts *Timers) Stages() []Timer {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]Timer, 0, len(ts.order))
	for _, k := range ts.order {
		out = append(out, *ts.timers[k])
	}
	return out
}
