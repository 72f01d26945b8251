// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package ratelimit provides cooperative rate-limiting and timeout
// tracking for long-running rebuild/search passes, so a single
// process does not peg a CPU core during a multi-minute scan.
package ratelimit

import (
	"errors"
	"time"
)

// ErrTimeout is returned by Step and CheckExpired once the configured
// timeout has elapsed.
var ErrTimeout = errors.New("ratelimit: timed out")

// DefaultSlice is the minimum gap between Step-triggered sleeps.
// DefaultSleep is how long Step sleeps once that gap has elapsed.
// These match original_source's RATELIMIT = (1/6.0, 0.1).
const (
	DefaultSlice = time.Second / 6
	DefaultSleep = 100 * time.Millisecond
)

// clock abstracts time.Now/time.Sleep for deterministic testing.
type clock interface {
	Now() time.Time
	Sleep(time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time       { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Timer tracks elapsed time for a long-running pass, optionally
// rate-limiting it (via Step) and optionally enforcing a timeout (via
// Step and CheckExpired).
type Timer struct {
	clock clock

	start  time.Time
	last   time.Time
	minDur time.Duration // grace period before rate-limiting begins; 0 disables
	slice  time.Duration
	sleep  time.Duration

	timeout    time.Duration // 0 disables
	hasTimeout bool
}

// Option configures a new Timer.
type Option func(*Timer)

// WithMinDuration sets the grace period during which Step never
// sleeps, regardless of elapsed time since the last sleep.
func WithMinDuration(d time.Duration) Option {
	return func(t *Timer) { t.minDur = d }
}

// WithTimeout enables timeout enforcement: Step and CheckExpired
// return ErrTimeout once d has elapsed since the Timer was created.
func WithTimeout(d time.Duration) Option {
	return func(t *Timer) {
		t.timeout = d
		t.hasTimeout = d > 0
	}
}

// WithRateLimit overrides the default slice/sleep durations.
func WithRateLimit(slice, sleep time.Duration) Option {
	return func(t *Timer) { t.slice = slice; t.sleep = sleep }
}

// NewTimer creates a Timer, started now.
func NewTimer(opts ...Option) *Timer {
	t := &Timer{clock: realClock{}, slice: DefaultSlice, sleep: DefaultSleep}
	t.start = t.clock.Now()
	t.last = t.start
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Step should be called regularly during a scan. It sleeps briefly
// whenever more than Slice has elapsed since the last sleep (after any
// configured grace period), and returns ErrTimeout if the timer's
// overall timeout has elapsed.
func (t *Timer) Step() error {
	now := t.clock.Now()
	if t.hasTimeout && now.Sub(t.start) > t.timeout {
		return ErrTimeout
	}
	pastGrace := t.minDur == 0 || now.Sub(t.start) > t.minDur
	if pastGrace && now.Sub(t.last) > t.slice {
		t.clock.Sleep(t.sleep)
		t.last = now
	}
	return nil
}

// CheckExpired reports ErrTimeout if the timer's overall timeout has
// elapsed, without rate-limiting.
func (t *Timer) CheckExpired() error {
	now := t.clock.Now()
	if t.hasTimeout && now.Sub(t.start) > t.timeout {
		return ErrTimeout
	}
	return nil
}

// Elapsed returns the duration since the Timer was created.
func (t *Timer) Elapsed() time.Duration {
	return t.clock.Now().Sub(t.start)
}
