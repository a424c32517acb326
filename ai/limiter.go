// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a ceiling on requests issued within any rolling
// window. It records the timestamp of each issued request and admits a new
// one only when fewer than the ceiling fall inside the window; callers block
// cooperatively until capacity frees.
//
// The limiter is shared process-wide by construction: create one instance
// and hand it to every extractor. There is no package-level instance.
type RateLimiter struct {
	mu     sync.Mutex
	issued []time.Time

	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter creates a limiter admitting at most requestsPerMinute
// requests in any rolling 60-second window.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	return newRateLimiter(requestsPerMinute, time.Minute, time.Now)
}

// newRateLimiter allows tests to shrink the window and control the clock.
func newRateLimiter(limit int, window time.Duration, now func() time.Time) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	return &RateLimiter{
		limit:  limit,
		window: window,
		now:    now,
	}
}

// Acquire blocks until the caller may issue a request, then records it.
// Only requests actually admitted are recorded; a caller that gives up via
// ctx consumes no capacity.
func (l *RateLimiter) Acquire(ctx context.Context) error {
	for {
		wait, ok := l.tryAcquire()
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAcquire admits the caller if capacity exists, otherwise returns how
// long until the oldest recorded request leaves the window.
func (l *RateLimiter) tryAcquire() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.issued) < l.limit {
		l.issued = append(l.issued, now)
		return 0, true
	}
	return l.window - now.Sub(l.issued[0]), false
}

// prune drops timestamps that have left the window. Caller holds mu.
func (l *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.issued) && !l.issued[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.issued = append(l.issued[:0], l.issued[i:]...)
	}
}

// InFlight reports how many issued requests are still inside the window.
func (l *RateLimiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.issued)
}
