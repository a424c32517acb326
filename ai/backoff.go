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

// Backoff is an exponential backoff gate armed by retriable failures and
// cleared by success. While armed, every caller waits the current delay
// before issuing a request, so a throttled upstream sees traffic slow down
// across all sessions at once.
type Backoff struct {
	mu       sync.Mutex
	failures int

	base time.Duration
	cap  time.Duration
}

// NewBackoff creates a backoff gate. The delay after n consecutive failures
// is base * 2^(n-1), capped.
func NewBackoff(base, cap time.Duration) *Backoff {
	if base <= 0 {
		base = time.Second
	}
	if cap < base {
		cap = base
	}
	return &Backoff{base: base, cap: cap}
}

// Delay returns the current gate delay. Zero when the gate is clear.
func (b *Backoff) Delay() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures == 0 {
		return 0
	}
	delay := b.base
	for i := 1; i < b.failures; i++ {
		delay *= 2
		if delay >= b.cap {
			return b.cap
		}
	}
	if delay > b.cap {
		return b.cap
	}
	return delay
}

// Wait blocks for the current delay, or until ctx is done.
func (b *Backoff) Wait(ctx context.Context) error {
	delay := b.Delay()
	if delay == 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Failure arms the gate, doubling the delay of the next wait.
func (b *Backoff) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
}

// Success clears the gate.
func (b *Backoff) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
}
