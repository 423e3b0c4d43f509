/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

package engine

import (
	"fmt"
	"sync"
)

// Governor is the non-blocking counting semaphore of spec section 4.4: it
// admits at most limit concurrent encode/decode operations and rejects
// anything beyond that immediately rather than queuing callers.
type Governor struct {
	mu     sync.Mutex
	active uint64
	limit  uint64
}

// NewGovernor returns a Governor admitting up to limit concurrent operations.
func NewGovernor(limit uint64) *Governor {
	return &Governor{limit: limit}
}

// TryAcquire attempts to reserve one slot. ok is false if the session is
// already at its concurrency limit, in which case release is nil. release
// is idempotent: calling it more than once only frees the slot once.
func (g *Governor) TryAcquire() (release func(), ok bool) {
	g.mu.Lock()
	if g.active >= g.limit {
		g.mu.Unlock()
		return nil, false
	}
	g.active++
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.active--
			g.mu.Unlock()
		})
	}, true
}

// Active reports the number of operations currently holding a slot.
func (g *Governor) Active() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

const bytesPerMiB = 1 << 20

// checkSingleBlockMemory applies spec section 4.3's pre-flight check, which
// only runs when a file will be processed as exactly one block: the
// estimated working set is ceil(fileSize/1MiB) * 2.5 MiB, and it must not
// exceed maxMemoryMB.
func checkSingleBlockMemory(fileSize uint64, maxMemoryMB uint64) error {
	fileMiB := (fileSize + bytesPerMiB - 1) / bytesPerMiB
	estimate := float64(fileMiB) * 2.5
	if estimate > float64(maxMemoryMB) {
		return newError(KindMemoryLimitExceeded, fmt.Sprintf(
			"single-block encode would need an estimated %.1f MB, exceeding max_memory_mb=%d", estimate, maxMemoryMB,
		), nil)
	}
	return nil
}
