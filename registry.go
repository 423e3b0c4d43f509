/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

package main

import (
	"sync"
	"sync/atomic"

	"github.com/driftwood-systems/rqcore/engine"
)

// registry is the process-wide session table of spec section 4.8: a
// mutex-guarded map from opaque handle to Engine, mirroring the teacher's
// pattern of a single mutex-guarded device map shared across cgo exports.
type registry struct {
	mu       sync.Mutex
	sessions map[uint64]*engine.Engine
	next     uint64
}

var sessions = &registry{sessions: make(map[uint64]*engine.Engine)}

// register inserts e under a freshly minted, non-zero handle.
func (r *registry) register(e *engine.Engine) uint64 {
	handle := atomic.AddUint64(&r.next, 1)

	r.mu.Lock()
	r.sessions[handle] = e
	r.mu.Unlock()

	return handle
}

// lookup returns the Engine for handle, or nil if the handle is unknown or
// has already been freed.
func (r *registry) lookup(handle uint64) *engine.Engine {
	if handle == 0 {
		return nil
	}
	r.mu.Lock()
	e := r.sessions[handle]
	r.mu.Unlock()
	return e
}

// unregister removes handle from the table. It reports whether the handle
// was present.
func (r *registry) unregister(handle uint64) bool {
	r.mu.Lock()
	_, ok := r.sessions[handle]
	delete(r.sessions, handle)
	r.mu.Unlock()
	return ok
}
