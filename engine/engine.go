/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

// Package engine implements the resource-bounded chunking pipeline of spec
// sections 3 and 4: an Engine owns a session's configuration, its resource
// governor, and the codec adapter its encode/decode orchestrators share.
package engine

import (
	"sync"

	"github.com/driftwood-systems/rqcore/codec"
)

// Engine is one session's worth of state, grounded on device.Device's role
// as the long-lived object a session's operations hang off of.
type Engine struct {
	cfg   Config
	gov   *Governor
	codec *codec.Adapter
	log   Logger

	mu           sync.Mutex
	lastErrorMsg string
}

// Option customizes a newly constructed Engine.
type Option func(*Engine)

// WithLogger overrides the Engine's default no-op Logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New validates cfg and returns a ready-to-use Engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:   cfg,
		gov:   NewGovernor(cfg.ConcurrencyLimit),
		codec: codec.New(cfg.SymbolSize),
		log:   noopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// LastError returns the message of the most recent error this Engine
// recorded, or the empty string if none has occurred yet. It backs the C
// ABI's raptorq_get_last_error.
func (e *Engine) LastError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErrorMsg
}

// setLastError records err's message (if non-nil) and returns err
// unchanged, so callers can write `return e.setLastError(err)`.
func (e *Engine) setLastError(err error) error {
	if err == nil {
		return nil
	}
	e.mu.Lock()
	e.lastErrorMsg = err.Error()
	e.mu.Unlock()
	return err
}

// RecommendedBlockSize reports the block size EncodeFile would choose for a
// file of the given size when the caller passes blockSize=0, without
// performing any encoding.
func (e *Engine) RecommendedBlockSize(fileSize uint64) uint64 {
	return e.effectiveBlockSize(fileSize, 0)
}

// effectiveBlockSize applies spec section 4.3: a non-zero caller override
// is honored as-is; otherwise the planner decides, and the planner's
// primary rule is file_size against safe_bytes, not file_size against the
// already-computed chunking target.
func (e *Engine) effectiveBlockSize(fileSize uint64, override uint64) uint64 {
	if override != 0 {
		return override
	}
	return planBlockSize(fileSize, e.cfg.MaxMemoryMB, e.cfg.SymbolSize)
}

// repairSymbolCount derives the number of repair symbols to generate for a
// block of the given byte size, per spec section 4.6: redundancy_factor
// itself when the block fits in a single symbol, otherwise scaled by block
// size relative to symbol size.
func (e *Engine) repairSymbolCount(blockSize uint64) uint32 {
	rf := uint64(e.cfg.RedundancyFactor)
	sym := uint64(e.cfg.SymbolSize)
	if blockSize <= sym {
		return uint32(rf)
	}
	return uint32((blockSize*(rf-1) + sym - 1) / sym)
}
