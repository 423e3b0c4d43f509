/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

package engine

import "github.com/klauspost/cpuid/v2"

// Default configuration values, named the way the teacher names its
// Default* constants (see device.DefaultMaxMemoryMB and friends).
const (
	// DefaultSymbolSize is the default per-symbol payload size in bytes.
	DefaultSymbolSize uint16 = 50_000

	// DefaultRedundancyFactor is the default redundancy factor; see
	// repairSymbolCount for how it sets the repair-symbol count.
	DefaultRedundancyFactor uint8 = 12
)

// Config holds the immutable, per-session configuration of spec section 3.
type Config struct {
	// SymbolSize is the payload size, in bytes, of each encoded symbol.
	SymbolSize uint16

	// RedundancyFactor drives the repair-symbol count; see repairSymbolCount.
	RedundancyFactor uint8

	// MaxMemoryMB bounds the per-block working-set estimate used by the
	// planner and the governor's memory pre-flight check.
	MaxMemoryMB uint64

	// ConcurrencyLimit is the maximum number of simultaneous encode/decode
	// operations the session's governor admits.
	ConcurrencyLimit uint64
}

// DefaultConfig returns a Config using DefaultSymbolSize and
// DefaultRedundancyFactor, with the given memory and concurrency budgets.
func DefaultConfig(maxMemoryMB, concurrencyLimit uint64) Config {
	return Config{
		SymbolSize:       DefaultSymbolSize,
		RedundancyFactor: DefaultRedundancyFactor,
		MaxMemoryMB:      maxMemoryMB,
		ConcurrencyLimit: concurrencyLimit,
	}
}

// RecommendedConcurrencyLimit derives a concurrency budget from the host's
// logical core count, for hosts that would rather not hand-pick one. It is
// a convenience on top of spec section 3, not a requirement of it.
func RecommendedConcurrencyLimit() uint64 {
	cores := cpuid.CPU.LogicalCores
	if cores < 1 {
		return 1
	}
	return uint64(cores)
}

func (c Config) validate() error {
	if c.SymbolSize == 0 {
		return newError(KindGeneric, "symbol_size must be greater than zero", nil)
	}
	if c.RedundancyFactor == 0 {
		return newError(KindGeneric, "redundancy_factor must be at least 1", nil)
	}
	if c.ConcurrencyLimit == 0 {
		return newError(KindGeneric, "concurrency_limit must be at least 1", nil)
	}
	if c.MaxMemoryMB == 0 {
		return newError(KindGeneric, "max_memory_mb must be greater than zero", nil)
	}
	return nil
}
