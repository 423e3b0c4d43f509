/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

package engine

// safeBytes returns floor(maxMemoryMB*1MiB / 1.5), the working-set budget
// spec section 4.3 plans blocks against.
func safeBytes(maxMemoryMB uint64) uint64 {
	return uint64(float64(maxMemoryMB*bytesPerMiB) / 1.5)
}

// planBlockSize implements spec section 4.3's block-size policy when the
// caller hasn't overridden it. The primary rule is checked first: if the
// whole file fits under the safe-bytes budget, it is not chunked at all and
// the effective block size is the file size itself (one block, covering
// the entire input). Only once fileSize reaches safeBytes does the target
// block size kick in: floor(safeBytes/4), rounded down to a multiple of
// symbolSize, with a floor of one symbol's worth of bytes.
func planBlockSize(fileSize, maxMemoryMB uint64, symbolSize uint16) uint64 {
	safe := safeBytes(maxMemoryMB)
	if fileSize < safe {
		return fileSize
	}

	target := safe / 4
	sym := uint64(symbolSize)
	rounded := (target / sym) * sym
	if rounded < sym {
		rounded = sym
	}
	return rounded
}

// blockCount returns ceil(fileSize/blockSize), the number of blocks a file
// splits into at the given block size. blockSize must be greater than zero.
func blockCount(fileSize, blockSize uint64) uint64 {
	if fileSize == 0 {
		return 0
	}
	return (fileSize + blockSize - 1) / blockSize
}
