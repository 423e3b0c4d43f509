/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/driftwood-systems/rqcore/codec"
	"github.com/driftwood-systems/rqcore/layout"
	"github.com/driftwood-systems/rqcore/symbolcodec"
)

const layoutFileName = "_raptorq_layout.json"

// EncodeFile implements the encode orchestrator of spec section 4.6. A
// requestedBlockSize of zero defers to the planner.
func (e *Engine) EncodeFile(inputPath, outputDir string, requestedBlockSize uint64) (*Result, error) {
	release, ok := e.gov.TryAcquire()
	if !ok {
		return nil, e.setLastError(newError(KindConcurrencyLimitReached, "no governor slot available", nil))
	}
	defer release()

	info, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, e.setLastError(newError(KindFileNotFound, inputPath, err))
		}
		return nil, e.setLastError(newError(KindIO, "stat input", err))
	}
	fileSize := uint64(info.Size())
	if fileSize == 0 {
		return nil, e.setLastError(newError(KindEmptyInput, "encoding failed: empty input", nil))
	}

	blockSize := e.effectiveBlockSize(fileSize, requestedBlockSize)
	if blockSize == 0 {
		return nil, e.setLastError(newError(KindEncodingFailed, "computed a zero block size", nil))
	}
	count := blockCount(fileSize, blockSize)
	if count <= 1 {
		if err := checkSingleBlockMemory(fileSize, e.cfg.MaxMemoryMB); err != nil {
			return nil, e.setLastError(err)
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, e.setLastError(newError(KindIO, "create output_dir", err))
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return nil, e.setLastError(newError(KindIO, "open input", err))
	}
	defer in.Close()

	lay := layout.New(fileSize)
	result := &Result{}
	seenAddresses := make(map[string]string) // address -> block_id, collision detection

	var offset uint64
	for blockIdx := uint64(0); offset < fileSize; blockIdx++ {
		size := blockSize
		if remaining := fileSize - offset; remaining < size {
			size = remaining
		}

		blockID := fmt.Sprintf("block_%d", blockIdx)
		blockDir := filepath.Join(outputDir, blockID)
		if err := os.MkdirAll(blockDir, 0o755); err != nil {
			return nil, e.setLastError(newError(KindIO, "create block directory", err))
		}

		buf := make([]byte, size)
		if _, err := in.ReadAt(buf, int64(offset)); err != nil {
			return nil, e.setLastError(newError(KindIO, "read input block", err))
		}

		repairCount := e.repairSymbolCount(size)
		params, packets, err := e.codec.Encode(buf, repairCount)
		if err != nil {
			return nil, e.setLastError(newError(KindEncodingFailed, blockID, err))
		}

		symbolNames := make([]string, 0, len(packets))
		for _, p := range packets {
			serialized := symbolcodec.Serialize(p)
			address := symbolcodec.Address(serialized)
			if owner, dup := seenAddresses[address]; dup && owner != blockID {
				return nil, e.setLastError(newError(KindEncodingFailed,
					fmt.Sprintf("symbol address %s collides across blocks %s and %s", address, owner, blockID), nil))
			}
			seenAddresses[address] = blockID

			symbolPath := filepath.Join(blockDir, address)
			if err := os.WriteFile(symbolPath, serialized, 0o644); err != nil {
				return nil, e.setLastError(newError(KindIO, "write symbol", err))
			}
			symbolNames = append(symbolNames, address)
		}

		sourceCount := uint64(len(packets)) - uint64(repairCount)
		lay.Add(layout.BlockEntry{
			BlockID:           blockID,
			OriginalOffset:    offset,
			Size:              size,
			EncoderParameters: params,
			Symbols:           symbolNames,
		})
		result.Blocks = append(result.Blocks, BlockSummary{
			BlockID:            blockID,
			OriginalOffset:     offset,
			Size:               size,
			SourceSymbolsCount: sourceCount,
			RepairSymbolsCount: uint64(repairCount),
		})
		result.TotalSourceSymbols += sourceCount
		result.TotalRepairSymbols += uint64(repairCount)

		offset += size
	}

	layoutPath := filepath.Join(outputDir, layoutFileName)
	if err := layout.Write(layoutPath, lay); err != nil {
		return nil, e.setLastError(newError(KindIO, "write layout", err))
	}
	result.LayoutFilePath = layoutPath

	return result, nil
}

// PlanLayout computes the same per-block layout EncodeFile would produce,
// without running the codec or writing any symbol files. It backs the
// metadata-only entry point of SPEC_FULL.md section 11.
func (e *Engine) PlanLayout(inputPath string, requestedBlockSize uint64) (*Result, error) {
	release, ok := e.gov.TryAcquire()
	if !ok {
		return nil, e.setLastError(newError(KindConcurrencyLimitReached, "no governor slot available", nil))
	}
	defer release()

	info, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, e.setLastError(newError(KindFileNotFound, inputPath, err))
		}
		return nil, e.setLastError(newError(KindIO, "stat input", err))
	}
	fileSize := uint64(info.Size())
	if fileSize == 0 {
		return nil, e.setLastError(newError(KindEmptyInput, "encoding failed: empty input", nil))
	}

	blockSize := e.effectiveBlockSize(fileSize, requestedBlockSize)
	count := blockCount(fileSize, blockSize)
	if count <= 1 {
		if err := checkSingleBlockMemory(fileSize, e.cfg.MaxMemoryMB); err != nil {
			return nil, e.setLastError(err)
		}
	}

	result := &Result{}
	var offset uint64
	for blockIdx := uint64(0); offset < fileSize; blockIdx++ {
		size := blockSize
		if remaining := fileSize - offset; remaining < size {
			size = remaining
		}
		source := uint64(codec.SourceSymbols(size, e.cfg.SymbolSize))
		repair := uint64(e.repairSymbolCount(size))

		result.Blocks = append(result.Blocks, BlockSummary{
			BlockID:            fmt.Sprintf("block_%d", blockIdx),
			OriginalOffset:     offset,
			Size:               size,
			SourceSymbolsCount: source,
			RepairSymbolsCount: repair,
		})
		result.TotalSourceSymbols += source
		result.TotalRepairSymbols += repair

		offset += size
	}

	return result, nil
}
