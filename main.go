/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

// Command rqcore is a RaptorQ erasure-coding engine exposed as a C shared
// library. See SPEC_FULL.md for the full contract; this file is the cgo
// boundary that exports it.
package main

/*
#include <stdint.h>
#include <stdbool.h>
*/
import "C"

import (
	"encoding/json"

	"github.com/driftwood-systems/rqcore/engine"
)

const rqcoreVersion = "rqcore 0.1.0"

//export raptorq_init_session
func raptorq_init_session(symbolSize C.uint16_t, redundancyFactor C.uint8_t, maxMemoryMB C.uint64_t, concurrencyLimit C.uint64_t) C.uint64_t {
	cfg := engine.Config{
		SymbolSize:       uint16(symbolSize),
		RedundancyFactor: uint8(redundancyFactor),
		MaxMemoryMB:      uint64(maxMemoryMB),
		ConcurrencyLimit: uint64(concurrencyLimit),
	}
	e, err := engine.New(cfg)
	if err != nil {
		return 0
	}
	return C.uint64_t(sessions.register(e))
}

//export raptorq_free_session
func raptorq_free_session(handle C.uint64_t) C.bool {
	return C.bool(sessions.unregister(uint64(handle)))
}

//export raptorq_encode_file
func raptorq_encode_file(handle C.uint64_t, inputPath, outputDir *C.char, blockSize C.uint64_t, resultBuffer *C.char, resultBufferLen C.int32_t) C.int32_t {
	e := sessions.lookup(uint64(handle))
	if e == nil {
		return C.int32_t(codeInvalidSession)
	}
	if inputPath == nil || outputDir == nil {
		return C.int32_t(codeGeneric)
	}

	result, err := e.EncodeFile(C.GoString(inputPath), C.GoString(outputDir), uint64(blockSize))
	if err != nil {
		return C.int32_t(codeForError(err))
	}

	payload, err := json.Marshal(encodeResultJSON(result))
	if err != nil {
		return C.int32_t(codeGeneric)
	}
	if !writeFullString(resultBuffer, resultBufferLen, string(payload)) {
		return C.int32_t(codeBufferTooSmall)
	}
	return C.int32_t(codeOK)
}

//export raptorq_create_metadata
func raptorq_create_metadata(handle C.uint64_t, inputPath *C.char, blockSize C.uint64_t, resultBuffer *C.char, resultBufferLen C.int32_t) C.int32_t {
	e := sessions.lookup(uint64(handle))
	if e == nil {
		return C.int32_t(codeInvalidSession)
	}
	if inputPath == nil {
		return C.int32_t(codeGeneric)
	}

	result, err := e.PlanLayout(C.GoString(inputPath), uint64(blockSize))
	if err != nil {
		return C.int32_t(codeForError(err))
	}

	payload, err := json.Marshal(encodeResultJSON(result))
	if err != nil {
		return C.int32_t(codeGeneric)
	}
	if !writeFullString(resultBuffer, resultBufferLen, string(payload)) {
		return C.int32_t(codeBufferTooSmall)
	}
	return C.int32_t(codeOK)
}

//export raptorq_decode_symbols
func raptorq_decode_symbols(handle C.uint64_t, symbolsDir, outputPath, layoutPath *C.char) C.int32_t {
	e := sessions.lookup(uint64(handle))
	if e == nil {
		return C.int32_t(codeInvalidSession)
	}
	if symbolsDir == nil || outputPath == nil || layoutPath == nil {
		return C.int32_t(codeGeneric)
	}

	if err := e.Decode(C.GoString(symbolsDir), C.GoString(outputPath), C.GoString(layoutPath)); err != nil {
		return C.int32_t(codeForError(err))
	}
	return C.int32_t(codeOK)
}

//export raptorq_get_recommended_block_size
func raptorq_get_recommended_block_size(handle C.uint64_t, fileSize C.uint64_t) C.uint64_t {
	e := sessions.lookup(uint64(handle))
	if e == nil {
		return 0
	}
	return C.uint64_t(e.RecommendedBlockSize(uint64(fileSize)))
}

//export raptorq_get_last_error
func raptorq_get_last_error(handle C.uint64_t, buffer *C.char, bufferLen C.int32_t) C.int32_t {
	e := sessions.lookup(uint64(handle))
	if e == nil {
		return C.int32_t(codeInvalidSession)
	}
	writeTruncatedString(buffer, bufferLen, e.LastError())
	return C.int32_t(codeOK)
}

//export raptorq_version
func raptorq_version(buffer *C.char, bufferLen C.int32_t) C.int32_t {
	if !writeFullString(buffer, bufferLen, rqcoreVersion) {
		return C.int32_t(codeBufferTooSmall)
	}
	return C.int32_t(codeOK)
}

// resultJSON is the shape of the JSON document written to result_buffer on
// a successful encode_file or create_metadata call.
type resultJSON struct {
	LayoutFilePath     string            `json:"layout_file_path,omitempty"`
	TotalSourceSymbols uint64            `json:"total_source_symbols"`
	TotalRepairSymbols uint64            `json:"total_repair_symbols"`
	Blocks             []blockSummaryJSON `json:"blocks"`
}

type blockSummaryJSON struct {
	BlockID            string `json:"block_id"`
	OriginalOffset     uint64 `json:"original_offset"`
	Size               uint64 `json:"size"`
	SourceSymbolsCount uint64 `json:"source_symbols_count"`
	RepairSymbolsCount uint64 `json:"repair_symbols_count"`
}

func encodeResultJSON(r *engine.Result) resultJSON {
	blocks := make([]blockSummaryJSON, 0, len(r.Blocks))
	for _, b := range r.Blocks {
		blocks = append(blocks, blockSummaryJSON{
			BlockID:            b.BlockID,
			OriginalOffset:     b.OriginalOffset,
			Size:               b.Size,
			SourceSymbolsCount: b.SourceSymbolsCount,
			RepairSymbolsCount: b.RepairSymbolsCount,
		})
	}
	return resultJSON{
		LayoutFilePath:     r.LayoutFilePath,
		TotalSourceSymbols: r.TotalSourceSymbols,
		TotalRepairSymbols: r.TotalRepairSymbols,
		Blocks:             blocks,
	}
}

// Required by cgo for -buildmode=c-shared; never invoked directly.
func main() {}
