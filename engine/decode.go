/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

package engine

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/driftwood-systems/rqcore/layout"
	"github.com/driftwood-systems/rqcore/symbolcodec"
)

// Decode implements the decode orchestrator of spec section 4.7.
func (e *Engine) Decode(symbolsDir, outputPath, layoutPath string) error {
	release, ok := e.gov.TryAcquire()
	if !ok {
		return e.setLastError(newError(KindConcurrencyLimitReached, "no governor slot available", nil))
	}
	defer release()

	lay, err := layout.Read(layoutPath)
	if err != nil {
		if err == layout.ErrFileNotFound {
			return e.setLastError(newError(KindFileNotFound, layoutPath, err))
		}
		return e.setLastError(newError(KindDecodingFailed, "malformed layout", err))
	}

	out, err := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o644)
	if err != nil {
		return e.setLastError(newError(KindIO, "create output file", err))
	}
	defer out.Close()
	if err := out.Truncate(int64(lay.FileSize)); err != nil {
		return e.setLastError(newError(KindIO, "truncate output file", err))
	}

	blocks := lay.Blocks()
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].OriginalOffset < blocks[j].OriginalOffset })

	for _, b := range blocks {
		blockDir := filepath.Join(symbolsDir, b.BlockID)
		packets, err := collectPackets(blockDir, b.Symbols, e.log.WithBlock(b.BlockID))
		if err != nil {
			return e.setLastError(newError(KindDecodingFailed, b.BlockID, err))
		}

		data, ok, err := e.codec.SafeDecode(b.EncoderParameters, packets)
		if err != nil {
			return e.setLastError(newError(KindDecodingFailed, b.BlockID, err))
		}
		if !ok {
			return e.setLastError(newError(KindDecodingFailed, "decoding failed: insufficient symbols for "+b.BlockID, nil))
		}
		if uint64(len(data)) != b.Size {
			return e.setLastError(newError(KindDecodingFailed, "reconstructed size mismatch for "+b.BlockID, nil))
		}

		if _, err := out.WriteAt(data, int64(b.OriginalOffset)); err != nil {
			return e.setLastError(newError(KindIO, "write output block", err))
		}
	}

	return nil
}

// collectPackets implements spec section 4.7 steps 5a-5c: the preferred
// path reads exactly the named symbol files, skipping any that are absent;
// if that yields nothing, the fallback path scans the directory for
// whatever files exist.
func collectPackets(blockDir string, names []string, log Logger) ([]symbolcodec.Packet, error) {
	packets := readNamed(blockDir, names, log)
	if len(packets) > 0 {
		return packets, nil
	}

	entries, err := os.ReadDir(blockDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, err
	}

	fallback := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			fallback = append(fallback, entry.Name())
		}
	}
	return readNamed(blockDir, fallback, log), nil
}

func readNamed(blockDir string, names []string, log Logger) []symbolcodec.Packet {
	packets := make([]symbolcodec.Packet, 0, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(blockDir, name))
		if err != nil {
			log.Debugf("decode: skipping unreadable symbol %s: %v", name, err)
			continue
		}
		p, err := symbolcodec.Deserialize(raw)
		if err != nil {
			log.Errorf("decode: skipping malformed symbol %s: %v", name, err)
			continue
		}
		packets = append(packets, p)
	}
	return packets
}
