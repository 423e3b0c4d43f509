/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func testConfig(maxMemoryMB, concurrencyLimit uint64) Config {
	return Config{
		SymbolSize:       128,
		RedundancyFactor: 4,
		MaxMemoryMB:      maxMemoryMB,
		ConcurrencyLimit: concurrencyLimit,
	}
}

func TestEncodeFileRejectsMissingInput(t *testing.T) {
	e, err := New(testConfig(64, 4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dir := t.TempDir()
	_, err = e.EncodeFile(filepath.Join(dir, "nope.bin"), filepath.Join(dir, "out"), 0)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if e.LastError() == "" {
		t.Fatal("LastError should be set after a failure")
	}
}

func TestEncodeFileRejectsEmptyInput(t *testing.T) {
	e, err := New(testConfig(64, 4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "empty.bin")
	if err := os.WriteFile(inputPath, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err = e.EncodeFile(inputPath, filepath.Join(dir, "out"), 0)
	if err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestEncodeFileSingleByteFile(t *testing.T) {
	e, err := New(testConfig(64, 4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "one.bin")
	if err := os.WriteFile(inputPath, []byte{0x42}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	outDir := filepath.Join(dir, "out")

	result, err := e.EncodeFile(inputPath, outDir, 0)
	if err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	if len(result.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(result.Blocks))
	}
	b := result.Blocks[0]
	if b.SourceSymbolsCount != 1 {
		t.Errorf("SourceSymbolsCount = %d, want 1", b.SourceSymbolsCount)
	}
	if b.RepairSymbolsCount != uint64(e.cfg.RedundancyFactor) {
		t.Errorf("RepairSymbolsCount = %d, want %d", b.RepairSymbolsCount, e.cfg.RedundancyFactor)
	}
	if _, err := os.Stat(result.LayoutFilePath); err != nil {
		t.Errorf("layout file missing: %v", err)
	}
}

func TestEncodeFileChunksLargeInput(t *testing.T) {
	cfg := testConfig(1, 4) // tiny memory budget forces multiple blocks
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "big.bin")
	// safeBytes(1) ~= 699050 bytes; this file must exceed that to ever reach
	// the chunking target at all (spec section 4.3's primary rule).
	data := make([]byte, 2_000_000)
	for i := range data {
		data[i] = byte(i)
	}
	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	outDir := filepath.Join(dir, "out")

	result, err := e.EncodeFile(inputPath, outDir, 0)
	if err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	if len(result.Blocks) < 2 {
		t.Fatalf("expected multiple blocks with a 1 MB budget and a file past safe_bytes, got %d", len(result.Blocks))
	}

	var covered uint64
	for _, b := range result.Blocks {
		if b.OriginalOffset != covered {
			t.Fatalf("block %s starts at %d, expected %d", b.BlockID, b.OriginalOffset, covered)
		}
		covered += b.Size
	}
	if covered != uint64(len(data)) {
		t.Fatalf("blocks cover %d bytes, want %d", covered, len(data))
	}
}

func TestEncodeFileSingleBlockBelowSafeBytes(t *testing.T) {
	// A file under safe_bytes must not be chunked at all, even though it is
	// far larger than a single symbol — spec section 4.3's primary rule.
	// maxMemoryMB=3 gives safeBytes ~= 2 MiB (comfortably above the file
	// below) while still passing the single-block memory pre-flight, which
	// estimates ceil(fileSize/1MiB)*2.5 MB for a single-block encode.
	e, err := New(testConfig(3, 4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "mid.bin")
	data := make([]byte, 200_000) // well under safe_bytes
	for i := range data {
		data[i] = byte(i)
	}
	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	outDir := filepath.Join(dir, "out")

	result, err := e.EncodeFile(inputPath, outDir, 0)
	if err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	if len(result.Blocks) != 1 {
		t.Fatalf("got %d blocks, want exactly 1 for a file under safe_bytes", len(result.Blocks))
	}
	if result.Blocks[0].Size != uint64(len(data)) {
		t.Fatalf("single block size = %d, want %d", result.Blocks[0].Size, len(data))
	}
}

func TestEncodeFileConcurrencyLimitRejectsWhenFull(t *testing.T) {
	e, err := New(testConfig(64, 1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	release, ok := e.gov.TryAcquire()
	if !ok {
		t.Fatal("expected first acquire to succeed")
	}
	defer release()

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "x.bin")
	if err := os.WriteFile(inputPath, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err = e.EncodeFile(inputPath, filepath.Join(dir, "out"), 0)
	if err == nil {
		t.Fatal("expected concurrency limit error")
	}
}
