/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e, err := New(testConfig(64, 4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.bin")
	data := make([]byte, 5000)
	for i := range data {
		data[i] = byte(i * 7)
	}
	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	outDir := filepath.Join(dir, "out")

	result, err := e.EncodeFile(inputPath, outDir, 0)
	if err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}

	outputPath := filepath.Join(dir, "restored.bin")
	if err := e.Decode(outDir, outputPath, result.LayoutFilePath); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	got, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("decoded output does not match original input")
	}
}

func TestDecodeFailsOnMissingLayout(t *testing.T) {
	e, err := New(testConfig(64, 4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dir := t.TempDir()
	err = e.Decode(dir, filepath.Join(dir, "out.bin"), filepath.Join(dir, "missing_layout.json"))
	if err == nil {
		t.Fatal("expected error for missing layout")
	}
}

func TestDecodeFailsWithInsufficientSymbols(t *testing.T) {
	e, err := New(testConfig(64, 4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.bin")
	data := bytes.Repeat([]byte{0xAB}, 3000)
	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	outDir := filepath.Join(dir, "out")

	result, err := e.EncodeFile(inputPath, outDir, 0)
	if err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}

	// Delete every symbol in the first block to force an insufficient-symbols
	// failure on decode.
	blockDir := filepath.Join(outDir, result.Blocks[0].BlockID)
	entries, err := os.ReadDir(blockDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, entry := range entries {
		if err := os.Remove(filepath.Join(blockDir, entry.Name())); err != nil {
			t.Fatalf("Remove: %v", err)
		}
	}

	outputPath := filepath.Join(dir, "restored.bin")
	if err := e.Decode(outDir, outputPath, result.LayoutFilePath); err == nil {
		t.Fatal("expected decoding failure with all symbols removed")
	}
}
