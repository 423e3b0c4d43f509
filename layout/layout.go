/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

// Package layout reads and writes the _raptorq_layout.json side file that
// records, for each block of an encoded file, enough metadata to decode it
// deterministically. See spec section 4.5 and section 6.
package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/btree"

	"github.com/driftwood-systems/rqcore/codec"
)

// ErrFileNotFound is returned by Read when the layout file is absent.
var ErrFileNotFound = errors.New("layout: file not found")

// ErrInvalid is returned by Read when the layout's block offsets don't tile
// the recorded file size, or a block fails other structural checks.
var ErrInvalid = errors.New("layout: invalid layout")

// BlockEntry is one block's layout record.
type BlockEntry struct {
	BlockID            string                       `json:"block_id"`
	OriginalOffset     uint64                       `json:"original_offset"`
	Size               uint64                       `json:"size"`
	EncoderParameters  codec.TransmissionParameters `json:"encoder_parameters"`
	Symbols            []string                     `json:"symbols"`
}

// Layout is the persisted record of spec section 3 / section 6. Blocks
// accumulated via Add are kept ordered by OriginalOffset in a btree so that
// "blocks ordered by original_offset ascending" is structural rather than
// dependent on callers re-sorting before every read.
type Layout struct {
	FileSize uint64 `json:"file_size"`

	tree *btree.BTreeG[blockByOffset]
}

type blockByOffset struct {
	offset uint64
	entry  BlockEntry
}

func lessByOffset(a, b blockByOffset) bool {
	return a.offset < b.offset
}

// New returns an empty layout for a file of the given size, ready to
// accumulate block entries via Add.
func New(fileSize uint64) *Layout {
	return &Layout{
		FileSize: fileSize,
		tree:     btree.NewG(32, lessByOffset),
	}
}

// Add records one block's layout entry.
func (l *Layout) Add(entry BlockEntry) {
	l.tree.ReplaceOrInsert(blockByOffset{offset: entry.OriginalOffset, entry: entry})
}

// Blocks returns the recorded block entries in ascending original_offset
// order.
func (l *Layout) Blocks() []BlockEntry {
	out := make([]BlockEntry, 0, l.tree.Len())
	l.tree.Ascend(func(item blockByOffset) bool {
		out = append(out, item.entry)
		return true
	})
	return out
}

// wireLayout is the JSON-serializable shape of a Layout; Layout itself
// carries an unexported btree that json can't (and shouldn't) touch
// directly.
type wireLayout struct {
	FileSize uint64       `json:"file_size"`
	Blocks   []BlockEntry `json:"blocks"`
}

// Write serializes the layout as human-readable JSON to path. This is the
// last artifact an encode writes, per spec section 5's ordering guarantee.
func Write(path string, l *Layout) error {
	w := wireLayout{FileSize: l.FileSize, Blocks: l.Blocks()}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return fmt.Errorf("layout: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("layout: write %s: %w", path, err)
	}
	return nil
}

// Read parses and validates the layout file at path. It rejects a layout
// whose block offsets do not tile [0, file_size) without gaps or overlap,
// per spec section 4.5.
func Read(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("layout: read %s: %w", path, err)
	}

	var w wireLayout
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %v", ErrInvalid, err)
	}

	l := New(w.FileSize)
	for _, b := range w.Blocks {
		if l.tree.Has(blockByOffset{offset: b.OriginalOffset}) {
			return nil, fmt.Errorf("%w: more than one block starts at %d", ErrInvalid, b.OriginalOffset)
		}
		l.Add(b)
	}

	if err := validateTiling(l); err != nil {
		return nil, err
	}

	return l, nil
}

func validateTiling(l *Layout) error {
	var offset uint64
	for _, b := range l.Blocks() {
		if b.OriginalOffset != offset {
			return fmt.Errorf("%w: block %q starts at %d, expected %d", ErrInvalid, b.BlockID, b.OriginalOffset, offset)
		}
		if b.Size == 0 {
			return fmt.Errorf("%w: block %q has zero size", ErrInvalid, b.BlockID)
		}
		offset += b.Size
	}
	if offset != l.FileSize {
		return fmt.Errorf("%w: blocks cover %d bytes, file_size is %d", ErrInvalid, offset, l.FileSize)
	}
	return nil
}
