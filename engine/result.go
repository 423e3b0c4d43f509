/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

package engine

// BlockSummary reports, per block, what EncodeFile or PlanLayout produced.
type BlockSummary struct {
	BlockID            string
	OriginalOffset     uint64
	Size               uint64
	SourceSymbolsCount uint64
	RepairSymbolsCount uint64
}

// SymbolsCount is the total number of symbols (source plus repair) written
// for this block.
func (b BlockSummary) SymbolsCount() uint64 {
	return b.SourceSymbolsCount + b.RepairSymbolsCount
}

// Result is what EncodeFile and PlanLayout return: a summary of the layout
// they produced, without requiring the caller to re-read the layout file.
type Result struct {
	LayoutFilePath     string
	TotalSourceSymbols uint64
	TotalRepairSymbols uint64
	Blocks             []BlockSummary
}
