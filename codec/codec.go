/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

// Package codec wraps the RaptorQ primitive (github.com/xssnick/raptorq)
// behind the encode/decode contract spec section 4.1 describes. It is the
// single place in this module that knows how to talk to the underlying
// erasure-coding library; everything above it treats the primitive as a
// black box.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/xssnick/raptorq"

	"github.com/driftwood-systems/rqcore/symbolcodec"
)

// ErrEmptyBlock is returned when Encode is asked to encode a zero-length
// block; the engine is expected to reject empty input before reaching here.
var ErrEmptyBlock = errors.New("codec: cannot encode an empty block")

// ErrDecodeFailed wraps codec-internal failures isolated by SafeDecode.
var ErrDecodeFailed = errors.New("codec: decode failed")

const transmissionParametersLen = 12

// TransmissionParameters is the 12-byte opaque descriptor a decoder needs to
// reconstruct a block: the block's original byte length (so the decoder
// knows when to stop expecting symbols) and the symbol size used to encode
// it. The last two bytes are reserved for future use and are always zero.
type TransmissionParameters [transmissionParametersLen]byte

// MarshalJSON renders the parameters as a JSON array of 12 unsigned byte
// values, matching the layout file format in spec section 6.
func (t TransmissionParameters) MarshalJSON() ([]byte, error) {
	nums := make([]int, transmissionParametersLen)
	for i, b := range t {
		nums[i] = int(b)
	}
	return marshalInts(nums)
}

// UnmarshalJSON parses a JSON array of byte values and rejects anything
// that isn't exactly 12 elements in [0, 255], per spec section 4.5.
func (t *TransmissionParameters) UnmarshalJSON(data []byte) error {
	nums, err := unmarshalInts(data)
	if err != nil {
		return err
	}
	if len(nums) != transmissionParametersLen {
		return fmt.Errorf("codec: encoder_parameters must have exactly %d elements, got %d", transmissionParametersLen, len(nums))
	}
	for i, n := range nums {
		if n < 0 || n > 255 {
			return fmt.Errorf("codec: encoder_parameters[%d]=%d out of byte range", i, n)
		}
		t[i] = byte(n)
	}
	return nil
}

func newTransmissionParameters(blockLen uint64, symbolSize uint16) TransmissionParameters {
	var t TransmissionParameters
	binary.BigEndian.PutUint64(t[0:8], blockLen)
	binary.BigEndian.PutUint16(t[8:10], symbolSize)
	return t
}

func (t TransmissionParameters) blockLen() uint64 {
	return binary.BigEndian.Uint64(t[0:8])
}

func (t TransmissionParameters) symbolSize() uint16 {
	return binary.BigEndian.Uint16(t[8:10])
}

// Adapter is the codec adapter of spec section 4.1, fixed to a single
// symbol size for the lifetime of a session.
type Adapter struct {
	symbolSize uint16
}

// New returns an Adapter that encodes and decodes using symbolSize-byte
// symbols.
func New(symbolSize uint16) *Adapter {
	return &Adapter{symbolSize: symbolSize}
}

// SourceSymbols returns ceil(blockLen / symbolSize), the number of source
// symbols a block of the given length requires.
func SourceSymbols(blockLen uint64, symbolSize uint16) uint32 {
	return uint32(math.Ceil(float64(blockLen) / float64(symbolSize)))
}

// Encode runs the RaptorQ primitive over blockBytes and returns the
// transmission parameters needed to later decode it, plus source symbols
// followed by repairCount repair symbols, in emission order.
func (a *Adapter) Encode(blockBytes []byte, repairCount uint32) (TransmissionParameters, []symbolcodec.Packet, error) {
	if len(blockBytes) == 0 {
		return TransmissionParameters{}, nil, ErrEmptyBlock
	}

	rq := raptorq.NewRaptorQ(a.symbolSize)
	enc, err := rq.CreateEncoder(blockBytes)
	if err != nil {
		return TransmissionParameters{}, nil, fmt.Errorf("codec: create encoder: %w", err)
	}

	source := SourceSymbols(uint64(len(blockBytes)), a.symbolSize)
	total := source + repairCount
	packets := make([]symbolcodec.Packet, 0, total)
	for esi := uint32(0); esi < total; esi++ {
		packets = append(packets, symbolcodec.Packet{
			ESI:  esi,
			Data: enc.GenSymbol(esi),
		})
	}

	return newTransmissionParameters(uint64(len(blockBytes)), a.symbolSize), packets, nil
}

// SafeDecode feeds packets into a fresh decoder one at a time, checking for
// completion after each addition, and returns as soon as the block is fully
// recovered. It isolates any internal failure of the RaptorQ primitive
// behind a recover() so a malformed or adversarial packet surfaces as a
// decoding error rather than a process-level panic — this is the
// safe_decode boundary spec section 4.1 and section 9 call for.
//
// ok is false (with a nil error) when packets are exhausted without
// reaching a decodable state; that is the "never, with what we have" case,
// distinct from a hard decode error.
func (a *Adapter) SafeDecode(params TransmissionParameters, packets []symbolcodec.Packet) (data []byte, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			ok = false
			err = fmt.Errorf("%w: %v", ErrDecodeFailed, r)
		}
	}()

	blockLen := params.blockLen()
	rq := raptorq.NewRaptorQ(params.symbolSize())
	dec, derr := rq.CreateDecoder(blockLen)
	if derr != nil {
		return nil, false, fmt.Errorf("codec: create decoder: %w", derr)
	}

	for _, p := range packets {
		canTry, aerr := dec.AddSymbol(p.ESI, p.Data)
		if aerr != nil {
			// Malformed or duplicate symbol: skip and keep trying others.
			continue
		}
		if !canTry {
			continue
		}
		success, result, decErr := dec.Decode()
		if decErr != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrDecodeFailed, decErr)
		}
		if success {
			if uint64(len(result)) < blockLen {
				return nil, false, fmt.Errorf("%w: reconstructed %d bytes, expected at least %d", ErrDecodeFailed, len(result), blockLen)
			}
			return result[:blockLen], true, nil
		}
	}

	return nil, false, nil
}
