/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

// Package symbolcodec serializes encoded RaptorQ packets to bytes and
// computes the content address used as their filename on disk.
package symbolcodec

import (
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"
)

// Packet is one encoded symbol: an encoding symbol ID (ESI) paired with its
// payload. The ESI distinguishes source symbols (ESI < source count) from
// repair symbols and is required to re-add the symbol to a decoder.
type Packet struct {
	ESI  uint32
	Data []byte
}

const headerLen = 4

// Serialize produces the deterministic byte form of a packet used both for
// persistence and for addressing: a 4-byte big-endian ESI followed by the
// raw symbol payload.
func Serialize(p Packet) []byte {
	out := make([]byte, headerLen+len(p.Data))
	binary.BigEndian.PutUint32(out[:headerLen], p.ESI)
	copy(out[headerLen:], p.Data)
	return out
}

// Deserialize inverts Serialize. It fails on input shorter than the header.
func Deserialize(b []byte) (Packet, error) {
	if len(b) < headerLen {
		return Packet{}, fmt.Errorf("symbolcodec: packet too short (%d bytes)", len(b))
	}
	data := make([]byte, len(b)-headerLen)
	copy(data, b[headerLen:])
	return Packet{
		ESI:  binary.BigEndian.Uint32(b[:headerLen]),
		Data: data,
	}, nil
}

// Address computes the content address of serialized packet bytes: a
// base58-encoded SHA3-256 digest, case-sensitive, with no padding. This is
// the symbol filename mandated by spec section 6.
func Address(serialized []byte) string {
	digest := sha3.Sum256(serialized)
	return base58.Encode(digest[:])
}
