/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

package main

import "github.com/driftwood-systems/rqcore/engine"

// Stable C ABI error codes, per spec section 6. Never renumber these; hosts
// link against them.
const (
	codeOK                      int32 = 0
	codeGeneric                 int32 = -1
	codeFileNotFound            int32 = -2
	codeEncodingFailed          int32 = -3
	codeInvalidSession          int32 = -4
	codeBufferTooSmall          int32 = -5
	codeIO                      int32 = -11
	codeFileNotFoundRich        int32 = -12
	codeInvalidPath             int32 = -13
	codeEncodingFailedRich      int32 = -14
	codeDecodingFailedRich      int32 = -15
	codeMemoryLimitExceeded     int32 = -16
	codeConcurrencyLimitReached int32 = -17
)

// codeForError maps an engine error to its stable C ABI code. Non-engine
// errors (a malformed UTF-8 argument, a nil pointer) fall through to the
// generic code.
func codeForError(err error) int32 {
	if err == nil {
		return codeOK
	}
	ee, ok := err.(*engine.Error)
	if !ok {
		return codeGeneric
	}
	switch ee.Kind {
	case engine.KindIO:
		return codeIO
	case engine.KindFileNotFound:
		return codeFileNotFoundRich
	case engine.KindInvalidPath:
		return codeInvalidPath
	case engine.KindEmptyInput, engine.KindEncodingFailed:
		return codeEncodingFailedRich
	case engine.KindDecodingFailed:
		return codeDecodingFailedRich
	case engine.KindMemoryLimitExceeded:
		return codeMemoryLimitExceeded
	case engine.KindConcurrencyLimitReached:
		return codeConcurrencyLimitReached
	case engine.KindInvalidSession:
		return codeInvalidSession
	case engine.KindBufferTooSmall:
		return codeBufferTooSmall
	default:
		return codeGeneric
	}
}
