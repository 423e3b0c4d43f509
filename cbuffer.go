/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

package main

/*
#include <stdint.h>
*/
import "C"
import "unsafe"

// writeFullString performs the result_buffer write rule of spec section 4.8:
// all-or-nothing. It writes s plus a trailing null terminator into buf if
// and only if it fits; otherwise it writes nothing and reports false.
func writeFullString(buf *C.char, bufLen C.int32_t, s string) bool {
	if buf == nil || bufLen <= 0 {
		return false
	}
	need := len(s) + 1
	if need > int(bufLen) {
		return false
	}

	dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(bufLen))
	copy(dst, s)
	dst[len(s)] = 0
	return true
}

// writeTruncatedString performs get_last_error's non-failure truncation
// rule: the string is copied up to bufLen-1 bytes, always null-terminated.
// It never fails; an empty or zero-length buffer simply yields no copy.
func writeTruncatedString(buf *C.char, bufLen C.int32_t, s string) {
	if buf == nil || bufLen <= 0 {
		return
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(bufLen))
	n := len(s)
	if n > int(bufLen)-1 {
		n = int(bufLen) - 1
	}
	copy(dst, s[:n])
	dst[n] = 0
}
