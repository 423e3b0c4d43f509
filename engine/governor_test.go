/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Driftwood Systems. All Rights Reserved.
 */

package engine

import "testing"

func TestGovernorAdmitsUpToLimit(t *testing.T) {
	g := NewGovernor(2)

	rel1, ok := g.TryAcquire()
	if !ok {
		t.Fatal("first acquire should succeed")
	}
	rel2, ok := g.TryAcquire()
	if !ok {
		t.Fatal("second acquire should succeed")
	}
	if _, ok := g.TryAcquire(); ok {
		t.Fatal("third acquire should be rejected at limit=2")
	}
	if g.Active() != 2 {
		t.Fatalf("Active() = %d, want 2", g.Active())
	}

	rel1()
	if g.Active() != 1 {
		t.Fatalf("Active() after one release = %d, want 1", g.Active())
	}

	if _, ok := g.TryAcquire(); !ok {
		t.Fatal("acquire should succeed again after a release")
	}

	rel2()
	rel2() // idempotent: must not underflow active
	if g.Active() != 1 {
		t.Fatalf("Active() after double release = %d, want 1", g.Active())
	}
}

func TestCheckSingleBlockMemory(t *testing.T) {
	// 10 MiB file -> ceil(10) * 2.5 = 25 MB estimate.
	if err := checkSingleBlockMemory(10*bytesPerMiB, 25); err != nil {
		t.Fatalf("expected no error at the boundary, got %v", err)
	}
	if err := checkSingleBlockMemory(10*bytesPerMiB, 24); err == nil {
		t.Fatal("expected memory limit error just under the boundary")
	}
}
