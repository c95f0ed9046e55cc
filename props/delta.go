// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package props

// Delta wraps a time-series-style quantity function fn so that every call
// returns fn() - initialval, resolving the "incomplete" delta wrapper named
// in SPEC_FULL.md §9/§10 (the original's inner closure returned void on
// subsequent calls). initialval is captured once, at the moment Delta is
// called, by evaluating fn immediately.
func Delta(fn func() float64) func() float64 {
	initial := fn()
	return func() float64 {
		return fn() - initial
	}
}
