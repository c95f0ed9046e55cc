// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

// Result reports the outcome of one EquilibriumSolver.Solve call (C7).
type Result struct {
	Succeeded  bool
	Iterations int
	Elapsed    float64 // seconds
}

// Sensitivity holds the derivatives of the equilibrium state with respect
// to every input, obtained by one linear solve against the KKT system's
// right-hand side for each column of c=(w,b) (SPEC_FULL.md §4.4 step 5).
type Sensitivity struct {
	DnDw, DpDw, DqDw [][]float64
	DnDc, DpDc, DqDc [][]float64
	DuDw, DuDc       [][]float64
}
