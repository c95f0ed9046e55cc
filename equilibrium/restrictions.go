// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"math"

	"github.com/reaktoro/Reaktoro-sub000/chem"
)

// Restrictions holds per-species lower/upper amount bounds (C5):
// cannot-decrease, cannot-decrease-below, cannot-increase[-above], or
// fixed-at-initial-amount ("cannot react").
type Restrictions struct {
	sys    *chem.ChemicalSystem
	lower  []float64 // read only where hasLow is set (else the epsilon floor); NaN means "n0"
	upper  []float64 // read only where hasUp is set (else +inf); NaN means "n0"
	hasLow []bool
	hasUp  []bool
	fixed  []bool
}

// NewRestrictions returns a Restrictions with no bounds set for sys.
func NewRestrictions(sys *chem.ChemicalSystem) *Restrictions {
	n := sys.NumSpecies()
	return &Restrictions{
		sys:    sys,
		lower:  make([]float64, n),
		upper:  make([]float64, n),
		hasLow: make([]bool, n),
		hasUp:  make([]bool, n),
		fixed:  make([]bool, n),
	}
}

// CannotDecrease prevents species from decreasing below its current
// amount n0 (the lower bound is set once Resolve is given n0).
func (r *Restrictions) CannotDecrease(species string) *Restrictions {
	i := r.sys.IndexSpecies(species)
	r.hasLow[i] = true
	r.lower[i] = math.NaN() // sentinel: "use n0 at resolve time"
	return r
}

// CannotDecreaseBelow sets an explicit lower bound on species' amount.
func (r *Restrictions) CannotDecreaseBelow(species string, amount float64) *Restrictions {
	i := r.sys.IndexSpecies(species)
	r.hasLow[i] = true
	r.lower[i] = amount
	return r
}

// CannotIncrease prevents species from increasing above its current
// amount n0.
func (r *Restrictions) CannotIncrease(species string) *Restrictions {
	i := r.sys.IndexSpecies(species)
	r.hasUp[i] = true
	r.upper[i] = math.NaN() // sentinel: "use n0 at resolve time"
	return r
}

// CannotIncreaseAbove sets an explicit upper bound on species' amount.
func (r *Restrictions) CannotIncreaseAbove(species string, amount float64) *Restrictions {
	i := r.sys.IndexSpecies(species)
	r.hasUp[i] = true
	r.upper[i] = amount
	return r
}

// CannotReact fixes species at its initial amount n0 (both bounds equal
// n0); used for the inert-reaction scenario of SPEC_FULL.md §8 scenario 4
// when the caller prefers a bound-based restriction over a reactivity
// constraint.
func (r *Restrictions) CannotReact(species string) *Restrictions {
	i := r.sys.IndexSpecies(species)
	r.fixed[i] = true
	return r
}

// Resolve returns the (lower,upper) bound vectors for every species given
// the epsilon floor and the initial amounts n0, materializing the
// CannotDecrease/CannotIncrease/CannotReact sentinels against n0.
func (r *Restrictions) Resolve(epsilon float64, n0 []float64) (lower, upper []float64) {
	n := r.sys.NumSpecies()
	lower = make([]float64, n)
	upper = make([]float64, n)
	for i := 0; i < n; i++ {
		lower[i] = epsilon
		upper[i] = math.Inf(1)
		if r.hasLow[i] {
			if math.IsNaN(r.lower[i]) {
				lower[i] = n0[i]
			} else {
				lower[i] = r.lower[i]
			}
		}
		if r.hasUp[i] {
			if math.IsNaN(r.upper[i]) {
				upper[i] = n0[i]
			} else {
				upper[i] = r.upper[i]
			}
		}
		if r.fixed[i] {
			lower[i] = n0[i]
			upper[i] = n0[i]
		}
	}
	return
}
