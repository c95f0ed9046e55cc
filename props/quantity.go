// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package props

import "github.com/cpmech/gosl/chk"

// MoleFraction returns the mole fraction of the species at flattened index
// ispecies within its own phase. Resolves the off-by-one named in
// SPEC_FULL.md §9/§10: the out-of-range test is ispecies >= NumSpecies(),
// not ispecies > NumSpecies().
func MoleFraction(cp *ChemicalProps, ispecies int) (float64, error) {
	n := cp.Sys.NumSpecies()
	if ispecies < 0 || ispecies >= n {
		return 0, chk.Err("props.MoleFraction: species index %d out of range [0,%d)", ispecies, n)
	}
	ip := cp.Sys.PhaseOfSpecies(ispecies)
	begin, _ := cp.Sys.SpeciesRangeInPhase(ip)
	return cp.Phases[ip].X[ispecies-begin].Value(), nil
}

// ElementAmountValue is a float64 convenience wrapper over
// ChemicalProps.ElementAmount, for callers that do not need derivatives.
func ElementAmountValue(cp *ChemicalProps, symbol string) float64 {
	return cp.ElementAmount(symbol).Value()
}

// ElementAmountInPhaseValue is a float64 convenience wrapper over
// ChemicalProps.ElementAmountInPhase.
func ElementAmountInPhaseValue(cp *ChemicalProps, symbol string, ip int) float64 {
	return cp.ElementAmountInPhase(symbol, ip).Value()
}

// PhaseAmountValue is a float64 convenience wrapper over
// ChemicalProps.PhaseAmount.
func PhaseAmountValue(cp *ChemicalProps, ip int) float64 {
	return cp.PhaseAmount(ip).Value()
}

// ChargeValue is a float64 convenience wrapper over ChemicalProps.Charge.
func ChargeValue(cp *ChemicalProps) float64 {
	return cp.Charge().Value()
}
