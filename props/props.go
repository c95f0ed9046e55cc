// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package props implements ChemicalProps (C2): given (T,P,n) it evaluates
// every standard and phase-excess property in the fixed order described by
// SPEC_FULL.md §4.1, and exposes gradients through the ad package whenever
// the caller seeds a Dual input. ChemicalProps is rebuilt from scratch on
// every (T,P,n) change rather than incrementally invalidated, mirroring
// the teacher's re-evaluate-per-iteration convention in fem.Domain.
package props

import (
	"sync/atomic"

	"github.com/cpmech/gosl/chk"
	"github.com/reaktoro/Reaktoro-sub000/ad"
	"github.com/reaktoro/Reaktoro-sub000/chem"
)

const gasConstant = 8.31446261815324 // J/(mol.K)

var nextStateID int64 // process-wide monotonically increasing counter

// nextID returns a fresh, process-wide unique id, used for
// ChemicalProps.StateID (the state-id half of the AqueousProps
// memoization key, SPEC_FULL.md §6).
func nextID() int64 { return atomic.AddInt64(&nextStateID, 1) }

// PhaseProps collects the per-phase aggregates and per-species standard
// and excess properties of one phase at the last Update call.
type PhaseProps struct {
	// per-species standard-state properties
	G0, H0, V0, Cp0, Cv0 []ad.Number
	// per-species chemical potential and activity
	LnG, LnA, U []ad.Number
	// mole fractions
	X []ad.Number
	// excess aggregates
	Vex, VexT, VexP, Gex, Hex, Cpex ad.Number
	// phase aggregates
	V, G, H, Cp, N ad.Number
	// side-channel published by this phase's activity model
	Extra *chem.ActivityExtra
}

// ChemicalProps caches every standard and phase property evaluated from
// (T,P,n) for a ChemicalSystem, following the fixed evaluation order of
// SPEC_FULL.md §4.1.
type ChemicalProps struct {
	Sys *chem.ChemicalSystem

	T, P ad.Number
	N    []ad.Number // species amounts, one entry per system species

	Phases []PhaseProps

	// system aggregates
	V, G, H, Cp ad.Number
	U           []ad.Number // chemical potential per species (flattened)

	StateID int64
}

// New allocates an (uninitialized) ChemicalProps for sys; call Update
// before reading any field.
func New(sys *chem.ChemicalSystem) *ChemicalProps {
	return &ChemicalProps{
		Sys:    sys,
		Phases: make([]PhaseProps, sys.NumPhases()),
		U:      make([]ad.Number, sys.NumSpecies()),
	}
}

// Update evaluates every property at (T,P,n), following the order:
//  1. per-species standard thermo (Cv0 from Cp0/VT0/VP0)
//  2. mole fractions per phase (1/N_phase convention for a zero-amount phase)
//  3. the phase activity model
//  4. chemical potentials u_i = G0_i + R.T.ln(a_i)
//  5. phase and system aggregates
//
// n must have sys.NumSpecies() entries, one per system species in system
// order. Update bumps StateID unconditionally (it does not try to detect
// a no-op call), matching the "rebuilt from scratch" lifecycle rule.
func (cp *ChemicalProps) Update(T, P ad.Number, n []ad.Number) error {
	if len(n) != cp.Sys.NumSpecies() {
		return chk.Err("props.Update: n has %d entries, expected %d", len(n), cp.Sys.NumSpecies())
	}
	cp.T, cp.P, cp.N = T, P, n
	cp.StateID = nextID()

	cp.V, cp.G, cp.H, cp.Cp = ad.From(0), ad.From(0), ad.From(0), ad.From(0)

	for ip, ph := range cp.Sys.Phases() {
		begin, end := cp.Sys.SpeciesRangeInPhase(ip)
		nsp := end - begin

		pp := PhaseProps{
			G0: make([]ad.Number, nsp), H0: make([]ad.Number, nsp), V0: make([]ad.Number, nsp),
			Cp0: make([]ad.Number, nsp), Cv0: make([]ad.Number, nsp),
			LnG: make([]ad.Number, nsp), LnA: make([]ad.Number, nsp), U: make([]ad.Number, nsp),
			X: make([]ad.Number, nsp),
		}

		// step 1: standard thermo per species
		for k := 0; k < nsp; k++ {
			sp := ph.Species[k]
			st, err := sp.Thermo(T, P)
			if err != nil {
				return chk.Err("props.Update: standard-thermo model for %q failed: %v", sp.Name, err)
			}
			pp.G0[k], pp.H0[k], pp.V0[k], pp.Cp0[k] = st.G0, st.H0, st.V0, st.Cp0
			// Cv0 = Cp0 + T.VT0^2/VP0, with VP0 < 0
			ratio := ad.Div(ad.Mul(st.VT0, st.VT0), st.VP0)
			pp.Cv0[k] = ad.Add(st.Cp0, ad.Mul(T, ratio))
		}

		// step 2: mole fractions
		nTotal := ad.From(0)
		for k := 0; k < nsp; k++ {
			nTotal = ad.Add(nTotal, n[begin+k])
		}
		for k := 0; k < nsp; k++ {
			if nTotal.Value() == 0 {
				pp.X[k] = ad.From(1.0 / float64(nsp))
			} else {
				pp.X[k] = ad.Div(n[begin+k], nTotal)
			}
		}

		// step 3: activity model
		extra := chem.NewActivityExtra()
		act, err := ph.Activity(T, P, pp.X, extra)
		if err != nil {
			return chk.Err("props.Update: activity model for phase %q failed: %v", ph.Name, err)
		}
		pp.Vex, pp.VexT, pp.VexP = act.Vex, act.VexT, act.VexP
		pp.Gex, pp.Hex, pp.Cpex = act.Gex, act.Hex, act.Cpex
		pp.LnG, pp.LnA = act.LnG, act.LnA
		pp.Extra = extra

		// step 4: chemical potentials
		for k := 0; k < nsp; k++ {
			pp.U[k] = ad.Add(pp.G0[k], ad.Mul(ad.Scale(gasConstant, T), pp.LnA[k]))
			cp.U[begin+k] = pp.U[k]
		}

		// step 5: phase aggregates
		pp.V, pp.G, pp.H, pp.Cp = ad.From(0), ad.From(0), ad.From(0), ad.From(0)
		for k := 0; k < nsp; k++ {
			pp.V = ad.Add(pp.V, ad.Mul(pp.X[k], pp.V0[k]))
			pp.G = ad.Add(pp.G, ad.Mul(pp.X[k], pp.G0[k]))
			pp.H = ad.Add(pp.H, ad.Mul(pp.X[k], pp.H0[k]))
			pp.Cp = ad.Add(pp.Cp, ad.Mul(pp.X[k], pp.Cp0[k]))
		}
		pp.V = ad.Add(pp.V, pp.Vex)
		pp.G = ad.Add(pp.G, pp.Gex)
		pp.H = ad.Add(pp.H, pp.Hex)
		pp.Cp = ad.Add(pp.Cp, pp.Cpex)
		pp.N = nTotal

		cp.Phases[ip] = pp

		cp.V = ad.Add(cp.V, ad.Mul(nTotal, pp.V))
		cp.G = ad.Add(cp.G, ad.Mul(nTotal, pp.G))
		cp.H = ad.Add(cp.H, ad.Mul(nTotal, pp.H))
		cp.Cp = ad.Add(cp.Cp, ad.Mul(nTotal, pp.Cp))
	}

	return nil
}

// SpeciesAmount returns n_i for the species at flattened index i.
func (cp *ChemicalProps) SpeciesAmount(i int) ad.Number { return cp.N[i] }

// ChemicalPotential returns u_i for the species at flattened index i.
func (cp *ChemicalProps) ChemicalPotential(i int) ad.Number { return cp.U[i] }

// ElementAmount returns the total amount of element symbol across every
// species, b_element = sum_i W[element][i] * n_i.
func (cp *ChemicalProps) ElementAmount(symbol string) ad.Number {
	row := cp.Sys.IndexElement(symbol)
	if row < 0 {
		return ad.From(0)
	}
	W := cp.Sys.FormulaMatrix()
	total := ad.From(0)
	for i, ni := range cp.N {
		if W[row][i] != 0 {
			total = ad.Add(total, ad.Scale(W[row][i], ni))
		}
	}
	return total
}

// ElementAmountInPhase returns the amount of element symbol restricted to
// species in phase ip.
func (cp *ChemicalProps) ElementAmountInPhase(symbol string, ip int) ad.Number {
	row := cp.Sys.IndexElement(symbol)
	if row < 0 {
		return ad.From(0)
	}
	W := cp.Sys.FormulaMatrix()
	begin, end := cp.Sys.SpeciesRangeInPhase(ip)
	total := ad.From(0)
	for i := begin; i < end; i++ {
		if W[row][i] != 0 {
			total = ad.Add(total, ad.Scale(W[row][i], cp.N[i]))
		}
	}
	return total
}

// Charge returns the total system charge, sum_i z_i * n_i.
func (cp *ChemicalProps) Charge() ad.Number {
	row := cp.Sys.ChargeRow()
	W := cp.Sys.FormulaMatrix()
	total := ad.From(0)
	for i, ni := range cp.N {
		if W[row][i] != 0 {
			total = ad.Add(total, ad.Scale(W[row][i], ni))
		}
	}
	return total
}

// PhaseAmount returns the total amount of species (mol) in phase ip.
func (cp *ChemicalProps) PhaseAmount(ip int) ad.Number { return cp.Phases[ip].N }

// PhaseMass returns the mass (kg) of phase ip given the system's element
// molar masses; callers without molar-mass data should prefer PhaseAmount.
func (cp *ChemicalProps) PhaseMass(ip int, molarMass func(speciesIndex int) float64) ad.Number {
	begin, end := cp.Sys.SpeciesRangeInPhase(ip)
	total := ad.From(0)
	for i := begin; i < end; i++ {
		total = ad.Add(total, ad.Scale(molarMass(i), cp.N[i]))
	}
	return total
}
