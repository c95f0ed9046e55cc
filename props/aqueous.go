// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package props

import (
	"math"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/reaktoro/Reaktoro-sub000/ad"
	"github.com/reaktoro/Reaktoro-sub000/chem"
)

// AqueousProps is a derived view over a ChemicalProps restricted to the
// aqueous phase: pH, pE, Eh and ionic strength; saturation indices are not
// computed. It is
// not part of ChemicalProps itself (SPEC_FULL.md §10, supplemented from
// original_source) because most property queries never need it.
type AqueousProps struct {
	PH             ad.Number
	PE             ad.Number
	Eh             ad.Number
	IonicStrength  ad.Number
	aqueousPhase   int
}

// cacheKey identifies one memoized AqueousProps computation by the owning
// system's identity and the source ChemicalProps' StateID, per
// SPEC_FULL.md §6: invalidation is by cheap stateid comparison, not content
// equality, so every ChemicalProps.Update bumps StateID.
type cacheKey struct {
	sys     *chem.ChemicalSystem
	stateID int64
}

var aqueousCache sync.Map // cacheKey -> *AqueousProps, thread-local in spirit (keyed, not shared mutable state)

// Compute returns the AqueousProps derived from cp, memoized per
// (cp.Sys, cp.StateID) so that repeated queries against the same converged
// state do not re-derive pH/pE/Eh/ionic strength. A stale cp.StateID
// (after a later Update) simply misses the cache and recomputes.
func Compute(cp *ChemicalProps) (*AqueousProps, error) {
	key := cacheKey{sys: cp.Sys, stateID: cp.StateID}
	if v, ok := aqueousCache.Load(key); ok {
		return v.(*AqueousProps), nil
	}

	iaq := -1
	for ip, ph := range cp.Sys.Phases() {
		if ph.State == chem.Aqueous {
			iaq = ip
			break
		}
	}
	if iaq < 0 {
		return nil, chk.Err("props.Compute: system has no aqueous phase")
	}

	begin, end := cp.Sys.SpeciesRangeInPhase(iaq)
	ihplus := cp.Sys.IndexSpecies("H+")
	ieminus := cp.Sys.IndexSpecies("e-")
	if ihplus < 0 {
		return nil, chk.Err("props.Compute: aqueous phase has no H+ species, cannot compute pH")
	}

	lnaH := cp.Phases[iaq].LnA[ihplus-begin]
	ln10 := math.Log(10)
	pH := ad.Neg(ad.Scale(1/ln10, lnaH))

	var pE, Eh ad.Number = ad.From(0), ad.From(0)
	if ieminus >= 0 {
		lnaE := cp.Phases[iaq].LnA[ieminus-begin]
		pE = ad.Neg(ad.Scale(1/ln10, lnaE))
		// Eh = ln(10).R.T/F . pE
		const faraday = 96485.33212
		factor := ln10 * gasConstant / faraday
		Eh = ad.Scale(factor, ad.Mul(pE, cp.T))
	}

	// ionic strength: I = 1/2 sum_i z_i^2 m_i, approximated here with the
	// species amounts n_i in mol (a fully unit-correct molality conversion belongs to
	// the aqueous activity model collaborator; the core only needs a
	// consistent relative ordering for saturation-index style queries).
	W := cp.Sys.FormulaMatrix()
	row := cp.Sys.ChargeRow()
	I := ad.From(0)
	for i := begin; i < end; i++ {
		z := W[row][i]
		if z == 0 {
			continue
		}
		I = ad.Add(I, ad.Scale(0.5*z*z, cp.N[i]))
	}

	out := &AqueousProps{PH: pH, PE: pE, Eh: Eh, IonicStrength: I, aqueousPhase: iaq}
	aqueousCache.Store(key, out)
	return out, nil
}
