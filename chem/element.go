// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chem implements the semantic containers of a chemical system:
// elements, species (each carrying a standard-thermodynamic evaluator),
// phases (each carrying an activity-model evaluator), and the immutable
// ChemicalSystem that bundles them together with the derived formula
// matrix. It is the C1 component of the equilibrium core: everything
// downstream (props, equilibrium) consumes a *ChemicalSystem and never
// mutates it.
package chem

import "github.com/cpmech/gosl/chk"

// Element holds the symbol, name and molar mass of a chemical element.
type Element struct {
	Symbol    string  // e.g. "Ca"
	Name      string  // e.g. "Calcium"
	MolarMass float64 // kg/mol
}

// NewElement returns an Element, panicking if the molar mass is not
// positive (an invariant of the data model, not a recoverable spec error).
func NewElement(symbol, name string, molarMassKgPerMol float64) Element {
	if molarMassKgPerMol <= 0 {
		chk.Panic("element %q: molar mass must be positive, got %v", symbol, molarMassKgPerMol)
	}
	return Element{Symbol: symbol, Name: name, MolarMass: molarMassKgPerMol}
}

// atomicWeights is a minimal table of standard atomic weights (kg/mol) for
// the elements that appear in the worked examples of SPEC_FULL.md §8.
// Loading a complete periodic table from a real database is out of scope
// (spec.md §1 lists database parsers as external collaborators); this
// table only exists so ChemicalSystem can satisfy the positive-molar-mass
// invariant for the handful of elements the core's own tests exercise.
var atomicWeights = map[string]float64{
	"H":  0.001007940,
	"O":  0.015999400,
	"C":  0.012010700,
	"Na": 0.022989769,
	"Cl": 0.035453000,
	"Ca": 0.040078000,
	"Mg": 0.024305000,
	"S":  0.032065000,
	"N":  0.014006700,
	"K":  0.039098300,
	"Si": 0.028085500,
	"Fe": 0.055845000,
	"Mn": 0.054938045,
	"Al": 0.026981538,
}

// AtomicWeight returns the standard atomic weight of symbol in kg/mol and
// whether it was found in the built-in table.
func AtomicWeight(symbol string) (float64, bool) {
	w, ok := atomicWeights[symbol]
	return w, ok
}
