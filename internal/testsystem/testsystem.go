// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testsystem builds a small synthetic chemical system shared by
// the equilibrium package tests and the reaktoro-equilibrate command: an aqueous phase, a gaseous
// phase and a pure calcite phase, each with a constant standard thermo
// model so the tests exercise the solver without depending on a real
// thermodynamic database.
package testsystem

import (
	"github.com/reaktoro/Reaktoro-sub000/ad"
	"github.com/reaktoro/Reaktoro-sub000/chem"
)

// ConstThermo returns a StandardThermoModel with fixed G0/H0/V0/Cp0,
// distinct per species so the Gibbs-energy minimum is non-degenerate.
func ConstThermo(g0 float64) chem.StandardThermoModel {
	return chem.ConstStandardThermoModel(chem.StandardThermoProps{
		G0:  ad.From(g0),
		H0:  ad.From(g0 * 0.9),
		V0:  ad.From(1e-5),
		VT0: ad.From(0),
		VP0: ad.From(-1e-12),
		Cp0: ad.From(30),
	})
}

// Build returns an 8-species, 3-phase system: water, H+, Na+, Cl-, e-,
// Mg+2 in the aqueous phase, CO2(g) in the gaseous phase, and CaCO3(s) as
// a pure mineral, with an ideal aqueous activity model.
func Build() (*chem.ChemicalSystem, error) {
	aqueous := chem.Phase{
		Name:  "AqueousPhase",
		State: chem.Aqueous,
		Species: []chem.Species{
			{Name: "H2O(aq)", Formula: map[string]float64{"H": 2, "O": 1}, Thermo: ConstThermo(-237180)},
			{Name: "H+", Formula: map[string]float64{"H": 1}, Charge: 1, Thermo: ConstThermo(0)},
			{Name: "Na+", Formula: map[string]float64{"Na": 1}, Charge: 1, Thermo: ConstThermo(-261880)},
			{Name: "Cl-", Formula: map[string]float64{"Cl": 1}, Charge: -1, Thermo: ConstThermo(-131290)},
			{Name: "e-", Formula: map[string]float64{}, Charge: -1, Thermo: ConstThermo(0)},
			{Name: "Mg+2", Formula: map[string]float64{"Mg": 1}, Charge: 2, Thermo: ConstThermo(-454800)},
		},
	}
	gaseous := chem.Phase{
		Name:  "GaseousPhase",
		State: chem.Gas,
		Species: []chem.Species{
			{Name: "CO2(g)", Formula: map[string]float64{"C": 1, "O": 2}, Thermo: ConstThermo(-394370)},
		},
	}
	calcite := chem.Phase{
		Name:  "Calcite",
		State: chem.Solid,
		Species: []chem.Species{
			{Name: "CaCO3(s)", Formula: map[string]float64{"Ca": 1, "C": 1, "O": 3}, Thermo: ConstThermo(-1129180)},
		},
	}
	return chem.New("testsystem", []chem.Phase{aqueous, gaseous, calcite})
}

// InitialAmounts returns a strictly positive species-amount vector (mol)
// suitable as a Newton starting point and as n0 for restriction bounds,
// in the same species order as Build's system.
func InitialAmounts() []float64 {
	return []float64{55.0, 1e-7, 0.1, 0.1, 1e-7, 1e-3, 1e-6, 1e-3}
}
