// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chem_test

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/reaktoro/Reaktoro-sub000/ad"
	"github.com/reaktoro/Reaktoro-sub000/chem"
)

func constThermo() chem.StandardThermoModel {
	return chem.ConstStandardThermoModel(chem.StandardThermoProps{
		G0: ad.From(-100), H0: ad.From(-90), V0: ad.From(1e-5),
		VT0: ad.From(0), VP0: ad.From(-1e-12), Cp0: ad.From(30),
	})
}

func toySystem(tst *testing.T) *chem.ChemicalSystem {
	aqueous := chem.Phase{
		Name:  "AqueousPhase",
		State: chem.Aqueous,
		Species: []chem.Species{
			{Name: "H2O(aq)", Formula: map[string]float64{"H": 2, "O": 1}, Thermo: constThermo()},
			{Name: "H+", Formula: map[string]float64{"H": 1}, Charge: 1, Thermo: constThermo()},
			{Name: "Na+", Formula: map[string]float64{"Na": 1}, Charge: 1, Thermo: constThermo()},
			{Name: "Cl-", Formula: map[string]float64{"Cl": 1}, Charge: -1, Thermo: constThermo()},
		},
	}
	gaseous := chem.Phase{
		Name:  "GaseousPhase",
		State: chem.Gas,
		Species: []chem.Species{
			{Name: "CO2(g)", Formula: map[string]float64{"C": 1, "O": 2}, Thermo: constThermo()},
		},
	}
	mineral := chem.Phase{
		Name:  "Calcite",
		State: chem.Solid,
		Species: []chem.Species{
			{Name: "CaCO3(s)", Formula: map[string]float64{"Ca": 1, "C": 1, "O": 3}, Thermo: constThermo()},
		},
	}
	sys, err := chem.New("test-db", []chem.Phase{aqueous, gaseous, mineral})
	if err != nil {
		tst.Fatalf("chem.New failed: %v", err)
	}
	return sys
}

func Test_system01(tst *testing.T) {

	chk.PrintTitle("system01")

	sys := toySystem(tst)

	if sys.NumPhases() != 3 {
		tst.Fatalf("expected 3 phases, got %d", sys.NumPhases())
	}
	if sys.NumSpecies() != 6 {
		tst.Fatalf("expected 6 species, got %d", sys.NumSpecies())
	}

	// phase species must be contiguous
	begin, end := sys.SpeciesRangeInPhase(sys.IndexPhase("AqueousPhase"))
	if begin != 0 || end != 4 {
		tst.Fatalf("aqueous species range wrong: [%d,%d)", begin, end)
	}

	// formula matrix sanity: Na+ contributes 1 to Na row, 1 to charge row
	iNa := sys.IndexSpecies("Na+")
	W := sys.FormulaMatrix()
	rowNa := sys.IndexElement("Na")
	if W[rowNa][iNa] != 1 {
		tst.Fatalf("expected W[Na][Na+]=1, got %v", W[rowNa][iNa])
	}
	if W[sys.ChargeRow()][iNa] != 1 {
		tst.Fatalf("expected charge row = 1 for Na+, got %v", W[sys.ChargeRow()][iNa])
	}

	// duplicate species name must fail
	_, err := chem.New("test-db", []chem.Phase{
		{Name: "P1", Species: []chem.Species{{Name: "X", Thermo: constThermo()}}},
		{Name: "P2", Species: []chem.Species{{Name: "X", Thermo: constThermo()}}},
	})
	if err == nil {
		tst.Fatalf("expected error for duplicate species name")
	}
}

func Test_system02_purephase(tst *testing.T) {

	chk.PrintTitle("system02")

	sys := toySystem(tst)
	calcite := sys.Phase(sys.IndexPhase("Calcite"))
	if !calcite.IsPure() {
		tst.Fatalf("Calcite should be a pure phase")
	}
	aqueous := sys.Phase(sys.IndexPhase("AqueousPhase"))
	if aqueous.IsPure() {
		tst.Fatalf("AqueousPhase should not be a pure phase")
	}
}
