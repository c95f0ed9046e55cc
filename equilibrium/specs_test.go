// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium_test

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/reaktoro/Reaktoro-sub000/equilibrium"
	"github.com/reaktoro/Reaktoro-sub000/internal/testsystem"
)

func Test_specs01_inputs(tst *testing.T) {

	chk.PrintTitle("specs01")

	sys, err := testsystem.Build()
	if err != nil {
		tst.Fatalf("testsystem.Build failed: %v", err)
	}

	specs := equilibrium.New(sys).Temperature().Pressure().PH().Charge()

	if specs.NumInputs() != 4 {
		tst.Fatalf("expected 4 inputs, got %d", specs.NumInputs())
	}
	if specs.TemperatureIndexInW() != 0 {
		tst.Fatalf("expected T at w[0], got %d", specs.TemperatureIndexInW())
	}
	if specs.NumQ() != 1 {
		tst.Fatalf("expected 1 q-control (pH titrant H+), got %d", specs.NumQ())
	}
	if specs.NumEquations() != 2 {
		tst.Fatalf("expected 2 equation constraints (pH, charge), got %d", specs.NumEquations())
	}
}

func Test_specs02_conservation(tst *testing.T) {

	chk.PrintTitle("specs02")

	sys, err := testsystem.Build()
	if err != nil {
		tst.Fatalf("testsystem.Build failed: %v", err)
	}

	specs := equilibrium.New(sys).Temperature().Pressure().OpenTo("CO2(g)").Inert("CaCO3(s)")

	Wn, Wq, Wp, err := specs.ConservationMatrices()
	if err != nil {
		tst.Fatalf("ConservationMatrices failed: %v", err)
	}

	nbase := sys.NumElements() + 1 // +1 for the charge row
	if len(Wn) != nbase+1 {        // +1 for the Inert reactivity row
		tst.Fatalf("expected %d conservation rows, got %d", nbase+1, len(Wn))
	}
	if len(Wp[0]) != 1 {
		tst.Fatalf("expected 1 p-control column (CO2(g) titrant), got %d", len(Wp[0]))
	}
	if len(Wq[0]) != 0 {
		tst.Fatalf("expected 0 q-control columns, got %d", len(Wq[0]))
	}

	Kn, Kp := specs.ReactivityMatrices()
	if len(Kn) != 1 || len(Kp) != 1 {
		tst.Fatalf("expected 1 reactivity row, got Kn=%d Kp=%d", len(Kn), len(Kp))
	}
	iCalcite := sys.IndexSpecies("CaCO3(s)")
	if Kn[0][iCalcite] != 1 {
		tst.Fatalf("expected inert coefficient 1 on CaCO3(s), got %v", Kn[0][iCalcite])
	}
}

func Test_specs03_unknown_titrant(tst *testing.T) {

	chk.PrintTitle("specs03")

	sys, err := testsystem.Build()
	if err != nil {
		tst.Fatalf("testsystem.Build failed: %v", err)
	}

	specs := equilibrium.New(sys).Temperature().Pressure().PH().PE().ChemicalPotential("CO2(g)")

	if specs.NumQ() != 3 {
		tst.Fatalf("expected 3 q-controls (H+, e-, CO2(g)), got %d", specs.NumQ())
	}
}
