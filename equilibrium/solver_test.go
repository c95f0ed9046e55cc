// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium_test

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/reaktoro/Reaktoro-sub000/equilibrium"
	"github.com/reaktoro/Reaktoro-sub000/internal/testsystem"
	"github.com/reaktoro/Reaktoro-sub000/props"
)

func Test_solver01_pH_roundtrip(tst *testing.T) {

	chk.PrintTitle("solver01")

	sys, err := testsystem.Build()
	if err != nil {
		tst.Fatalf("testsystem.Build failed: %v", err)
	}

	specs := equilibrium.New(sys).Temperature().Pressure().PH()
	solver := equilibrium.NewSolver(specs, equilibrium.DefaultOptions())

	st := equilibrium.NewState(specs, testsystem.InitialAmounts())
	restr := equilibrium.NewRestrictions(sys)

	cond := equilibrium.NewConditions(specs)
	cond.Temperature(298.15).Pressure(1e5).PH(7.0)

	res, _, err := solver.Solve(st, cond, restr)
	if err != nil {
		tst.Fatalf("Solve failed: %v", err)
	}
	if !res.Succeeded {
		tst.Fatalf("Solve did not converge")
	}

	cp, err := equilibrium.ChemicalPropsAt(specs, equilibrium.DefaultOptions(), st)
	if err != nil {
		tst.Fatalf("ChemicalPropsAt failed: %v", err)
	}
	aq, err := props.Compute(cp)
	if err != nil {
		tst.Fatalf("aqueous Compute failed: %v", err)
	}
	chk.Scalar(tst, "pH", 1e-2, aq.PH.Value(), 7.0)

	for i, ni := range st.N {
		if ni < 0 {
			tst.Fatalf("species %d amount went negative: %v", i, ni)
		}
	}
}

func Test_solver02_mass_conservation(tst *testing.T) {

	chk.PrintTitle("solver02")

	sys, err := testsystem.Build()
	if err != nil {
		tst.Fatalf("testsystem.Build failed: %v", err)
	}

	specs := equilibrium.New(sys).Temperature().Pressure()
	solver := equilibrium.NewSolver(specs, equilibrium.DefaultOptions())

	n0 := testsystem.InitialAmounts()
	st := equilibrium.NewState(specs, n0)
	restr := equilibrium.NewRestrictions(sys)

	cond := equilibrium.NewConditions(specs)
	cond.Temperature(298.15).Pressure(1e5)

	res, _, err := solver.Solve(st, cond, restr)
	if err != nil {
		tst.Fatalf("Solve failed: %v", err)
	}
	if !res.Succeeded {
		tst.Fatalf("Solve did not converge")
	}

	W := sys.FormulaMatrix()
	for r := range W {
		var before, after float64
		for i := range n0 {
			before += W[r][i] * n0[i]
			after += W[r][i] * st.N[i]
		}
		chk.Scalar(tst, "conservation row", 1e-6, after, before)
	}
}

func Test_solver03_inert_species(tst *testing.T) {

	chk.PrintTitle("solver03")

	sys, err := testsystem.Build()
	if err != nil {
		tst.Fatalf("testsystem.Build failed: %v", err)
	}

	specs := equilibrium.New(sys).Temperature().Pressure().Inert("CaCO3(s)")
	solver := equilibrium.NewSolver(specs, equilibrium.DefaultOptions())

	n0 := testsystem.InitialAmounts()
	iCalcite := sys.IndexSpecies("CaCO3(s)")

	st := equilibrium.NewState(specs, n0)
	restr := equilibrium.NewRestrictions(sys)

	cond := equilibrium.NewConditions(specs)
	cond.Temperature(298.15).Pressure(1e5)

	res, _, err := solver.Solve(st, cond, restr)
	if err != nil {
		tst.Fatalf("Solve failed: %v", err)
	}
	if !res.Succeeded {
		tst.Fatalf("Solve did not converge")
	}

	chk.Scalar(tst, "inert CaCO3(s) amount", 1e-8, st.N[iCalcite], n0[iCalcite])
}

func Test_solver04_sensitivity_shape(tst *testing.T) {

	chk.PrintTitle("solver04")

	sys, err := testsystem.Build()
	if err != nil {
		tst.Fatalf("testsystem.Build failed: %v", err)
	}

	specs := equilibrium.New(sys).Temperature().Pressure().PH()
	solver := equilibrium.NewSolver(specs, equilibrium.DefaultOptions())

	st := equilibrium.NewState(specs, testsystem.InitialAmounts())
	restr := equilibrium.NewRestrictions(sys)

	cond := equilibrium.NewConditions(specs)
	cond.Temperature(298.15).Pressure(1e5).PH(7.0)

	res, sens, err := solver.Solve(st, cond, restr)
	if err != nil {
		tst.Fatalf("Solve failed: %v", err)
	}
	if !res.Succeeded {
		tst.Fatalf("Solve did not converge")
	}

	if len(sens.DnDw) != len(st.N) {
		tst.Fatalf("expected DnDw to have %d rows, got %d", len(st.N), len(sens.DnDw))
	}
	if len(sens.DnDw[0]) != specs.NumInputs() {
		tst.Fatalf("expected DnDw to have %d columns, got %d", specs.NumInputs(), len(sens.DnDw[0]))
	}
	for i := range sens.DnDw {
		for k := range sens.DnDw[i] {
			if math.IsNaN(sens.DnDw[i][k]) {
				tst.Fatalf("DnDw[%d][%d] is NaN", i, k)
			}
		}
	}
}
