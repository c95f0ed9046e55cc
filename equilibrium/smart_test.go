// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium_test

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/rnd"
	"github.com/reaktoro/Reaktoro-sub000/equilibrium"
	"github.com/reaktoro/Reaktoro-sub000/internal/testsystem"
)

// Test_smart01_warmup runs the same (T,P,pH) query repeatedly: the first
// call must learn (a full Solve), and every subsequent identical query
// must be accepted from the learned record (SPEC_FULL.md §8 scenario 5).
func Test_smart01_warmup(tst *testing.T) {

	chk.PrintTitle("smart01")

	sys, err := testsystem.Build()
	if err != nil {
		tst.Fatalf("testsystem.Build failed: %v", err)
	}

	specs := equilibrium.New(sys).Temperature().Pressure().PH()
	smart := equilibrium.NewSmartEquilibriumSolver(specs, equilibrium.DefaultOptions(), equilibrium.DefaultSmartOptions())

	n0 := testsystem.InitialAmounts()
	restr := equilibrium.NewRestrictions(sys)

	newConditions := func() *equilibrium.Conditions {
		c := equilibrium.NewConditions(specs)
		return c.Temperature(298.15).Pressure(1e5).PH(7.0)
	}

	st := equilibrium.NewState(specs, n0)
	res, _, err := smart.Solve(st, newConditions(), restr)
	if err != nil {
		tst.Fatalf("first Solve failed: %v", err)
	}
	if res.Accepted {
		tst.Fatalf("first query should not be accepted from an empty cache")
	}
	if !res.Succeeded {
		tst.Fatalf("first query should converge via the exact solver")
	}

	for i := 0; i < 5; i++ {
		st2 := equilibrium.NewState(specs, n0)
		res, _, err := smart.Solve(st2, newConditions(), restr)
		if err != nil {
			tst.Fatalf("repeat Solve %d failed: %v", i, err)
		}
		if !res.Accepted {
			tst.Fatalf("repeat query %d should be accepted from the learned record", i)
		}
	}
}

// Test_smart02_grid_sampling exercises the solver over a small randomized
// (T,P) grid, checking that every query succeeds (either by prediction or
// by falling back to the exact solver) and that at least one query is
// learned and at least one is later accepted by prediction.
func Test_smart02_grid_sampling(tst *testing.T) {

	chk.PrintTitle("smart02")

	sys, err := testsystem.Build()
	if err != nil {
		tst.Fatalf("testsystem.Build failed: %v", err)
	}

	specs := equilibrium.New(sys).Temperature().Pressure()
	smartOpts := equilibrium.DefaultSmartOptions()
	smartOpts.TemperatureStep = 5.0
	smartOpts.PressureStep = 1e4
	smart := equilibrium.NewSmartEquilibriumSolver(specs, equilibrium.DefaultOptions(), smartOpts)

	n0 := testsystem.InitialAmounts()
	restr := equilibrium.NewRestrictions(sys)

	rnd.Init(1234)

	var nlearned, naccepted int
	for i := 0; i < 20; i++ {
		T := 298.15 + rnd.Float64(-2, 2)
		P := 1e5 + rnd.Float64(-1e3, 1e3)

		st := equilibrium.NewState(specs, n0)
		cond := equilibrium.NewConditions(specs)
		cond.Temperature(T).Pressure(P)

		res, _, err := smart.Solve(st, cond, restr)
		if err != nil {
			tst.Fatalf("Solve %d failed: %v", i, err)
		}
		if !res.Succeeded {
			tst.Fatalf("Solve %d did not converge", i)
		}
		if res.Accepted {
			naccepted++
		} else {
			nlearned++
		}
	}

	if nlearned == 0 {
		tst.Fatalf("expected at least one learned record")
	}
	if naccepted == 0 {
		tst.Fatalf("expected at least one prediction to be accepted within the tight (T,P) cluster")
	}
}
