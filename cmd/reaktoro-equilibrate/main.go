// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/reaktoro/Reaktoro-sub000/equilibrium"
	"github.com/reaktoro/Reaktoro-sub000/internal/testsystem"
)

func main() {

	verbose := true

	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	temperature := flag.Float64("T", 298.15, "temperature, in K")
	pressure := flag.Float64("P", 1e5, "pressure, in Pa")
	ph := flag.Float64("pH", 7.0, "pH")
	flag.BoolVar(&verbose, "v", true, "print iteration log")
	flag.Parse()

	io.PfWhite("\nreaktoro-equilibrate -- chemical equilibrium demo\n\n")

	sys, err := testsystem.Build()
	if err != nil {
		chk.Panic("%v", err)
	}

	specs := equilibrium.New(sys).Temperature().Pressure().PH()
	solver := equilibrium.NewSolver(specs, equilibrium.DefaultOptions())
	solver.SetVerbose(verbose)

	st := equilibrium.NewState(specs, testsystem.InitialAmounts())
	restr := equilibrium.NewRestrictions(sys)

	cond := equilibrium.NewConditions(specs)
	cond.Temperature(*temperature).Pressure(*pressure).PH(*ph)

	res, _, err := solver.Solve(st, cond, restr)
	if err != nil {
		chk.Panic("%v", err)
	}
	if !res.Succeeded {
		io.PfRed("equilibrium calculation did not converge after %d iterations\n", res.Iterations)
		return
	}

	io.Pf("\nconverged in %d iterations (%.3f s)\n\n", res.Iterations, res.Elapsed)
	for i := 0; i < sys.NumSpecies(); i++ {
		io.Pf("  n[%-10s] = %12.6e mol\n", sys.Species(i).Name, st.N[i])
	}
}
