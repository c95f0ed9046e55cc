// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package equilibrium implements C3-C9 of the equilibrium core: the
// declarative specs builder, runtime conditions and restrictions, the
// optimization oracle (Setup), the interior-point driver (Solver), the
// first-order Taylor predictor, and the on-demand-learning smart solver.
package equilibrium

import "github.com/cpmech/gosl/fun"

// HessianMode selects how EquilibriumSetup computes the Hessian of the
// Gibbs-energy term (SPEC_FULL.md §4.3/C6).
type HessianMode int

const (
	// Exact seeds every component of n and p through AD.
	Exact HessianMode = iota
	// Approx uses the ideal activity model for the Hessian while keeping
	// the exact value/gradient.
	Approx
	// ApproxDiagonal keeps only the diagonal of d(u)/d(n) from the ideal
	// model.
	ApproxDiagonal
	// PartiallyExact uses exact derivatives for columns corresponding to
	// the current primary (basic) variables, approximate for the rest.
	PartiallyExact
)

// Options configures EquilibriumSetup and EquilibriumSolver.
type Options struct {
	Epsilon                float64     // lower bound floor for species amounts, default 1e-16
	LogarithmBarrierFactor float64     // lambda in tau = epsilon*lambda, default 1
	Hessian                HessianMode // default Exact
	MaxIterations          int         // default 100
	Tolerance              float64     // first-order optimality + feasibility tolerance, default 1e-10
}

// DefaultOptions returns the default tolerances and modes.
func DefaultOptions() Options {
	return Options{
		Epsilon:                1e-16,
		LogarithmBarrierFactor: 1,
		Hessian:                Exact,
		MaxIterations:          100,
		Tolerance:              1e-10,
	}
}

// SmartOptions configures the SmartEquilibriumSolver (C9).
type SmartOptions struct {
	TemperatureStep       float64 // K, grid cell size for (T,P) discretization
	PressureStep          float64 // Pa
	RelTol                float64 // error-test relative tolerance on predicted potentials
	AbsTol                float64 // error-test absolute tolerance
	RelTolNegativeAmounts float64 // fraction of sum(n) tolerated as a negative predicted amount
	MaxRecordsPerCluster  int     // bound on stored reference states per cluster; 0 = unbounded
}

// OptionsFromPrms builds Options from a named parameter list, the same
// "switch over p.N" convention msolid's constitutive models use to read
// their material parameters from a simulation's .sim file. Unrecognized
// names are ignored; fields absent from prms keep DefaultOptions' value.
func OptionsFromPrms(prms fun.Prms) Options {
	o := DefaultOptions()
	for _, p := range prms {
		switch p.N {
		case "epsilon":
			o.Epsilon = p.V
		case "barrierFactor":
			o.LogarithmBarrierFactor = p.V
		case "maxIterations":
			o.MaxIterations = int(p.V)
		case "tolerance":
			o.Tolerance = p.V
		}
	}
	return o
}

// DefaultSmartOptions returns conservative defaults.
func DefaultSmartOptions() SmartOptions {
	return SmartOptions{
		TemperatureStep:       1.0,
		PressureStep:          1e4,
		RelTol:                1e-3,
		AbsTol:                1e-6,
		RelTolNegativeAmounts: 1e-5,
		MaxRecordsPerCluster:  0,
	}
}
