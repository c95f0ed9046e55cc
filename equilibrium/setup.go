// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"math"

	"github.com/reaktoro/Reaktoro-sub000/ad"
	"github.com/reaktoro/Reaktoro-sub000/chem"
	"github.com/reaktoro/Reaktoro-sub000/props"
)

const gasConstant = 8.31446261815324 // J/(mol.K)

// Setup is the optimization-problem oracle (C6): given (n,p,w) it returns
// the Gibbs-energy objective, its gradient and Hessian w.r.t n, the
// nonlinear equation-constraint residual and its Jacobians w.r.t n and p,
// using the forward-mode AD pipeline of package props/ad. One full sweep
// (seeding every component of n in turn) is required per Hessian/Jacobian
// column, per SPEC_FULL.md §4.3.
type Setup struct {
	specs *Specs
	opts  Options
	cp    *props.ChemicalProps
}

// NewSetup returns a Setup for specs using opts.
func NewSetup(specs *Specs, opts Options) *Setup {
	return &Setup{specs: specs, opts: opts, cp: props.New(specs.System())}
}

// numbers builds the ad.Number inputs (T, P, n, pNums, w) for one
// evaluation, seeding at most one scalar as a Dual (seedTarget selects
// which: "n", "p", "w", or "" for none) at seedIndex.
func (s *Setup) numbers(n, p, w []float64, seedTarget string, seedIndex int) (T, P ad.Number, nn, pp, ww []ad.Number) {
	lift := func(v float64, isSeed bool) ad.Number {
		if isSeed {
			return ad.Seed(v)
		}
		return ad.From(v)
	}

	nn = make([]ad.Number, len(n))
	for i, v := range n {
		nn[i] = lift(v, seedTarget == "n" && i == seedIndex)
	}
	pp = make([]ad.Number, len(p))
	for i, v := range p {
		pp[i] = lift(v, seedTarget == "p" && i == seedIndex)
	}
	ww = make([]ad.Number, len(w))
	for i, v := range w {
		ww[i] = lift(v, seedTarget == "w" && i == seedIndex)
	}

	if idx := s.specs.TemperatureIndexInW(); idx >= 0 {
		T = ww[idx]
	} else {
		T = pp[s.specs.TemperatureIndexInP()]
	}
	if idx := s.specs.PressureIndexInW(); idx >= 0 {
		P = ww[idx]
	} else {
		P = pp[s.specs.PressureIndexInP()]
	}
	return
}

// evalProps runs ChemicalProps.Update for the given seeded inputs.
func (s *Setup) evalProps(n, p, w []float64, seedTarget string, seedIndex int) (*props.ChemicalProps, []ad.Number, []ad.Number, error) {
	T, P, nn, pp, ww := s.numbers(n, p, w, seedTarget, seedIndex)
	cp := props.New(s.specs.System())
	if err := cp.Update(T, P, nn); err != nil {
		return nil, nil, nil, err
	}
	return cp, pp, ww, nil
}

// isPureSpecies reports whether species i belongs to a pure phase, the
// condition under which the log barrier applies (SPEC_FULL.md §4.3).
func (s *Setup) isPureSpecies(i int) bool {
	sys := s.specs.System()
	ip := sys.PhaseOfSpecies(i)
	return sys.Phase(ip).IsPure()
}

// barrierTau returns tau = epsilon * lambda.
func (s *Setup) barrierTau() float64 {
	return s.opts.Epsilon * s.opts.LogarithmBarrierFactor
}

// Objective returns f(n,p,w) = G/(R.T) + barrier(n), with G = sum_i n_i.u_i
// so that GradientN is its gradient.
func (s *Setup) Objective(n, p, w []float64) (float64, error) {
	cp, _, _, err := s.evalProps(n, p, w, "", -1)
	if err != nil {
		return 0, err
	}
	RT := gasConstant * cp.T.Value()
	f := 0.0
	for i, ni := range n {
		f += ni * cp.U[i].Value() / RT
	}
	tau := s.barrierTau()
	for i, ni := range n {
		if s.isPureSpecies(i) {
			f -= tau * logSafe(ni)
		}
	}
	return f, nil
}

func logSafe(v float64) float64 {
	if v <= 0 {
		v = 1e-300
	}
	return math.Log(v)
}

// GradientN returns df/dn, the vector grad_n f = mu/(R.T) + barrier'(n).
func (s *Setup) GradientN(n, p, w []float64) ([]float64, error) {
	cp, _, _, err := s.evalProps(n, p, w, "", -1)
	if err != nil {
		return nil, err
	}
	RT := gasConstant * cp.T.Value()
	tau := s.barrierTau()
	g := make([]float64, len(n))
	for i, ni := range n {
		g[i] = cp.U[i].Value() / RT
		if s.isPureSpecies(i) {
			g[i] -= tau / ni
		}
	}
	return g, nil
}

// HessianN returns d(grad_n f)/dn = d(mu)/dn /(R.T) + barrier''(n), using
// one AD sweep per column j (seed n[j], read d(mu_i)/dn_j from the dual
// part of every mu_i).
func (s *Setup) HessianN(n, p, w []float64) ([][]float64, error) {
	nsp := len(n)
	H := make([][]float64, nsp)
	for i := range H {
		H[i] = make([]float64, nsp)
	}
	var RT float64
	for j := 0; j < nsp; j++ {
		cp, _, _, err := s.evalProps(n, p, w, "n", j)
		if err != nil {
			return nil, err
		}
		if j == 0 {
			RT = gasConstant * cp.T.Value()
		}
		for i := 0; i < nsp; i++ {
			H[i][j] = cp.U[i].Deriv() / RT
		}
	}
	tau := s.barrierTau()
	for i := 0; i < nsp; i++ {
		if s.isPureSpecies(i) {
			H[i][i] += tau / (n[i] * n[i])
		}
	}
	return H, nil
}

// HessianNApprox computes the Hessian using the ideal activity model in
// place of each phase's real activity model (C6 mode Approx): for an
// ideal mixture d(mu_i)/dn_j reduces to a diagonal + rank-1 correction
// within each phase, which this implementation obtains the same way as
// HessianN but with every phase temporarily swapped to its IdealActivity.
func (s *Setup) HessianNApprox(n, p, w []float64, diagonalOnly bool) ([][]float64, error) {
	sys := s.specs.System()
	idealPhases := make([]chem.Phase, sys.NumPhases())
	for ip := 0; ip < sys.NumPhases(); ip++ {
		ph := sys.Phase(ip)
		ph.Activity = ph.IdealActivity
		idealPhases[ip] = ph
	}
	idealSys, err := chem.New(sys.DatabaseTag(), idealPhases)
	if err != nil {
		return nil, err
	}
	idealSetup := &Setup{specs: &Specs{sys: idealSys, inputNames: s.specs.inputNames, inputIndex: s.specs.inputIndex,
		temperatureInputIdx: s.specs.temperatureInputIdx, pressureInputIdx: s.specs.pressureInputIdx,
		temperaturePIdx: s.specs.temperaturePIdx, pressurePIdx: s.specs.pressurePIdx}, opts: s.opts}
	H, err := idealSetup.HessianN(n, p, w)
	if err != nil {
		return nil, err
	}
	if diagonalOnly {
		nsp := len(n)
		D := make([][]float64, nsp)
		for i := range D {
			D[i] = make([]float64, nsp)
			D[i][i] = H[i][i]
		}
		return D, nil
	}
	return H, nil
}

// HessianNMode dispatches to the Hessian flavor selected by opts.Hessian.
// PartiallyExact uses the exact Hessian for the columns in primary and the
// approximate one elsewhere, merged column-by-column.
func (s *Setup) HessianNMode(n, p, w []float64, primary map[int]bool) ([][]float64, error) {
	switch s.opts.Hessian {
	case Exact:
		return s.HessianN(n, p, w)
	case Approx:
		return s.HessianNApprox(n, p, w, false)
	case ApproxDiagonal:
		return s.HessianNApprox(n, p, w, true)
	case PartiallyExact:
		exact, err := s.HessianN(n, p, w)
		if err != nil {
			return nil, err
		}
		approx, err := s.HessianNApprox(n, p, w, false)
		if err != nil {
			return nil, err
		}
		nsp := len(n)
		H := make([][]float64, nsp)
		for i := range H {
			H[i] = make([]float64, nsp)
		}
		for j := 0; j < nsp; j++ {
			useExact := primary != nil && primary[j]
			for i := 0; i < nsp; i++ {
				if useExact {
					H[i][j] = exact[i][j]
				} else {
					H[i][j] = approx[i][j]
				}
			}
		}
		return H, nil
	}
	return s.HessianN(n, p, w)
}

// Residual returns v(props(n,p,w),p,w), the equation-constraint vector.
func (s *Setup) Residual(n, p, w []float64) ([]float64, error) {
	cp, pp, ww, err := s.evalProps(n, p, w, "", -1)
	if err != nil {
		return nil, err
	}
	eqs := s.specs.Equations()
	v := make([]float64, len(eqs))
	for k, eq := range eqs {
		v[k] = eq.fn(cp, pp, ww).Value()
	}
	return v, nil
}

// JacobianVn returns d(v)/d(n), one AD sweep per column.
func (s *Setup) JacobianVn(n, p, w []float64) ([][]float64, error) {
	eqs := s.specs.Equations()
	Jv := make([][]float64, len(eqs))
	for k := range Jv {
		Jv[k] = make([]float64, len(n))
	}
	for j := range n {
		cp, pp, ww, err := s.evalProps(n, p, w, "n", j)
		if err != nil {
			return nil, err
		}
		for k, eq := range eqs {
			Jv[k][j] = eq.fn(cp, pp, ww).Deriv()
		}
	}
	return Jv, nil
}

// JacobianVp returns d(v)/d(p), one AD sweep per column.
func (s *Setup) JacobianVp(n, p, w []float64) ([][]float64, error) {
	eqs := s.specs.Equations()
	Jv := make([][]float64, len(eqs))
	for k := range Jv {
		Jv[k] = make([]float64, len(p))
	}
	for j := range p {
		cp, pp, ww, err := s.evalProps(n, p, w, "p", j)
		if err != nil {
			return nil, err
		}
		for k, eq := range eqs {
			Jv[k][j] = eq.fn(cp, pp, ww).Deriv()
		}
	}
	return Jv, nil
}

// JacobianVw returns d(v)/d(w), used to assemble Hxc/Vpc for sensitivity.
func (s *Setup) JacobianVw(n, p, w []float64) ([][]float64, error) {
	eqs := s.specs.Equations()
	Jv := make([][]float64, len(eqs))
	for k := range Jv {
		Jv[k] = make([]float64, len(w))
	}
	for j := range w {
		cp, pp, ww, err := s.evalProps(n, p, w, "w", j)
		if err != nil {
			return nil, err
		}
		for k, eq := range eqs {
			Jv[k][j] = eq.fn(cp, pp, ww).Deriv()
		}
	}
	return Jv, nil
}

// EvalChemicalProps returns a fully evaluated, non-seeded ChemicalProps
// for (n,p,w); used by the solver to write the converged state back and
// by callers that just need property values, not derivatives.
func (s *Setup) EvalChemicalProps(n, p, w []float64) (*props.ChemicalProps, error) {
	cp, _, _, err := s.evalProps(n, p, w, "", -1)
	return cp, err
}
