// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"math"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"
	"github.com/reaktoro/Reaktoro-sub000/chem"
	"github.com/reaktoro/Reaktoro-sub000/props"
)

// Solver drives a bounded nonlinear interior-point optimizer over a Setup
// oracle (C7): it assembles the KKT system at each iterate, solves it
// with a direct sparse linear solver exactly as fem.Domain solves its
// tangent system, writes the converged (n,p,q,w) back into a State, and
// returns the sensitivities of that solution.
type Solver struct {
	specs  *Specs
	setup  *Setup
	opts   Options
	verbose bool
}

// NewSolver returns a Solver for specs with the given options.
func NewSolver(specs *Specs, opts Options) *Solver {
	return &Solver{specs: specs, setup: NewSetup(specs, opts), opts: opts}
}

// SetVerbose toggles iteration logging via gosl/io (mirrors fem's
// ShowMsg-gated io.Pf calls).
func (s *Solver) SetVerbose(v bool) { s.verbose = v }

// State is the minimal persisted-state layout of SPEC_FULL.md §6/spec.md
// §6 needed to drive and resume an equilibrium solve: species amounts,
// the control vectors, the last-solved inputs, and the conserved
// components at the reference state.
type State struct {
	Sys *chem.ChemicalSystem

	N []float64 // species amounts, mol
	P []float64 // p-controls
	Q []float64 // q-controls
	W []float64 // last-solved input values
	C []float64 // conserved components b, at the reference state

	IPrimary []int // indices of primary (basic) species

	StateID int64
}

// NewState returns a State with n set to the given initial amounts (one
// per system species) and p,q at zero.
func NewState(specs *Specs, n0 []float64) *State {
	return &State{
		Sys: specs.System(),
		N:   append([]float64(nil), n0...),
		P:   make([]float64, specs.NumP()),
		Q:   make([]float64, specs.NumQ()),
	}
}

// Solve runs the interior-point Newton iteration to convergence, writing
// the result into st, and returns the optimizer outcome plus the
// sensitivity derivatives of (n,p,q) with respect to every input.
func (s *Solver) Solve(st *State, cond *Conditions, restr *Restrictions) (Result, Sensitivity, error) {

	start := time.Now()

	ok, missing := cond.AllSet()
	if !ok {
		return Result{}, Sensitivity{}, chk.Err("equilibrium.Solver.Solve: input %q has no assigned value", missing)
	}
	w := cond.W()

	Wn, Wq, Wp, err := s.specs.ConservationMatrices()
	if err != nil {
		return Result{}, Sensitivity{}, err
	}

	nrows := len(Wn)
	neq := s.specs.NumEquations()
	nn := len(st.N)
	nq := len(st.Q)
	np := len(st.P)

	// b = W.n0 + reactivity extents (extents are zero at the reference
	// point since reactivity rows are expressed in terms of n itself).
	n0 := append([]float64(nil), st.N...)
	b := make([]float64, nrows)
	for r := 0; r < nrows; r++ {
		for i := 0; i < nn; i++ {
			b[r] += Wn[r][i] * n0[i]
		}
	}
	st.C = b

	lower, upper := restr.Resolve(s.opts.Epsilon, n0)
	pLower, pUpper := cond.PBounds()

	n := append([]float64(nil), n0...)
	p := append([]float64(nil), st.P...)
	q := append([]float64(nil), st.Q...)
	y := make([]float64, nrows)
	z := make([]float64, neq)

	var iter int
	converged := false
	for iter = 0; iter < s.opts.MaxIterations; iter++ {

		gradN, err := s.setup.GradientN(n, p, w)
		if err != nil {
			return Result{}, Sensitivity{}, err
		}
		H, err := s.setup.HessianNMode(n, p, w, nil)
		if err != nil {
			return Result{}, Sensitivity{}, err
		}
		v, err := s.setup.Residual(n, p, w)
		if err != nil {
			return Result{}, Sensitivity{}, err
		}
		JvN, err := s.setup.JacobianVn(n, p, w)
		if err != nil {
			return Result{}, Sensitivity{}, err
		}
		JvP, err := s.setup.JacobianVp(n, p, w)
		if err != nil {
			return Result{}, Sensitivity{}, err
		}

		// residuals
		Rn := make([]float64, nn)
		for i := 0; i < nn; i++ {
			Rn[i] = gradN[i]
			for r := 0; r < nrows; r++ {
				if Wn[r][i] != 0 {
					Rn[i] -= Wn[r][i] * y[r]
				}
			}
			for k := 0; k < neq; k++ {
				if JvN[k][i] != 0 {
					Rn[i] -= JvN[k][i] * z[k]
				}
			}
		}
		Rq := make([]float64, nq)
		for j := 0; j < nq; j++ {
			for r := 0; r < nrows; r++ {
				if Wq[r][j] != 0 {
					Rq[j] -= Wq[r][j] * y[r]
				}
			}
		}
		Rp := make([]float64, np)
		for j := 0; j < np; j++ {
			for r := 0; r < nrows; r++ {
				if Wp[r][j] != 0 {
					Rp[j] -= Wp[r][j] * y[r]
				}
			}
			for k := 0; k < neq; k++ {
				if JvP[k][j] != 0 {
					Rp[j] -= JvP[k][j] * z[k]
				}
			}
		}
		Ry := make([]float64, nrows)
		for r := 0; r < nrows; r++ {
			Ry[r] = -b[r]
			for i := 0; i < nn; i++ {
				Ry[r] += Wn[r][i] * n[i]
			}
			for j := 0; j < nq; j++ {
				Ry[r] += Wq[r][j] * q[j]
			}
			for j := 0; j < np; j++ {
				Ry[r] += Wp[r][j] * p[j]
			}
		}
		Rz := append([]float64(nil), v...)

		normR := normOf(Rn) + normOf(Rq) + normOf(Rp) + normOf(Ry) + normOf(Rz)
		if s.verbose {
			io.Pf("equilibrium: iter=%d |R|=%.3e\n", iter, normR)
		}
		if normR < s.opts.Tolerance {
			converged = true
			break
		}

		dn, dq, dp, dy, dz, err := s.newtonStep(H, Wn, Wq, Wp, JvN, JvP, Rn, Rq, Rp, Ry, Rz)
		if err != nil {
			return Result{}, Sensitivity{}, err
		}

		alpha := fractionToBoundary(n, dn, lower, upper, 0.99)
		alpha = math.Min(alpha, fractionToBoundary(p, dp, pLower, pUpper, 0.99))

		for i := range n {
			n[i] += alpha * dn[i]
		}
		for j := range q {
			q[j] += alpha * dq[j]
		}
		for j := range p {
			p[j] += alpha * dp[j]
		}
		for r := range y {
			y[r] += alpha * dy[r]
		}
		for k := range z {
			z[k] += alpha * dz[k]
		}
	}

	res := Result{Succeeded: converged, Iterations: iter, Elapsed: time.Since(start).Seconds()}
	if !converged {
		return res, Sensitivity{}, nil
	}

	cp, err := s.setup.EvalChemicalProps(n, p, w)
	if err != nil {
		return res, Sensitivity{}, err
	}

	st.N, st.P, st.Q, st.W = n, p, q, append([]float64(nil), w...)
	st.StateID = cp.StateID
	st.IPrimary = primaryIndices(n, lower)

	sens, err := s.sensitivity(n, p, q, w, b, Wn, Wq, Wp)
	if err != nil {
		return res, Sensitivity{}, err
	}

	return res, sens, nil
}

// normOf returns the Euclidean norm of v (gosl/la.VecNorm's convention).
func normOf(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// fractionToBoundary returns the largest alpha in (0,maxFrac] such that
// x+alpha.dx stays within [lower,upper] for every component, the standard
// interior-point step-length safeguard.
func fractionToBoundary(x, dx, lower, upper []float64, maxFrac float64) float64 {
	alpha := maxFrac
	for i := range x {
		if dx[i] < 0 && !math.IsInf(lower[i], -1) {
			a := (lower[i] - x[i]) / dx[i]
			if a > 0 && a < alpha {
				alpha = a
			}
		}
		if dx[i] > 0 && !math.IsInf(upper[i], 1) {
			a := (upper[i] - x[i]) / dx[i]
			if a > 0 && a < alpha {
				alpha = a
			}
		}
	}
	return alpha
}

// primaryIndices returns the set of species indices sitting away from
// their lower bound by more than a small multiple of it: the basic
// variables of the converged iterate (SPEC_FULL.md GLOSSARY).
func primaryIndices(n, lower []float64) []int {
	var idx []int
	for i := range n {
		if n[i] > 10*lower[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

// newtonStep assembles and solves the KKT linear system for one Newton
// step using a sparse direct solver (la.Triplet + la.LinSol), exactly the
// way fem.Domain solves its tangent system Kb.dy = -Fb.
func (s *Solver) newtonStep(H, Wn, Wq, Wp, JvN, JvP [][]float64, Rn, Rq, Rp, Ry, Rz []float64) (dn, dq, dp, dy, dz []float64, err error) {

	nn, nq, np, nrows, neq := len(Rn), len(Rq), len(Rp), len(Ry), len(Rz)
	dim := nn + nq + np + nrows + neq

	// block offsets
	oN, oQ, oP, oY, oZ := 0, nn, nn+nq, nn+nq+np, nn+nq+np+nrows

	maxnnz := nn*nn + 4*(nn*nrows+nq*nrows+np*nrows+nn*neq+np*neq) + dim
	T := new(la.Triplet)
	T.Init(dim, dim, maxnnz)

	put := func(i, j int, v float64) {
		if v != 0 {
			T.Put(i, j, v)
		}
	}

	for i := 0; i < nn; i++ {
		for j := 0; j < nn; j++ {
			put(oN+i, oN+j, H[i][j])
		}
	}
	for r := 0; r < nrows; r++ {
		for i := 0; i < nn; i++ {
			put(oN+i, oY+r, -Wn[r][i])
			put(oY+r, oN+i, Wn[r][i])
		}
		for j := 0; j < nq; j++ {
			put(oQ+j, oY+r, -Wq[r][j])
			put(oY+r, oQ+j, Wq[r][j])
		}
		for j := 0; j < np; j++ {
			put(oP+j, oY+r, -Wp[r][j])
			put(oY+r, oP+j, Wp[r][j])
		}
	}
	for k := 0; k < neq; k++ {
		for i := 0; i < nn; i++ {
			put(oN+i, oZ+k, -JvN[k][i])
			put(oZ+k, oN+i, JvN[k][i])
		}
		for j := 0; j < np; j++ {
			put(oP+j, oZ+k, -JvP[k][j])
			put(oZ+k, oP+j, JvP[k][j])
		}
	}

	rhs := make([]float64, dim)
	copy(rhs[oN:oN+nn], Rn)
	copy(rhs[oQ:oQ+nq], Rq)
	copy(rhs[oP:oP+np], Rp)
	copy(rhs[oY:oY+nrows], Ry)
	copy(rhs[oZ:oZ+neq], Rz)
	for i := range rhs {
		rhs[i] = -rhs[i]
	}

	lin := la.GetSolver("umfpack")
	defer lin.Free()
	symmetric, verbose := false, false
	if err := lin.Init(T, symmetric, verbose, ""); err != nil {
		return nil, nil, nil, nil, nil, chk.Err("equilibrium.Solver: linear solver init failed: %v", err)
	}
	if err := lin.Fact(); err != nil {
		return nil, nil, nil, nil, nil, chk.Err("equilibrium.Solver: linear solver factorization failed: %v", err)
	}
	sol := make([]float64, dim)
	if err := lin.Solve(sol, rhs, false); err != nil {
		return nil, nil, nil, nil, nil, chk.Err("equilibrium.Solver: linear solve failed: %v", err)
	}

	dn = sol[oN : oN+nn]
	dq = sol[oQ : oQ+nq]
	dp = sol[oP : oP+np]
	dy = sol[oY : oY+nrows]
	dz = sol[oZ : oZ+neq]
	return
}

// sensitivity computes d(n,p,q,u)/d(w) and d(n,p,q,u)/d(b) by solving the
// KKT system of the converged iterate against one right-hand side per
// column of c=(w,b), per SPEC_FULL.md §4.4 step 5; each column assembles
// and factorizes that same matrix again through newtonStep.
func (s *Solver) sensitivity(n, p, q, w, b []float64, Wn, Wq, Wp [][]float64) (Sensitivity, error) {

	nn, nq, np_, nw, nb := len(n), len(q), len(p), len(w), len(b)

	H, err := s.setup.HessianN(n, p, w)
	if err != nil {
		return Sensitivity{}, err
	}
	JvN, err := s.setup.JacobianVn(n, p, w)
	if err != nil {
		return Sensitivity{}, err
	}
	JvP, err := s.setup.JacobianVp(n, p, w)
	if err != nil {
		return Sensitivity{}, err
	}
	JvW, err := s.setup.JacobianVw(n, p, w)
	if err != nil {
		return Sensitivity{}, err
	}

	neq := len(JvN)
	nrows := len(Wn)

	sens := Sensitivity{
		DnDw: alloc(nn, nw), DpDw: alloc(np_, nw), DqDw: alloc(nq, nw),
		DnDc: alloc(nn, nb), DpDc: alloc(np_, nb), DqDc: alloc(nq, nb),
		DuDw: alloc(nn, nw), DuDc: alloc(nn, nb),
	}

	// Differentiating the KKT system w.r.t. one scalar c_k produces a
	// linear system with the SAME matrix and a right-hand side that is
	// minus the partial derivative of the residual block that explicitly
	// depends on c_k: d(v)/dw_k forces the z-block when c_k is a w entry,
	// and -e_k forces the y-block (conservation) when c_k is a b entry.
	for k := 0; k < nw; k++ {
		Rz := make([]float64, neq)
		for eqi := 0; eqi < neq; eqi++ {
			Rz[eqi] = JvW[eqi][k]
		}
		dn, dq, dp, _, _, err := s.newtonStep(H, Wn, Wq, Wp, JvN, JvP,
			zerosLike(nn), zerosLike(nq), zerosLike(np_), zerosLike(nrows), Rz)
		if err != nil {
			return Sensitivity{}, err
		}
		setCol(sens.DnDw, k, dn)
		setCol(sens.DpDw, k, dp)
		setCol(sens.DqDw, k, dq)
	}

	for k := 0; k < nb; k++ {
		Ry := make([]float64, nrows)
		Ry[k] = -1
		dn, dq, dp, _, _, err := s.newtonStep(H, Wn, Wq, Wp, JvN, JvP,
			zerosLike(nn), zerosLike(nq), zerosLike(np_), Ry, zerosLike(neq))
		if err != nil {
			return Sensitivity{}, err
		}
		setCol(sens.DnDc, k, dn)
		setCol(sens.DpDc, k, dp)
		setCol(sens.DqDc, k, dq)
	}

	for i := 0; i < nn; i++ {
		for k := 0; k < nw; k++ {
			sens.DuDw[i][k] = dotRow(H[i], col(sens.DnDw, k))
		}
		for k := 0; k < nb; k++ {
			sens.DuDc[i][k] = dotRow(H[i], col(sens.DnDc, k))
		}
	}

	return sens, nil
}

func alloc(m, n int) [][]float64 { return utl.DblsAlloc(m, n) }
func zerosLike(n int) []float64 { return make([]float64, n) }
func negate(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}
func setCol(m [][]float64, k int, v []float64) {
	for i := range v {
		m[i][k] = v[i]
	}
}
func col(m [][]float64, k int) []float64 {
	out := make([]float64, len(m))
	for i := range m {
		out[i] = m[i][k]
	}
	return out
}
func dotRow(row, v []float64) float64 {
	s := 0.0
	for i := range row {
		s += row[i] * v[i]
	}
	return s
}
// ChemicalPropsAt returns the evaluated ChemicalProps for the converged
// state st (no derivatives seeded).
func ChemicalPropsAt(specs *Specs, opts Options, st *State) (*props.ChemicalProps, error) {
	setup := NewSetup(specs, opts)
	return setup.EvalChemicalProps(st.N, st.P, st.W)
}
