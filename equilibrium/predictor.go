// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

// Predictor implements C8: a first-order Taylor extrapolation around a
// converged reference (State, Sensitivity), predicting n, p and any
// chemical potential from a change in inputs (w) and conserved components
// (c=b), without re-solving the optimization problem.
type Predictor struct {
	n0, p0, q0, w0, c0, u0 []float64
	sens                   Sensitivity
	primary                []int
}

// NewPredictor builds a Predictor from a converged state and its
// sensitivities.
func NewPredictor(st *State, sens Sensitivity, u0 []float64) *Predictor {
	return &Predictor{
		n0: append([]float64(nil), st.N...),
		p0: append([]float64(nil), st.P...),
		q0: append([]float64(nil), st.Q...),
		w0: append([]float64(nil), st.W...),
		c0: append([]float64(nil), st.C...),
		u0: append([]float64(nil), u0...),
		sens: sens,
		primary: append([]int(nil), st.IPrimary...),
	}
}

// Predict returns the first-order predicted (n,p,q) for new (w,c).
func (pr *Predictor) Predict(w, c []float64) (n, p, q []float64) {
	dw := sub(w, pr.w0)
	dc := sub(c, pr.c0)

	n = addLinear(pr.n0, pr.sens.DnDw, dw, pr.sens.DnDc, dc)
	p = addLinear(pr.p0, pr.sens.DpDw, dw, pr.sens.DpDc, dc)
	q = addLinear(pr.q0, pr.sens.DqDw, dw, pr.sens.DqDc, dc)
	return
}

// PredictChemicalPotential returns the first-order predicted chemical
// potential of species i.
func (pr *Predictor) PredictChemicalPotential(i int, w, c []float64) float64 {
	dw := sub(w, pr.w0)
	dc := sub(c, pr.c0)
	u := pr.u0[i]
	for k, dwk := range dw {
		u += pr.sens.DuDw[i][k] * dwk
	}
	for k, dck := range dc {
		u += pr.sens.DuDc[i][k] * dck
	}
	return u
}

// PrimaryIndices returns the basic-species index set of the reference
// state, used by the smart solver to label and cluster records (C9).
func (pr *Predictor) PrimaryIndices() []int { return pr.primary }

func sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func addLinear(base []float64, Jw [][]float64, dw []float64, Jc [][]float64, dc []float64) []float64 {
	out := append([]float64(nil), base...)
	for i := range out {
		for k, dwk := range dw {
			out[i] += Jw[i][k] * dwk
		}
		for k, dck := range dc {
			out[i] += Jc[i][k] * dck
		}
	}
	return out
}
