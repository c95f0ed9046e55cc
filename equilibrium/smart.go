// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"container/heap"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// smartRecord is one learned reference point: a converged state, its
// sensitivity derivatives and predictor, keyed by the primary-species
// index set of the state it was learned at (C9).
type smartRecord struct {
	st   *State
	sens Sensitivity
	u0   []float64
	pred *Predictor
}

// gridCell discretizes (T,P) into SmartOptions.Temperature/PressureStep
// sized bins, mirroring the on-demand-learning discretization of
// SPEC_FULL.md §4.6.
type gridCell struct{ it, ip int }

func cellOf(T, P float64, opts SmartOptions) gridCell {
	return gridCell{
		it: int(math.Floor(T / opts.TemperatureStep)),
		ip: int(math.Floor(P / opts.PressureStep)),
	}
}

// gridCoords returns the (T,P) coordinates used to key the discretization
// grid: read from w when declared as an input, otherwise from the last
// solved p-control value held in st (T/P as unknowns still cluster well
// since they change slowly across a transport step).
func (s *SmartEquilibriumSolver) gridCoords(w []float64, st *State) (T, P float64) {
	if idx := s.specs.TemperatureIndexInW(); idx >= 0 {
		T = w[idx]
	} else if idx := s.specs.TemperatureIndexInP(); idx >= 0 && idx < len(st.P) {
		T = st.P[idx]
	}
	if idx := s.specs.PressureIndexInW(); idx >= 0 {
		P = w[idx]
	} else if idx := s.specs.PressureIndexInP(); idx >= 0 && idx < len(st.P) {
		P = st.P[idx]
	}
	return
}

// cluster groups records sharing a primary-species signature within one
// grid cell, in insertion order; search orders the candidates of all
// clusters by distance to the query point.
type cluster struct {
	records []*smartRecord
}

// SmartEquilibriumSolver implements C9: it predicts equilibrium states
// from previously learned (state, sensitivity) records via first-order
// Taylor extrapolation (Predictor), falling back to the exact Solver
// (C7) and learning a new record whenever prediction fails an error
// test, exactly the reactive-transport "smart chemistry" speedup
// technique.
type SmartEquilibriumSolver struct {
	specs   *Specs
	opts    Options
	smart   SmartOptions
	exact   *Solver
	cells   map[gridCell]map[string]*cluster
	verbose bool
}

// NewSmartEquilibriumSolver returns a SmartEquilibriumSolver for specs.
func NewSmartEquilibriumSolver(specs *Specs, opts Options, smart SmartOptions) *SmartEquilibriumSolver {
	return &SmartEquilibriumSolver{
		specs: specs,
		opts:  opts,
		smart: smart,
		exact: NewSolver(specs, opts),
		cells: make(map[gridCell]map[string]*cluster),
	}
}

// SetVerbose toggles logging of accept/learn decisions via gosl/io.
func (s *SmartEquilibriumSolver) SetVerbose(v bool) { s.verbose = v; s.exact.SetVerbose(v) }

// SmartResult reports whether the query was satisfied by prediction
// (Accepted) or required a full Solve (learned a new record).
type SmartResult struct {
	Result
	Accepted bool
}

// Solve attempts to satisfy (cond,restr) by predicting from a nearby
// learned record; on failure of the error test it calls the exact
// Solver and learns the resulting state.
func (s *SmartEquilibriumSolver) Solve(st *State, cond *Conditions, restr *Restrictions) (SmartResult, Sensitivity, error) {
	ok, missing := cond.AllSet()
	if !ok {
		return SmartResult{}, Sensitivity{}, chk.Err("equilibrium.SmartEquilibriumSolver.Solve: input %q has no assigned value", missing)
	}
	w := cond.W()

	T, P := s.gridCoords(w, st)
	cell := cellOf(T, P, s.smart)

	Wn, _, _, err := s.specs.ConservationMatrices()
	if err != nil {
		return SmartResult{}, Sensitivity{}, err
	}
	n0 := append([]float64(nil), st.N...)
	b := make([]float64, len(Wn))
	for r := range Wn {
		for i, ni := range n0 {
			b[r] += Wn[r][i] * ni
		}
	}

	if rec, ok := s.search(cell, b); ok {
		n, p, q := rec.pred.Predict(w, b)
		if s.passesErrorTest(rec, n, p, w, b) {
			st.N, st.P, st.Q, st.W, st.C = n, p, q, append([]float64(nil), w...), b
			st.IPrimary = rec.st.IPrimary
			st.StateID = rec.st.StateID
			if s.verbose {
				io.Pf("equilibrium: smart accept at T=%.2f P=%.2f\n", T, P)
			}
			return SmartResult{Result: Result{Succeeded: true}, Accepted: true}, rec.sens, nil
		}
	}

	res, sens, err := s.exact.Solve(st, cond, restr)
	if err != nil || !res.Succeeded {
		return SmartResult{Result: res}, sens, err
	}

	cp, err := ChemicalPropsAt(s.specs, s.opts, st)
	if err == nil {
		u0 := make([]float64, cp.Sys.NumSpecies())
		for i := range u0 {
			u0[i] = cp.ChemicalPotential(i).Value()
		}
		stCopy := *st
		pred := NewPredictor(&stCopy, sens, u0)
		s.learn(cell, &smartRecord{st: &stCopy, sens: sens, u0: u0, pred: pred})
		if s.verbose {
			io.Pf("equilibrium: smart learn at T=%.2f P=%.2f\n", T, P)
		}
	}

	return SmartResult{Result: res, Accepted: false}, sens, nil
}

// clusterKey returns a string signature for a primary-species index set,
// grouping records that share the same basic-variable set (SPEC_FULL.md
// §4.6 primary-species clustering).
func clusterKey(primary []int) string {
	key := make([]byte, 0, len(primary)*4)
	for _, i := range primary {
		key = append(key, byte(i), byte(i>>8), byte(i>>16), byte(i>>24))
	}
	return string(key)
}

func (s *SmartEquilibriumSolver) learn(cell gridCell, rec *smartRecord) {
	byKey, ok := s.cells[cell]
	if !ok {
		byKey = make(map[string]*cluster)
		s.cells[cell] = byKey
	}
	key := clusterKey(rec.st.IPrimary)
	cl, ok := byKey[key]
	if !ok {
		cl = &cluster{}
		byKey[key] = cl
	}
	cl.records = append(cl.records, rec)
	if s.smart.MaxRecordsPerCluster > 0 && len(cl.records) > s.smart.MaxRecordsPerCluster {
		cl.records = cl.records[len(cl.records)-s.smart.MaxRecordsPerCluster:]
	}
}

// search scans the grid cell (and its 8 neighbors, to tolerate
// query points near a cell boundary) and returns the record whose
// reference conserved-components vector c0 is nearest to b, using a
// priority queue so the closest candidates are considered first.
func (s *SmartEquilibriumSolver) search(cell gridCell, b []float64) (*smartRecord, bool) {
	pq := &recordHeap{}
	heap.Init(pq)
	for dit := -1; dit <= 1; dit++ {
		for dip := -1; dip <= 1; dip++ {
			neighbor := gridCell{it: cell.it + dit, ip: cell.ip + dip}
			byKey, ok := s.cells[neighbor]
			if !ok {
				continue
			}
			for _, cl := range byKey {
				for _, rec := range cl.records {
					heap.Push(pq, recordWithDist{rec: rec, dist: distance(rec.pred.c0, b)})
				}
			}
		}
	}
	if pq.Len() == 0 {
		return nil, false
	}
	best := heap.Pop(pq).(recordWithDist)
	return best.rec, true
}

// passesErrorTest validates a prediction against SmartOptions' relative
// and absolute tolerances: the predicted amounts may not dip below
// RelTolNegativeAmounts of their total sum, and the predicted chemical
// potential of every primary species must stay within the mixed rel/abs
// tolerance of its value at the reference record (SPEC_FULL.md §4.6
// error-control test).
func (s *SmartEquilibriumSolver) passesErrorTest(rec *smartRecord, n, p []float64, w, b []float64) bool {
	nmin, nsum := n[0], 0.0
	for _, ni := range n {
		if ni < nmin {
			nmin = ni
		}
		nsum += ni
	}
	if nmin <= -s.smart.RelTolNegativeAmounts*nsum {
		return false
	}
	for _, i := range rec.pred.PrimaryIndices() {
		u := rec.pred.PredictChemicalPotential(i, w, b)
		u0 := rec.u0[i]
		tol := s.smart.AbsTol + s.smart.RelTol*math.Abs(u0)
		if math.Abs(u-u0) > tol {
			return false
		}
	}
	return true
}

func distance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// recordWithDist pairs a candidate record with its distance to the
// query point, for ordering by recordHeap.
type recordWithDist struct {
	rec  *smartRecord
	dist float64
}

// recordHeap is a min-heap of recordWithDist ordered by dist, giving the
// search the nearest record first (container/heap.Interface).
type recordHeap []recordWithDist

func (h recordHeap) Len() int            { return len(h) }
func (h recordHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h recordHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *recordHeap) Push(x interface{}) { *h = append(*h, x.(recordWithDist)) }
func (h *recordHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
