// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chem

import "github.com/reaktoro/Reaktoro-sub000/ad"

// ActivityExtra is the ordered, type-tagged side-channel that chained
// activity models use to share precomputed state (e.g. an aqueous model
// publishing ionic strength for a chained Setschenow correction to read).
// Keys are model-defined ids; a consumer that requires a key and does not
// find it should fail loudly rather than silently defaulting.
type ActivityExtra struct {
	keys   []string
	values map[string]interface{}
}

// NewActivityExtra returns an empty side-channel, as handed to the first
// activity model in a chain.
func NewActivityExtra() *ActivityExtra {
	return &ActivityExtra{values: make(map[string]interface{})}
}

// Set records a value under id, preserving first-set order in Keys().
func (e *ActivityExtra) Set(id string, value interface{}) {
	if _, ok := e.values[id]; !ok {
		e.keys = append(e.keys, id)
	}
	e.values[id] = value
}

// Get returns the value stored under id and whether it was present.
func (e *ActivityExtra) Get(id string) (interface{}, bool) {
	v, ok := e.values[id]
	return v, ok
}

// MustGet returns the value stored under id, panicking if absent: used by
// downstream chained models that cannot proceed without an upstream
// model's published side-channel entry.
func (e *ActivityExtra) MustGet(id string) interface{} {
	v, ok := e.values[id]
	if !ok {
		panic("activity side-channel: required entry " + id + " not published by an earlier model in the chain")
	}
	return v
}

// Keys returns the ids in the order they were first set.
func (e *ActivityExtra) Keys() []string { return e.keys }

// ActivityProps are the excess properties and activity coefficients
// returned by a phase's activity model at (T,P,x).
type ActivityProps struct {
	Vex   ad.Number   // excess molar volume
	VexT  ad.Number   // dVex/dT
	VexP  ad.Number   // dVex/dP
	Gex   ad.Number   // excess molar Gibbs energy
	Hex   ad.Number   // excess molar enthalpy
	Cpex  ad.Number   // excess molar heat capacity
	LnG   []ad.Number // ln(activity coefficient) per species
	LnA   []ad.Number // ln(activity) per species
}

// ActivityModel evaluates ActivityProps for a phase at (T,P,x), reading
// and/or writing the chain side-channel extra.
type ActivityModel func(T, P ad.Number, x []ad.Number, extra *ActivityExtra) (ActivityProps, error)

// ChainActivityModels composes activity models in declaration order,
// summing their excess contributions and ln(activity coefficient)s; later
// models receive the side-channel accumulated by earlier ones. Mirrors the
// combinator idiom of gosl/fun.Add for plain functions, generalized to
// activity models with a shared side-channel.
func ChainActivityModels(models ...ActivityModel) ActivityModel {
	return func(T, P ad.Number, x []ad.Number, extra *ActivityExtra) (ActivityProps, error) {
		n := len(x)
		total := ActivityProps{
			Vex: ad.From(0), VexT: ad.From(0), VexP: ad.From(0),
			Gex: ad.From(0), Hex: ad.From(0), Cpex: ad.From(0),
			LnG: make([]ad.Number, n), LnA: make([]ad.Number, n),
		}
		for i := range total.LnG {
			total.LnG[i] = ad.From(0)
		}
		for _, m := range models {
			props, err := m(T, P, x, extra)
			if err != nil {
				return ActivityProps{}, err
			}
			total.Vex = ad.Add(total.Vex, props.Vex)
			total.VexT = ad.Add(total.VexT, props.VexT)
			total.VexP = ad.Add(total.VexP, props.VexP)
			total.Gex = ad.Add(total.Gex, props.Gex)
			total.Hex = ad.Add(total.Hex, props.Hex)
			total.Cpex = ad.Add(total.Cpex, props.Cpex)
			for i := range total.LnG {
				total.LnG[i] = ad.Add(total.LnG[i], props.LnG[i])
			}
		}
		for i := range total.LnA {
			total.LnA[i] = ad.Add(ad.Log(x[i]), total.LnG[i])
		}
		return total, nil
	}
}

// IdealActivityModel returns the activity model of an ideal mixture: zero
// excess properties and ln(gamma_i) = 0 for every species, so ln(a_i) =
// ln(x_i). Used both as a cheap default and as the approximate model fed
// to the Approx/ApproxDiagonal Hessian modes (C6).
func IdealActivityModel() ActivityModel {
	return func(T, P ad.Number, x []ad.Number, extra *ActivityExtra) (ActivityProps, error) {
		n := len(x)
		lnA := make([]ad.Number, n)
		lnG := make([]ad.Number, n)
		for i := range x {
			lnG[i] = ad.From(0)
			lnA[i] = ad.Log(x[i])
		}
		return ActivityProps{
			Vex: ad.From(0), VexT: ad.From(0), VexP: ad.From(0),
			Gex: ad.From(0), Hex: ad.From(0), Cpex: ad.From(0),
			LnG: lnG, LnA: lnA,
		}, nil
	}
}

// Phase groups an ordered list of species sharing one activity model.
type Phase struct {
	Name               string
	State              AggregateState
	Species            []Species
	Activity           ActivityModel
	IdealActivity      ActivityModel // used for approximate-Hessian modes; defaults to IdealActivityModel()
}

// NumSpecies returns the number of species in the phase.
func (p Phase) NumSpecies() int { return len(p.Species) }

// IsPure reports whether the phase contains exactly one species whose
// activity is constant (a pure phase in the sense of the log-barrier, C6):
// single-species phases are always treated as pure regardless of the
// activity model supplied, since a one-species mixture has x=1 always.
func (p Phase) IsPure() bool { return len(p.Species) == 1 }
