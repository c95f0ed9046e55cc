// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chem

import "github.com/reaktoro/Reaktoro-sub000/ad"

// AggregateState classifies the state of matter of a species or phase.
type AggregateState int

// Aggregate states recognised by the core. Collaborators (database
// parsers) are responsible for mapping their own vocabularies onto these.
const (
	Gas AggregateState = iota
	Liquid
	Aqueous
	Solid
	IonExchange
	Adsorbed
)

func (s AggregateState) String() string {
	switch s {
	case Gas:
		return "Gas"
	case Liquid:
		return "Liquid"
	case Aqueous:
		return "Aqueous"
	case Solid:
		return "Solid"
	case IonExchange:
		return "IonExchange"
	case Adsorbed:
		return "Adsorbed"
	default:
		return "Unknown"
	}
}

// StandardThermoProps are the standard-state properties of one species at
// a given (T,P), all SI: Gibbs energy, enthalpy, volume, its T and P
// derivatives, and heat capacity at constant pressure.
type StandardThermoProps struct {
	G0  ad.Number // standard molar Gibbs energy, J/mol
	H0  ad.Number // standard molar enthalpy, J/mol
	V0  ad.Number // standard molar volume, m3/mol
	VT0 ad.Number // dV0/dT
	VP0 ad.Number // dV0/dP (must be < 0 for Cv0 to be well defined)
	Cp0 ad.Number // standard molar heat capacity at const P, J/(mol.K)
}

// StandardThermoModel evaluates StandardThermoProps at (T,P). Implemented
// by collaborators (HKF, Maier-Kelley, Holland-Powell, NASA polynomials,
// const-lgK, Van't Hoff, ...); the core only calls it.
type StandardThermoModel func(T, P ad.Number) (StandardThermoProps, error)

// ConstStandardThermoModel returns a StandardThermoModel that ignores
// (T,P) and always returns the given properties; useful for tests and for
// const-lgK-style species whose standard state does not vary.
func ConstStandardThermoModel(props StandardThermoProps) StandardThermoModel {
	return func(T, P ad.Number) (StandardThermoProps, error) {
		return props, nil
	}
}

// FormationReaction describes a species formed from other species by a
// reaction with its own standard-thermodynamic model, used by database
// collaborators that derive a product's standard state from a reaction
// rather than tabulating it directly. The core stores it but never
// evaluates it itself (consumed only through Species.Thermo).
type FormationReaction struct {
	Reactants     []string           // names of reactant species
	Stoichiometry []float64          // one coefficient per reactant
	ProductVolume StandardThermoModel // optional override of the product's V0
}

// Species is an immutable description of one chemical species.
type Species struct {
	Name           string
	Formula        map[string]float64 // element symbol -> stoichiometric coefficient
	Charge         float64
	State          AggregateState
	Thermo         StandardThermoModel
	Formation      *FormationReaction // nil if not formed by reaction
}

// ElementCoeff returns the stoichiometric coefficient of the given element
// symbol in this species' formula, or 0 if the element is absent.
func (s Species) ElementCoeff(symbol string) float64 {
	return s.Formula[symbol]
}
