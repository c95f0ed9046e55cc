// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chem

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// ChemicalSystem is the immutable bundle of phases, derived elements and
// the formula matrix. Once built it never changes; it may be shared freely
// across goroutines (see SPEC_FULL.md §6).
type ChemicalSystem struct {
	dbTag    string    // keep-alive tag identifying the originating database, opaque to the core
	phases   []Phase
	elements []Element

	speciesIndex map[string]int // species name -> index in the flattened species vector
	phaseIndex   map[string]int // phase name -> index
	elementIdx   map[string]int // element symbol -> row index in W

	phaseSpeciesBegin []int // [nphases] first species index of each phase
	phaseSpeciesEnd   []int // [nphases] one-past-last species index of each phase
	speciesPhase      []int // [nspecies] phase index owning each species

	// W is the (E+1) x N formula matrix: the first E rows are element
	// stoichiometries, the last row is species charge.
	W [][]float64
}

// New builds a ChemicalSystem from phases in the given order (species
// within each phase are contiguous in the returned system's species
// vector, per the data-model invariant). dbTag keeps a reference to the
// originating database alive without the core depending on its type.
func New(dbTag string, phases []Phase) (*ChemicalSystem, error) {
	if len(phases) == 0 {
		return nil, chk.Err("chem.New: system must have at least one phase")
	}

	sys := &ChemicalSystem{
		dbTag:        dbTag,
		phases:       phases,
		speciesIndex: make(map[string]int),
		phaseIndex:   make(map[string]int),
		elementIdx:   make(map[string]int),
	}

	elementSet := make(map[string]bool)
	var elementOrder []string

	ispecies := 0
	for ip, ph := range phases {
		if _, dup := sys.phaseIndex[ph.Name]; dup {
			return nil, chk.Err("chem.New: duplicate phase name %q", ph.Name)
		}
		sys.phaseIndex[ph.Name] = ip
		sys.phaseSpeciesBegin = append(sys.phaseSpeciesBegin, ispecies)
		for _, sp := range ph.Species {
			if _, dup := sys.speciesIndex[sp.Name]; dup {
				return nil, chk.Err("chem.New: duplicate species name %q", sp.Name)
			}
			if sp.Thermo == nil {
				return nil, chk.Err("chem.New: species %q has no standard-thermo model", sp.Name)
			}
			sys.speciesIndex[sp.Name] = ispecies
			sys.speciesPhase = append(sys.speciesPhase, ip)
			for symbol := range sp.Formula {
				if !elementSet[symbol] {
					elementSet[symbol] = true
					elementOrder = append(elementOrder, symbol)
				}
			}
			ispecies++
		}
		sys.phaseSpeciesEnd = append(sys.phaseSpeciesEnd, ispecies)
		if ph.Activity == nil {
			phases[ip].Activity = IdealActivityModel()
		}
		if ph.IdealActivity == nil {
			phases[ip].IdealActivity = IdealActivityModel()
		}
	}
	sys.phases = phases

	sort.Strings(elementOrder)
	for i, symbol := range elementOrder {
		sys.elementIdx[symbol] = i
		molarMass, _ := AtomicWeight(symbol) // 0 if unknown to the built-in table
		sys.elements = append(sys.elements, Element{Symbol: symbol, Name: symbol, MolarMass: molarMass})
	}

	nspecies := ispecies
	nrows := len(sys.elements) + 1 // + charge row
	sys.W = la.MatAlloc(nrows, nspecies)
	j := 0
	for _, ph := range sys.phases {
		for _, sp := range ph.Species {
			for symbol, coeff := range sp.Formula {
				sys.W[sys.elementIdx[symbol]][j] = coeff
			}
			sys.W[nrows-1][j] = sp.Charge
			j++
		}
	}

	return sys, nil
}

// NumSpecies returns the total number of species across all phases.
func (s *ChemicalSystem) NumSpecies() int { return len(s.speciesPhase) }

// NumElements returns the number of distinct elements across all species.
func (s *ChemicalSystem) NumElements() int { return len(s.elements) }

// NumPhases returns the number of phases.
func (s *ChemicalSystem) NumPhases() int { return len(s.phases) }

// Phases returns the ordered phase list (read-only by convention).
func (s *ChemicalSystem) Phases() []Phase { return s.phases }

// Elements returns the ordered, derived element list.
func (s *ChemicalSystem) Elements() []Element { return s.elements }

// Phase returns the phase at index ip.
func (s *ChemicalSystem) Phase(ip int) Phase { return s.phases[ip] }

// Species returns the species at the given flattened index.
func (s *ChemicalSystem) Species(i int) Species {
	ip := s.speciesPhase[i]
	return s.phases[ip].Species[i-s.phaseSpeciesBegin[ip]]
}

// PhaseOfSpecies returns the phase index owning species i.
func (s *ChemicalSystem) PhaseOfSpecies(i int) int { return s.speciesPhase[i] }

// SpeciesRangeInPhase returns [begin,end) species indices for phase ip.
func (s *ChemicalSystem) SpeciesRangeInPhase(ip int) (begin, end int) {
	return s.phaseSpeciesBegin[ip], s.phaseSpeciesEnd[ip]
}

// IndexSpecies returns the index of the named species, or -1.
func (s *ChemicalSystem) IndexSpecies(name string) int {
	if i, ok := s.speciesIndex[name]; ok {
		return i
	}
	return -1
}

// IndexPhase returns the index of the named phase, or -1.
func (s *ChemicalSystem) IndexPhase(name string) int {
	if i, ok := s.phaseIndex[name]; ok {
		return i
	}
	return -1
}

// IndexElement returns the row index of the named element, or -1.
func (s *ChemicalSystem) IndexElement(symbol string) int {
	if i, ok := s.elementIdx[symbol]; ok {
		return i
	}
	return -1
}

// FormulaMatrix returns the (E+1) x N matrix W whose first E rows are
// element stoichiometries and whose last row is species charge. Callers
// must not mutate the returned slices.
func (s *ChemicalSystem) FormulaMatrix() [][]float64 { return s.W }

// ChargeRow returns the index of the charge row within FormulaMatrix.
func (s *ChemicalSystem) ChargeRow() int { return len(s.elements) }

// DatabaseTag returns the opaque keep-alive tag of the originating
// database, or "" if the system was built without one.
func (s *ChemicalSystem) DatabaseTag() string { return s.dbTag }

// SpeciesMolarMass returns the molar mass (kg/mol) of species i, computed
// from its formula and the system's derived element molar masses.
func (s *ChemicalSystem) SpeciesMolarMass(i int) float64 {
	sp := s.Species(i)
	var mass float64
	for symbol, coeff := range sp.Formula {
		row := s.IndexElement(symbol)
		if row < 0 {
			continue
		}
		mass += coeff * s.elements[row].MolarMass
	}
	return mass
}
