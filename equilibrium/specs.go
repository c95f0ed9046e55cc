// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/reaktoro/Reaktoro-sub000/ad"
	"github.com/reaktoro/Reaktoro-sub000/chem"
	"github.com/reaktoro/Reaktoro-sub000/props"
)

// EquationFunc is the residual of one equation constraint, evaluated from
// the current ChemicalProps plus the current p and w vectors. A converged
// solution drives every equation residual to zero.
type EquationFunc func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number

type equationConstraint struct {
	id string
	fn EquationFunc
}

type control struct {
	name          string // input/control id, e.g. "p:T", "q:CO2(g)"
	titrant       string // substance name whose formula backs this control's column; "" for T/P
	isTemperature bool
	isPressure    bool
}

type reactivityRow struct {
	id    string
	coefN map[int]float64 // species index -> coefficient
	coefP map[int]float64 // p-control index -> coefficient
}

// Specs is the declarative builder of C3: it records, in call order, which
// quantities are inputs, which controls/titrants/constraints they induce,
// and produces the conservation and reactivity matrices consumed by Setup.
type Specs struct {
	sys *chem.ChemicalSystem

	inputNames []string
	inputIndex map[string]int

	pControls []control
	qControls []control

	equations []equationConstraint

	reactivity []reactivityRow

	temperatureInputIdx int // index in w, or -1
	pressureInputIdx    int // index in w, or -1
	temperaturePIdx     int // index in p, or -1
	pressurePIdx        int // index in p, or -1
}

// New returns an empty Specs builder bound to sys.
func New(sys *chem.ChemicalSystem) *Specs {
	return &Specs{
		sys:                 sys,
		inputIndex:          make(map[string]int),
		temperatureInputIdx: -1,
		pressureInputIdx:    -1,
		temperaturePIdx:     -1,
		pressurePIdx:        -1,
	}
}

// addInput registers name as an input if not already present and returns
// its index in w. It is a programmer error to register the same input
// name twice with different call sites; this method is idempotent instead
// of failing, since several builder methods (e.g. fugacity then pH) may
// legitimately share bookkeeping.
func (s *Specs) addInput(name string) int {
	if i, ok := s.inputIndex[name]; ok {
		return i
	}
	i := len(s.inputNames)
	s.inputNames = append(s.inputNames, name)
	s.inputIndex[name] = i
	return i
}

// Temperature declares T as an input.
func (s *Specs) Temperature() *Specs {
	s.temperatureInputIdx = s.addInput("T")
	return s
}

// Pressure declares P as an input.
func (s *Specs) Pressure() *Specs {
	s.pressureInputIdx = s.addInput("P")
	return s
}

// UnknownTemperature declares T as a p-control (unknown).
func (s *Specs) UnknownTemperature() *Specs {
	s.temperaturePIdx = len(s.pControls)
	s.pControls = append(s.pControls, control{name: "p:T", isTemperature: true})
	return s
}

// UnknownPressure declares P as a p-control (unknown).
func (s *Specs) UnknownPressure() *Specs {
	s.pressurePIdx = len(s.pControls)
	s.pControls = append(s.pControls, control{name: "p:P", isPressure: true})
	return s
}

// addPropertyEquation is the common path for volume/internalEnergy/
// enthalpy/gibbsEnergy/helmholtzEnergy/entropy/charge: declare an input
// w[idx] and an equation constraint prop(props,p,w) - w[idx] == 0.
func (s *Specs) addPropertyEquation(inputName string, prop EquationFunc) *Specs {
	idx := s.addInput(inputName)
	s.equations = append(s.equations, equationConstraint{
		id: inputName,
		fn: func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
			return ad.Sub(prop(cp, p, w), w[idx])
		},
	})
	return s
}

// Volume declares V as an input with an equation constraint V(n,p,w) = w[V].
func (s *Specs) Volume() *Specs {
	return s.addPropertyEquation("V", func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number { return cp.V })
}

// InternalEnergy declares U = H - P.V as an input.
func (s *Specs) InternalEnergy() *Specs {
	return s.addPropertyEquation("U", func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return ad.Sub(cp.H, ad.Mul(cp.P, cp.V))
	})
}

// Enthalpy declares H as an input.
func (s *Specs) Enthalpy() *Specs {
	return s.addPropertyEquation("H", func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number { return cp.H })
}

// GibbsEnergy declares G as an input.
func (s *Specs) GibbsEnergy() *Specs {
	return s.addPropertyEquation("G", func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number { return cp.G })
}

// HelmholtzEnergy declares A = G - P.V as an input.
func (s *Specs) HelmholtzEnergy() *Specs {
	return s.addPropertyEquation("A", func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return ad.Sub(cp.G, ad.Mul(cp.P, cp.V))
	})
}

// Entropy declares S = (H-G)/T as an input.
func (s *Specs) Entropy() *Specs {
	return s.addPropertyEquation("S", func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return ad.Div(ad.Sub(cp.H, cp.G), cp.T)
	})
}

// Charge declares the total system charge as an input.
func (s *Specs) Charge() *Specs {
	return s.addPropertyEquation("charge", func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return cp.Charge()
	})
}

// ElementAmount declares b[symbol] as an input.
func (s *Specs) ElementAmount(symbol string) *Specs {
	name := "elementAmount[" + symbol + "]"
	return s.addPropertyEquation(name, func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return cp.ElementAmount(symbol)
	})
}

// ElementAmountInPhase declares b[symbol] restricted to phase as an input.
func (s *Specs) ElementAmountInPhase(symbol, phase string) *Specs {
	name := "elementAmount[" + symbol + "][" + phase + "]"
	ip := s.sys.IndexPhase(phase)
	return s.addPropertyEquation(name, func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return cp.ElementAmountInPhase(symbol, ip)
	})
}

// ElementMass declares the mass of element symbol as an input (kg).
func (s *Specs) ElementMass(symbol string) *Specs {
	name := "elementMass[" + symbol + "]"
	mass, _ := chem.AtomicWeight(symbol)
	return s.addPropertyEquation(name, func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return ad.Scale(mass, cp.ElementAmount(symbol))
	})
}

// ElementMassInPhase declares the mass of element symbol within phase.
func (s *Specs) ElementMassInPhase(symbol, phase string) *Specs {
	name := "elementMass[" + symbol + "][" + phase + "]"
	ip := s.sys.IndexPhase(phase)
	mass, _ := chem.AtomicWeight(symbol)
	return s.addPropertyEquation(name, func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return ad.Scale(mass, cp.ElementAmountInPhase(symbol, ip))
	})
}

// PhaseAmount declares the total amount of species in phase as an input.
func (s *Specs) PhaseAmount(phase string) *Specs {
	name := "phaseAmount[" + phase + "]"
	ip := s.sys.IndexPhase(phase)
	return s.addPropertyEquation(name, func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return cp.PhaseAmount(ip)
	})
}

// PhaseMass declares the mass of phase as an input (kg).
func (s *Specs) PhaseMass(phase string) *Specs {
	name := "phaseMass[" + phase + "]"
	ip := s.sys.IndexPhase(phase)
	return s.addPropertyEquation(name, func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return cp.PhaseMass(ip, s.sys.SpeciesMolarMass)
	})
}

// PhaseVolume declares the volume of phase as an input (m3).
func (s *Specs) PhaseVolume(phase string) *Specs {
	name := "phaseVolume[" + phase + "]"
	ip := s.sys.IndexPhase(phase)
	return s.addPropertyEquation(name, func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return ad.Mul(cp.Phases[ip].N, cp.Phases[ip].V)
	})
}

// titrantFormula looks up the row coefficients (elements + charge) for
// substance, using a species of the same name already in the system. This
// is sufficient for every worked scenario in SPEC_FULL.md §8, where every
// titrant substance (CO2, H+, e-, Mg+2, ...) is also a system species.
func (s *Specs) titrantFormula(substance string) ([]float64, error) {
	i := s.sys.IndexSpecies(substance)
	if i < 0 {
		return nil, chk.Err("equilibrium.Specs: titrant substance %q is not a species of the system", substance)
	}
	W := s.sys.FormulaMatrix()
	nrows := len(W)
	col := make([]float64, nrows)
	for r := 0; r < nrows; r++ {
		col[r] = W[r][i]
	}
	return col, nil
}

// addQControl adds substance as an implicit titrant with a q-control and
// registers w[name] as an input with the supplied equation residual.
func (s *Specs) addQControl(inputName, substance string, eq EquationFunc) *Specs {
	idx := s.addInput(inputName)
	s.qControls = append(s.qControls, control{name: "q:" + substance, titrant: substance})
	s.equations = append(s.equations, equationConstraint{
		id: inputName,
		fn: func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
			return ad.Sub(eq(cp, p, w), w[idx])
		},
	})
	return s
}

// ChemicalPotential declares u[subst] as an input, adding substance as an
// implicit titrant with a q-constraint.
func (s *Specs) ChemicalPotential(subst string) *Specs {
	i := s.sys.IndexSpecies(subst)
	return s.addQControl("u["+subst+"]", subst, func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return cp.ChemicalPotential(i)
	})
}

// LnActivity declares ln(a[sp]) as an input.
func (s *Specs) LnActivity(sp string) *Specs {
	ip, begin := s.phaseAndBeginOf(sp)
	i := s.sys.IndexSpecies(sp)
	return s.addQControl("ln(a["+sp+"])", sp, func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return cp.Phases[ip].LnA[i-begin]
	})
}

// LgActivity declares lg(a[sp]) = ln(a[sp])/ln(10) as an input.
func (s *Specs) LgActivity(sp string) *Specs {
	ip, begin := s.phaseAndBeginOf(sp)
	i := s.sys.IndexSpecies(sp)
	ln10 := math.Log(10)
	return s.addQControl("lg(a["+sp+"])", sp, func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return ad.Scale(1/ln10, cp.Phases[ip].LnA[i-begin])
	})
}

// Activity declares a[sp] = exp(ln(a[sp])) as an input.
func (s *Specs) Activity(sp string) *Specs {
	ip, begin := s.phaseAndBeginOf(sp)
	i := s.sys.IndexSpecies(sp)
	return s.addQControl("a["+sp+"]", sp, func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return ad.Exp(cp.Phases[ip].LnA[i-begin])
	})
}

// Fugacity declares f[gas] as an input, taken in bar at the API boundary
// and converted to Pa internally (f = a * P, with a the gas-phase
// activity of the species and P in Pa; the caller supplies w in bar).
func (s *Specs) Fugacity(gas string) *Specs {
	ip, begin := s.phaseAndBeginOf(gas)
	i := s.sys.IndexSpecies(gas)
	const barToPa = 1e5
	idx := s.addInput("f[" + gas + "]")
	s.qControls = append(s.qControls, control{name: "q:" + gas, titrant: gas})
	s.equations = append(s.equations, equationConstraint{
		id: "f[" + gas + "]",
		fn: func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
			fPa := ad.Mul(ad.Exp(cp.Phases[ip].LnA[i-begin]), cp.P)
			return ad.Sub(fPa, ad.Scale(barToPa, w[idx]))
		},
	})
	return s
}

// PH declares pH as an input, with H+ as the implicit titrant.
func (s *Specs) PH() *Specs {
	ip, begin := s.phaseAndBeginOf("H+")
	i := s.sys.IndexSpecies("H+")
	ln10 := math.Log(10)
	return s.addQControl("pH", "H+", func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return ad.Neg(ad.Scale(1/ln10, cp.Phases[ip].LnA[i-begin]))
	})
}

// PMg declares pMg as an input, with Mg+2 as the implicit titrant.
func (s *Specs) PMg() *Specs {
	ip, begin := s.phaseAndBeginOf("Mg+2")
	i := s.sys.IndexSpecies("Mg+2")
	ln10 := math.Log(10)
	return s.addQControl("pMg", "Mg+2", func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return ad.Neg(ad.Scale(1/ln10, cp.Phases[ip].LnA[i-begin]))
	})
}

// PE declares pE as an input, with e- as the implicit titrant.
func (s *Specs) PE() *Specs {
	ip, begin := s.phaseAndBeginOf("e-")
	i := s.sys.IndexSpecies("e-")
	ln10 := math.Log(10)
	return s.addQControl("pE", "e-", func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		return ad.Neg(ad.Scale(1/ln10, cp.Phases[ip].LnA[i-begin]))
	})
}

// Eh declares Eh (volts) as an input, with e- as the implicit titrant:
// Eh = ln(10).R.T/F . pE.
func (s *Specs) Eh() *Specs {
	ip, begin := s.phaseAndBeginOf("e-")
	i := s.sys.IndexSpecies("e-")
	const gasConstant = 8.31446261815324
	const faraday = 96485.33212
	ln10 := math.Log(10)
	factor := ln10 * gasConstant / faraday
	return s.addQControl("Eh", "e-", func(cp *props.ChemicalProps, p, w []ad.Number) ad.Number {
		pE := ad.Neg(ad.Scale(1/ln10, cp.Phases[ip].LnA[i-begin]))
		return ad.Scale(factor, ad.Mul(pE, cp.T))
	})
}

// OpenTo declares the system open to substance: an explicit titrant whose
// amount is an unknown p-control, with no equation constraint of its own
// (the conservation equations absorb its column).
func (s *Specs) OpenTo(substance string) *Specs {
	s.pControls = append(s.pControls, control{name: "p:" + substance, titrant: substance})
	return s
}

// AddUnknownTitrantAmount is an alias of OpenTo, matching the builder
// method named in SPEC_FULL.md §4.2.
func (s *Specs) AddUnknownTitrantAmount(substance string) *Specs {
	return s.OpenTo(substance)
}

// AddReactivityConstraint adds an inert linear combination of species
// (and, optionally, p-control) amount changes that must sum to zero
// (SPEC_FULL.md §4.2/§4.3, "reactivity matrices"). coefN maps species name
// to coefficient; coefP maps p-control name to coefficient.
func (s *Specs) AddReactivityConstraint(id string, coefN map[string]float64, coefP map[string]float64) *Specs {
	row := reactivityRow{id: id, coefN: make(map[int]float64), coefP: make(map[int]float64)}
	for name, c := range coefN {
		i := s.sys.IndexSpecies(name)
		if i < 0 {
			chk.Panic("equilibrium.Specs.AddReactivityConstraint: unknown species %q", name)
		}
		row.coefN[i] = c
	}
	for name, c := range coefP {
		found := false
		for pi, pc := range s.pControls {
			if pc.name == name {
				row.coefP[pi] = c
				found = true
				break
			}
		}
		if !found {
			chk.Panic("equilibrium.Specs.AddReactivityConstraint: unknown p-control %q", name)
		}
	}
	s.reactivity = append(s.reactivity, row)
	return s
}

// Inert is a convenience wrapper for the common case of a single species
// held fixed at its initial amount (SPEC_FULL.md §8 scenario 4): adds a
// reactivity row 1*species = 0 (i.e. n_species - n0_species is conserved).
func (s *Specs) Inert(species string) *Specs {
	return s.AddReactivityConstraint("inert:"+species, map[string]float64{species: 1}, nil)
}

func (s *Specs) phaseAndBeginOf(species string) (ip, begin int) {
	i := s.sys.IndexSpecies(species)
	if i < 0 {
		chk.Panic("equilibrium.Specs: species %q not found in system", species)
	}
	ip = s.sys.PhaseOfSpecies(i)
	begin, _ = s.sys.SpeciesRangeInPhase(ip)
	return
}

// InputNames returns the ordered list of input (w) names.
func (s *Specs) InputNames() []string { return s.inputNames }

// NumInputs returns len(w).
func (s *Specs) NumInputs() int { return len(s.inputNames) }

// NumP returns the number of p-controls (unknowns from open titrants and
// unknown T/P).
func (s *Specs) NumP() int { return len(s.pControls) }

// NumQ returns the number of q-controls (unknowns from chemical-potential
// type constraints).
func (s *Specs) NumQ() int { return len(s.qControls) }

// NumEquations returns the number of nonlinear equation constraints.
func (s *Specs) NumEquations() int { return len(s.equations) }

// IndexInput returns the index of input name in w, or -1.
func (s *Specs) IndexInput(name string) int {
	if i, ok := s.inputIndex[name]; ok {
		return i
	}
	return -1
}

// TemperatureIndexInW returns the index of T in w, or -1 if T is a
// p-control or not declared at all.
func (s *Specs) TemperatureIndexInW() int { return s.temperatureInputIdx }

// PressureIndexInW returns the index of P in w, or -1.
func (s *Specs) PressureIndexInW() int { return s.pressureInputIdx }

// TemperatureIndexInP returns the index of T in p, or -1 if T is an input.
func (s *Specs) TemperatureIndexInP() int { return s.temperaturePIdx }

// PressureIndexInP returns the index of P in p, or -1 if P is an input.
func (s *Specs) PressureIndexInP() int { return s.pressurePIdx }

// System returns the bound ChemicalSystem.
func (s *Specs) System() *chem.ChemicalSystem { return s.sys }

// Equations returns the ordered equation constraints.
func (s *Specs) Equations() []equationConstraint { return s.equations }

// PControls returns the ordered p-controls.
func (s *Specs) PControls() []control { return s.pControls }

// QControls returns the ordered q-controls.
func (s *Specs) QControls() []control { return s.qControls }

// ConservationMatrices returns (Wn, Wq, Wp): Wn is the system's own
// formula matrix (elements+charge rows) augmented with one row per
// reactivity constraint; Wq's columns are the formula of each q-control's
// titrant; Wp's columns are the formula of each p-control's titrant (a
// zero column for unknown T/P).
func (s *Specs) ConservationMatrices() (Wn, Wq, Wp [][]float64, err error) {
	base := s.sys.FormulaMatrix()
	nbase := len(base)
	nspecies := s.sys.NumSpecies()
	nrows := nbase + len(s.reactivity)

	Wn = make([][]float64, nrows)
	for r := 0; r < nbase; r++ {
		Wn[r] = append([]float64(nil), base[r]...)
	}
	for k, row := range s.reactivity {
		Wn[nbase+k] = make([]float64, nspecies)
		for i, c := range row.coefN {
			Wn[nbase+k][i] = c
		}
	}

	Wq = make([][]float64, nrows)
	for r := range Wq {
		Wq[r] = make([]float64, len(s.qControls))
	}
	for qi, qc := range s.qControls {
		col, e := s.titrantFormula(qc.titrant)
		if e != nil {
			return nil, nil, nil, e
		}
		for r := 0; r < nbase; r++ {
			Wq[r][qi] = col[r]
		}
	}

	Wp = make([][]float64, nrows)
	for r := range Wp {
		Wp[r] = make([]float64, len(s.pControls))
	}
	for pi, pc := range s.pControls {
		if pc.isTemperature || pc.isPressure {
			continue // zero column
		}
		col, e := s.titrantFormula(pc.titrant)
		if e != nil {
			return nil, nil, nil, e
		}
		for r := 0; r < nbase; r++ {
			Wp[r][pi] = col[r]
		}
	}
	for k, row := range s.reactivity {
		for pi, c := range row.coefP {
			Wp[nbase+k][pi] = c
		}
	}

	return Wn, Wq, Wp, nil
}

// ReactivityMatrices returns (Kn, Kp): one row per reactivity constraint,
// over species and p-controls respectively.
func (s *Specs) ReactivityMatrices() (Kn, Kp [][]float64) {
	nspecies := s.sys.NumSpecies()
	Kn = make([][]float64, len(s.reactivity))
	Kp = make([][]float64, len(s.reactivity))
	for k, row := range s.reactivity {
		Kn[k] = make([]float64, nspecies)
		for i, c := range row.coefN {
			Kn[k][i] = c
		}
		Kp[k] = make([]float64, len(s.pControls))
		for pi, c := range row.coefP {
			Kp[k][pi] = c
		}
	}
	return
}
