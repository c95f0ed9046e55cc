// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Conditions holds the runtime values of the inputs declared by Specs
// (C4), plus optional bounds on the p-control variables (temperature,
// pressure, and open-system titrant amounts default to (-inf,+inf)).
type Conditions struct {
	specs *Specs
	w     []float64
	set   []bool

	pLower []float64
	pUpper []float64
}

// NewConditions returns a Conditions bound to specs, with every input
// value initially unset and every p-control unbounded.
func NewConditions(specs *Specs) *Conditions {
	n := specs.NumInputs()
	np := specs.NumP()
	c := &Conditions{
		specs:  specs,
		w:      make([]float64, n),
		set:    make([]bool, n),
		pLower: make([]float64, np),
		pUpper: make([]float64, np),
	}
	for i := range c.pLower {
		c.pLower[i] = math.Inf(-1)
		c.pUpper[i] = math.Inf(1)
	}
	return c
}

// Set assigns the runtime value of input name (as declared by Specs).
func (c *Conditions) Set(name string, value float64) *Conditions {
	idx := c.specs.IndexInput(name)
	if idx < 0 {
		chk.Panic("equilibrium.Conditions.Set: %q was not declared as an input in Specs", name)
	}
	c.w[idx] = value
	c.set[idx] = true
	return c
}

// Temperature sets the "T" input, in K.
func (c *Conditions) Temperature(kelvin float64) *Conditions { return c.Set("T", kelvin) }

// Pressure sets the "P" input, in Pa.
func (c *Conditions) Pressure(pascal float64) *Conditions { return c.Set("P", pascal) }

// PH sets the "pH" input.
func (c *Conditions) PH(value float64) *Conditions { return c.Set("pH", value) }

// PE sets the "pE" input.
func (c *Conditions) PE(value float64) *Conditions { return c.Set("pE", value) }

// W returns the full input vector, in declaration order. Unset entries
// are zero; callers should check AllSet before solving.
func (c *Conditions) W() []float64 { return c.w }

// AllSet reports whether every declared input has been assigned a value.
func (c *Conditions) AllSet() (bool, string) {
	for i, ok := range c.set {
		if !ok {
			return false, c.specs.InputNames()[i]
		}
	}
	return true, ""
}

// SetLowerBoundTemperature bounds the unknown-temperature p-control from
// below (only meaningful if Specs.UnknownTemperature was declared).
func (c *Conditions) SetLowerBoundTemperature(kelvin float64) *Conditions {
	idx := c.specs.TemperatureIndexInP()
	if idx < 0 {
		chk.Panic("equilibrium.Conditions: temperature is not an unknown p-control")
	}
	c.pLower[idx] = kelvin
	return c
}

// SetUpperBoundTemperature bounds the unknown-temperature p-control from
// above.
func (c *Conditions) SetUpperBoundTemperature(kelvin float64) *Conditions {
	idx := c.specs.TemperatureIndexInP()
	if idx < 0 {
		chk.Panic("equilibrium.Conditions: temperature is not an unknown p-control")
	}
	c.pUpper[idx] = kelvin
	return c
}

// SetLowerBoundPressure bounds the unknown-pressure p-control from below.
func (c *Conditions) SetLowerBoundPressure(pascal float64) *Conditions {
	idx := c.specs.PressureIndexInP()
	if idx < 0 {
		chk.Panic("equilibrium.Conditions: pressure is not an unknown p-control")
	}
	c.pLower[idx] = pascal
	return c
}

// SetUpperBoundPressure bounds the unknown-pressure p-control from above.
func (c *Conditions) SetUpperBoundPressure(pascal float64) *Conditions {
	idx := c.specs.PressureIndexInP()
	if idx < 0 {
		chk.Panic("equilibrium.Conditions: pressure is not an unknown p-control")
	}
	c.pUpper[idx] = pascal
	return c
}

// PBounds returns the (lower,upper) bound vectors for the p-controls.
func (c *Conditions) PBounds() (lower, upper []float64) { return c.pLower, c.pUpper }
