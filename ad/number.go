// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ad implements a small forward-mode automatic-differentiation
// abstraction used by the equilibrium core to evaluate thermodynamic
// properties and their derivatives with a single pipeline. A Number carries
// a value and, optionally, one directional derivative ("seed"); every model
// function in chem/props/equilibrium is written against the Number
// interface instead of float64 so that seeding one input column and
// re-evaluating the pipeline yields that column of the Hessian or
// constraint Jacobian, without analytic derivatives in any activity or
// standard-thermo model.
package ad

import "math"

// Number is the scalar type every thermodynamic model is generic over.
// Const values have a zero derivative; Dual values carry one tangent.
type Number interface {
	Value() float64
	Deriv() float64
}

// Const is a plain value with no derivative information; used whenever a
// quantity is not being differentiated (the common case: most columns of a
// Hessian sweep touch only a handful of Number values at a time).
type Const float64

func (c Const) Value() float64 { return float64(c) }
func (c Const) Deriv() float64 { return 0 }

// Dual carries a value and the derivative of that value with respect to
// whichever scalar input was seeded for the current sweep.
type Dual struct {
	Val float64
	Der float64
}

func (d Dual) Value() float64 { return d.Val }
func (d Dual) Deriv() float64 { return d.Der }

// Seed returns a Dual representing the independent variable itself: value v
// with unit derivative, to be passed as the seeded input of a sweep.
func Seed(v float64) Dual { return Dual{Val: v, Der: 1} }

// From lifts a plain float64 into a Number with zero derivative.
func From(v float64) Number { return Const(v) }

// asDual returns n as a Dual, copying its value and derivative when n is
// not already a Dual; the operations below use it to read both channels.
func asDual(n Number) Dual {
	if d, ok := n.(Dual); ok {
		return d
	}
	return Dual{Val: n.Value(), Der: n.Deriv()}
}

// Add returns a+b with derivative propagated (mirrors gosl/fun's Add
// combinator for plain functions, generalized to dual numbers).
func Add(a, b Number) Number {
	da, db := asDual(a), asDual(b)
	if da.Der == 0 && db.Der == 0 {
		return Const(da.Val + db.Val)
	}
	return Dual{Val: da.Val + db.Val, Der: da.Der + db.Der}
}

// Sub returns a-b.
func Sub(a, b Number) Number {
	da, db := asDual(a), asDual(b)
	if da.Der == 0 && db.Der == 0 {
		return Const(da.Val - db.Val)
	}
	return Dual{Val: da.Val - db.Val, Der: da.Der - db.Der}
}

// Mul returns a*b (product rule).
func Mul(a, b Number) Number {
	da, db := asDual(a), asDual(b)
	if da.Der == 0 && db.Der == 0 {
		return Const(da.Val * db.Val)
	}
	return Dual{Val: da.Val * db.Val, Der: da.Der*db.Val + da.Val*db.Der}
}

// Div returns a/b (quotient rule). Panics-free: callers guarantee b != 0,
// the same contract gosl/fun places on its Div-like combinators.
func Div(a, b Number) Number {
	da, db := asDual(a), asDual(b)
	if da.Der == 0 && db.Der == 0 {
		return Const(da.Val / db.Val)
	}
	return Dual{Val: da.Val / db.Val, Der: (da.Der*db.Val - da.Val*db.Der) / (db.Val * db.Val)}
}

// Neg returns -a.
func Neg(a Number) Number {
	da := asDual(a)
	if da.Der == 0 {
		return Const(-da.Val)
	}
	return Dual{Val: -da.Val, Der: -da.Der}
}

// Scale returns s*a for a plain float64 scale factor s.
func Scale(s float64, a Number) Number { return Mul(Const(s), a) }

// Log returns ln(a).
func Log(a Number) Number {
	da := asDual(a)
	if da.Der == 0 {
		return Const(math.Log(da.Val))
	}
	return Dual{Val: math.Log(da.Val), Der: da.Der / da.Val}
}

// Exp returns e^a.
func Exp(a Number) Number {
	da := asDual(a)
	v := math.Exp(da.Val)
	if da.Der == 0 {
		return Const(v)
	}
	return Dual{Val: v, Der: da.Der * v}
}

// Sqrt returns sqrt(a).
func Sqrt(a Number) Number {
	da := asDual(a)
	v := math.Sqrt(da.Val)
	if da.Der == 0 {
		return Const(v)
	}
	return Dual{Val: v, Der: da.Der / (2 * v)}
}

// Pow returns a^p for a constant real exponent p.
func Pow(a Number, p float64) Number {
	da := asDual(a)
	v := math.Pow(da.Val, p)
	if da.Der == 0 {
		return Const(v)
	}
	return Dual{Val: v, Der: da.Der * p * math.Pow(da.Val, p-1)}
}

// Inv returns 1/a.
func Inv(a Number) Number { return Div(Const(1), a) }
