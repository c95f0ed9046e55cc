// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_ad01 checks d/dx(x^2 + 3x) = 2x+3 at x=2 via seeding.
func Test_ad01(tst *testing.T) {

	chk.PrintTitle("ad01")

	x := Seed(2.0)
	y := Add(Mul(x, x), Scale(3, x))
	chk.Scalar(tst, "y.Value", 1e-15, y.Value(), 10)
	chk.Scalar(tst, "y.Deriv", 1e-15, y.Deriv(), 7)
}

// Test_ad02 checks d/dx(ln(x)) = 1/x and d/dx(sqrt(x)) = 1/(2 sqrt(x)).
func Test_ad02(tst *testing.T) {

	chk.PrintTitle("ad02")

	x := Seed(4.0)
	lnx := Log(x)
	chk.Scalar(tst, "ln(4)", 1e-12, lnx.Value(), math.Log(4))
	chk.Scalar(tst, "d ln(x)/dx", 1e-12, lnx.Deriv(), 0.25)

	sx := Sqrt(x)
	chk.Scalar(tst, "sqrt(4)", 1e-12, sx.Value(), 2)
	chk.Scalar(tst, "d sqrt(x)/dx", 1e-12, sx.Deriv(), 0.25)
}

// Test_ad03 checks the quotient rule against a numerical derivative.
func Test_ad03(tst *testing.T) {

	chk.PrintTitle("ad03")

	f := func(v float64) float64 {
		return v * v / (v + 1)
	}
	x := Seed(3.0)
	y := Div(Mul(x, x), Add(x, Const(1)))
	h := 1e-6
	dnum := (f(3+h) - f(3-h)) / (2 * h)
	chk.Scalar(tst, "quotient deriv", 1e-6, y.Deriv(), dnum)
}
