// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium_test

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
	"github.com/reaktoro/Reaktoro-sub000/equilibrium"
	"github.com/reaktoro/Reaktoro-sub000/internal/testsystem"
)

// Test_setup01_hessian_vs_numeric checks the exact AD Hessian returned by
// Setup.HessianN against a numerical derivative of Setup.GradientN, the
// same ana-vs-num cross-check technique the constitutive-model drivers use
// to validate a model's tangent operator.
func Test_setup01_hessian_vs_numeric(tst *testing.T) {

	chk.PrintTitle("setup01")

	sys, err := testsystem.Build()
	if err != nil {
		tst.Fatalf("testsystem.Build failed: %v", err)
	}

	specs := equilibrium.New(sys).Temperature().Pressure()
	setup := equilibrium.NewSetup(specs, equilibrium.DefaultOptions())

	n := testsystem.InitialAmounts()
	p := []float64{}
	w := []float64{298.15, 1e5}

	H, err := setup.HessianN(n, p, w)
	if err != nil {
		tst.Fatalf("HessianN failed: %v", err)
	}

	nsp := len(n)
	hasError := false
	for j := 0; j < nsp; j++ {
		for i := 0; i < nsp; i++ {
			dnum := num.DerivCen(func(x float64, args ...interface{}) (res float64) {
				ntmp := append([]float64(nil), n...)
				ntmp[j] = x
				g, err := setup.GradientN(ntmp, p, w)
				if err != nil {
					tst.Fatalf("GradientN failed: %v", err)
				}
				return g[i]
			}, n[j])
			err := chk.PrintAnaNum(io.Sf("H[%d][%d]", i, j), 1e-4, H[i][j], dnum, false)
			if err != nil {
				hasError = true
			}
		}
	}
	if hasError {
		tst.Fatalf("ana-num Hessian comparison failed")
	}
}
