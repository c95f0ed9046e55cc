// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium_test

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/reaktoro/Reaktoro-sub000/equilibrium"
)

func Test_options01_from_prms(tst *testing.T) {

	chk.PrintTitle("options01")

	prms := fun.Prms{
		&fun.Prm{N: "tolerance", V: 1e-8},
		&fun.Prm{N: "maxIterations", V: 50},
	}
	o := equilibrium.OptionsFromPrms(prms)

	chk.Scalar(tst, "tolerance", 1e-20, o.Tolerance, 1e-8)
	if o.MaxIterations != 50 {
		tst.Fatalf("expected MaxIterations=50, got %d", o.MaxIterations)
	}
	if o.Epsilon != equilibrium.DefaultOptions().Epsilon {
		tst.Fatalf("expected default Epsilon to be preserved")
	}
}
