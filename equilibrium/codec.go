// Copyright 2024 The Reaktoro-sub000 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import "github.com/cpmech/gosl/utl"

// stateData is the plain-value snapshot of a State, the payload actually
// handed to utl.Encoder/Decoder (Sys is excluded: the system is shared,
// immutable reference data rebuilt by the caller, not per-state).
type stateData struct {
	N, P, Q, W, C []float64
	IPrimary      []int
	StateID       int64
}

// Encode encodes the persisted fields of st, mirroring the
// ele.Encode(enc utl.Encoder) convention used to checkpoint element
// internal state for restart.
func (st *State) Encode(enc utl.Encoder) error {
	return enc.Encode(stateData{
		N: st.N, P: st.P, Q: st.Q, W: st.W, C: st.C,
		IPrimary: st.IPrimary, StateID: st.StateID,
	})
}

// Decode restores st's persisted fields from dec, leaving Sys untouched
// (the caller must set Sys to the ChemicalSystem it was built against
// before resuming a solve against the restored state).
func (st *State) Decode(dec utl.Decoder) error {
	var data stateData
	if err := dec.Decode(&data); err != nil {
		return err
	}
	st.N, st.P, st.Q, st.W, st.C = data.N, data.P, data.Q, data.W, data.C
	st.IPrimary, st.StateID = data.IPrimary, data.StateID
	return nil
}
