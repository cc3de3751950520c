package model

import "testing"

func TestBaseEstimator_StateTransitions(t *testing.T) {
	var e BaseEstimator

	if e.IsFitted() {
		t.Fatal("zero value should be Unfit")
	}
	if e.State() != StateUnfit || e.State().String() != "Unfit" {
		t.Errorf("State() = %v", e.State())
	}

	e.SetFitted()
	if !e.IsFitted() || e.State().String() != "Fit" {
		t.Errorf("after SetFitted: %v", e.State())
	}

	// re-entering Fit keeps the state
	e.SetFitted()
	if !e.IsFitted() {
		t.Error("SetFitted should be idempotent")
	}

	e.Reset()
	if e.IsFitted() {
		t.Error("Reset should return to Unfit")
	}
}
