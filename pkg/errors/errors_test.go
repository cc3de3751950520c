package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewConfigurationError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		column  string
		reason  string
		wantMsg string
	}{
		{
			name:    "with column",
			op:      "Dataset.Split",
			column:  "price",
			reason:  "no such column",
			wantMsg: `gdlinear: Dataset.Split: column "price": no such column`,
		},
		{
			name:    "without column",
			op:      "Dataset.New",
			reason:  "no columns",
			wantMsg: "gdlinear: Dataset.New: no columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfigurationError(tt.op, tt.column, tt.reason)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var cfgErr *ConfigurationError
			if !As(err, &cfgErr) {
				t.Fatal("Error should be castable to *ConfigurationError")
			}
			if cfgErr.Column != tt.column {
				t.Errorf("Column = %q, want %q", cfgErr.Column, tt.column)
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Metric.Gradient", 3, 2, 1)

	want := "gdlinear: Metric.Gradient: dimension mismatch on axis 1 (features). Expected 3, got 2"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotReadyError(t *testing.T) {
	err := NewNotReadyError("GDRegressor", "Fit")

	if !strings.Contains(err.Error(), "Call Split() before using Fit()") {
		t.Errorf("unexpected message: %v", err)
	}

	var notReady *NotReadyError
	if !As(err, &notReady) {
		t.Fatal("Error should be castable to *NotReadyError")
	}
	if notReady.Method != "Fit" {
		t.Errorf("Method = %q, want Fit", notReady.Method)
	}
}

func TestNewDivisionByZeroError(t *testing.T) {
	err := NewDivisionByZeroError("R2Score", "total sum of squares")

	want := "gdlinear: R2Score: division by zero (total sum of squares is zero)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var divErr *DivisionByZeroError
	if !As(Wrap(err, "scoring"), &divErr) {
		t.Error("wrapped error should still be castable to *DivisionByZeroError")
	}
}

func TestNewValueErrorWithCause(t *testing.T) {
	err := NewValueErrorWithCause("Dataset.Split", "need at least 2 rows", ErrEmptyData)

	if !Is(err, ErrEmptyData) {
		t.Error("ValueError should unwrap to ErrEmptyData")
	}

	var valErr *ValueError
	if !As(err, &valErr) {
		t.Fatal("Error should be castable to *ValueError")
	}
	if valErr.Op != "Dataset.Split" {
		t.Errorf("Op = %q", valErr.Op)
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("weights", []float64{1, 2, 3}, 0); err != nil {
		t.Errorf("finite values reported unstable: %v", err)
	}

	err := CheckNumericalStability("weights", []float64{1, nanValue()}, 7)
	if err == nil {
		t.Fatal("expected instability error for NaN")
	}
	var instErr *NumericalInstabilityError
	if !As(err, &instErr) {
		t.Fatal("Error should be castable to *NumericalInstabilityError")
	}
	if instErr.Iteration != 7 {
		t.Errorf("Iteration = %d, want 7", instErr.Iteration)
	}

	if err := CheckNumericalStability("weights", []float64{inf(), 2}, 1); err == nil {
		t.Error("expected instability error for +Inf")
	}
	if err := CheckNumericalStability("weights", []float64{1, 2}, 1); err != nil {
		t.Errorf("finite values: got %v", err)
	}
}

func TestWarnRoutesToHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(nil)

	Warn(NewConstantColumnWarning([]string{"ones"}))

	if len(got) != 1 {
		t.Fatalf("handler called %d times, want 1", len(got))
	}
	if !strings.Contains(got[0].Error(), "ones") {
		t.Errorf("warning does not name the column: %v", got[0])
	}
}

func TestWarnPrefersZerolog(t *testing.T) {
	var viaHandler, viaZerolog int
	SetWarningHandler(func(error) { viaHandler++ })
	SetZerologWarnFunc(func(error) { viaZerolog++ })
	defer func() {
		SetZerologWarnFunc(nil)
		SetWarningHandler(nil)
	}()

	Warn(NewFrozenDatasetWarning("Dataset.Shuffle"))

	if viaZerolog != 1 || viaHandler != 0 {
		t.Errorf("zerolog=%d handler=%d, want 1 and 0", viaZerolog, viaHandler)
	}
}

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}

func inf() float64 {
	zero := 0.0
	return 1 / zero
}
