package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/gdlinear/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   *mat.VecDense
		yPred   *mat.VecDense
		want    float64
		wantErr bool
	}{
		{
			name:  "perfect prediction",
			yTrue: mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0}),
			yPred: mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0}),
			want:  0.0,
		},
		{
			name:  "simple case",
			yTrue: mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0}),
			yPred: mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
			want:  0.25, // (0.25 * 4) / 4
		},
		{
			name:  "larger errors",
			yTrue: mat.NewVecDense(3, []float64{10.0, 20.0, 30.0}),
			yPred: mat.NewVecDense(3, []float64{12.0, 18.0, 33.0}),
			want:  17.0 / 3.0,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1.0, 2.0, 3.0}),
			yPred:   mat.NewVecDense(2, []float64{1.0, 2.0}),
			wantErr: true,
		},
		{
			name:    "empty vectors",
			yTrue:   &mat.VecDense{},
			yPred:   &mat.VecDense{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)

			if (err != nil) != tt.wantErr {
				t.Errorf("MSE() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSE(t *testing.T) {
	got, err := RMSE(
		mat.NewVecDense(2, []float64{0, 0}),
		mat.NewVecDense(2, []float64{3, 4}),
	)
	if err != nil {
		t.Fatalf("RMSE() error = %v", err)
	}
	if math.Abs(got-math.Sqrt(12.5)) > 1e-12 {
		t.Errorf("RMSE() = %v, want %v", got, math.Sqrt(12.5))
	}
}

func TestMAE(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{"perfect prediction", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"mixed signs", []float64{1, 2, 3, 4}, []float64{2, 1, 5, 4}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MAE(mat.NewVecDense(len(tt.yTrue), tt.yTrue), mat.NewVecDense(len(tt.yPred), tt.yPred))
			if err != nil {
				t.Fatalf("MAE() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("MAE() = %v, want %v", got, tt.want)
			}
		})
	}

	_, err := MAE(mat.NewVecDense(2, nil), mat.NewVecDense(3, nil))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError, got %v", err)
	}
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{"perfect prediction", []float64{1, 2, 3, 4}, []float64{1, 2, 3, 4}, 1.0},
		{"mean prediction", []float64{1, 2, 3, 4}, []float64{2.5, 2.5, 2.5, 2.5}, 0.0},
		// RSS = 0.25*4 = 1, TSS = 5
		{"partial fit", []float64{1, 2, 3, 4}, []float64{1.5, 1.5, 3.5, 3.5}, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(mat.NewVecDense(len(tt.yTrue), tt.yTrue), mat.NewVecDense(len(tt.yPred), tt.yPred))
			if err != nil {
				t.Fatalf("R2Score() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("R2Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestR2Score_ConstantTarget(t *testing.T) {
	// 0.1 や 0.7 は2進数で正確に表せず、平均が1ulpずれる
	for _, v := range []float64{7, 0.1, 0.7, 1.1} {
		yTrue := mat.NewVecDense(10, nil)
		yPred := mat.NewVecDense(10, nil)
		for i := 0; i < 10; i++ {
			yTrue.SetVec(i, v)
			yPred.SetVec(i, float64(i))
		}

		r2, err := R2Score(yTrue, yPred)
		var divErr *errors.DivisionByZeroError
		if !errors.As(err, &divErr) {
			t.Errorf("v=%v: expected DivisionByZeroError, got r2=%v err=%v", v, r2, err)
		}
	}
}
