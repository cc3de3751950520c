package loss

import (
	"math"
	"math/rand"
	"testing"

	"github.com/YuminosukeSato/gdlinear/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

func randomProblem(rng *rand.Rand, rows, cols int) (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(rows, cols, nil)
	y := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, rng.Float64()*2-1)
		}
		y.SetVec(i, rng.Float64()*4-2)
	}
	return X, y
}

// checkGradient compares the analytic gradient against central differences
// of the loss as a function of the weights.
func checkGradient(t *testing.T, m Metric, bind func(*mat.VecDense)) {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	X, y := randomProblem(rng, 30, 4)

	w := mat.NewVecDense(4, nil)
	if bind != nil {
		bind(w)
	}
	pred := mat.NewVecDense(30, nil)

	lossAt := func(x []float64) float64 {
		for i, v := range x {
			w.SetVec(i, v)
		}
		pred.MulVec(X, w)
		l, err := m.Loss(y, pred)
		if err != nil {
			t.Fatalf("Loss: %v", err)
		}
		return l
	}

	for trial := 0; trial < 5; trial++ {
		point := make([]float64, 4)
		for i := range point {
			// keep weights away from 0 so |w| stays differentiable
			point[i] = (0.2 + rng.Float64()) * float64(1-2*(i%2))
		}

		numeric := fd.Gradient(nil, lossAt, point, &fd.Settings{Formula: fd.Central})

		for i, v := range point {
			w.SetVec(i, v)
		}
		pred.MulVec(X, w)
		analytic, err := m.Gradient(X, pred, y)
		if err != nil {
			t.Fatalf("Gradient: %v", err)
		}

		for i := range numeric {
			a, n := analytic.AtVec(i), numeric[i]
			if !scalar.EqualWithinAbsOrRel(a, n, 1e-6, 1e-4) {
				t.Errorf("%s trial %d component %d: analytic %v, numeric %v", m.Name(), trial, i, a, n)
			}
		}
	}
}

func TestGradient_MatchesFiniteDifferences(t *testing.T) {
	t.Run("mse", func(t *testing.T) { checkGradient(t, MSE{}, nil) })
	t.Run("mae", func(t *testing.T) { checkGradient(t, MAE{}, nil) })

	for _, base := range []Metric{MSE{}, MAE{}} {
		for _, kind := range []Kind{L1, L2} {
			reg, err := NewRegularized(base, kind, 0.3, nil)
			if err != nil {
				t.Fatalf("NewRegularized: %v", err)
			}
			t.Run(reg.Name(), func(t *testing.T) { checkGradient(t, reg, reg.Bind) })
		}
	}
}

func TestLoss_Values(t *testing.T) {
	y := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	pred := mat.NewVecDense(4, []float64{2, 2, 1, 4})

	mse, err := MSE{}.Loss(y, pred)
	if err != nil || mse != 1.25 {
		t.Errorf("MSE = %v, %v; want 1.25", mse, err)
	}
	mae, err := MAE{}.Loss(y, pred)
	if err != nil || mae != 0.75 {
		t.Errorf("MAE = %v, %v; want 0.75", mae, err)
	}

	same, _ := MSE{}.Loss(y, y)
	if same != 0 {
		t.Errorf("MSE of identical vectors = %v", same)
	}
}

func TestRegularized_Penalty(t *testing.T) {
	weights := mat.NewVecDense(3, []float64{1, -2, 3})
	y := mat.NewVecDense(2, []float64{1, 1})
	pred := mat.NewVecDense(2, []float64{1, 3})

	base, _ := MSE{}.Loss(y, pred)

	tests := []struct {
		kind Kind
		want float64
	}{
		{L1, 3.0},
		{L2, 7.0},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			reg, err := NewRegularized(MSE{}, tt.kind, 0.5, weights)
			if err != nil {
				t.Fatalf("NewRegularized: %v", err)
			}
			if got := reg.Penalty(); got != tt.want {
				t.Errorf("Penalty() = %v, want %v", got, tt.want)
			}
			total, err := reg.Loss(y, pred)
			if err != nil {
				t.Fatalf("Loss: %v", err)
			}
			if math.Abs(total-(base+tt.want)) > 1e-12 {
				t.Errorf("Loss() = %v, want %v", total, base+tt.want)
			}
		})
	}
}

func TestRegularized_TracksLiveWeights(t *testing.T) {
	weights := mat.NewVecDense(2, []float64{1, 1})
	reg, _ := NewRegularized(MAE{}, L2, 1, weights)

	if reg.Penalty() != 2 {
		t.Fatalf("Penalty() = %v, want 2", reg.Penalty())
	}
	weights.SetVec(0, 3)
	if reg.Penalty() != 10 {
		t.Errorf("Penalty() after update = %v, want 10", reg.Penalty())
	}

	other := mat.NewVecDense(2, []float64{0, 0})
	reg.Bind(other)
	if reg.Penalty() != 0 {
		t.Errorf("Penalty() after Bind = %v, want 0", reg.Penalty())
	}
}

func TestRegularized_ZeroCoefficientMatchesBase(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	X, y := randomProblem(rng, 10, 3)
	w := mat.NewVecDense(3, []float64{0.5, -1, 2})
	pred := mat.NewVecDense(10, nil)
	pred.MulVec(X, w)

	reg, _ := NewRegularized(MSE{}, L1, 0, w)
	got, _ := reg.Gradient(X, pred, y)
	want, _ := MSE{}.Gradient(X, pred, y)
	if !mat.Equal(got, want) {
		t.Errorf("zero coefficient changed the gradient: %v vs %v", mat.Formatted(got.T()), mat.Formatted(want.T()))
	}
}

func TestRegularized_Validation(t *testing.T) {
	var valErr *errors.ValidationError

	if _, err := NewRegularized(MSE{}, L1, -0.1, nil); !errors.As(err, &valErr) {
		t.Errorf("negative coefficient: got %v", err)
	}
	if _, err := NewRegularized(MSE{}, Kind(9), 0.1, nil); !errors.As(err, &valErr) {
		t.Errorf("unknown kind: got %v", err)
	}
	if _, err := NewRegularized(nil, L2, 0.1, nil); !errors.As(err, &valErr) {
		t.Errorf("nil base: got %v", err)
	}

	reg, _ := NewRegularized(MSE{}, L2, 0.1, mat.NewVecDense(2, nil))
	X := mat.NewDense(3, 3, nil)
	v := mat.NewVecDense(3, nil)
	var dimErr *errors.DimensionError
	if _, err := reg.Gradient(X, v, v); !errors.As(err, &dimErr) {
		t.Errorf("weight length mismatch: got %v", err)
	}
}

func TestGradient_DimensionErrors(t *testing.T) {
	X := mat.NewDense(3, 2, nil)
	three := mat.NewVecDense(3, nil)
	two := mat.NewVecDense(2, nil)

	var dimErr *errors.DimensionError
	if _, err := (MSE{}).Gradient(X, two, three); !errors.As(err, &dimErr) {
		t.Errorf("prediction length mismatch: got %v", err)
	}
	if _, err := (MAE{}).Gradient(X, two, two); !errors.As(err, &dimErr) {
		t.Errorf("feature rows mismatch: got %v", err)
	}
}

func TestParse(t *testing.T) {
	for name, want := range map[string]string{"mse": "mse", "MAE": "mae", " Mse ": "mse"} {
		m, err := ParseBase(name)
		if err != nil || m.Name() != want {
			t.Errorf("ParseBase(%q) = %v, %v", name, m, err)
		}
	}
	if _, err := ParseBase("huber"); err == nil {
		t.Error("ParseBase(huber) should fail")
	}

	tests := []struct {
		in   string
		kind Kind
		ok   bool
	}{
		{"", 0, false},
		{"none", 0, false},
		{"L1", L1, true},
		{"l2", L2, true},
	}
	for _, tt := range tests {
		kind, ok, err := ParseKind(tt.in)
		if err != nil || kind != tt.kind || ok != tt.ok {
			t.Errorf("ParseKind(%q) = %v, %v, %v", tt.in, kind, ok, err)
		}
	}
	if _, _, err := ParseKind("elastic"); err == nil {
		t.Error("ParseKind(elastic) should fail")
	}
}
