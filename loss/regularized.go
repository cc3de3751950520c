package loss

import (
	"fmt"
	"math"
	"strings"

	"github.com/YuminosukeSato/gdlinear/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Kind は罰則項の種類
type Kind int

const (
	// L1 は coef·Σ|w| を加える（Lasso）
	L1 Kind = iota + 1
	// L2 は coef·Σw² を加える（Ridge）
	L2
)

func (k Kind) String() string {
	switch k {
	case L1:
		return "l1"
	case L2:
		return "l2"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind は "l1" / "l2" を Kind に変換する。
// "none" と空文字は罰則なしを表し、ok=false を返す。
func ParseKind(name string) (kind Kind, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return 0, false, nil
	case "l1":
		return L1, true, nil
	case "l2":
		return L2, true, nil
	default:
		return 0, false, errors.NewValidationError("penalty", "must be one of none, l1, l2", name)
	}
}

// Regularized は基本の損失に重みの罰則項を加えるデコレータ。
// 重みは参照で保持するため、学習中の更新がそのまま罰則に反映される。
type Regularized struct {
	base    Metric
	kind    Kind
	coef    float64
	weights *mat.VecDense
}

var _ Metric = (*Regularized)(nil)

// NewRegularized は罰則付き損失を作成する。weights は nil でもよく、
// その場合は学習器が Bind で自身の重みを結び付ける。
func NewRegularized(base Metric, kind Kind, coef float64, weights *mat.VecDense) (*Regularized, error) {
	if base == nil {
		return nil, errors.NewValidationError("base", "base metric is required", nil)
	}
	if kind != L1 && kind != L2 {
		return nil, errors.NewValidationError("kind", "must be L1 or L2", kind)
	}
	if coef < 0 || math.IsNaN(coef) || math.IsInf(coef, 0) {
		return nil, errors.NewValidationError("coef", "must be a finite non-negative number", coef)
	}
	return &Regularized{base: base, kind: kind, coef: coef, weights: weights}, nil
}

// Bind は罰則の対象となる重みベクトルを差し替える
func (r *Regularized) Bind(weights *mat.VecDense) {
	r.weights = weights
}

// Base は内側の損失を返す
func (r *Regularized) Base() Metric { return r.base }

// Kind は罰則の種類を返す
func (r *Regularized) Kind() Kind { return r.kind }

// Coefficient は罰則の係数を返す
func (r *Regularized) Coefficient() float64 { return r.coef }

// Name implements Metric.
func (r *Regularized) Name() string {
	return r.base.Name() + "+" + r.kind.String()
}

// Penalty は現在の重みに対する罰則項のみを返す。重みが未設定なら0。
func (r *Regularized) Penalty() float64 {
	if r.weights == nil {
		return 0
	}
	w := r.weights.RawVector()
	var sum float64
	for i := 0; i < r.weights.Len(); i++ {
		v := w.Data[i*w.Inc]
		if r.kind == L1 {
			sum += math.Abs(v)
		} else {
			sum += v * v
		}
	}
	return r.coef * sum
}

// Loss は基本の損失に Penalty を加えた値を返す
func (r *Regularized) Loss(targets, predictions *mat.VecDense) (float64, error) {
	base, err := r.base.Loss(targets, predictions)
	if err != nil {
		return 0, err
	}
	return base + r.Penalty(), nil
}

// Gradient は基本の勾配に coef·sign(w)（L1）または 2·coef·w（L2）を加える
func (r *Regularized) Gradient(features mat.Matrix, predictions, targets *mat.VecDense) (*mat.VecDense, error) {
	const op = "Regularized.Gradient"
	if r.weights == nil {
		return nil, errors.NewValueError(op, "no weight vector bound; call Bind first")
	}
	_, c := features.Dims()
	if c != r.weights.Len() {
		return nil, errors.NewDimensionError(op, r.weights.Len(), c, 1)
	}

	grad, err := r.base.Gradient(features, predictions, targets)
	if err != nil {
		return nil, err
	}

	penalty := make([]float64, c)
	for i := range penalty {
		w := r.weights.AtVec(i)
		if r.kind == L1 {
			penalty[i] = r.coef * sign(w)
		} else {
			penalty[i] = 2 * r.coef * w
		}
	}
	floats.Add(grad.RawVector().Data, penalty)
	return grad, nil
}
