// Package loss は勾配降下法で最小化する損失関数を提供する。
//
// 基本の損失は MSE と MAE の2種類で、Regularized で L1/L2 罰則項を重ねられる。
// 勾配はいずれも行数 n で正規化されており、Loss の平均値と整合する。
package loss

import (
	"strings"

	"github.com/YuminosukeSato/gdlinear/metrics"
	"github.com/YuminosukeSato/gdlinear/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Metric は損失値と重みに関する勾配を計算するインターフェース
type Metric interface {
	// Loss は targets と predictions の間の非負の損失値を返す
	Loss(targets, predictions *mat.VecDense) (float64, error)

	// Gradient は特徴量行列 features に対する損失の勾配（長さは features の列数）を返す
	Gradient(features mat.Matrix, predictions, targets *mat.VecDense) (*mat.VecDense, error)

	// Name は設定ファイルやログで使う名前を返す
	Name() string
}

// MSE は平均二乗誤差
type MSE struct{}

// MAE は平均絶対誤差
type MAE struct{}

var (
	_ Metric = MSE{}
	_ Metric = MAE{}
)

// Name implements Metric.
func (MSE) Name() string { return "mse" }

// Loss は (1/n) Σ(y - ŷ)² を返す
func (MSE) Loss(targets, predictions *mat.VecDense) (float64, error) {
	return metrics.MSE(targets, predictions)
}

// Gradient は 2 Xᵀ(ŷ - y) / n を返す
func (MSE) Gradient(features mat.Matrix, predictions, targets *mat.VecDense) (*mat.VecDense, error) {
	residual, err := residual("MSE.Gradient", features, predictions, targets)
	if err != nil {
		return nil, err
	}
	n := float64(residual.Len())

	_, c := features.Dims()
	grad := mat.NewVecDense(c, nil)
	grad.MulVec(features.T(), residual)
	grad.ScaleVec(2/n, grad)
	return grad, nil
}

// Name implements Metric.
func (MAE) Name() string { return "mae" }

// Loss は (1/n) Σ|y - ŷ| を返す
func (MAE) Loss(targets, predictions *mat.VecDense) (float64, error) {
	return metrics.MAE(targets, predictions)
}

// Gradient は Xᵀ sign(ŷ - y) / n を返す。残差0の点の劣勾配は0とする。
func (MAE) Gradient(features mat.Matrix, predictions, targets *mat.VecDense) (*mat.VecDense, error) {
	residual, err := residual("MAE.Gradient", features, predictions, targets)
	if err != nil {
		return nil, err
	}
	n := residual.Len()
	for i := 0; i < n; i++ {
		residual.SetVec(i, sign(residual.AtVec(i)))
	}

	_, c := features.Dims()
	grad := mat.NewVecDense(c, nil)
	grad.MulVec(features.T(), residual)
	grad.ScaleVec(1/float64(n), grad)
	return grad, nil
}

// residual は長さを検証したうえで ŷ - y を新しいベクトルとして返す
func residual(op string, features mat.Matrix, predictions, targets *mat.VecDense) (*mat.VecDense, error) {
	r, _ := features.Dims()
	n := targets.Len()
	if n == 0 {
		return nil, errors.NewValueErrorWithCause(op, "empty targets", errors.ErrEmptyData)
	}
	if predictions.Len() != n {
		return nil, errors.NewDimensionError(op, n, predictions.Len(), 0)
	}
	if r != n {
		return nil, errors.NewDimensionError(op, n, r, 0)
	}

	res := mat.NewVecDense(n, nil)
	res.SubVec(predictions, targets)
	return res, nil
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// ParseBase は "mse" / "mae" を対応する Metric に変換する（大文字小文字は区別しない）
func ParseBase(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mse":
		return MSE{}, nil
	case "mae":
		return MAE{}, nil
	default:
		return nil, errors.NewValidationError("loss", "must be one of mse, mae", name)
	}
}
