package preprocessing

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/gdlinear/core/model"
	"github.com/YuminosukeSato/gdlinear/core/parallel"
	"github.com/YuminosukeSato/gdlinear/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// 列統計を並列化する要素数（行×列）の閾値
const parallelThreshold = 1 << 16

// MinMaxScaler は各列を [FeatureRange[0], FeatureRange[1]] に線形変換する。
// 値域が0の列は (x - min) / 0 となり NaN を出力する（pandas と同じ挙動）。
type MinMaxScaler struct {
	model.BaseEstimator

	// DataMin は学習データの各列の最小値
	DataMin []float64

	// DataMax は学習データの各列の最大値
	DataMax []float64

	// NFeatures は列数
	NFeatures int

	// FeatureRange はスケーリング後の範囲 [min, max]
	FeatureRange [2]float64
}

// NewMinMaxScaler は新しいMinMaxScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewMinMaxScaler([2]float64{0.0, 1.0})
//	XScaled, err := scaler.FitTransform(X)
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerDefault はデフォルト設定([0,1]範囲)でMinMaxScalerを作成する
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0.0, 1.0})
}

// Fit は各列の最小値・最大値を計算する
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewValueErrorWithCause("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if m.FeatureRange[1] <= m.FeatureRange[0] {
		return errors.NewValidationError("feature_range", "max must be greater than min", m.FeatureRange)
	}

	dataMin := make([]float64, c)
	dataMax := make([]float64, c)

	// 列ごとに独立なので列単位で分割する
	parallel.ParallelizeWithThreshold(c, r*c, parallelThreshold, func(start, end int) {
		for j := start; j < end; j++ {
			lo, hi := X.At(0, j), X.At(0, j)
			for i := 1; i < r; i++ {
				v := X.At(i, j)
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			dataMin[j] = lo
			dataMax[j] = hi
		}
	})

	m.NFeatures = c
	m.DataMin = dataMin
	m.DataMax = dataMax
	m.SetFitted()
	return nil
}

// ConstantColumns は値域が0（最小値と最大値が等しい）列のインデックスを返す
func (m *MinMaxScaler) ConstantColumns() []int {
	var idx []int
	for j := 0; j < m.NFeatures; j++ {
		if m.DataMax[j] == m.DataMin[j] {
			idx = append(idx, j)
		}
	}
	return idx
}

// Transform は学習済みの最小値・最大値でデータをスケーリングする
func (m *MinMaxScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !m.IsFitted() {
		return nil, errors.NewValueError("MinMaxScaler.Transform", "scaler is not fitted; call Fit first")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	width := m.FeatureRange[1] - m.FeatureRange[0]
	for j := 0; j < c; j++ {
		span := m.DataMax[j] - m.DataMin[j]
		for i := 0; i < r; i++ {
			var scaled float64
			if span == 0 {
				scaled = math.NaN()
			} else {
				scaled = (X.At(i, j)-m.DataMin[j])/span*width + m.FeatureRange[0]
			}
			result.Set(i, j, scaled)
		}
	}

	return result, nil
}

// FitTransform は学習と変換を同時に行う
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform はスケーリングされたデータを元の範囲に戻す。
// 値域0の列は元の定数値に戻る。
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	if !m.IsFitted() {
		return nil, errors.NewValueError("MinMaxScaler.InverseTransform", "scaler is not fitted; call Fit first")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.InverseTransform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	width := m.FeatureRange[1] - m.FeatureRange[0]
	for j := 0; j < c; j++ {
		span := m.DataMax[j] - m.DataMin[j]
		for i := 0; i < r; i++ {
			if span == 0 {
				result.Set(i, j, m.DataMin[j])
				continue
			}
			result.Set(i, j, (X.At(i, j)-m.FeatureRange[0])/width*span+m.DataMin[j])
		}
	}

	return result, nil
}

// String はスケーラーの文字列表現を返す
func (m *MinMaxScaler) String() string {
	if !m.IsFitted() {
		return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f])",
			m.FeatureRange[0], m.FeatureRange[1])
	}
	return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], m.NFeatures)
}
