package model

import "gonum.org/v1/gonum/mat"

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は各行と重みベクトルの内積を返す
	Predict(X mat.Matrix) (*mat.VecDense, error)
}

// Scorer は決定係数を計算できるモデルのインターフェース
type Scorer interface {
	// Score は与えられた特徴量と目的変数に対する R² を返す
	Score(X mat.Matrix, y *mat.VecDense) (float64, error)
}

// IterativeRegressor は勾配降下で学習する回帰モデルのインターフェース
type IterativeRegressor interface {
	Predictor
	Scorer

	// Fit は全訓練行を使う勾配降下を epochs 回実行する
	Fit(epochs int, learningRate float64) error
	// FitStochastic はミニバッチごとに重みを更新する
	FitStochastic(epochs int, learningRate float64, batchSize int) error
	// CoefficientOfDetermination は訓練区間の R² を返す
	CoefficientOfDetermination() (float64, error)
	// Weights は現在の重みのコピーを返す
	Weights() []float64
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要な列ごとの統計量を学習する
	Fit(X mat.Matrix) error
	// Transform は学習済みの統計量でデータを変換する
	Transform(X mat.Matrix) (*mat.Dense, error)
}
