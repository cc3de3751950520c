// Package linear は勾配降下法による線形回帰モデルを提供する。
package linear

import (
	"context"
	"math/rand"
	"time"

	"github.com/YuminosukeSato/gdlinear/core/model"
	"github.com/YuminosukeSato/gdlinear/dataset"
	"github.com/YuminosukeSato/gdlinear/loss"
	"github.com/YuminosukeSato/gdlinear/metrics"
	"github.com/YuminosukeSato/gdlinear/pkg/errors"
	"github.com/YuminosukeSato/gdlinear/pkg/log"
	"gonum.org/v1/gonum/mat"
)

const modelName = "GDRegressor"

var _ model.IterativeRegressor = (*GDRegressor)(nil)

// binder は学習中の重みを参照する損失（Regularized など）が実装する
type binder interface {
	Bind(weights *mat.VecDense)
}

// GDRegressor は勾配降下法で重みを学習する線形回帰モデル。
// 予測は X·w で、切片は持たない（必要なら Dataset.AddConstantColumn で1の列を追加する）。
type GDRegressor struct {
	model.BaseEstimator

	ds      *dataset.Dataset
	metric  loss.Metric
	weights *mat.VecDense // 重み（特徴量列ごとに1つ）
	history []float64     // エポックごとの訓練損失

	initWeights []float64
	rng         *rand.Rand
	seed        *int64
	logger      log.Logger
}

// NewGDRegressor はデータセットと損失関数に結び付いた学習器を作成する。
// 重みの長さはデータセットの列数 - 1（目的変数を除く）となる。
//
// 使用例:
//
//	reg, err := linear.NewGDRegressor(ds, loss.MSE{}, linear.WithRandomState(42))
//	if err != nil { ... }
//	err = reg.Fit(300, 1e-5)
func NewGDRegressor(ds *dataset.Dataset, metric loss.Metric, opts ...Option) (*GDRegressor, error) {
	const op = "NewGDRegressor"
	if ds == nil {
		return nil, errors.NewValueError(op, "dataset is required")
	}
	if metric == nil {
		return nil, errors.NewValidationError("metric", "loss metric is required", nil)
	}

	g := &GDRegressor{ds: ds, metric: metric}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if g.logger == nil {
		g.logger = log.GetLoggerWithName("linear")
	}

	n := ds.NumFeatures()
	if n < 1 {
		return nil, errors.NewConfigurationError(op, "", "dataset needs at least one feature column besides the target")
	}

	g.weights = mat.NewVecDense(n, nil)
	if g.initWeights != nil {
		if len(g.initWeights) != n {
			return nil, errors.NewDimensionError(op, n, len(g.initWeights), 1)
		}
		for i, w := range g.initWeights {
			g.weights.SetVec(i, w)
		}
	} else {
		for i := 0; i < n; i++ {
			g.weights.SetVec(i, g.rng.Float64()*2-1)
		}
	}

	if b, ok := metric.(binder); ok {
		b.Bind(g.weights)
	}

	g.logger = g.logger.With(
		log.ModelNameKey, modelName,
		log.LossFunctionKey, metric.Name(),
	)
	if g.seed != nil {
		g.logger = g.logger.With(log.RandomSeedKey, *g.seed)
	}
	return g, nil
}

// Weights は現在の重みのコピーを返す
func (g *GDRegressor) Weights() []float64 {
	out := make([]float64, g.weights.Len())
	for i := range out {
		out[i] = g.weights.AtVec(i)
	}
	return out
}

// LossHistory はエポックごとの訓練損失（学習後の重みで計算）を返す。
// Fit と FitStochastic の呼び出しをまたいで追記される。
func (g *GDRegressor) LossHistory() []float64 {
	return append([]float64(nil), g.history...)
}

// Metric は学習に使う損失関数を返す
func (g *GDRegressor) Metric() loss.Metric {
	return g.metric
}

// Predict は各行と重みの内積 X·w を返す。学習前でも利用できる。
func (g *GDRegressor) Predict(X mat.Matrix) (*mat.VecDense, error) {
	r, c := X.Dims()
	if c != g.weights.Len() {
		return nil, errors.NewDimensionError("GDRegressor.Predict", g.weights.Len(), c, 1)
	}
	if r == 0 {
		return nil, errors.NewValueErrorWithCause("GDRegressor.Predict", "no rows to predict", errors.ErrEmptyData)
	}
	pred := mat.NewVecDense(r, nil)
	pred.MulVec(X, g.weights)
	return pred, nil
}

// partitions は学習の前提条件を確認して訓練区間を返す
func (g *GDRegressor) partitions(method string, epochs int, learningRate float64) (*dataset.Partitions, error) {
	parts, ok := g.ds.Partitions()
	if !ok {
		return nil, errors.NewNotReadyError(modelName, method)
	}
	if parts.NumFeatures() != g.weights.Len() {
		return nil, errors.NewDimensionError("GDRegressor."+method, g.weights.Len(), parts.NumFeatures(), 1)
	}
	if epochs < 0 {
		return nil, errors.NewValidationError("epochs", "must be non-negative", epochs)
	}
	if !(learningRate > 0) {
		return nil, errors.NewValidationError("learning_rate", "must be positive", learningRate)
	}
	return parts, nil
}

// step は勾配を全て計算してから w -= lr·∇ で重みを更新する。
// 勾配の計算に失敗した場合、重みは変更されない。
func (g *GDRegressor) step(X mat.Matrix, y *mat.VecDense, learningRate float64) error {
	r, _ := X.Dims()
	pred := mat.NewVecDense(r, nil)
	pred.MulVec(X, g.weights)

	grad, err := g.metric.Gradient(X, pred, y)
	if err != nil {
		return err
	}
	g.weights.AddScaledVec(g.weights, -learningRate, grad)
	return nil
}

// Fit は訓練区間全体を1バッチとして epochs 回の勾配降下を行う。
// 収束判定はなく、常に指定回数だけ更新する。
func (g *GDRegressor) Fit(epochs int, learningRate float64) error {
	parts, err := g.partitions("Fit", epochs, learningRate)
	if err != nil {
		return err
	}
	return g.train(log.OperationFit, parts, epochs, learningRate, parts.TrainRows())
}

// FitStochastic は訓練区間を現在の行順のまま batchSize 行ごとの連続した塊に分け、
// 塊ごとに1回重みを更新する。最後の塊は短くてもよい。エポック間での再シャッフルはしない。
// batchSize が訓練行数以上なら Fit と同一の結果になる。
func (g *GDRegressor) FitStochastic(epochs int, learningRate float64, batchSize int) error {
	parts, err := g.partitions("FitStochastic", epochs, learningRate)
	if err != nil {
		return err
	}
	if batchSize < 1 {
		return errors.NewValidationError("batch_size", "must be at least 1", batchSize)
	}
	return g.train(log.OperationFitStochastic, parts, epochs, learningRate, batchSize)
}

func (g *GDRegressor) train(operation string, parts *dataset.Partitions, epochs int, learningRate float64, batchSize int) error {
	n := parts.TrainRows()
	if batchSize > n {
		batchSize = n
	}

	logger := g.logger.With(
		log.OperationKey, operation,
		log.EpochsKey, epochs,
		log.LearningRateKey, learningRate,
		log.BatchSizeKey, batchSize,
		log.TrainSamplesKey, n,
	)
	if r, ok := g.metric.(*loss.Regularized); ok {
		logger = logger.With(log.RegularizationKey, r.Coefficient())
	}
	logger.Info("Training started", log.PhaseKey, log.PhaseTraining)

	start := time.Now()
	debug := logger.Enabled(context.Background(), log.LevelDebug)
	warned := false

	for epoch := 1; epoch <= epochs; epoch++ {
		for from := 0; from < n; from += batchSize {
			X, y := batch(parts, from, batchSize)
			if err := g.step(X, y, learningRate); err != nil {
				return errors.Wrapf(err, "epoch %d", epoch)
			}
		}

		current, err := g.trainingLoss(parts)
		if err != nil {
			return err
		}
		g.history = append(g.history, current)

		if !warned {
			if err := errors.CheckNumericalStability("GDRegressor."+operation, g.Weights(), epoch); err != nil {
				errors.Warn(err)
				logger.Warn("Weights became non-finite", log.EpochKey, epoch)
				warned = true
			}
		}
		if debug {
			logger.Debug("Epoch finished", log.EpochKey, epoch, log.LossKey, current)
		}
	}

	g.SetFitted()

	fields := []any{
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if len(g.history) > 0 {
		fields = append(fields, log.LossKey, g.history[len(g.history)-1])
	}
	logger.Info("Training completed", fields...)
	return nil
}

// batch は訓練区間の [from, from+size) 行を返す。全行を含む場合は分割前の行列をそのまま使う。
func batch(parts *dataset.Partitions, from, size int) (mat.Matrix, *mat.VecDense) {
	n := parts.TrainRows()
	if from == 0 && size >= n {
		return parts.XTrain, parts.YTrain
	}
	to := from + size
	if to > n {
		to = n
	}
	_, c := parts.XTrain.Dims()
	X := parts.XTrain.Slice(from, to, 0, c)
	y := parts.YTrain.SliceVec(from, to).(*mat.VecDense)
	return X, y
}

func (g *GDRegressor) trainingLoss(parts *dataset.Partitions) (float64, error) {
	pred, err := g.Predict(parts.XTrain)
	if err != nil {
		return 0, err
	}
	return g.metric.Loss(parts.YTrain, pred)
}

// CoefficientOfDetermination は訓練区間の目的変数と、同じ訓練区間に対する予測値から R² を計算する。
// 全ての訓練目的変数が同じ値の場合は DivisionByZeroError を返す。
func (g *GDRegressor) CoefficientOfDetermination() (float64, error) {
	parts, ok := g.ds.Partitions()
	if !ok {
		return 0, errors.NewNotReadyError(modelName, "CoefficientOfDetermination")
	}
	return g.Score(parts.XTrain, parts.YTrain)
}

// TestScore はテスト区間に対する R² を返す
func (g *GDRegressor) TestScore() (float64, error) {
	parts, ok := g.ds.Partitions()
	if !ok {
		return 0, errors.NewNotReadyError(modelName, "TestScore")
	}
	return g.Score(parts.XTest, parts.YTest)
}

// Score は任意の特徴量・目的変数の組に対する R² を返す
func (g *GDRegressor) Score(X mat.Matrix, y *mat.VecDense) (float64, error) {
	pred, err := g.Predict(X)
	if err != nil {
		return 0, err
	}
	score, err := metrics.R2Score(y, pred)
	if err != nil {
		return 0, err
	}
	g.logger.Debug("Scored", log.OperationKey, log.OperationScore, log.R2ScoreKey, score)
	return score, nil
}
