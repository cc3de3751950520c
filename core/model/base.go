package model

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// StateUnfit は一度も学習ステップを実行していない状態
	StateUnfit EstimatorState = iota
	// StateFit は少なくとも一回の学習が完了した状態（追加の学習で再度入れる）
	StateFit
)

// String は状態名を返す
func (s EstimatorState) String() string {
	switch s {
	case StateUnfit:
		return "Unfit"
	case StateFit:
		return "Fit"
	default:
		return "Unknown"
	}
}

// BaseEstimator は全てのモデルの基底となる構造体
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == StateFit
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = StateFit
}

// State は現在の状態を返す
func (e *BaseEstimator) State() EstimatorState {
	return e.state
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = StateUnfit
}
