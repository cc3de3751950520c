package linear

import (
	"math/rand"

	"github.com/YuminosukeSato/gdlinear/pkg/log"
)

// Option is a function that configures GDRegressor
type Option func(*GDRegressor)

// WithWeights sets the initial weight vector. Its length must equal the
// number of feature columns.
func WithWeights(weights []float64) Option {
	return func(g *GDRegressor) {
		g.initWeights = append([]float64(nil), weights...)
	}
}

// WithRandomState seeds the uniform [-1, 1] weight initialization
func WithRandomState(seed int64) Option {
	return func(g *GDRegressor) {
		g.rng = rand.New(rand.NewSource(seed))
		g.seed = &seed
	}
}

// WithLogger sets the logger used for training progress
func WithLogger(l log.Logger) Option {
	return func(g *GDRegressor) {
		g.logger = l
	}
}
