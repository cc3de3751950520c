package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/YuminosukeSato/gdlinear/dataset"
	"github.com/YuminosukeSato/gdlinear/linear"
	"github.com/YuminosukeSato/gdlinear/pkg/config"
	"github.com/YuminosukeSato/gdlinear/pkg/errors"
	"github.com/YuminosukeSato/gdlinear/pkg/log"
	"github.com/YuminosukeSato/gdlinear/report"
)

// BiasColumn is the name of the column added by --bias.
const BiasColumn = "ones"

// Result summarizes one training run.
type Result struct {
	Features []string
	Weights  []float64
	TrainR2  float64
	// TestR2 is NaN when the test targets are constant.
	TestR2 float64
	Loss   []float64
}

// Train runs load → edit columns → normalize → drop NaN → bias → shuffle →
// split → fit and writes the weights and scores to out. ctx is checked
// between stages.
func Train(ctx context.Context, cfg *config.Config, out io.Writer) (res *Result, err error) {
	defer errors.Recover(&err, "gdlinear.Train")

	logger := log.GetLoggerWithName("cmd")

	var opts []dataset.Option
	var regOpts []linear.Option
	if cfg.Seed != 0 {
		opts = append(opts, dataset.WithRandomState(cfg.Seed))
		regOpts = append(regOpts, linear.WithRandomState(cfg.Seed))
	}

	ds, err := dataset.LoadCSV(cfg.Data, opts...)
	if err != nil {
		return nil, err
	}

	for _, name := range cfg.Drop {
		if err := ds.DropColumn(name); err != nil {
			return nil, err
		}
	}
	for _, spec := range cfg.Ratio {
		name, num, den, err := config.ParseRatio(spec)
		if err != nil {
			return nil, err
		}
		if err := ds.AddRatioColumn(name, num, den); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg.Normalize {
		// a constant column normalizes to NaN, and DropNaN would then empty the table
		if names := ds.ConstantColumns(); len(names) > 0 {
			return nil, errors.NewConfigurationError("gdlinear.Train", names[0],
				fmt.Sprintf("column has a single value and cannot be normalized; remove it with --drop %s", strings.Join(names, ",")))
		}
		if err := ds.Normalize(); err != nil {
			return nil, err
		}
	}
	if _, err := ds.DropNaN(); err != nil {
		return nil, err
	}
	if cfg.Bias {
		if err := ds.AddConstantColumn(BiasColumn, 1); err != nil {
			return nil, err
		}
	}
	if cfg.Shuffle {
		ds.Shuffle()
	}
	if err := ds.Split(cfg.Target); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	metric, err := cfg.Metric()
	if err != nil {
		return nil, err
	}
	reg, err := linear.NewGDRegressor(ds, metric, regOpts...)
	if err != nil {
		return nil, err
	}

	if cfg.BatchSize > 0 {
		err = reg.FitStochastic(cfg.Epochs, cfg.LearningRate, cfg.BatchSize)
	} else {
		err = reg.Fit(cfg.Epochs, cfg.LearningRate)
	}
	if err != nil {
		return nil, err
	}

	parts, _ := ds.Partitions()
	res = &Result{
		Features: parts.Features,
		Weights:  reg.Weights(),
		Loss:     reg.LossHistory(),
	}

	if res.TrainR2, err = reg.CoefficientOfDetermination(); err != nil {
		return nil, err
	}
	res.TestR2, err = reg.TestScore()
	if err != nil {
		var divErr *errors.DivisionByZeroError
		if !errors.As(err, &divErr) {
			return nil, err
		}
		logger.Warn("Test R² is undefined", log.PhaseKey, log.PhaseValidation, "reason", err.Error())
		res.TestR2 = math.NaN()
	}

	logger.Info("Training finished",
		log.R2ScoreKey, res.TrainR2,
		"test_r2_score", res.TestR2,
		log.WeightsKey, res.Weights,
	)

	if err := writeResult(out, res); err != nil {
		return nil, err
	}

	if cfg.PlotDir != "" {
		if err := os.MkdirAll(cfg.PlotDir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create %s", cfg.PlotDir)
		}
		if len(res.Loss) > 0 {
			if err := report.LossHistory(res.Loss, "training loss ("+metric.Name()+")", filepath.Join(cfg.PlotDir, "loss.png")); err != nil {
				return nil, err
			}
		}
		pred, err := reg.Predict(parts.XTest)
		if err != nil {
			return nil, err
		}
		if err := report.Predictions(parts.YTest, pred, "test partition", filepath.Join(cfg.PlotDir, "predictions.png")); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func writeResult(out io.Writer, res *Result) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "feature\tweight")
	for i, name := range res.Features {
		fmt.Fprintf(w, "%s\t%.6g\n", name, res.Weights[i])
	}
	fmt.Fprintf(w, "\ntrain R²\t%.6f\n", res.TrainR2)
	fmt.Fprintf(w, "test R²\t%.6f\n", res.TestR2)
	return w.Flush()
}
