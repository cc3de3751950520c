// Package report renders training diagnostics with gonum/plot.
//
// The output format follows the file extension (.png, .svg, .pdf, .eps).
package report

import (
	"math"

	"github.com/YuminosukeSato/gdlinear/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default image size.
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// LossHistory draws the per-epoch training loss. Non-finite entries are
// skipped; a history with no finite entry is an error.
func LossHistory(history []float64, title, path string) error {
	const op = "report.LossHistory"

	pts := make(plotter.XYs, 0, len(history))
	for i, v := range history {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i + 1), Y: v})
	}
	if len(pts) == 0 {
		return errors.NewValueErrorWithCause(op, "no finite loss values to plot", errors.ErrEmptyData)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "loss"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, op)
	}
	p.Add(line, plotter.NewGrid())

	if err := p.Save(Width, Height, path); err != nil {
		return errors.Wrapf(err, "%s: save %s", op, path)
	}
	return nil
}

// Predictions draws predicted against actual targets with the identity line
// as reference. Points on the line are perfect predictions.
func Predictions(actual, predicted *mat.VecDense, title, path string) error {
	const op = "report.Predictions"

	n := actual.Len()
	if n == 0 {
		return errors.NewValueErrorWithCause(op, "no points to plot", errors.ErrEmptyData)
	}
	if predicted.Len() != n {
		return errors.NewDimensionError(op, n, predicted.Len(), 0)
	}

	pts := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		x, y := actual.AtVec(i), predicted.AtVec(i)
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	if len(pts) == 0 {
		return errors.NewValueErrorWithCause(op, "no finite points to plot", errors.ErrEmptyData)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "actual"
	p.Y.Label.Text = "predicted"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, op)
	}
	identity := plotter.NewFunction(func(x float64) float64 { return x })
	identity.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(scatter, identity, plotter.NewGrid())
	p.Legend.Add("prediction", scatter)
	p.Legend.Add("y = x", identity)

	if err := p.Save(Width, Height, path); err != nil {
		return errors.Wrapf(err, "%s: save %s", op, path)
	}
	return nil
}
