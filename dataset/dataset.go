// Package dataset holds a named numeric table and produces the train/test
// partitions consumed by the trainer.
//
// Rows are stored row-major. Structural edits (normalization, row and column
// drops, derived columns) are only allowed before Split; afterwards the table
// is frozen and the partitions are fixed.
package dataset

import (
	"math"
	"math/rand"

	"github.com/YuminosukeSato/gdlinear/pkg/errors"
	"github.com/YuminosukeSato/gdlinear/pkg/log"
	"github.com/YuminosukeSato/gdlinear/preprocessing"
	"gonum.org/v1/gonum/mat"
)

// TrainNumerator / TrainDenominator give the fixed 80/20 split ratio.
const (
	TrainNumerator   = 4
	TrainDenominator = 5
)

// Dataset is a rectangular table of float64 values with named columns.
type Dataset struct {
	columns []string
	data    []float64
	rows    int

	rng    *rand.Rand
	logger log.Logger
	parts  *Partitions
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithRandomState seeds the permutation source used by Shuffle.
func WithRandomState(seed int64) Option {
	return func(d *Dataset) {
		d.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger overrides the component logger.
func WithLogger(l log.Logger) Option {
	return func(d *Dataset) {
		d.logger = l
	}
}

// New builds a Dataset from column names and a matrix whose column count
// matches. The matrix is copied.
func New(columns []string, data mat.Matrix, opts ...Option) (*Dataset, error) {
	if err := validateColumns("Dataset.New", columns); err != nil {
		return nil, err
	}
	r, c := data.Dims()
	if c != len(columns) {
		return nil, errors.NewDimensionError("Dataset.New", len(columns), c, 1)
	}

	raw := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			raw[i*c+j] = data.At(i, j)
		}
	}
	return newDataset(columns, raw, r, opts), nil
}

// FromRows builds a Dataset from row slices. Every row must have one value
// per column.
func FromRows(columns []string, rows [][]float64, opts ...Option) (*Dataset, error) {
	if err := validateColumns("Dataset.FromRows", columns); err != nil {
		return nil, err
	}
	c := len(columns)
	raw := make([]float64, 0, len(rows)*c)
	for _, row := range rows {
		if len(row) != c {
			return nil, errors.NewDimensionError("Dataset.FromRows", c, len(row), 1)
		}
		raw = append(raw, row...)
	}
	return newDataset(columns, raw, len(rows), opts), nil
}

func newDataset(columns []string, raw []float64, rows int, opts []Option) *Dataset {
	d := &Dataset{
		columns: append([]string(nil), columns...),
		data:    raw,
		rows:    rows,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if d.logger == nil {
		d.logger = log.GetLoggerWithName("dataset")
	}
	return d
}

func validateColumns(op string, columns []string) error {
	if len(columns) == 0 {
		return errors.NewConfigurationError(op, "", "at least one column is required")
	}
	seen := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		if name == "" {
			return errors.NewConfigurationError(op, name, "column names must be non-empty")
		}
		if _, dup := seen[name]; dup {
			return errors.NewConfigurationError(op, name, "duplicate column name")
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Columns returns the column names in order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Dims returns the number of rows and columns.
func (d *Dataset) Dims() (rows, cols int) {
	return d.rows, len(d.columns)
}

// NumFeatures is the column count minus the target column.
func (d *Dataset) NumFeatures() int {
	return len(d.columns) - 1
}

// At returns the value at row i, column j.
func (d *Dataset) At(i, j int) float64 {
	return d.data[i*len(d.columns)+j]
}

// Column returns a copy of the named column.
func (d *Dataset) Column(name string) ([]float64, error) {
	j := d.columnIndex(name)
	if j < 0 {
		return nil, errors.NewConfigurationError("Dataset.Column", name, "no such column")
	}
	c := len(d.columns)
	out := make([]float64, d.rows)
	for i := range out {
		out[i] = d.data[i*c+j]
	}
	return out, nil
}

// ConstantColumns returns the columns whose values are all identical.
// Normalize maps such columns to NaN.
func (d *Dataset) ConstantColumns() []string {
	if d.rows == 0 {
		return nil
	}
	c := len(d.columns)
	var names []string
	for j := 0; j < c; j++ {
		first, same := d.data[j], true
		for i := 1; i < d.rows && same; i++ {
			same = d.data[i*c+j] == first
		}
		if same {
			names = append(names, d.columns[j])
		}
	}
	return names
}

// IsSplit reports whether Split has produced partitions.
func (d *Dataset) IsSplit() bool {
	return d.parts != nil
}

// Partitions returns the split views and whether they exist.
func (d *Dataset) Partitions() (*Partitions, bool) {
	return d.parts, d.parts != nil
}

func (d *Dataset) columnIndex(name string) int {
	for j, c := range d.columns {
		if c == name {
			return j
		}
	}
	return -1
}

func (d *Dataset) checkMutable(op string) error {
	if d.parts != nil {
		return errors.NewConfigurationError(op, "", "dataset has already been split and is frozen")
	}
	return nil
}

// Normalize min-max scales every column, target included, to [0, 1] using
// statistics over all rows. Zero-range columns become NaN and are reported
// through errors.Warn; remove them with DropColumn or DropNaN before Split.
func (d *Dataset) Normalize() error {
	if err := d.checkMutable("Dataset.Normalize"); err != nil {
		return err
	}
	if d.rows == 0 {
		return errors.NewValueErrorWithCause("Dataset.Normalize", "no rows to normalize", errors.ErrEmptyData)
	}

	c := len(d.columns)
	scaler := preprocessing.NewMinMaxScalerDefault()
	scaled, err := scaler.FitTransform(mat.NewDense(d.rows, c, d.data))
	if err != nil {
		return err
	}

	raw := scaled.RawMatrix()
	for i := 0; i < d.rows; i++ {
		copy(d.data[i*c:(i+1)*c], raw.Data[i*raw.Stride:i*raw.Stride+c])
	}

	if idx := scaler.ConstantColumns(); len(idx) > 0 {
		names := make([]string, len(idx))
		for k, j := range idx {
			names[k] = d.columns[j]
		}
		errors.Warn(errors.NewConstantColumnWarning(names))
	}

	d.logger.Debug("Normalized dataset",
		log.OperationKey, log.OperationNormalize,
		log.SamplesKey, d.rows,
		log.FeaturesKey, c,
	)
	return nil
}

// DropNaN removes every row holding a NaN or infinite value and returns the
// number of rows removed. Row order is preserved.
func (d *Dataset) DropNaN() (int, error) {
	if err := d.checkMutable("Dataset.DropNaN"); err != nil {
		return 0, err
	}

	c := len(d.columns)
	kept := 0
	for i := 0; i < d.rows; i++ {
		row := d.data[i*c : (i+1)*c]
		finite := true
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				finite = false
				break
			}
		}
		if finite {
			copy(d.data[kept*c:(kept+1)*c], row)
			kept++
		}
	}

	dropped := d.rows - kept
	d.rows = kept
	d.data = d.data[:kept*c]

	if dropped > 0 {
		d.logger.Info("Dropped rows with missing values",
			log.DroppedRowsKey, dropped,
			log.SamplesKey, kept,
		)
	}
	return dropped, nil
}

// DropColumn removes the named column.
func (d *Dataset) DropColumn(name string) error {
	if err := d.checkMutable("Dataset.DropColumn"); err != nil {
		return err
	}
	j := d.columnIndex(name)
	if j < 0 {
		return errors.NewConfigurationError("Dataset.DropColumn", name, "no such column")
	}
	if len(d.columns) == 1 {
		return errors.NewConfigurationError("Dataset.DropColumn", name, "cannot drop the last column")
	}

	c := len(d.columns)
	out := make([]float64, 0, d.rows*(c-1))
	for i := 0; i < d.rows; i++ {
		row := d.data[i*c : (i+1)*c]
		out = append(out, row[:j]...)
		out = append(out, row[j+1:]...)
	}
	d.data = out
	d.columns = append(d.columns[:j:j], d.columns[j+1:]...)
	return nil
}

// AddConstantColumn appends a column holding value in every row. A column
// of ones acts as the bias term of the linear model.
func (d *Dataset) AddConstantColumn(name string, value float64) error {
	return d.addColumn("Dataset.AddConstantColumn", name, func(int) float64 { return value })
}

// AddRatioColumn appends numerator/denominator computed row by row.
// Division by zero yields ±Inf or NaN, which DropNaN removes.
func (d *Dataset) AddRatioColumn(name, numerator, denominator string) error {
	num := d.columnIndex(numerator)
	if num < 0 {
		return errors.NewConfigurationError("Dataset.AddRatioColumn", numerator, "no such column")
	}
	den := d.columnIndex(denominator)
	if den < 0 {
		return errors.NewConfigurationError("Dataset.AddRatioColumn", denominator, "no such column")
	}
	c := len(d.columns)
	return d.addColumn("Dataset.AddRatioColumn", name, func(i int) float64 {
		return d.data[i*c+num] / d.data[i*c+den]
	})
}

func (d *Dataset) addColumn(op, name string, value func(row int) float64) error {
	if err := d.checkMutable(op); err != nil {
		return err
	}
	if name == "" {
		return errors.NewConfigurationError(op, name, "column names must be non-empty")
	}
	if d.columnIndex(name) >= 0 {
		return errors.NewConfigurationError(op, name, "duplicate column name")
	}

	c := len(d.columns)
	out := make([]float64, 0, d.rows*(c+1))
	for i := 0; i < d.rows; i++ {
		out = append(out, d.data[i*c:(i+1)*c]...)
		out = append(out, value(i))
	}
	d.data = out
	d.columns = append(d.columns, name)
	return nil
}

// Shuffle applies one uniformly random permutation to the row order. After
// Split the table is frozen and Shuffle only emits a warning.
func (d *Dataset) Shuffle() {
	if d.parts != nil {
		errors.Warn(errors.NewFrozenDatasetWarning("Dataset.Shuffle"))
		return
	}

	c := len(d.columns)
	tmp := make([]float64, c)
	d.rng.Shuffle(d.rows, func(i, j int) {
		ri := d.data[i*c : (i+1)*c]
		rj := d.data[j*c : (j+1)*c]
		copy(tmp, ri)
		copy(ri, rj)
		copy(rj, tmp)
	})
}

// TrainSize returns floor(0.8 * rows).
func TrainSize(rows int) int {
	return rows * TrainNumerator / TrainDenominator
}

// Split partitions the current row order: the first floor(0.8*rows) rows
// become the training partition and the rest the test partition. Every
// column other than target is a feature.
func (d *Dataset) Split(target string) error {
	const op = "Dataset.Split"
	if d.parts != nil {
		return errors.NewConfigurationError(op, target, "dataset has already been split")
	}
	t := d.columnIndex(target)
	if t < 0 {
		return errors.NewConfigurationError(op, target, "target column does not exist")
	}
	c := len(d.columns)
	if c < 2 {
		return errors.NewConfigurationError(op, target, "no feature columns besides the target")
	}
	if d.rows < 2 {
		return errors.NewValueErrorWithCause(op, "at least 2 rows are required to form both partitions", errors.ErrEmptyData)
	}

	features := make([]string, 0, c-1)
	for j, name := range d.columns {
		if j != t {
			features = append(features, name)
		}
	}

	nTrain := TrainSize(d.rows)
	nTest := d.rows - nTrain

	build := func(from, n int) (*mat.Dense, *mat.VecDense) {
		X := mat.NewDense(n, c-1, nil)
		y := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			row := d.data[(from+i)*c : (from+i+1)*c]
			k := 0
			for j, v := range row {
				if j == t {
					y.SetVec(i, v)
					continue
				}
				X.Set(i, k, v)
				k++
			}
		}
		return X, y
	}

	XTrain, yTrain := build(0, nTrain)
	XTest, yTest := build(nTrain, nTest)

	d.parts = &Partitions{
		Features: features,
		Target:   target,
		XTrain:   XTrain,
		YTrain:   yTrain,
		XTest:    XTest,
		YTest:    yTest,
	}

	d.logger.Info("Split dataset",
		log.OperationKey, log.OperationSplit,
		log.TargetKey, target,
		log.TrainSamplesKey, nTrain,
		log.TestSamplesKey, nTest,
		log.FeaturesKey, c-1,
	)
	return nil
}

// Partitions are the four views produced by Split. Train rows precede test
// rows in the order the dataset had at split time.
type Partitions struct {
	// Features names the feature columns in matrix column order.
	Features []string
	Target   string

	XTrain *mat.Dense
	YTrain *mat.VecDense
	XTest  *mat.Dense
	YTest  *mat.VecDense
}

// TrainRows returns the number of training rows.
func (p *Partitions) TrainRows() int {
	r, _ := p.XTrain.Dims()
	return r
}

// TestRows returns the number of test rows.
func (p *Partitions) TestRows() int {
	r, _ := p.XTest.Dims()
	return r
}

// NumFeatures returns the feature column count.
func (p *Partitions) NumFeatures() int {
	return len(p.Features)
}
