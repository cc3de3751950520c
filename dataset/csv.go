package dataset

import (
	"io"
	"os"

	"github.com/YuminosukeSato/gdlinear/pkg/errors"
	"github.com/YuminosukeSato/gdlinear/pkg/log"
	"github.com/sjwhitworth/golearn/base"
)

// LoadCSV reads a headed CSV file into a Dataset.
func LoadCSV(path string, opts ...Option) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	return ReadCSV(f, opts...)
}

// ReadCSV parses headed CSV content. The header names the columns and every
// column must be numeric; golearn sniffs attribute types from the leading
// rows, so a column holding text becomes categorical and is rejected.
func ReadCSV(r io.ReadSeeker, opts ...Option) (d *Dataset, err error) {
	const op = "dataset.ReadCSV"

	var inst *base.DenseInstances
	err = errors.SafeExecute(op, func() error {
		var perr error
		inst, perr = base.ParseCSVToInstancesFromReader(r, true)
		return perr
	})
	if err != nil {
		return nil, errors.NewValueErrorWithCause(op, "malformed CSV input", err)
	}

	attrs := inst.AllAttributes()
	_, rows := inst.Size()
	if len(attrs) == 0 {
		return nil, errors.NewConfigurationError(op, "", "CSV has no columns")
	}

	columns := make([]string, len(attrs))
	specs := make([]base.AttributeSpec, len(attrs))
	for j, attr := range attrs {
		columns[j] = attr.GetName()
		if _, ok := attr.(*base.FloatAttribute); !ok {
			return nil, errors.NewConfigurationError(op, columns[j], "column is not numeric")
		}
		spec, serr := inst.GetAttribute(attr)
		if serr != nil {
			return nil, errors.Wrapf(serr, "%s: resolve column %q", op, columns[j])
		}
		specs[j] = spec
	}

	c := len(columns)
	raw := make([]float64, rows*c)
	err = errors.SafeExecute(op, func() error {
		for i := 0; i < rows; i++ {
			for j := range specs {
				raw[i*c+j] = base.UnpackBytesToFloat(inst.Get(specs[j], i))
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewValueErrorWithCause(op, "reading CSV values", err)
	}

	if err := validateColumns(op, columns); err != nil {
		return nil, err
	}
	d = newDataset(columns, raw, rows, opts)
	d.logger.Info("Loaded CSV",
		log.OperationKey, log.OperationLoad,
		log.SamplesKey, rows,
		log.FeaturesKey, c,
	)
	return d, nil
}
