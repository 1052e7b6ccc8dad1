// Package optimizer narrows column representations without losing
// information for the observed values.
//
// The numeric pass selects the smallest signed integer width whose range
// contains a column's min/max, and downcasts float64 columns to float32
// when every value round-trips within a relative tolerance. The string pass
// dictionary-encodes low-cardinality text columns. Both passes return a new
// dataset that shares every untouched column with the input.
package optimizer

import (
	"math"

	"go.uber.org/zap"

	"github.com/dataslim/dataslim/pkg/dataset"
	"github.com/dataslim/dataslim/pkg/errors"
	"github.com/dataslim/dataslim/pkg/logger"
)

// Options controls the optimization passes.
type Options struct {
	// Verbose enables per-column and summary diagnostics. It has no effect
	// on the returned data.
	Verbose bool
	// FloatTolerance is the relative tolerance for float32 downcasting
	FloatTolerance float64
	// CategoricalThreshold is the distinct/rows ratio below which a string
	// column is dictionary-encoded
	CategoricalThreshold float64
	// Logger overrides the global logger when set
	Logger *zap.Logger
}

// DefaultOptions returns the documented defaults: verbose diagnostics on,
// relative tolerance 1e-6, categorical threshold 0.5.
func DefaultOptions() *Options {
	return &Options{
		Verbose:              true,
		FloatTolerance:       1e-6,
		CategoricalThreshold: 0.5,
	}
}

func (o *Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.Get()
}

// OptimizeNumeric narrows every integer and float column to the smallest
// width that loses no information for the observed values. Boolean and
// non-numeric columns pass through untouched; missing-value positions and
// count are preserved bit-for-bit. The returned dataset shares unmodified
// columns with ds.
func OptimizeNumeric(ds *dataset.Dataset, opts *Options) (*dataset.Dataset, error) {
	if ds == nil {
		return nil, errors.InvalidInput()
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	log := opts.logger()

	if ds.Rows() == 0 {
		if opts.Verbose {
			log.Info("dataset has no rows; nothing to optimize")
		}
		return ds, nil
	}

	before := ds.MemoryUsage()
	result := dataset.New()
	changed := 0

	for _, name := range ds.Names() {
		col, _ := ds.Column(name)

		optimized, err := optimizeColumn(col, opts)
		if err != nil {
			return nil, err
		}
		if optimized != col {
			changed++
			if opts.Verbose {
				log.Info("downcast column",
					zap.String("column", name),
					zap.String("from", col.DType().String()),
					zap.String("to", optimized.DType().String()),
					zap.Int64("bytes_saved", col.MemoryUsage()-optimized.MemoryUsage()))
			}
		}

		if err := result.AddColumn(name, optimized); err != nil {
			return nil, err
		}
	}

	if opts.Verbose {
		after := result.MemoryUsage()
		log.Info("numeric optimization complete",
			zap.Int("columns_changed", changed),
			zap.Int64("bytes_before", before),
			zap.Int64("bytes_after", after))
	}

	return result, nil
}

func optimizeColumn(col dataset.Column, opts *Options) (dataset.Column, error) {
	switch {
	case col.DType().IsInteger():
		return narrowIntColumn(col.(dataset.IntAccessor))
	case col.DType().IsFloat():
		return narrowFloatColumn(col.(dataset.FloatAccessor), opts.FloatTolerance)
	default:
		// Bool, string and categorical columns are never numeric candidates.
		return col, nil
	}
}

// narrowIntColumn rebuilds an integer column at the smallest signed width
// whose range contains the observed min/max. The check is inclusive at the
// exact range boundaries, so 127 and -128 both select int8.
func narrowIntColumn(col dataset.IntAccessor) (dataset.Column, error) {
	minV, maxV, seen := intRange(col)
	if !seen {
		// All values missing: no observed range constrains the width.
		minV, maxV = 0, 0
	}

	target := narrowestIntDType(minV, maxV)
	if target == col.DType() {
		return col, nil
	}
	return dataset.CastInt(col, target)
}

func intRange(col dataset.IntAccessor) (minV, maxV int64, seen bool) {
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		v := col.Int64(i)
		if !seen {
			minV, maxV = v, v
			seen = true
			continue
		}
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return minV, maxV, seen
}

func narrowestIntDType(minV, maxV int64) dataset.DType {
	switch {
	case minV >= math.MinInt8 && maxV <= math.MaxInt8:
		return dataset.DTypeInt8
	case minV >= math.MinInt16 && maxV <= math.MaxInt16:
		return dataset.DTypeInt16
	case minV >= math.MinInt32 && maxV <= math.MaxInt32:
		return dataset.DTypeInt32
	default:
		return dataset.DTypeInt64
	}
}

// narrowFloatColumn downcasts a float64 column to float32 when every
// non-missing value survives the round trip within the relative tolerance.
func narrowFloatColumn(col dataset.FloatAccessor, tolerance float64) (dataset.Column, error) {
	if col.DType() == dataset.DTypeFloat32 {
		return col, nil
	}

	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		v := col.Float64(i)
		if !roundTripsAt32(v, tolerance) {
			return col, nil
		}
	}

	return dataset.CastFloat(col, dataset.DTypeFloat32)
}

func roundTripsAt32(v, tolerance float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		// NaN and infinities survive narrowing exactly.
		return true
	}
	rt := float64(float32(v))
	if rt == v {
		return true
	}
	return math.Abs(rt-v) <= tolerance*math.Abs(v)
}
