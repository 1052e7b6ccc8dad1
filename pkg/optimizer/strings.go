package optimizer

import (
	"go.uber.org/zap"

	"github.com/dataslim/dataslim/pkg/dataset"
	"github.com/dataslim/dataslim/pkg/errors"
)

// OptimizeStrings dictionary-encodes low-cardinality text columns. A string
// column is converted to categorical when its distinct/rows ratio falls
// below the configured threshold; all other columns pass through untouched.
// The returned dataset shares unmodified columns with ds.
func OptimizeStrings(ds *dataset.Dataset, opts *Options) (*dataset.Dataset, error) {
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

	result := dataset.New()
	changed := 0

	for _, name := range ds.Names() {
		col, _ := ds.Column(name)
		out := col

		if col.DType() == dataset.DTypeString {
			ratio := float64(dataset.Cardinality(col)) / float64(ds.Rows())
			if ratio < opts.CategoricalThreshold {
				out = dataset.EncodeCategorical(col.(dataset.StringAccessor))
				changed++
				if opts.Verbose {
					log.Info("encoded column as categorical",
						zap.String("column", name),
						zap.Float64("distinct_ratio", ratio),
						zap.Int64("bytes_saved", col.MemoryUsage()-out.MemoryUsage()))
				}
			}
		}

		if err := result.AddColumn(name, out); err != nil {
			return nil, err
		}
	}

	if opts.Verbose {
		log.Info("string optimization complete", zap.Int("columns_changed", changed))
	}

	return result, nil
}
