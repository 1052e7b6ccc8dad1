// Package ingest loads delimited files into datasets, inferring a dtype
// per column from the observed values.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dataslim/dataslim/pkg/dataset"
	"github.com/dataslim/dataslim/pkg/errors"
)

// ReadCSV loads a CSV file with a header row into a dataset.
func ReadCSV(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is controlled by the caller
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open CSV file")
	}
	defer f.Close()

	return Read(f)
}

// Read parses CSV data with a header row into a dataset. Empty cells are
// recorded as missing values. Each column's dtype is elected from the
// non-missing cells: int64 when every cell parses as an integer, float64
// when every cell parses as a number, bool for true/false columns, and
// free text otherwise.
func Read(r io.Reader) (*dataset.Dataset, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse CSV")
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrorTypeData, "CSV input has no header row")
	}

	header := rows[0]
	data := rows[1:]

	ds := dataset.New()
	for j, name := range header {
		cells := make([]string, len(data))
		for i, row := range data {
			if j < len(row) {
				cells[i] = row[j]
			}
		}

		col := buildColumn(cells)
		if err := ds.AddColumn(name, col); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func buildColumn(cells []string) dataset.Column {
	switch inferDType(cells) {
	case dataset.DTypeInt64:
		return buildIntColumn(cells)
	case dataset.DTypeFloat64:
		return buildFloatColumn(cells)
	case dataset.DTypeBool:
		return buildBoolColumn(cells)
	default:
		return buildStringColumn(cells)
	}
}

// inferDType elects a dtype for the column. All non-missing cells must
// agree; a single non-conforming cell demotes the column to text.
func inferDType(cells []string) dataset.DType {
	sawValue := false
	canInt, canFloat, canBool := true, true, true

	for _, cell := range cells {
		if cell == "" {
			continue
		}
		sawValue = true
		if canInt && !isInteger(cell) {
			canInt = false
		}
		if canFloat && !isFloat(cell) {
			canFloat = false
		}
		if canBool && !isBool(cell) {
			canBool = false
		}
		if !canInt && !canFloat && !canBool {
			break
		}
	}

	switch {
	case !sawValue:
		return dataset.DTypeString
	case canBool:
		return dataset.DTypeBool
	case canInt:
		return dataset.DTypeInt64
	case canFloat:
		return dataset.DTypeFloat64
	default:
		return dataset.DTypeString
	}
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isBool(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

func buildIntColumn(cells []string) dataset.Column {
	values := make([]int64, len(cells))
	validity, nulls := validityFor(cells)
	for i, cell := range cells {
		if cell == "" {
			continue
		}
		values[i], _ = strconv.ParseInt(cell, 10, 64)
	}
	if nulls == 0 {
		validity = nil
	}
	return dataset.NewInt64Column(values, validity)
}

func buildFloatColumn(cells []string) dataset.Column {
	values := make([]float64, len(cells))
	validity, nulls := validityFor(cells)
	for i, cell := range cells {
		if cell == "" {
			continue
		}
		values[i], _ = strconv.ParseFloat(cell, 64)
	}
	if nulls == 0 {
		validity = nil
	}
	return dataset.NewFloat64Column(values, validity)
}

func buildBoolColumn(cells []string) dataset.Column {
	values := make([]bool, len(cells))
	validity, nulls := validityFor(cells)
	for i, cell := range cells {
		values[i] = strings.EqualFold(cell, "true")
	}
	if nulls == 0 {
		validity = nil
	}
	return dataset.NewBoolColumn(values, validity)
}

func buildStringColumn(cells []string) dataset.Column {
	validity, nulls := validityFor(cells)
	if nulls == 0 {
		validity = nil
	}
	return dataset.NewStringColumn(cells, validity)
}

func validityFor(cells []string) ([]byte, int) {
	validity := dataset.NewValidity(len(cells))
	nulls := 0
	for i, cell := range cells {
		if cell == "" {
			nulls++
			continue
		}
		dataset.MarkValid(validity, i)
	}
	return validity, nulls
}
