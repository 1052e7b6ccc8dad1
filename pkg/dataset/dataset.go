package dataset

import (
	"github.com/dataslim/dataslim/pkg/errors"
)

// Dataset is an ordered collection of named columns sharing one row count.
type Dataset struct {
	names   []string
	columns map[string]Column
	rows    int
}

// New creates an empty dataset
func New() *Dataset {
	return &Dataset{
		columns: make(map[string]Column),
	}
}

// AddColumn appends a named column. Every column after the first must match
// the dataset's row count.
func (d *Dataset) AddColumn(name string, col Column) error {
	if _, exists := d.columns[name]; exists {
		return errors.New(errors.ErrorTypeData, "duplicate column name").WithDetail("column", name)
	}
	if len(d.names) > 0 && col.Len() != d.rows {
		return errors.New(errors.ErrorTypeData, "column length does not match dataset row count").
			WithDetail("column", name).
			WithDetail("rows", d.rows).
			WithDetail("len", col.Len())
	}
	if len(d.names) == 0 {
		d.rows = col.Len()
	}
	d.names = append(d.names, name)
	d.columns[name] = col
	return nil
}

// Column returns the column with the given name
func (d *Dataset) Column(name string) (Column, bool) {
	col, ok := d.columns[name]
	return col, ok
}

// Names returns the column names in insertion order
func (d *Dataset) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Rows returns the shared row count
func (d *Dataset) Rows() int {
	return d.rows
}

// NumCols returns the number of columns
func (d *Dataset) NumCols() int {
	return len(d.names)
}

// MemoryUsage returns the total estimated memory footprint in bytes
func (d *Dataset) MemoryUsage() int64 {
	var total int64
	for _, name := range d.names {
		total += d.columns[name].MemoryUsage()
	}
	return total
}

// WithColumn returns a shallow copy of the dataset with one column replaced.
// All other columns are shared with the receiver.
func (d *Dataset) WithColumn(name string, col Column) (*Dataset, error) {
	out := New()
	for _, n := range d.names {
		c := d.columns[n]
		if n == name {
			c = col
		}
		if err := out.AddColumn(n, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}
