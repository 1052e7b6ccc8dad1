// Package dataset provides the columnar tabular container analyzed by the
// optimization and classification passes.
//
// Columns store values in width-exact typed buffers. Missing values are
// carried out-of-band in an Arrow-style validity bitmap (bit set = value
// present), so an integer column can be narrowed without losing missingness.
package dataset

import (
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow/bitutil"
)

// DType represents the physical data type of a column
type DType int

const (
	DTypeInt8 DType = iota
	DTypeInt16
	DTypeInt32
	DTypeInt64
	DTypeFloat32
	DTypeFloat64
	DTypeBool
	DTypeString
	DTypeCategorical
)

// String returns the dtype name
func (t DType) String() string {
	switch t {
	case DTypeInt8:
		return "int8"
	case DTypeInt16:
		return "int16"
	case DTypeInt32:
		return "int32"
	case DTypeInt64:
		return "int64"
	case DTypeFloat32:
		return "float32"
	case DTypeFloat64:
		return "float64"
	case DTypeBool:
		return "bool"
	case DTypeString:
		return "string"
	case DTypeCategorical:
		return "categorical"
	default:
		return fmt.Sprintf("dtype(%d)", int(t))
	}
}

// IsInteger reports whether the dtype is a signed integer width
func (t DType) IsInteger() bool {
	switch t {
	case DTypeInt8, DTypeInt16, DTypeInt32, DTypeInt64:
		return true
	}
	return false
}

// IsFloat reports whether the dtype is a floating-point width
func (t DType) IsFloat() bool {
	return t == DTypeFloat32 || t == DTypeFloat64
}

// IsNumeric reports whether the dtype participates in numeric optimization.
// Bool is a distinct dtype and is never treated as numeric.
func (t DType) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// Size returns the element width in bytes, or 0 for variable-width dtypes
func (t DType) Size() int {
	switch t {
	case DTypeInt8, DTypeBool:
		return 1
	case DTypeInt16:
		return 2
	case DTypeInt32, DTypeFloat32:
		return 4
	case DTypeInt64, DTypeFloat64:
		return 8
	}
	return 0
}

// Column is the base interface for all column types
type Column interface {
	DType() DType
	Len() int
	// Get returns the logical value at i (int64 for integer columns,
	// float64 for float columns), or nil when the value is missing.
	Get(i int) interface{}
	IsNull(i int) bool
	NullCount() int
	// Validity returns the underlying validity bitmap, nil when the column
	// has no missing values. Callers must not mutate it.
	Validity() []byte
	MemoryUsage() int64
}

// IntAccessor is implemented by integer columns of every width
type IntAccessor interface {
	Column
	Int64(i int) int64
}

// FloatAccessor is implemented by float columns of every width
type FloatAccessor interface {
	Column
	Float64(i int) float64
}

// StringAccessor is implemented by columns holding text values
type StringAccessor interface {
	Column
	Value(i int) string
}

// NewValidity returns an all-clear validity bitmap sized for n values.
// Callers mark present values with MarkValid.
func NewValidity(n int) []byte {
	return make([]byte, int(bitutil.BytesForBits(int64(n))))
}

// MarkValid sets the validity bit for position i
func MarkValid(validity []byte, i int) {
	bitutil.SetBit(validity, i)
}

func countNulls(validity []byte, n int) int {
	if validity == nil {
		return 0
	}
	return n - bitutil.CountSetBits(validity, 0, n)
}

func validAt(validity []byte, i int) bool {
	return validity == nil || bitutil.BitIsSet(validity, i)
}

// intValue constrains the signed integer widths a column can hold
type intValue interface {
	int8 | int16 | int32 | int64
}

// floatValue constrains the floating-point widths a column can hold
type floatValue interface {
	float32 | float64
}

// IntColumn stores signed integers at a fixed physical width
type IntColumn[T intValue] struct {
	dtype    DType
	values   []T
	validity []byte
	nulls    int
}

func newIntColumn[T intValue](dtype DType, values []T, validity []byte) *IntColumn[T] {
	return &IntColumn[T]{
		dtype:    dtype,
		values:   values,
		validity: validity,
		nulls:    countNulls(validity, len(values)),
	}
}

// NewInt8Column creates an int8 column. validity may be nil when no value
// is missing; missing positions must hold the zero value.
func NewInt8Column(values []int8, validity []byte) *IntColumn[int8] {
	return newIntColumn(DTypeInt8, values, validity)
}

// NewInt16Column creates an int16 column
func NewInt16Column(values []int16, validity []byte) *IntColumn[int16] {
	return newIntColumn(DTypeInt16, values, validity)
}

// NewInt32Column creates an int32 column
func NewInt32Column(values []int32, validity []byte) *IntColumn[int32] {
	return newIntColumn(DTypeInt32, values, validity)
}

// NewInt64Column creates an int64 column
func NewInt64Column(values []int64, validity []byte) *IntColumn[int64] {
	return newIntColumn(DTypeInt64, values, validity)
}

func (c *IntColumn[T]) DType() DType     { return c.dtype }
func (c *IntColumn[T]) Len() int         { return len(c.values) }
func (c *IntColumn[T]) NullCount() int   { return c.nulls }
func (c *IntColumn[T]) Validity() []byte { return c.validity }

func (c *IntColumn[T]) IsNull(i int) bool {
	return !validAt(c.validity, i)
}

func (c *IntColumn[T]) Get(i int) interface{} {
	if c.IsNull(i) {
		return nil
	}
	return int64(c.values[i])
}

// Int64 returns the value at i widened to int64. The result is unspecified
// when the value is missing.
func (c *IntColumn[T]) Int64(i int) int64 {
	return int64(c.values[i])
}

func (c *IntColumn[T]) MemoryUsage() int64 {
	return int64(len(c.values))*int64(c.dtype.Size()) + int64(len(c.validity))
}

// FloatColumn stores floating-point values at a fixed physical width
type FloatColumn[T floatValue] struct {
	dtype    DType
	values   []T
	validity []byte
	nulls    int
}

func newFloatColumn[T floatValue](dtype DType, values []T, validity []byte) *FloatColumn[T] {
	return &FloatColumn[T]{
		dtype:    dtype,
		values:   values,
		validity: validity,
		nulls:    countNulls(validity, len(values)),
	}
}

// NewFloat32Column creates a float32 column
func NewFloat32Column(values []float32, validity []byte) *FloatColumn[float32] {
	return newFloatColumn(DTypeFloat32, values, validity)
}

// NewFloat64Column creates a float64 column
func NewFloat64Column(values []float64, validity []byte) *FloatColumn[float64] {
	return newFloatColumn(DTypeFloat64, values, validity)
}

func (c *FloatColumn[T]) DType() DType     { return c.dtype }
func (c *FloatColumn[T]) Len() int         { return len(c.values) }
func (c *FloatColumn[T]) NullCount() int   { return c.nulls }
func (c *FloatColumn[T]) Validity() []byte { return c.validity }

func (c *FloatColumn[T]) IsNull(i int) bool {
	return !validAt(c.validity, i)
}

func (c *FloatColumn[T]) Get(i int) interface{} {
	if c.IsNull(i) {
		return nil
	}
	return float64(c.values[i])
}

// Float64 returns the value at i widened to float64. The result is
// unspecified when the value is missing.
func (c *FloatColumn[T]) Float64(i int) float64 {
	return float64(c.values[i])
}

func (c *FloatColumn[T]) MemoryUsage() int64 {
	return int64(len(c.values))*int64(c.dtype.Size()) + int64(len(c.validity))
}

// BoolColumn stores boolean values bit-packed, 64 per word
type BoolColumn struct {
	words    []uint64
	count    int
	validity []byte
	nulls    int
}

// NewBoolColumn creates a bool column from a value slice
func NewBoolColumn(values []bool, validity []byte) *BoolColumn {
	c := &BoolColumn{
		words:    make([]uint64, (len(values)+63)/64),
		count:    len(values),
		validity: validity,
		nulls:    countNulls(validity, len(values)),
	}
	for i, v := range values {
		if v {
			c.words[i/64] |= 1 << (i % 64)
		}
	}
	return c
}

func (c *BoolColumn) DType() DType     { return DTypeBool }
func (c *BoolColumn) Len() int         { return c.count }
func (c *BoolColumn) NullCount() int   { return c.nulls }
func (c *BoolColumn) Validity() []byte { return c.validity }

func (c *BoolColumn) IsNull(i int) bool {
	return !validAt(c.validity, i)
}

func (c *BoolColumn) Get(i int) interface{} {
	if c.IsNull(i) {
		return nil
	}
	return c.Bool(i)
}

// Bool returns the value at i
func (c *BoolColumn) Bool(i int) bool {
	return (c.words[i/64] & (1 << (i % 64))) != 0
}

func (c *BoolColumn) MemoryUsage() int64 {
	return int64(len(c.words)*8) + int64(len(c.validity))
}

// StringColumn stores free-text values
type StringColumn struct {
	values   []string
	validity []byte
	nulls    int
}

// NewStringColumn creates a string column
func NewStringColumn(values []string, validity []byte) *StringColumn {
	return &StringColumn{
		values:   values,
		validity: validity,
		nulls:    countNulls(validity, len(values)),
	}
}

func (c *StringColumn) DType() DType     { return DTypeString }
func (c *StringColumn) Len() int         { return len(c.values) }
func (c *StringColumn) NullCount() int   { return c.nulls }
func (c *StringColumn) Validity() []byte { return c.validity }

func (c *StringColumn) IsNull(i int) bool {
	return !validAt(c.validity, i)
}

func (c *StringColumn) Get(i int) interface{} {
	if c.IsNull(i) {
		return nil
	}
	return c.values[i]
}

// Value returns the string at i
func (c *StringColumn) Value(i int) string {
	return c.values[i]
}

func (c *StringColumn) MemoryUsage() int64 {
	var total int64
	for _, v := range c.values {
		total += int64(len(v))
		total += 16 // string header overhead
	}
	return total + int64(len(c.validity))
}

// CategoricalColumn stores values as uint32 codes into a finite label set
type CategoricalColumn struct {
	labels   []string
	codes    []uint32
	validity []byte
	nulls    int
}

// NewCategoricalColumn dictionary-encodes the given values, assigning codes
// in first-appearance order. Missing positions receive code 0.
func NewCategoricalColumn(values []string, validity []byte) *CategoricalColumn {
	c := &CategoricalColumn{
		codes:    make([]uint32, len(values)),
		validity: validity,
		nulls:    countNulls(validity, len(values)),
	}
	index := make(map[string]uint32)
	for i, v := range values {
		if !validAt(validity, i) {
			continue
		}
		code, ok := index[v]
		if !ok {
			code = uint32(len(c.labels))
			index[v] = code
			c.labels = append(c.labels, v)
		}
		c.codes[i] = code
	}
	return c
}

func (c *CategoricalColumn) DType() DType     { return DTypeCategorical }
func (c *CategoricalColumn) Len() int         { return len(c.codes) }
func (c *CategoricalColumn) NullCount() int   { return c.nulls }
func (c *CategoricalColumn) Validity() []byte { return c.validity }

// Labels returns the label set in code order. Callers must not mutate it.
func (c *CategoricalColumn) Labels() []string { return c.labels }

func (c *CategoricalColumn) IsNull(i int) bool {
	return !validAt(c.validity, i)
}

func (c *CategoricalColumn) Get(i int) interface{} {
	if c.IsNull(i) {
		return nil
	}
	return c.labels[c.codes[i]]
}

// Value returns the label at i
func (c *CategoricalColumn) Value(i int) string {
	return c.labels[c.codes[i]]
}

func (c *CategoricalColumn) MemoryUsage() int64 {
	var total int64
	for _, l := range c.labels {
		total += int64(len(l)) + 16
	}
	total += int64(len(c.codes) * 4)
	return total + int64(len(c.validity))
}

// Cardinality returns the number of distinct values in a column, with
// missing counted as one distinct value.
func Cardinality(col Column) int {
	seen := make(map[interface{}]struct{})
	missingSeen := false
	for i := 0; i < col.Len(); i++ {
		v := col.Get(i)
		if v == nil {
			missingSeen = true
			continue
		}
		// NaN is the float missing marker; fold it into the missing bucket
		// so it counts once rather than once per occurrence.
		if f, ok := v.(float64); ok && math.IsNaN(f) {
			missingSeen = true
			continue
		}
		seen[v] = struct{}{}
	}
	n := len(seen)
	if missingSeen {
		n++
	}
	return n
}
