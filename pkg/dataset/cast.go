package dataset

import (
	"github.com/dataslim/dataslim/pkg/errors"
)

// CastInt rebuilds an integer column at the target width. The validity
// bitmap is copied bit-for-bit, so missing positions and count are
// preserved exactly. Callers are responsible for checking that the observed
// value range fits the target width.
func CastInt(col IntAccessor, target DType) (Column, error) {
	switch target {
	case DTypeInt8:
		return castInts[int8](target, col), nil
	case DTypeInt16:
		return castInts[int16](target, col), nil
	case DTypeInt32:
		return castInts[int32](target, col), nil
	case DTypeInt64:
		return castInts[int64](target, col), nil
	default:
		return nil, errors.New(errors.ErrorTypeData, "cast target is not an integer dtype").
			WithDetail("target", target.String())
	}
}

func castInts[T intValue](dtype DType, src IntAccessor) Column {
	n := src.Len()
	values := make([]T, n)
	for i := 0; i < n; i++ {
		if src.IsNull(i) {
			continue
		}
		values[i] = T(src.Int64(i))
	}
	return newIntColumn(dtype, values, copyValidity(src))
}

// CastFloat rebuilds a float column at the target width. Values are
// converted by plain narrowing; precision acceptance is the caller's
// decision. Validity is copied bit-for-bit.
func CastFloat(col FloatAccessor, target DType) (Column, error) {
	switch target {
	case DTypeFloat32:
		return castFloats[float32](target, col), nil
	case DTypeFloat64:
		return castFloats[float64](target, col), nil
	default:
		return nil, errors.New(errors.ErrorTypeData, "cast target is not a float dtype").
			WithDetail("target", target.String())
	}
}

func castFloats[T floatValue](dtype DType, src FloatAccessor) Column {
	n := src.Len()
	values := make([]T, n)
	for i := 0; i < n; i++ {
		if src.IsNull(i) {
			continue
		}
		values[i] = T(src.Float64(i))
	}
	return newFloatColumn(dtype, values, copyValidity(src))
}

// EncodeCategorical dictionary-encodes a text column into a categorical
// column. Validity is copied bit-for-bit.
func EncodeCategorical(col StringAccessor) *CategoricalColumn {
	n := col.Len()
	values := make([]string, n)
	for i := 0; i < n; i++ {
		if !col.IsNull(i) {
			values[i] = col.Value(i)
		}
	}
	return NewCategoricalColumn(values, copyValidity(col))
}

func copyValidity(col Column) []byte {
	v := col.Validity()
	if v == nil {
		return nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out
}
