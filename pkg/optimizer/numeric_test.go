package optimizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataslim/dataslim/pkg/dataset"
	"github.com/dataslim/dataslim/pkg/errors"
	"github.com/dataslim/dataslim/pkg/testutil"
)

func quietOptions(t *testing.T) *Options {
	opts := DefaultOptions()
	opts.Logger = testutil.TestLogger(t)
	return opts
}

func mustAdd(t *testing.T, ds *dataset.Dataset, name string, col dataset.Column) {
	t.Helper()
	require.NoError(t, ds.AddColumn(name, col))
}

func TestOptimizeNumeric_IntegerColumnsDowncastedOnly(t *testing.T) {
	ds := dataset.New()
	mustAdd(t, ds, "int_col", dataset.NewInt64Column([]int64{1, 2, 3}, nil))
	strCol := dataset.NewStringColumn([]string{"a", "b", "c"}, nil)
	mustAdd(t, ds, "cat_col", strCol)

	result, err := OptimizeNumeric(ds, quietOptions(t))
	require.NoError(t, err)

	intCol, ok := result.Column("int_col")
	require.True(t, ok)
	assert.True(t, intCol.DType().IsInteger())
	assert.Equal(t, dataset.DTypeInt8, intCol.DType())
	for i, want := range []int64{1, 2, 3} {
		assert.Equal(t, want, intCol.Get(i))
	}

	// Non-numeric column must pass through as the same object
	got, ok := result.Column("cat_col")
	require.True(t, ok)
	assert.Same(t, dataset.Column(strCol), got)
}

func TestOptimizeNumeric_FloatColumnsDowncastedOnly(t *testing.T) {
	ds := dataset.New()
	mustAdd(t, ds, "float_col", dataset.NewFloat64Column([]float64{1.5, 2.5, 3.5}, nil))

	result, err := OptimizeNumeric(ds, quietOptions(t))
	require.NoError(t, err)

	col, ok := result.Column("float_col")
	require.True(t, ok)
	assert.Equal(t, dataset.DTypeFloat32, col.DType())

	floats := col.(dataset.FloatAccessor)
	for i, want := range []float64{1.5, 2.5, 3.5} {
		assert.InEpsilon(t, want, floats.Float64(i), 1e-6)
	}
}

func TestOptimizeNumeric_MixedColumnsHandledIndependently(t *testing.T) {
	ds := dataset.New()
	mustAdd(t, ds, "int_col", dataset.NewInt64Column([]int64{10, 20, 30}, nil))
	mustAdd(t, ds, "float_col", dataset.NewFloat64Column([]float64{1.1, 2.2, 3.3}, nil))

	result, err := OptimizeNumeric(ds, quietOptions(t))
	require.NoError(t, err)

	intCol, _ := result.Column("int_col")
	assert.Equal(t, dataset.DTypeInt8, intCol.DType())

	floatCol, _ := result.Column("float_col")
	assert.Equal(t, dataset.DTypeFloat32, floatCol.DType())
	assert.InEpsilon(t, 2.2, floatCol.(dataset.FloatAccessor).Float64(1), 1e-6)
}

func TestOptimizeNumeric_MissingValuesPreserved(t *testing.T) {
	intValidity := dataset.NewValidity(3)
	dataset.MarkValid(intValidity, 0)
	dataset.MarkValid(intValidity, 2)
	intCol := dataset.NewInt64Column([]int64{1, 0, 3}, intValidity)

	floatValidity := dataset.NewValidity(3)
	dataset.MarkValid(floatValidity, 0)
	dataset.MarkValid(floatValidity, 2)
	floatCol := dataset.NewFloat64Column([]float64{1.0, 0, 3.0}, floatValidity)

	ds := dataset.New()
	mustAdd(t, ds, "int_col", intCol)
	mustAdd(t, ds, "float_col", floatCol)

	result, err := OptimizeNumeric(ds, quietOptions(t))
	require.NoError(t, err)

	gotInt, _ := result.Column("int_col")
	assert.Equal(t, dataset.DTypeInt8, gotInt.DType())
	assert.Equal(t, 1, gotInt.NullCount())
	assert.Equal(t, intValidity, gotInt.Validity(), "validity bitmap must be preserved bit-for-bit")
	assert.True(t, gotInt.IsNull(1))
	assert.False(t, gotInt.IsNull(0))
	assert.Equal(t, int64(3), gotInt.Get(2))

	gotFloat, _ := result.Column("float_col")
	assert.Equal(t, 1, gotFloat.NullCount())
	assert.Equal(t, floatValidity, gotFloat.Validity())
	assert.True(t, gotFloat.IsNull(1))
}

func TestOptimizeNumeric_NoNumericColumnsUnaltered(t *testing.T) {
	cat1 := dataset.NewStringColumn([]string{"a", "b", "c"}, nil)
	cat2 := dataset.NewStringColumn([]string{"x", "y", "z"}, nil)

	ds := dataset.New()
	mustAdd(t, ds, "cat1", cat1)
	mustAdd(t, ds, "cat2", cat2)

	result, err := OptimizeNumeric(ds, quietOptions(t))
	require.NoError(t, err)

	got1, _ := result.Column("cat1")
	got2, _ := result.Column("cat2")
	assert.Same(t, dataset.Column(cat1), got1)
	assert.Same(t, dataset.Column(cat2), got2)
	assert.Equal(t, ds.Names(), result.Names())
}

func TestOptimizeNumeric_NegativeIntegers(t *testing.T) {
	ds := dataset.New()
	mustAdd(t, ds, "neg_int", dataset.NewInt64Column([]int64{-10, -20, -30}, nil))

	opts := quietOptions(t)
	opts.Verbose = false
	result, err := OptimizeNumeric(ds, opts)
	require.NoError(t, err)

	col, _ := result.Column("neg_int")
	assert.Equal(t, dataset.DTypeInt8, col.DType())
	assert.Equal(t, int64(-20), col.Get(1))
}

func TestOptimizeNumeric_Int8Boundaries(t *testing.T) {
	ds := dataset.New()
	mustAdd(t, ds, "boundary_int", dataset.NewInt64Column([]int64{127, -128, 0}, nil))

	result, err := OptimizeNumeric(ds, quietOptions(t))
	require.NoError(t, err)

	col, _ := result.Column("boundary_int")
	assert.Equal(t, dataset.DTypeInt8, col.DType())
	assert.Equal(t, int64(127), col.Get(0))
	assert.Equal(t, int64(-128), col.Get(1))
}

func TestOptimizeNumeric_WidthBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		values []int64
		want   dataset.DType
	}{
		{"int8 max", []int64{127}, dataset.DTypeInt8},
		{"just above int8", []int64{128}, dataset.DTypeInt16},
		{"int16 min", []int64{-32768}, dataset.DTypeInt16},
		{"just below int16 min", []int64{-32769}, dataset.DTypeInt32},
		{"int32 max", []int64{2147483647}, dataset.DTypeInt32},
		{"just above int32", []int64{2147483648}, dataset.DTypeInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := dataset.New()
			mustAdd(t, ds, "col", dataset.NewInt64Column(tt.values, nil))

			result, err := OptimizeNumeric(ds, quietOptions(t))
			require.NoError(t, err)

			col, _ := result.Column("col")
			assert.Equal(t, tt.want, col.DType())
		})
	}
}

func TestOptimizeNumeric_BooleanColumnsNotAffected(t *testing.T) {
	boolCol := dataset.NewBoolColumn([]bool{true, false, true}, nil)

	ds := dataset.New()
	mustAdd(t, ds, "bool_col", boolCol)
	mustAdd(t, ds, "int_col", dataset.NewInt64Column([]int64{1, 2, 3}, nil))

	result, err := OptimizeNumeric(ds, quietOptions(t))
	require.NoError(t, err)

	got, _ := result.Column("bool_col")
	assert.Same(t, dataset.Column(boolCol), got)
	assert.Equal(t, dataset.DTypeBool, got.DType())
}

func TestOptimizeNumeric_VeryLargeIntegersRemainInt64(t *testing.T) {
	huge := dataset.NewInt64Column([]int64{2147483648, 2147483649}, nil)
	ds := dataset.New()
	mustAdd(t, ds, "huge_int", huge)

	result, err := OptimizeNumeric(ds, quietOptions(t))
	require.NoError(t, err)

	col, _ := result.Column("huge_int")
	assert.Equal(t, dataset.DTypeInt64, col.DType())
	// Already at the required width: pass through unchanged
	assert.Same(t, dataset.Column(huge), col)
}

func TestOptimizeNumeric_FloatBeyondFloat32RangeRetained(t *testing.T) {
	ds := dataset.New()
	mustAdd(t, ds, "wide_float", dataset.NewFloat64Column([]float64{1e300, 2.5}, nil))

	result, err := OptimizeNumeric(ds, quietOptions(t))
	require.NoError(t, err)

	col, _ := result.Column("wide_float")
	assert.Equal(t, dataset.DTypeFloat64, col.DType())
	assert.Equal(t, 1e300, col.(dataset.FloatAccessor).Float64(0))
}

func TestOptimizeNumeric_NaNPreserved(t *testing.T) {
	ds := dataset.New()
	mustAdd(t, ds, "f", dataset.NewFloat64Column([]float64{1.0, math.NaN(), 3.0}, nil))

	result, err := OptimizeNumeric(ds, quietOptions(t))
	require.NoError(t, err)

	col, _ := result.Column("f")
	assert.Equal(t, dataset.DTypeFloat32, col.DType())
	assert.True(t, math.IsNaN(col.(dataset.FloatAccessor).Float64(1)))
}

func TestOptimizeNumeric_InvalidInput(t *testing.T) {
	result, err := OptimizeNumeric(nil, quietOptions(t))
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
	assert.Contains(t, err.Error(), errors.InvalidInputMessage)
}

func TestOptimizeNumeric_EmptyDataset(t *testing.T) {
	ds := dataset.New()
	mustAdd(t, ds, "int_col", dataset.NewInt64Column(nil, nil))

	result, err := OptimizeNumeric(ds, quietOptions(t))
	require.NoError(t, err)
	assert.Same(t, ds, result)
}

func TestOptimizeNumeric_VerboseHasNoEffectOnData(t *testing.T) {
	build := func() *dataset.Dataset {
		ds := dataset.New()
		mustAdd(t, ds, "int_col", dataset.NewInt64Column([]int64{100, 200, 300}, nil))
		return ds
	}

	verbose := quietOptions(t)
	verbose.Verbose = true
	silent := quietOptions(t)
	silent.Verbose = false

	r1, err := OptimizeNumeric(build(), verbose)
	require.NoError(t, err)
	r2, err := OptimizeNumeric(build(), silent)
	require.NoError(t, err)

	c1, _ := r1.Column("int_col")
	c2, _ := r2.Column("int_col")
	assert.Equal(t, c1.DType(), c2.DType())
	for i := 0; i < 3; i++ {
		assert.Equal(t, c1.Get(i), c2.Get(i))
	}
}
