package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataslim/dataslim/pkg/errors"
)

func TestDatasetAddColumn(t *testing.T) {
	ds := New()
	require.NoError(t, ds.AddColumn("a", NewInt64Column([]int64{1, 2}, nil)))
	require.NoError(t, ds.AddColumn("b", NewStringColumn([]string{"x", "y"}, nil)))

	assert.Equal(t, 2, ds.Rows())
	assert.Equal(t, 2, ds.NumCols())
	assert.Equal(t, []string{"a", "b"}, ds.Names())

	col, ok := ds.Column("a")
	require.True(t, ok)
	assert.Equal(t, DTypeInt64, col.DType())

	_, ok = ds.Column("missing")
	assert.False(t, ok)
}

func TestDatasetRejectsLengthMismatch(t *testing.T) {
	ds := New()
	require.NoError(t, ds.AddColumn("a", NewInt64Column([]int64{1, 2}, nil)))

	err := ds.AddColumn("b", NewInt64Column([]int64{1}, nil))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestDatasetRejectsDuplicateName(t *testing.T) {
	ds := New()
	require.NoError(t, ds.AddColumn("a", NewInt64Column([]int64{1}, nil)))

	err := ds.AddColumn("a", NewInt64Column([]int64{2}, nil))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestDatasetMemoryUsage(t *testing.T) {
	ds := New()
	require.NoError(t, ds.AddColumn("a", NewInt64Column([]int64{1, 2, 3, 4}, nil)))
	require.NoError(t, ds.AddColumn("b", NewInt8Column([]int8{1, 2, 3, 4}, nil)))

	assert.Equal(t, int64(4*8+4), ds.MemoryUsage())
}

func TestDatasetWithColumnSharesOthers(t *testing.T) {
	a := NewInt64Column([]int64{1, 2}, nil)
	b := NewStringColumn([]string{"x", "y"}, nil)

	ds := New()
	require.NoError(t, ds.AddColumn("a", a))
	require.NoError(t, ds.AddColumn("b", b))

	replacement := NewInt8Column([]int8{1, 2}, nil)
	out, err := ds.WithColumn("a", replacement)
	require.NoError(t, err)

	gotA, _ := out.Column("a")
	gotB, _ := out.Column("b")
	assert.Same(t, Column(replacement), gotA)
	assert.Same(t, Column(b), gotB)
	assert.Equal(t, ds.Names(), out.Names())

	// the receiver is untouched
	origA, _ := ds.Column("a")
	assert.Same(t, Column(a), origA)
}

func TestEmptyDataset(t *testing.T) {
	ds := New()
	assert.Equal(t, 0, ds.Rows())
	assert.Equal(t, 0, ds.NumCols())
	assert.Equal(t, int64(0), ds.MemoryUsage())
}
