package dataset

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/dataslim/dataslim/pkg/errors"
)

// ArrowSchema converts the dataset's column layout to an Arrow schema.
// Categorical columns are exported as decoded strings.
func ArrowSchema(d *Dataset) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, d.NumCols())
	for _, name := range d.Names() {
		col, _ := d.Column(name)
		at, err := arrowType(col.DType())
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{
			Name:     name,
			Type:     at,
			Nullable: true,
		})
	}
	return arrow.NewSchema(fields, nil), nil
}

func arrowType(t DType) (arrow.DataType, error) {
	switch t {
	case DTypeInt8:
		return arrow.PrimitiveTypes.Int8, nil
	case DTypeInt16:
		return arrow.PrimitiveTypes.Int16, nil
	case DTypeInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case DTypeInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case DTypeFloat32:
		return arrow.PrimitiveTypes.Float32, nil
	case DTypeFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case DTypeBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case DTypeString, DTypeCategorical:
		return arrow.BinaryTypes.String, nil
	default:
		return nil, errors.New(errors.ErrorTypeData, "dtype has no Arrow mapping").
			WithDetail("dtype", t.String())
	}
}

// ToArrow converts the dataset to an Arrow record. The caller must Release
// the returned record.
func ToArrow(d *Dataset) (arrow.Record, error) {
	schema, err := ArrowSchema(d)
	if err != nil {
		return nil, err
	}

	pool := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	for i, name := range d.Names() {
		col, _ := d.Column(name)
		if err := appendColumn(builder.Field(i), col); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to convert column").
				WithDetail("column", name)
		}
	}

	return builder.NewRecord(), nil
}

func appendColumn(b array.Builder, col Column) error {
	n := col.Len()
	for i := 0; i < n; i++ {
		if col.IsNull(i) {
			b.AppendNull()
			continue
		}
		switch fb := b.(type) {
		case *array.Int8Builder:
			fb.Append(int8(col.(IntAccessor).Int64(i)))
		case *array.Int16Builder:
			fb.Append(int16(col.(IntAccessor).Int64(i)))
		case *array.Int32Builder:
			fb.Append(int32(col.(IntAccessor).Int64(i)))
		case *array.Int64Builder:
			fb.Append(col.(IntAccessor).Int64(i))
		case *array.Float32Builder:
			fb.Append(float32(col.(FloatAccessor).Float64(i)))
		case *array.Float64Builder:
			fb.Append(col.(FloatAccessor).Float64(i))
		case *array.BooleanBuilder:
			fb.Append(col.(*BoolColumn).Bool(i))
		case *array.StringBuilder:
			fb.Append(col.(StringAccessor).Value(i))
		default:
			return errors.New(errors.ErrorTypeData, "unsupported Arrow builder").
				WithDetail("dtype", col.DType().String())
		}
	}
	return nil
}

// WriteIPC writes the dataset to w in Arrow IPC file format.
func WriteIPC(d *Dataset, w io.Writer) error {
	rec, err := ToArrow(d)
	if err != nil {
		return err
	}
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create Arrow writer")
	}

	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write Arrow record")
	}

	return fw.Close()
}
