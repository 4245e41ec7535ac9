package table

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/arloliu/warehouse/types"
)

// Querier runs a query with named parameters and returns a row cursor.
//
// adapter/connector.Conn satisfies this interface.
type Querier interface {
	QueryContext(ctx context.Context, query string, params types.Params) (types.Rows, error)
}

// ReadOptions configures ReadDatabase.
type ReadOptions struct {
	// SchemaOverrides forces the type of the named columns.
	SchemaOverrides types.SchemaOverrides

	// Parameters are bound to the query unchanged.
	Parameters types.Params

	// Allocator is used for the record buffers. Defaults to memory.DefaultAllocator.
	Allocator memory.Allocator
}

// ReadDatabase runs query on q and returns the result as a typed record.
//
// The caller must Release the returned record.
func ReadDatabase(ctx context.Context, q Querier, query string, opts ReadOptions) (arrow.Record, error) {
	rows, err := q.QueryContext(ctx, query, opts.Parameters)
	if err != nil {
		return nil, err
	}

	frame, err := FromRows(rows)
	if err != nil {
		return nil, err
	}

	return ToRecord(opts.Allocator, frame, opts.SchemaOverrides)
}

// ToRecord converts a frame into a typed column-oriented Arrow record.
//
// A column's type comes from overrides when present, otherwise from the
// first non-nil value in the column. Columns without a non-nil value take
// their declared type from Frame.Types, and become strings when that is
// missing or not modeled.
// Overrides for columns the frame does not have are ignored.
//
// The caller must Release the returned record.
func ToRecord(mem memory.Allocator, f *Frame, overrides types.SchemaOverrides) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	kinds := make([]string, len(f.Columns))
	fields := make([]arrow.Field, len(f.Columns))
	for i, name := range f.Columns {
		kind := inferType(f, i)
		if override, ok := overrides[name]; ok {
			canonical, err := canonicalType(override)
			if err != nil {
				return nil, err
			}
			kind = canonical
		}

		kinds[i] = kind
		fields[i] = arrow.Field{Name: name, Type: arrowType(kind), Nullable: true}
	}

	builder := array.NewRecordBuilder(mem, arrow.NewSchema(fields, nil))
	defer builder.Release()

	for i, name := range f.Columns {
		fb := builder.Field(i)
		for _, row := range f.Rows {
			v, err := castCanonical(row[i], kinds[i])
			if err != nil {
				return nil, withColumn(err, name)
			}
			appendValue(fb, v)
		}
	}

	return builder.NewRecord(), nil
}

// ToFrame converts a record back into a row-oriented frame.
func ToFrame(rec arrow.Record) *Frame {
	schema := rec.Schema()
	columns := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		columns[i] = field.Name
	}

	rows := make([][]any, rec.NumRows())
	for r := range rows {
		row := make([]any, len(columns))
		for c := range columns {
			row[c] = valueAt(rec.Column(c), r)
		}
		rows[r] = row
	}

	return NewFrame(columns, rows)
}

func inferType(f *Frame, col int) string {
	for _, row := range f.Rows {
		switch row[col].(type) {
		case nil:
			continue
		case int64, int, uint, uint64, uint32:
			return typeLong
		case int32, uint16:
			return typeInt
		case int16, uint8:
			return typeShort
		case int8:
			return typeByte
		case float64:
			return typeDouble
		case float32:
			return typeFloat
		case bool:
			return typeBoolean
		case []byte:
			return typeBinary
		case time.Time:
			return typeTimestamp
		default:
			return typeString
		}
	}

	if col < len(f.Types) {
		if canonical, err := canonicalType(f.Types[col]); err == nil {
			return canonical
		}
	}

	return typeString
}

func arrowType(kind string) arrow.DataType {
	switch kind {
	case typeLong:
		return arrow.PrimitiveTypes.Int64
	case typeInt:
		return arrow.PrimitiveTypes.Int32
	case typeShort:
		return arrow.PrimitiveTypes.Int16
	case typeByte:
		return arrow.PrimitiveTypes.Int8
	case typeDouble:
		return arrow.PrimitiveTypes.Float64
	case typeFloat:
		return arrow.PrimitiveTypes.Float32
	case typeBoolean:
		return arrow.FixedWidthTypes.Boolean
	case typeBinary:
		return arrow.BinaryTypes.Binary
	case typeDate:
		return arrow.FixedWidthTypes.Date32
	case typeTimestamp:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

// appendValue appends an already-cast value to its column builder.
func appendValue(b array.Builder, v any) {
	if v == nil {
		b.AppendNull()
		return
	}

	switch fb := b.(type) {
	case *array.Int64Builder:
		fb.Append(v.(int64))
	case *array.Int32Builder:
		fb.Append(v.(int32))
	case *array.Int16Builder:
		fb.Append(v.(int16))
	case *array.Int8Builder:
		fb.Append(v.(int8))
	case *array.Float64Builder:
		fb.Append(v.(float64))
	case *array.Float32Builder:
		fb.Append(v.(float32))
	case *array.BooleanBuilder:
		fb.Append(v.(bool))
	case *array.BinaryBuilder:
		fb.Append(v.([]byte))
	case *array.Date32Builder:
		fb.Append(arrow.Date32FromTime(v.(time.Time)))
	case *array.TimestampBuilder:
		fb.Append(arrow.Timestamp(v.(time.Time).UnixMicro()))
	case *array.StringBuilder:
		fb.Append(v.(string))
	default:
		panic(fmt.Sprintf("table: unexpected builder %T", b))
	}
}

func valueAt(col arrow.Array, i int) any {
	if col.IsNull(i) {
		return nil
	}

	switch a := col.(type) {
	case *array.Int64:
		return a.Value(i)
	case *array.Int32:
		return a.Value(i)
	case *array.Int16:
		return a.Value(i)
	case *array.Int8:
		return a.Value(i)
	case *array.Float64:
		return a.Value(i)
	case *array.Float32:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	case *array.Binary:
		return append([]byte(nil), a.Value(i)...)
	case *array.Date32:
		return a.Value(i).ToTime()
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit).UTC()
	case *array.String:
		return a.Value(i)
	default:
		return a.ValueStr(i)
	}
}
