// Package tabular converts sliced arrays of rank 2 or less into Arrow tables
// for table inspectors and exports. Masked cells become nulls.
package tabular

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/batchatco/go-native-slicer/slicer/masked"
)

var (
	// ErrRank is returned for arrays with more than two dimensions.
	ErrRank = errors.New("only arrays of rank 0, 1 or 2 form a table")

	// ErrUnsupportedType is returned for element types without an Arrow
	// counterpart, such as structs and complex numbers.
	ErrUnsupportedType = errors.New("element type has no arrow type")

	// ErrColumnNames is returned when the number of column names does not
	// match the number of columns.
	ErrColumnNames = errors.New("wrong number of column names")
)

// Option configures ToTable.
type Option func(*tableOptions)

type tableOptions struct {
	pool    memory.Allocator
	columns []string
}

// WithAllocator sets the allocator for the table buffers.
func WithAllocator(pool memory.Allocator) Option {
	return func(o *tableOptions) {
		o.pool = pool
	}
}

// WithColumnNames names the columns; by default they are numbered from 0.
func WithColumnNames(names ...string) Option {
	return func(o *tableOptions) {
		o.columns = names
	}
}

// ToTable lays out a: rank 0 as one cell, rank 1 as one column and rank 2
// with axis 0 along the rows and axis 1 along the columns. The caller must
// Release the table.
func ToTable(a *masked.Array, opts ...Option) (arrow.Table, error) {
	o := &tableOptions{pool: memory.NewGoAllocator()}
	for _, opt := range opts {
		opt(o)
	}

	rows, cols := 1, 1
	switch a.Rank() {
	case 0:
	case 1:
		rows = a.Shape()[0]
	case 2:
		rows, cols = a.Shape()[0], a.Shape()[1]
	default:
		return nil, fmt.Errorf("%w: shape %v", ErrRank, a.Shape())
	}
	dtype, err := arrowType(a.ElemType())
	if err != nil {
		return nil, err
	}
	names := o.columns
	if names == nil {
		names = make([]string, cols)
		for c := range names {
			names[c] = strconv.Itoa(c)
		}
	}
	if len(names) != cols {
		return nil, fmt.Errorf("%w: %d names for %d columns", ErrColumnNames, len(names), cols)
	}

	values := reflect.ValueOf(a.Values())
	mask := a.MaskAsArray()
	fields := make([]arrow.Field, cols)
	columns := make([]arrow.Column, cols)
	for c := 0; c < cols; c++ {
		fields[c] = arrow.Field{Name: names[c], Type: dtype, Nullable: true}
		builder := array.NewBuilder(o.pool, dtype)
		builder.Reserve(rows)
		for r := 0; r < rows; r++ {
			off := r*cols + c
			if mask[off] {
				builder.AppendNull()
				continue
			}
			appendValue(builder, values.Index(off))
		}
		arr := builder.NewArray()
		builder.Release()
		chunked := arrow.NewChunked(dtype, []arrow.Array{arr})
		arr.Release()
		columns[c] = *arrow.NewColumn(fields[c], chunked)
		chunked.Release()
	}
	schema := arrow.NewSchema(fields, nil)
	table := array.NewTable(schema, columns, int64(rows))
	for c := range columns {
		columns[c].Release()
	}
	return table, nil
}

func arrowType(t reflect.Type) (arrow.DataType, error) {
	switch t.Kind() {
	case reflect.Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case reflect.Int8:
		return arrow.PrimitiveTypes.Int8, nil
	case reflect.Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case reflect.Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case reflect.Int, reflect.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case reflect.Uint8:
		return arrow.PrimitiveTypes.Uint8, nil
	case reflect.Uint16:
		return arrow.PrimitiveTypes.Uint16, nil
	case reflect.Uint32:
		return arrow.PrimitiveTypes.Uint32, nil
	case reflect.Uint, reflect.Uint64:
		return arrow.PrimitiveTypes.Uint64, nil
	case reflect.Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case reflect.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case reflect.String:
		return arrow.BinaryTypes.String, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, t)
}

func appendValue(builder array.Builder, v reflect.Value) {
	switch b := builder.(type) {
	case *array.BooleanBuilder:
		b.Append(v.Bool())
	case *array.Int8Builder:
		b.Append(int8(v.Int()))
	case *array.Int16Builder:
		b.Append(int16(v.Int()))
	case *array.Int32Builder:
		b.Append(int32(v.Int()))
	case *array.Int64Builder:
		b.Append(v.Int())
	case *array.Uint8Builder:
		b.Append(uint8(v.Uint()))
	case *array.Uint16Builder:
		b.Append(uint16(v.Uint()))
	case *array.Uint32Builder:
		b.Append(uint32(v.Uint()))
	case *array.Uint64Builder:
		b.Append(v.Uint())
	case *array.Float32Builder:
		b.Append(float32(v.Float()))
	case *array.Float64Builder:
		b.Append(v.Float())
	case *array.StringBuilder:
		b.Append(v.String())
	default:
		panic(fmt.Sprintf("tabular: no append for %T", builder))
	}
}
