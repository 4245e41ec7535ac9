package table

import (
	"database/sql"
	"fmt"

	"github.com/arloliu/warehouse/types"
)

// Frame is a row-oriented table of Go values.
//
// Rows[i][j] holds the value of column Columns[j] in row i. Values are the
// types produced by the driver or by Cast; nil marks SQL NULL.
type Frame struct {
	Columns []string
	Rows    [][]any

	// Types holds the declared type name of each column when the source
	// reports one ("BIGINT", "STRING", ...). nil when unknown.
	Types []string
}

// NewFrame creates a frame from column names and rows.
func NewFrame(columns []string, rows [][]any) *Frame {
	return &Frame{Columns: columns, Rows: rows}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Index returns the position of the named column, or -1 if absent.
func (f *Frame) Index(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}

	return -1
}

// Column returns the values of the named column.
func (f *Frame) Column(name string) ([]any, bool) {
	idx := f.Index(name)
	if idx < 0 {
		return nil, false
	}

	values := make([]any, len(f.Rows))
	for i, row := range f.Rows {
		values[i] = row[idx]
	}

	return values, true
}

// Value returns the value at the given row and column.
func (f *Frame) Value(row int, name string) (any, bool) {
	idx := f.Index(name)
	if idx < 0 || row < 0 || row >= len(f.Rows) {
		return nil, false
	}

	return f.Rows[row][idx], true
}

// CastColumn converts every value of the named column to typeName in place.
//
// Returns:
//   - error: wraps types.ErrUnknownColumn if the column is absent,
//     types.ErrUnknownType for an unsupported type, or a *types.CastError
func (f *Frame) CastColumn(name, typeName string) error {
	idx := f.Index(name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", types.ErrUnknownColumn, name)
	}

	canonical, err := canonicalType(typeName)
	if err != nil {
		return err
	}

	for _, row := range f.Rows {
		v, err := castCanonical(row[idx], canonical)
		if err != nil {
			return withColumn(err, name)
		}
		row[idx] = v
	}

	if idx < len(f.Types) {
		f.Types[idx] = canonical
	}

	return nil
}

// columnTyper is implemented by *sql.Rows.
type columnTyper interface {
	ColumnTypes() ([]*sql.ColumnType, error)
}

// FromRows reads every remaining row from rows into a frame.
//
// Byte slices are copied, since drivers may reuse their buffers between rows.
// When rows reports column types, their database type names are kept in
// Frame.Types. rows is always closed.
func FromRows(rows types.Rows) (*Frame, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	frame := &Frame{Columns: columns, Rows: [][]any{}}
	if typer, ok := rows.(columnTyper); ok {
		colTypes, err := typer.ColumnTypes()
		if err != nil {
			return nil, err
		}

		frame.Types = make([]string, len(colTypes))
		for i, ct := range colTypes {
			frame.Types[i] = ct.DatabaseTypeName()
		}
	}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = append([]byte(nil), b...)
			}
		}

		frame.Rows = append(frame.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return frame, nil
}
