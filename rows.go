// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"database/sql/driver"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/boltstream/gobolt/boltloc"
)

// Rows exposes a cursor as database/sql driver rows.
type Rows struct {
	cursor *Cursor
}

var (
	_ driver.Rows                           = (*Rows)(nil)
	_ driver.RowsColumnTypeDatabaseTypeName = (*Rows)(nil)
	_ driver.RowsColumnTypeLength           = (*Rows)(nil)
	_ driver.RowsColumnTypeNullable         = (*Rows)(nil)
	_ driver.RowsColumnTypePrecisionScale   = (*Rows)(nil)
	_ driver.RowsColumnTypeScanType         = (*Rows)(nil)
)

// NewRows wraps an open cursor. Closing the rows closes the cursor.
func NewRows(cursor *Cursor) *Rows {
	return &Rows{cursor: cursor}
}

// Close closes the cursor.
func (rows *Rows) Close() error {
	logger.Debugf("Rows.Close")
	return rows.cursor.Close()
}

// Columns returns the column names.
func (rows *Rows) Columns() []string {
	ret := make([]string, len(rows.cursor.columns))
	for i, col := range rows.cursor.columns {
		ret[i] = col.Name
	}
	return ret
}

// ColumnTypeDatabaseTypeName returns the canonical type tag in upper case.
func (rows *Rows) ColumnTypeDatabaseTypeName(index int) string {
	col, ok := rows.column(index)
	if !ok {
		return ""
	}
	return strings.ToUpper(col.Type.String())
}

// ColumnTypeLength returns the length of variable length columns. Lengths
// are not transferred, so it reports the maximum.
func (rows *Rows) ColumnTypeLength(index int) (length int64, ok bool) {
	col, ok := rows.column(index)
	if !ok {
		return 0, false
	}
	switch col.Type.Kind {
	case TextKind, BytesKind, ArrayKind:
		return 1<<31 - 1, true
	}
	return 0, false
}

// ColumnTypeNullable reports whether the column is declared nullable.
func (rows *Rows) ColumnTypeNullable(index int) (nullable, ok bool) {
	col, ok := rows.column(index)
	if !ok {
		return false, false
	}
	return col.Nullable, true
}

// ColumnTypePrecisionScale returns precision and scale of decimal columns
// and the fractional second precision of timestamp columns.
func (rows *Rows) ColumnTypePrecisionScale(index int) (precision, scale int64, ok bool) {
	col, ok := rows.column(index)
	if !ok {
		return 0, 0, false
	}
	switch col.Type.Kind {
	case DecimalKind:
		return int64(col.Type.Precision), int64(col.Type.Scale), true
	case TimestampKind, TimestampTZKind:
		return 0, int64(col.Type.Precision), true
	}
	return 0, 0, false
}

// ColumnTypeScanType returns the Go type Next stores for the column.
func (rows *Rows) ColumnTypeScanType(index int) reflect.Type {
	col, ok := rows.column(index)
	if !ok {
		return nil
	}
	switch col.Type.Kind {
	case Int16Kind, Int32Kind, Int64Kind:
		return reflect.TypeOf(int64(0))
	case Float32Kind, Float64Kind:
		return reflect.TypeOf(float64(0))
	case DecimalKind:
		return reflect.TypeOf("")
	}
	return col.Type.scanType()
}

func (rows *Rows) column(index int) (*Column, bool) {
	if index < 0 || index >= len(rows.cursor.columns) {
		return nil, false
	}
	return rows.cursor.columns[index], true
}

// Next advances the cursor and converts the row into driver values:
// integers to int64, floats to float64, decimals to their text, temporal
// values resolved in the cursor's time zone.
func (rows *Rows) Next(dest []driver.Value) error {
	ok, err := rows.cursor.Next()
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	loc := rows.cursor.cfg.Location()
	for i, col := range rows.cursor.columns {
		_, v, err := rows.cursor.value(i + 1)
		if err != nil {
			return err
		}
		dest[i] = toDriverValue(v, col.Type, loc)
	}
	return nil
}

func toDriverValue(v any, t *Type, loc *time.Location) driver.Value {
	switch x := v.(type) {
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	case Decimal:
		return x.String()
	case time.Time:
		switch t.Kind {
		case DateKind:
			return boltloc.Date(x, false, loc)
		case TimeKind:
			return boltloc.Time(x, false, loc)
		}
		return boltloc.Timestamp(x, t.Zoned(), loc)
	}
	return v
}
