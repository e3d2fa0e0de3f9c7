// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/boltstream/gobolt/boltloc"
)

// Value returns the decoded value of the column, nil for null.
func (c *Cursor) Value(ordinal int) (any, error) {
	_, v, err := c.value(ordinal)
	return v, err
}

// String returns the column as text. Text is unescaped, byte strings are
// rendered as hex literals and other values in their canonical wire form.
// Null gives an empty string.
func (c *Cursor) String(ordinal int) (string, error) {
	col, token, err := c.field(ordinal)
	if err != nil || c.wasNull {
		return "", err
	}
	switch col.Type.Kind {
	case TextKind:
		return unescape(token), nil
	case BytesKind:
		b, err := decodeBytea(token)
		if err != nil {
			return "", c.withQueryID(errValueFormat(col.Type, token, err))
		}
		return formatBytea(b), nil
	}
	v, err := decodeValue(token, col.Type)
	if err != nil {
		return "", c.withQueryID(err)
	}
	s, err := encodeValue(v, col.Type)
	if err != nil {
		return "", c.withQueryID(err)
	}
	return s, nil
}

// Bool returns the column as a boolean. Numbers are true when not zero; text
// accepts t, true, 1, f, false and 0. Null gives false.
func (c *Cursor) Bool(ordinal int) (bool, error) {
	col, v, err := c.value(ordinal)
	if err != nil || v == nil {
		return false, err
	}
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "t", "true", "1":
			return true, nil
		case "f", "false", "0":
			return false, nil
		}
		return false, c.withQueryID(errValueFormat(BooleanKind, x, nil))
	case Decimal:
		return x.Unscaled().Sign() != 0, nil
	case float32:
		return x != 0, nil
	case float64:
		return x != 0, nil
	}
	if i, ok := integerOf(v); ok {
		return i != 0, nil
	}
	return false, c.withQueryID(errCoercion(col.Type.Kind, "bool"))
}

// Int8 returns the column as an int8. Null gives zero.
func (c *Cursor) Int8(ordinal int) (int8, error) {
	i, err := c.integer(ordinal, 8)
	return int8(i), err
}

// Int16 returns the column as an int16. Null gives zero.
func (c *Cursor) Int16(ordinal int) (int16, error) {
	i, err := c.integer(ordinal, 16)
	return int16(i), err
}

// Int32 returns the column as an int32. Null gives zero.
func (c *Cursor) Int32(ordinal int) (int32, error) {
	i, err := c.integer(ordinal, 32)
	return int32(i), err
}

// Int64 returns the column as an int64. Null gives zero.
func (c *Cursor) Int64(ordinal int) (int64, error) {
	return c.integer(ordinal, 64)
}

func (c *Cursor) integer(ordinal int, bitSize int) (int64, error) {
	col, v, err := c.value(ordinal)
	if err != nil || v == nil {
		return 0, err
	}
	to := "int" + strconv.Itoa(bitSize)
	var i int64
	switch x := v.(type) {
	case string:
		i, err = strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, c.withQueryID(errValueFormat(Int64Kind, x, err))
		}
	case Decimal:
		var ok bool
		if i, ok = x.Int64(); !ok {
			return 0, c.withQueryID(errOutOfRange(x, to))
		}
	case float32:
		if i, err = floatToInt(float64(x), to); err != nil {
			return 0, c.withQueryID(err)
		}
	case float64:
		if i, err = floatToInt(x, to); err != nil {
			return 0, c.withQueryID(err)
		}
	default:
		var ok bool
		if i, ok = integerOf(v); !ok {
			return 0, c.withQueryID(errCoercion(col.Type.Kind, to))
		}
	}
	if bitSize < 64 {
		limit := int64(1) << (bitSize - 1)
		if i < -limit || i >= limit {
			return 0, c.withQueryID(errOutOfRange(i, to))
		}
	}
	return i, nil
}

func integerOf(v any) (int64, bool) {
	switch x := v.(type) {
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	}
	return 0, false
}

func floatToInt(f float64, to string) (int64, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errOutOfRange(f, to)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errOutOfRange(f, to)
	}
	return int64(f), nil
}

// Float32 returns the column as a float32. Null gives zero.
func (c *Cursor) Float32(ordinal int) (float32, error) {
	f, err := c.float(ordinal, 32)
	return float32(f), err
}

// Float64 returns the column as a float64. Null gives zero.
func (c *Cursor) Float64(ordinal int) (float64, error) {
	return c.float(ordinal, 64)
}

func (c *Cursor) float(ordinal int, bitSize int) (float64, error) {
	col, v, err := c.value(ordinal)
	if err != nil || v == nil {
		return 0, err
	}
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case Decimal:
		return x.Float64(), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), bitSize)
		if err != nil {
			return 0, c.withQueryID(errValueFormat(Float64Kind, x, err))
		}
		return f, nil
	}
	if i, ok := integerOf(v); ok {
		return float64(i), nil
	}
	return 0, c.withQueryID(errCoercion(col.Type.Kind, "float"+strconv.Itoa(bitSize)))
}

// Decimal returns the column as an exact decimal. Null gives nil.
func (c *Cursor) Decimal(ordinal int) (*Decimal, error) {
	col, v, err := c.value(ordinal)
	if err != nil || v == nil {
		return nil, err
	}
	var d Decimal
	switch x := v.(type) {
	case Decimal:
		d = x
	case float32:
		d, err = floatToDecimal(float64(x), 32)
	case float64:
		d, err = floatToDecimal(x, 64)
	case string:
		d, err = ParseDecimal(x)
		if err != nil {
			err = errValueFormat(DecimalKind, x, err)
		}
	default:
		i, ok := integerOf(v)
		if !ok {
			return nil, c.withQueryID(errCoercion(col.Type.Kind, "decimal"))
		}
		d = NewDecimal(big.NewInt(i), 0)
	}
	if err != nil {
		return nil, c.withQueryID(err)
	}
	return &d, nil
}

func floatToDecimal(f float64, bitSize int) (Decimal, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Decimal{}, errOutOfRange(f, "decimal")
	}
	return ParseDecimal(strconv.FormatFloat(f, 'f', -1, bitSize))
}

// DecimalWithScale returns the column as a decimal rounded half up to scale.
// Null gives nil.
func (c *Cursor) DecimalWithScale(ordinal int, scale int) (*Decimal, error) {
	d, err := c.Decimal(ordinal)
	if err != nil || d == nil {
		return nil, err
	}
	r := d.Round(scale)
	return &r, nil
}

// Bytes returns the decoded bytes of a byte string column, and the raw wire
// token of any other column. Null gives nil.
func (c *Cursor) Bytes(ordinal int) ([]byte, error) {
	col, token, err := c.field(ordinal)
	if err != nil || c.wasNull {
		return nil, err
	}
	if col.Type.Kind != BytesKind {
		return []byte(token), nil
	}
	b, err := decodeBytea(token)
	if err != nil {
		return nil, c.withQueryID(errValueFormat(col.Type, token, err))
	}
	return b, nil
}

// Array returns the elements of an array column. Null gives nil.
func (c *Cursor) Array(ordinal int) ([]any, error) {
	col, v, err := c.value(ordinal)
	if err != nil || v == nil {
		return nil, err
	}
	a, ok := v.([]any)
	if !ok {
		return nil, c.withQueryID(errCoercion(col.Type.Kind, "array"))
	}
	return a, nil
}

// Date returns midnight of the column's date. Naive values are read in loc,
// or the cursor's time zone when loc is nil; zoned values keep their own
// zone. Null gives the zero time.
func (c *Cursor) Date(ordinal int, loc *time.Location) (time.Time, error) {
	return c.temporal(ordinal, loc, boltloc.Date)
}

// Time returns the column's time of day on 1970-01-01, following the same
// zone rules as Date.
func (c *Cursor) Time(ordinal int, loc *time.Location) (time.Time, error) {
	return c.temporal(ordinal, loc, boltloc.Time)
}

// Timestamp returns the column's instant. Naive values are read in loc, or
// the cursor's time zone when loc is nil; zoned values ignore loc.
func (c *Cursor) Timestamp(ordinal int, loc *time.Location) (time.Time, error) {
	return c.temporal(ordinal, loc, boltloc.Timestamp)
}

func (c *Cursor) temporal(ordinal int, loc *time.Location, resolve func(time.Time, bool, *time.Location) time.Time) (time.Time, error) {
	col, v, err := c.value(ordinal)
	if err != nil || v == nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = c.cfg.Location()
	}
	switch x := v.(type) {
	case time.Time:
		return resolve(x, col.Type.Zoned(), loc), nil
	case string:
		t, err := parseNaiveTimestamp(strings.TrimSpace(x))
		if err != nil {
			return time.Time{}, c.withQueryID(errValueFormat(TimestampKind, x, err))
		}
		return resolve(t, false, loc), nil
	}
	return time.Time{}, c.withQueryID(errCoercion(col.Type.Kind, "time"))
}

// ValueByName returns the decoded value of the named column.
func (c *Cursor) ValueByName(name string) (any, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return nil, err
	}
	return c.Value(ordinal)
}

// StringByName returns the named column as text.
func (c *Cursor) StringByName(name string) (string, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return "", err
	}
	return c.String(ordinal)
}

// BoolByName returns the named column as a boolean.
func (c *Cursor) BoolByName(name string) (bool, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return false, err
	}
	return c.Bool(ordinal)
}

// Int8ByName returns the named column as an int8.
func (c *Cursor) Int8ByName(name string) (int8, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return 0, err
	}
	return c.Int8(ordinal)
}

// Int16ByName returns the named column as an int16.
func (c *Cursor) Int16ByName(name string) (int16, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return 0, err
	}
	return c.Int16(ordinal)
}

// Int32ByName returns the named column as an int32.
func (c *Cursor) Int32ByName(name string) (int32, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return 0, err
	}
	return c.Int32(ordinal)
}

// Int64ByName returns the named column as an int64.
func (c *Cursor) Int64ByName(name string) (int64, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return 0, err
	}
	return c.Int64(ordinal)
}

// Float32ByName returns the named column as a float32.
func (c *Cursor) Float32ByName(name string) (float32, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return 0, err
	}
	return c.Float32(ordinal)
}

// Float64ByName returns the named column as a float64.
func (c *Cursor) Float64ByName(name string) (float64, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return 0, err
	}
	return c.Float64(ordinal)
}

// DecimalByName returns the named column as an exact decimal.
func (c *Cursor) DecimalByName(name string) (*Decimal, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return nil, err
	}
	return c.Decimal(ordinal)
}

// DecimalWithScaleByName returns the named column rounded half up to scale.
func (c *Cursor) DecimalWithScaleByName(name string, scale int) (*Decimal, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return nil, err
	}
	return c.DecimalWithScale(ordinal, scale)
}

// BytesByName returns the named column as bytes.
func (c *Cursor) BytesByName(name string) ([]byte, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return nil, err
	}
	return c.Bytes(ordinal)
}

// ArrayByName returns the elements of the named array column.
func (c *Cursor) ArrayByName(name string) ([]any, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return nil, err
	}
	return c.Array(ordinal)
}

// DateByName returns the date of the named column.
func (c *Cursor) DateByName(name string, loc *time.Location) (time.Time, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return time.Time{}, err
	}
	return c.Date(ordinal, loc)
}

// TimeByName returns the time of day of the named column.
func (c *Cursor) TimeByName(name string, loc *time.Location) (time.Time, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return time.Time{}, err
	}
	return c.Time(ordinal, loc)
}

// TimestampByName returns the instant of the named column.
func (c *Cursor) TimestampByName(name string, loc *time.Location) (time.Time, error) {
	ordinal, err := c.FindColumn(name)
	if err != nil {
		return time.Time{}, err
	}
	return c.Timestamp(ordinal, loc)
}

// Scan copies the columns of the current row into dest, one pointer per
// column. Supported pointer types are those of the accessors plus *any.
func (c *Cursor) Scan(dest ...any) error {
	if len(dest) != len(c.columns) {
		return c.withQueryID(errLookup(errMsgScanCount, len(c.columns), len(dest)))
	}
	for i, d := range dest {
		ordinal := i + 1
		var err error
		switch p := d.(type) {
		case *any:
			*p, err = c.Value(ordinal)
		case *string:
			*p, err = c.String(ordinal)
		case *bool:
			*p, err = c.Bool(ordinal)
		case *int8:
			*p, err = c.Int8(ordinal)
		case *int16:
			*p, err = c.Int16(ordinal)
		case *int32:
			*p, err = c.Int32(ordinal)
		case *int64:
			*p, err = c.Int64(ordinal)
		case *int:
			var i int64
			i, err = c.Int64(ordinal)
			*p = int(i)
		case *float32:
			*p, err = c.Float32(ordinal)
		case *float64:
			*p, err = c.Float64(ordinal)
		case **Decimal:
			*p, err = c.Decimal(ordinal)
		case *[]byte:
			*p, err = c.Bytes(ordinal)
		case *[]any:
			*p, err = c.Array(ordinal)
		case *time.Time:
			*p, err = c.Timestamp(ordinal, nil)
		default:
			return c.withQueryID(errCoercion(c.columns[i].Type.Kind, fmt.Sprintf("%T", d)))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
