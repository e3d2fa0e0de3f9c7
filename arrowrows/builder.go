// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package arrowrows

import (
	"fmt"
	"time"

	"github.com/apache/arrow/go/v16/arrow"
	"github.com/apache/arrow/go/v16/arrow/array"
	"github.com/apache/arrow/go/v16/arrow/decimal128"

	"github.com/boltstream/gobolt"
)

// appendValue appends one decoded value, nil for null, to the builder of
// type t.
func appendValue(b array.Builder, t *gobolt.Type, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch bb := b.(type) {
	case *array.Int16Builder:
		bb.Append(v.(int16))
	case *array.Int32Builder:
		bb.Append(v.(int32))
	case *array.Int64Builder:
		bb.Append(v.(int64))
	case *array.Float32Builder:
		bb.Append(v.(float32))
	case *array.Float64Builder:
		bb.Append(v.(float64))
	case *array.Decimal128Builder:
		d := v.(gobolt.Decimal)
		bb.Append(decimal128.FromBigInt(d.Unscaled()))
	case *array.StringBuilder:
		switch x := v.(type) {
		case string:
			bb.Append(x)
		case gobolt.Decimal:
			bb.Append(x.String())
		default:
			return fmt.Errorf("arrowrows: cannot append %T to a string column", v)
		}
	case *array.BooleanBuilder:
		bb.Append(v.(bool))
	case *array.BinaryBuilder:
		bb.Append(v.([]byte))
	case *array.Date32Builder:
		bb.Append(arrow.Date32FromTime(v.(time.Time)))
	case *array.Time64Builder:
		ts := v.(time.Time)
		nanos := int64(ts.Hour())*int64(time.Hour) + int64(ts.Minute())*int64(time.Minute) +
			int64(ts.Second())*int64(time.Second) + int64(ts.Nanosecond())
		bb.Append(arrow.Time64(nanos))
	case *array.TimestampBuilder:
		bb.Append(arrow.Timestamp(v.(time.Time).UnixMicro()))
	case *array.ListBuilder:
		elems, ok := v.([]any)
		if !ok {
			return fmt.Errorf("arrowrows: cannot append %T to a list column", v)
		}
		bb.Append(true)
		vb := bb.ValueBuilder()
		for _, e := range elems {
			if err := appendValue(vb, t.Elem, e); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("arrowrows: unsupported builder %T for %v", b, t)
	}
	return nil
}
