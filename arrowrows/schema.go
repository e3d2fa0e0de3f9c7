// Copyright (c) 2024 The gobolt Authors. All rights reserved.

// Package arrowrows converts the rows of a gobolt cursor into Arrow record
// batches.
package arrowrows

import (
	"strconv"

	"github.com/apache/arrow/go/v16/arrow"

	"github.com/boltstream/gobolt"
)

// maxDecimal128Precision is the widest decimal Decimal128 holds; wider
// decimals are exported as text.
const maxDecimal128Precision = 38

// metadata keys attached to every field
const (
	MetadataTypeName = "gobolt.type"
	MetadataTable    = "gobolt.table"
	MetadataDatabase = "gobolt.database"
)

// Schema returns the Arrow schema the columns convert to.
func Schema(columns []*gobolt.Column) *arrow.Schema {
	fields := make([]arrow.Field, len(columns))
	for i, col := range columns {
		fields[i] = arrow.Field{
			Name:     col.Name,
			Type:     dataType(col.Type),
			Nullable: col.Nullable || col.Type.Kind == gobolt.NothingKind,
			Metadata: arrow.NewMetadata(
				[]string{MetadataTypeName, MetadataTable, MetadataDatabase},
				[]string{col.Type.String(), col.TableName, col.DatabaseName},
			),
		}
	}
	return arrow.NewSchema(fields, nil)
}

// dataType maps a column type to its Arrow type, recursing into arrays.
func dataType(t *gobolt.Type) arrow.DataType {
	switch t.Kind {
	case gobolt.NothingKind:
		return arrow.Null
	case gobolt.Int16Kind:
		return arrow.PrimitiveTypes.Int16
	case gobolt.Int32Kind:
		return arrow.PrimitiveTypes.Int32
	case gobolt.Int64Kind:
		return arrow.PrimitiveTypes.Int64
	case gobolt.Float32Kind:
		return arrow.PrimitiveTypes.Float32
	case gobolt.Float64Kind:
		return arrow.PrimitiveTypes.Float64
	case gobolt.DecimalKind:
		if t.Precision > maxDecimal128Precision {
			return arrow.BinaryTypes.String
		}
		return &arrow.Decimal128Type{Precision: int32(t.Precision), Scale: int32(t.Scale)}
	case gobolt.TextKind:
		return arrow.BinaryTypes.String
	case gobolt.BooleanKind:
		return arrow.FixedWidthTypes.Boolean
	case gobolt.BytesKind:
		return arrow.BinaryTypes.Binary
	case gobolt.DateKind:
		return arrow.FixedWidthTypes.Date32
	case gobolt.TimeKind:
		return &arrow.Time64Type{Unit: arrow.Nanosecond}
	case gobolt.TimestampKind:
		return &arrow.TimestampType{Unit: arrow.Microsecond}
	case gobolt.TimestampTZKind:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
	case gobolt.ArrayKind:
		return arrow.ListOf(dataType(t.Elem))
	}
	// unreachable for types produced by gobolt.ParseType
	panic("arrowrows: no arrow type for kind " + strconv.Itoa(int(t.Kind)))
}
