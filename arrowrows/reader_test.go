// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package arrowrows

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow/go/v16/arrow"
	"github.com/apache/arrow/go/v16/arrow/array"
	"github.com/apache/arrow/go/v16/arrow/ipc"
	"github.com/apache/arrow/go/v16/arrow/memory"

	"github.com/boltstream/gobolt"
)

const testStream = "id\tprice\tname\tok\tdata\tday\tat\tat_tz\ttags\n" +
	"int32\tdecimal(10,2)\ttext null\tboolean\tbytea\tdate\ttimestamp\ttimestamptz\tarray(array(int64))\n" +
	"1\t12.50\talpha\tt\t\\xdeadbeef\t2024-03-01\t2024-03-01 10:11:12.123456\t2024-03-01 10:11:12+02:00\t{{1,2},{3}}\n" +
	"2\t\\N\t\\N\tf\t\\x\t1970-01-02\t1970-01-01 00:00:00\t1970-01-01 00:00:00Z\t{}\n" +
	"3\t-0.01\tgamma\t\\N\t\\N\t\\N\t\\N\t\\N\t{{NULL},\\N}\n"

func openTestCursor(t *testing.T, stream string) *gobolt.Cursor {
	t.Helper()
	cursor, err := gobolt.Open(context.Background(), strings.NewReader(stream))
	if err != nil {
		t.Fatalf("failed to open cursor: %v", err)
	}
	t.Cleanup(func() {
		_ = cursor.Close()
	})
	return cursor
}

func TestSchema(t *testing.T) {
	cursor := openTestCursor(t, testStream)
	schema := Schema(cursor.Columns())
	expected := []arrow.DataType{
		arrow.PrimitiveTypes.Int32,
		&arrow.Decimal128Type{Precision: 10, Scale: 2},
		arrow.BinaryTypes.String,
		arrow.FixedWidthTypes.Boolean,
		arrow.BinaryTypes.Binary,
		arrow.FixedWidthTypes.Date32,
		&arrow.TimestampType{Unit: arrow.Microsecond},
		&arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"},
		arrow.ListOf(arrow.ListOf(arrow.PrimitiveTypes.Int64)),
	}
	if schema.NumFields() != len(expected) {
		t.Fatalf("expected %v fields, got %v", len(expected), schema.NumFields())
	}
	for i, dt := range expected {
		if !arrow.TypeEqual(schema.Field(i).Type, dt) {
			t.Errorf("field %v: expected %v, got %v", i, dt, schema.Field(i).Type)
		}
	}
	if !schema.Field(2).Nullable || schema.Field(0).Nullable {
		t.Errorf("unexpected nullability: %v", schema)
	}
	if v, ok := schema.Field(1).Metadata.GetValue(MetadataTypeName); !ok || v != "decimal(10,2)" {
		t.Errorf("unexpected type metadata: %q", v)
	}
}

func TestSchemaWideDecimal(t *testing.T) {
	cursor := openTestCursor(t, "d\ndecimal(50,4)\n")
	schema := Schema(cursor.Columns())
	if !arrow.TypeEqual(schema.Field(0).Type, arrow.BinaryTypes.String) {
		t.Fatalf("expected string for a wide decimal, got %v", schema.Field(0).Type)
	}
}

func TestRecordReader(t *testing.T) {
	pool := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer pool.AssertSize(t, 0)

	cursor := openTestCursor(t, testStream)
	reader := NewRecordReader(cursor, pool, 2)
	defer reader.Release()

	var sizes []int64
	var first arrow.Record
	for reader.Next() {
		rec := reader.Record()
		sizes = append(sizes, rec.NumRows())
		if first == nil {
			first = rec
			first.Retain()
		}
	}
	if err := reader.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sizes) != 2 || sizes[0] != 2 || sizes[1] != 1 {
		t.Fatalf("unexpected batch sizes: %v", sizes)
	}
	defer first.Release()

	ids := first.Column(0).(*array.Int32)
	if ids.Value(0) != 1 || ids.Value(1) != 2 {
		t.Errorf("unexpected ids: %v", ids)
	}
	prices := first.Column(1).(*array.Decimal128)
	if prices.Value(0).LowBits() != 1250 || !prices.IsNull(1) {
		t.Errorf("unexpected prices: %v", prices)
	}
	names := first.Column(2).(*array.String)
	if names.Value(0) != "alpha" || !names.IsNull(1) {
		t.Errorf("unexpected names: %v", names)
	}
	data := first.Column(4).(*array.Binary)
	if !bytes.Equal(data.Value(0), []byte{0xde, 0xad, 0xbe, 0xef}) || data.IsNull(1) || len(data.Value(1)) != 0 {
		t.Errorf("unexpected data: %v", data)
	}
	days := first.Column(5).(*array.Date32)
	if days.Value(1) != 1 {
		t.Errorf("expected day 1, got %v", days.Value(1))
	}
	at := first.Column(6).(*array.Timestamp)
	want := time.Date(2024, 3, 1, 10, 11, 12, 123456000, time.UTC).UnixMicro()
	if int64(at.Value(0)) != want {
		t.Errorf("expected %v, got %v", want, at.Value(0))
	}
	atTZ := first.Column(7).(*array.Timestamp)
	want = time.Date(2024, 3, 1, 8, 11, 12, 0, time.UTC).UnixMicro()
	if int64(atTZ.Value(0)) != want {
		t.Errorf("expected %v, got %v", want, atTZ.Value(0))
	}
	tags := first.Column(8).(*array.List)
	if tags.IsNull(0) || tags.IsNull(1) {
		t.Fatalf("unexpected null lists")
	}
	start, end := tags.ValueOffsets(0)
	if end-start != 2 {
		t.Errorf("expected 2 nested lists, got %v", end-start)
	}
	start, end = tags.ValueOffsets(1)
	if end-start != 0 {
		t.Errorf("expected an empty list, got %v elements", end-start)
	}
}

func TestRecordReaderError(t *testing.T) {
	cursor := openTestCursor(t, "a\nint32\n1\nx\n")
	reader := NewRecordReader(cursor, nil, 10)
	defer reader.Release()
	if reader.Next() {
		t.Fatal("expected no record")
	}
	if reader.Err() == nil {
		t.Fatal("expected an error")
	}
}

func TestWriteIPC(t *testing.T) {
	cursor := openTestCursor(t, testStream)
	var buf bytes.Buffer
	rows, err := WriteIPC(&buf, cursor, nil, 2)
	if err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if rows != 3 {
		t.Fatalf("expected 3 rows, got %v", rows)
	}
	fr, err := ipc.NewFileReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	defer fr.Close()
	if fr.NumRecords() != 2 {
		t.Fatalf("expected 2 records, got %v", fr.NumRecords())
	}
	if fr.Schema().NumFields() != 9 {
		t.Fatalf("unexpected schema: %v", fr.Schema())
	}
}
