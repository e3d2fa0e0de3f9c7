// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package arrowrows

import (
	"sync/atomic"

	"github.com/apache/arrow/go/v16/arrow"
	"github.com/apache/arrow/go/v16/arrow/array"
	"github.com/apache/arrow/go/v16/arrow/memory"

	"github.com/boltstream/gobolt"
)

// DefaultBatchSize is the number of rows per record when none is given.
const DefaultBatchSize = 1024

// RecordReader reads the remaining rows of a cursor as Arrow records of at
// most batchSize rows. It does not close the cursor.
type RecordReader struct {
	refCount  int64
	cursor    *gobolt.Cursor
	schema    *arrow.Schema
	types     []*gobolt.Type
	mem       memory.Allocator
	batchSize int

	cur  arrow.Record
	err  error
	done bool
}

var _ array.RecordReader = (*RecordReader)(nil)

// NewRecordReader creates a reader over the rows the cursor has not returned
// yet. A nil allocator uses the Go allocator.
func NewRecordReader(cursor *gobolt.Cursor, mem memory.Allocator, batchSize int) *RecordReader {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	columns := cursor.Columns()
	types := make([]*gobolt.Type, len(columns))
	for i, col := range columns {
		types[i] = col.Type
	}
	return &RecordReader{
		refCount:  1,
		cursor:    cursor,
		schema:    Schema(columns),
		types:     types,
		mem:       mem,
		batchSize: batchSize,
	}
}

// Retain increases the reference count by 1.
func (r *RecordReader) Retain() {
	atomic.AddInt64(&r.refCount, 1)
}

// Release decreases the reference count by 1 and releases the current record
// when it drops to zero.
func (r *RecordReader) Release() {
	if atomic.AddInt64(&r.refCount, -1) == 0 && r.cur != nil {
		r.cur.Release()
		r.cur = nil
	}
}

// Schema returns the schema of the records.
func (r *RecordReader) Schema() *arrow.Schema {
	return r.schema
}

// Record returns the current record. It is valid until the next call to Next.
func (r *RecordReader) Record() arrow.Record {
	return r.cur
}

// Err returns the error that stopped the reader, if any.
func (r *RecordReader) Err() error {
	return r.err
}

// Next builds the next record. It returns false once the cursor is
// exhausted or failed; Err tells the two apart.
func (r *RecordReader) Next() bool {
	if r.cur != nil {
		r.cur.Release()
		r.cur = nil
	}
	if r.done {
		return false
	}
	b := array.NewRecordBuilder(r.mem, r.schema)
	defer b.Release()
	rows := 0
	for rows < r.batchSize {
		ok, err := r.cursor.Next()
		if err != nil {
			r.err = err
			r.done = true
			return false
		}
		if !ok {
			r.done = true
			break
		}
		if err = r.appendRow(b); err != nil {
			r.err = err
			r.done = true
			return false
		}
		rows++
	}
	if rows == 0 {
		return false
	}
	r.cur = b.NewRecord()
	return true
}

func (r *RecordReader) appendRow(b *array.RecordBuilder) error {
	for i, t := range r.types {
		v, err := r.cursor.Value(i + 1)
		if err != nil {
			return err
		}
		if err = appendValue(b.Field(i), t, v); err != nil {
			return err
		}
	}
	return nil
}
