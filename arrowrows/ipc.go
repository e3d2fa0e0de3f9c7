// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package arrowrows

import (
	"io"

	"github.com/apache/arrow/go/v16/arrow/ipc"
	"github.com/apache/arrow/go/v16/arrow/memory"

	"github.com/boltstream/gobolt"
)

// WriteIPC writes the remaining rows of the cursor to w as an Arrow IPC file
// and returns the number of rows written.
func WriteIPC(w io.Writer, cursor *gobolt.Cursor, mem memory.Allocator, batchSize int) (int64, error) {
	reader := NewRecordReader(cursor, mem, batchSize)
	defer reader.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(reader.Schema()), ipc.WithAllocator(reader.mem))
	if err != nil {
		return 0, err
	}
	var rows int64
	for reader.Next() {
		rec := reader.Record()
		if err = fw.Write(rec); err != nil {
			_ = fw.Close()
			return rows, err
		}
		rows += rec.NumRows()
	}
	if err = reader.Err(); err != nil {
		_ = fw.Close()
		return rows, err
	}
	return rows, fw.Close()
}
