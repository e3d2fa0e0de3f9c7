// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package main

import (
	"encoding/hex"
	"io"
	"math"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/boltstream/gobolt"
	"github.com/boltstream/gobolt/arrowrows"
	"github.com/boltstream/gobolt/boltloc"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// renderer writes the rows of one cursor in the selected format.
type renderer struct {
	format      string
	loc         *time.Location
	layout      string
	compression gobolt.Compression
	batchSize   int
}

func (r *renderer) render(w io.Writer, cursor *gobolt.Cursor) error {
	switch r.format {
	case formatTSV:
		return r.renderTSV(w, cursor)
	case formatArrow:
		_, err := arrowrows.WriteIPC(w, cursor, nil, r.batchSize)
		return err
	}
	return r.renderJSON(w, cursor)
}

func (r *renderer) renderTSV(w io.Writer, cursor *gobolt.Cursor) error {
	cw, err := gobolt.NewCompressWriter(w, r.compression)
	if err != nil {
		return err
	}
	tw := gobolt.NewWriter(cw, cursor.Columns())
	if _, err = tw.WriteCursor(cursor); err != nil {
		_ = cw.Close()
		return err
	}
	if err = tw.Flush(); err != nil {
		_ = cw.Close()
		return err
	}
	return cw.Close()
}

// renderJSON writes one object per row, fields in column order.
func (r *renderer) renderJSON(w io.Writer, cursor *gobolt.Cursor) error {
	columns := cursor.Columns()
	stream := json.BorrowStream(w)
	defer json.ReturnStream(stream)
	for {
		ok, err := cursor.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		stream.WriteObjectStart()
		for i, col := range columns {
			v, err := cursor.Value(i + 1)
			if err != nil {
				return err
			}
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(col.Name)
			stream.WriteVal(r.jsonValue(v, col.Type))
		}
		stream.WriteObjectEnd()
		stream.WriteRaw("\n")
		// one line per row reaches the output as soon as it is decoded
		if err = stream.Flush(); err != nil {
			return err
		}
		if stream.Error != nil {
			return stream.Error
		}
	}
	return stream.Error
}

// jsonValue converts a decoded value into one JSON can represent without
// losing precision.
func (r *renderer) jsonValue(v any, t *gobolt.Type) any {
	switch x := v.(type) {
	case nil:
		return nil
	case gobolt.Decimal:
		return x.String()
	case float32:
		if s, ok := nonFinite(float64(x)); ok {
			return s
		}
		return x
	case float64:
		if s, ok := nonFinite(x); ok {
			return s
		}
		return x
	case []byte:
		return `\x` + hex.EncodeToString(x)
	case time.Time:
		switch t.Kind {
		case gobolt.DateKind:
			return boltloc.Date(x, false, r.loc).Format(r.dateLayout())
		case gobolt.TimeKind:
			return boltloc.Time(x, false, r.loc).Format("15:04:05.999999999")
		}
		return boltloc.Timestamp(x, t.Zoned(), r.loc).Format(r.layout)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = r.jsonValue(e, t.Elem)
		}
		return out
	}
	return v
}

func (r *renderer) dateLayout() string {
	if r.layout == time.RFC3339Nano {
		return time.DateOnly
	}
	return r.layout
}

// nonFinite names the floats JSON has no number for.
func nonFinite(f float64) (string, bool) {
	switch {
	case math.IsInf(f, 1):
		return "inf", true
	case math.IsInf(f, -1):
		return "-inf", true
	case math.IsNaN(f):
		return "nan", true
	}
	return "", false
}
