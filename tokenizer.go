// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"bufio"
	"context"
	"errors"
	"io"
)

// tokenizer splits a result stream into the header and the data records.
// Tokens are returned raw; unescaping is left to the value decoder.
type tokenizer struct {
	ctx     context.Context
	r       *bufio.Reader
	columns int
	records int64
	// onLine, when set, observes every raw line read
	onLine func(string)
}

func newTokenizer(ctx context.Context, r io.Reader, bufferSize int) *tokenizer {
	if bufferSize < minBufferSize {
		bufferSize = defaultBufferSize
	}
	return &tokenizer{
		ctx: ctx,
		r:   bufio.NewReaderSize(r, bufferSize),
	}
}

// readHeader reads the column names line followed by the type tags line.
func (t *tokenizer) readHeader() (names []string, tags []string, err error) {
	line, complete, err := t.readLine()
	if err != nil {
		return nil, nil, err
	}
	if line == "" && !complete {
		return nil, nil, errFormat(errMsgEmptyStream)
	}
	names = splitFields(line)
	line, complete, err = t.readLine()
	if err != nil {
		return nil, nil, err
	}
	if line == "" && !complete {
		return nil, nil, errFormat(errMsgMissingTypes)
	}
	tags = splitFields(line)
	if len(names) != len(tags) {
		return nil, nil, errFormat(errMsgHeaderMismatch, len(names), len(tags))
	}
	for i := range names {
		names[i] = unescape(names[i])
	}
	t.columns = len(names)
	return names, tags, nil
}

// next returns the raw tokens of the next record, or io.EOF once the stream
// is exhausted.
func (t *tokenizer) next() ([]string, error) {
	line, complete, err := t.readLine()
	if err != nil {
		return nil, err
	}
	if !complete {
		if line == "" {
			return nil, io.EOF
		}
		if danglingEscape(line) {
			return nil, errFormat(errMsgTruncatedRecord, t.records+1)
		}
	}
	if line == "" && t.columns > 1 && complete {
		if _, perr := t.r.Peek(1); perr == io.EOF {
			return nil, io.EOF
		}
	}
	fields := splitFields(line)
	t.records++
	if len(fields) != t.columns {
		if !complete {
			return nil, errFormat(errMsgTruncatedRecord, t.records)
		}
		return nil, errFormat(errMsgFieldCount, t.records, len(fields), t.columns)
	}
	return fields, nil
}

// readLine reads up to the next unescaped line terminator. complete is false
// when the stream ended before a terminator was found.
func (t *tokenizer) readLine() (line string, complete bool, err error) {
	var buf []byte
	for {
		if t.ctx != nil {
			if cerr := t.ctx.Err(); cerr != nil {
				return "", false, errStream(cerr)
			}
		}
		chunk, rerr := t.r.ReadSlice(lineTerminator)
		buf = append(buf, chunk...)
		if rerr == bufio.ErrBufferFull {
			continue
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				if len(buf) > 0 && t.onLine != nil {
					t.onLine(string(buf))
				}
				return string(buf), false, nil
			}
			return "", false, errStream(rerr)
		}
		body := buf[:len(buf)-1]
		if danglingEscape(string(body)) {
			// the terminator is part of the field
			continue
		}
		if n := len(body); n > 0 && body[n-1] == '\r' && !danglingEscape(string(body[:n-1])) {
			body = body[:n-1]
		}
		if t.onLine != nil {
			t.onLine(string(body))
		}
		return string(body), true, nil
	}
}

// danglingEscape reports whether s ends with an odd run of escape characters,
// i.e. whether its last escape character still waits for the escaped byte.
func danglingEscape(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == escapeChar; i-- {
		n++
	}
	return n%2 == 1
}

// splitFields splits a record on field delimiters that are not escaped.
func splitFields(line string) []string {
	fields := make([]string, 0, 8)
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case escapeChar:
			i++
		case fieldDelimiter:
			fields = append(fields, line[start:i])
			start = i + 1
		}
	}
	return append(fields, line[start:])
}
