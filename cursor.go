// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
)

// Column describes one column of a result stream. Columns are built from the
// header when the cursor opens and do not change afterwards.
type Column struct {
	Name     string
	Ordinal  int
	Type     *Type
	TypeName string
	Nullable bool

	TableName    string
	DatabaseName string
}

type cursorState int

const (
	stateBeforeFirst cursorState = iota
	statePositioned
	stateAfterLast
)

// Cursor is a forward only iterator over the rows of one result stream. A
// cursor must not be used from more than one goroutine at a time.
type Cursor struct {
	id      string
	queryID string
	cfg     *Config

	stream  io.ReadCloser
	tok     *tokenizer
	columns []*Column
	byName  map[string]int

	state  cursorState
	closed bool
	row    []string
	rowNum int64

	peeked    []string
	peekErr   error
	hasPeeked bool

	wasNull bool
	read    bool
}

// Open reads the header of a result stream and returns a cursor positioned
// before the first row. The stream is closed when the cursor is closed, and
// when Open fails.
func Open(ctx context.Context, r io.Reader, opts ...Option) (*Cursor, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		if closer, ok := r.(io.Closer); ok {
			_ = closer.Close()
		}
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.queryID != "" {
		ctx = context.WithValue(ctx, QueryIDKey, cfg.queryID)
	}
	c := &Cursor{
		id:      uuid.NewString(),
		queryID: cfg.queryID,
		cfg:     cfg,
	}
	c.stream, err = decompress(r, cfg.Compression)
	if err != nil {
		if closer, ok := r.(io.Closer); ok {
			_ = closer.Close()
		}
		return nil, c.withQueryID(err)
	}
	c.tok = newTokenizer(ctx, c.stream, cfg.BufferSize)
	if cfg.LogResponse {
		c.tok.onLine = newResponseLogger(c.id, c.queryID).logLine
	}
	if err = c.readHeader(); err != nil {
		c.logEntry().Errorf("failed to open cursor: %v", err)
		_ = c.stream.Close()
		return nil, c.withQueryID(err)
	}
	c.logEntry().Debugf("cursor opened with %v columns", len(c.columns))
	return c, nil
}

func (c *Cursor) readHeader() error {
	names, tags, err := c.tok.readHeader()
	if err != nil {
		return err
	}
	c.columns = make([]*Column, len(names))
	c.byName = make(map[string]int, len(names))
	for i, name := range names {
		if _, ok := c.byName[name]; ok {
			return errFormat(errMsgDuplicateColumn, name)
		}
		t, nullable, err := parseColumnType(tags[i])
		if err != nil {
			return err
		}
		c.columns[i] = &Column{
			Name:         name,
			Ordinal:      i + 1,
			Type:         t,
			TypeName:     tags[i],
			Nullable:     nullable,
			TableName:    c.cfg.TableName,
			DatabaseName: c.cfg.DatabaseName,
		}
		c.byName[name] = i + 1
	}
	return nil
}

func (c *Cursor) logEntry() LogEntry {
	return logger.WithFields(map[string]any{
		"cursor_id": c.id,
		"query_id":  c.queryID,
	})
}

func (c *Cursor) withQueryID(err error) error {
	var ce *CursorError
	if c.queryID != "" && errors.As(err, &ce) && ce.QueryID == "" {
		ce.QueryID = c.queryID
	}
	return err
}

// ID returns the id the cursor logs with.
func (c *Cursor) ID() string {
	return c.id
}

// QueryID returns the id of the query that produced the stream, if known.
func (c *Cursor) QueryID() string {
	return c.queryID
}

// Next moves the cursor to the next row. It returns false once the stream is
// exhausted or the row limit is reached. After an error the cursor is past
// the last row.
func (c *Cursor) Next() (bool, error) {
	if c.closed {
		return false, c.withQueryID(errState(errMsgCursorClosed))
	}
	if c.state == stateAfterLast {
		return false, nil
	}
	if c.limitReached() {
		c.moveAfterLast()
		return false, nil
	}
	record, err := c.fetch()
	if err != nil {
		c.moveAfterLast()
		if errors.Is(err, io.EOF) {
			c.logEntry().Debugf("end of stream after %v rows", c.rowNum)
			return false, nil
		}
		c.logEntry().Errorf("failed to read row %v: %v", c.rowNum+1, err)
		return false, c.withQueryID(err)
	}
	c.row = record
	c.rowNum++
	c.state = statePositioned
	c.logEntry().Tracef("row %v", c.rowNum)
	return true, nil
}

func (c *Cursor) limitReached() bool {
	return c.cfg.MaxRows > 0 && c.rowNum >= c.cfg.MaxRows
}

// fetch returns the peeked record if there is one, else reads the next.
func (c *Cursor) fetch() ([]string, error) {
	if c.hasPeeked {
		c.hasPeeked = false
		record, err := c.peeked, c.peekErr
		c.peeked, c.peekErr = nil, nil
		return record, err
	}
	return c.tok.next()
}

func (c *Cursor) peek() ([]string, error) {
	if !c.hasPeeked {
		c.peeked, c.peekErr = c.tok.next()
		c.hasPeeked = true
	}
	return c.peeked, c.peekErr
}

func (c *Cursor) moveAfterLast() {
	c.state = stateAfterLast
	c.row = nil
}

// IsBeforeFirst reports whether Next has not been called yet.
func (c *Cursor) IsBeforeFirst() bool {
	return !c.closed && c.state == stateBeforeFirst
}

// IsFirst reports whether the cursor is on the first row.
func (c *Cursor) IsFirst() bool {
	return !c.closed && c.state == statePositioned && c.rowNum == 1
}

// IsAfterLast reports whether the cursor moved past the last row.
func (c *Cursor) IsAfterLast() bool {
	return !c.closed && c.state == stateAfterLast
}

// IsLast reports whether the cursor is on the last row. It reads ahead one
// record, which the following Next returns. A read error is reported by the
// following Next.
func (c *Cursor) IsLast() (bool, error) {
	if c.closed {
		return false, c.withQueryID(errState(errMsgCursorClosed))
	}
	if c.state != statePositioned {
		return false, nil
	}
	if c.limitReached() {
		return true, nil
	}
	_, err := c.peek()
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, nil
}

// Row returns the 1-based number of the current row, zero when the cursor is
// not on a row.
func (c *Cursor) Row() int64 {
	if c.closed || c.state != statePositioned {
		return 0
	}
	return c.rowNum
}

// IsClosed reports whether Close was called.
func (c *Cursor) IsClosed() bool {
	return c.closed
}

// Close releases the stream and, when the owning statement closes on
// completion, the statement. Closing a closed cursor does nothing.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.row = nil
	c.peeked, c.peekErr, c.hasPeeked = nil, nil, false
	var errs []error
	if err := c.stream.Close(); err != nil {
		errs = append(errs, errStream(err))
	}
	if stmt := c.cfg.statement; stmt != nil && stmt.CloseOnCompletion() {
		if err := stmt.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.logEntry().Debugf("cursor closed after %v rows", c.rowNum)
	if err := errors.Join(errs...); err != nil {
		return c.withQueryID(err)
	}
	return nil
}

// Columns returns the column descriptors in order.
func (c *Cursor) Columns() []*Column {
	columns := make([]*Column, len(c.columns))
	copy(columns, c.columns)
	return columns
}

// ColumnCount returns the number of columns.
func (c *Cursor) ColumnCount() int {
	return len(c.columns)
}

// FindColumn returns the 1-based ordinal of the column named name. Names are
// case sensitive.
func (c *Cursor) FindColumn(name string) (int, error) {
	if c.closed {
		return 0, c.withQueryID(errState(errMsgCursorClosed))
	}
	ordinal, ok := c.byName[name]
	if !ok {
		return 0, c.withQueryID(errLookup(errMsgUnknownColumn, name))
	}
	return ordinal, nil
}

// Column returns the descriptor of the column at the 1-based ordinal.
func (c *Cursor) Column(ordinal int) (*Column, error) {
	if ordinal < 1 || ordinal > len(c.columns) {
		return nil, c.withQueryID(errLookup(errMsgColumnOutOfRange, ordinal, len(c.columns)))
	}
	return c.columns[ordinal-1], nil
}

// WasNull reports whether the last column read held a null value.
func (c *Cursor) WasNull() (bool, error) {
	if c.closed {
		return false, c.withQueryID(errState(errMsgCursorClosed))
	}
	if !c.read {
		return false, c.withQueryID(errState(errMsgNoColumnRead))
	}
	return c.wasNull, nil
}

// field returns the column and raw token of the current row and records
// whether it is null.
func (c *Cursor) field(ordinal int) (*Column, string, error) {
	if c.closed {
		return nil, "", c.withQueryID(errState(errMsgCursorClosed))
	}
	if c.state != statePositioned {
		return nil, "", c.withQueryID(errState(errMsgNoCurrentRow))
	}
	col, err := c.Column(ordinal)
	if err != nil {
		return nil, "", err
	}
	token := c.row[ordinal-1]
	c.read = true
	c.wasNull = token == NullSentinel
	return col, token, nil
}

// value decodes the field at ordinal. A nil value means null.
func (c *Cursor) value(ordinal int) (*Column, any, error) {
	col, token, err := c.field(ordinal)
	if err != nil {
		return nil, nil, err
	}
	v, err := decodeValue(token, col.Type)
	if err != nil {
		return col, nil, c.withQueryID(err)
	}
	return col, v, nil
}
