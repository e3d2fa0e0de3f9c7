// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"fmt"
)

// CursorError is an error type including the error class, SQL state and,
// when known, the query that produced the stream.
type CursorError struct {
	Number      int
	SQLState    string
	QueryID     string
	Message     string
	MessageArgs []interface{}
	Err         error
}

func (ce *CursorError) Error() string {
	message := ce.Message
	if len(ce.MessageArgs) > 0 {
		message = fmt.Sprintf(ce.Message, ce.MessageArgs...)
	}
	if ce.QueryID != "" {
		return fmt.Sprintf("%06d (%s): %s: %s", ce.Number, ce.SQLState, ce.QueryID, message)
	}
	return fmt.Sprintf("%06d (%s): %s", ce.Number, ce.SQLState, message)
}

// Unwrap returns the underlying cause, if any.
func (ce *CursorError) Unwrap() error {
	return ce.Err
}

// Is reports whether target is a CursorError of the same class.
func (ce *CursorError) Is(target error) bool {
	t, ok := target.(*CursorError)
	if !ok {
		return false
	}
	return ce.Number == t.Number
}

const (
	// ErrCodeFormat is an error code for a structurally malformed stream:
	// missing header, field count mismatch or a truncated record.
	ErrCodeFormat = 283001
	// ErrCodeUnsupportedType is an error code for an unknown or malformed type tag.
	ErrCodeUnsupportedType = 283002
	// ErrCodeValueFormat is an error code for a token that does not parse under its declared type.
	ErrCodeValueFormat = 283003
	// ErrCodeState is an error code for an operation invalid in the current cursor state.
	ErrCodeState = 283004
	// ErrCodeLookup is an error code for an unknown column name or an out of range ordinal.
	ErrCodeLookup = 283005
	// ErrCodeStream is an error code for an I/O failure of the underlying byte source.
	ErrCodeStream = 283006
	// ErrCodeConfig is an error code for an invalid or unreadable configuration.
	ErrCodeConfig = 283007
)

const (
	errMsgEmptyStream         = "the stream does not contain a header"
	errMsgMissingTypes        = "the stream header does not contain the column types"
	errMsgHeaderMismatch      = "the header has %v column names but %v type tags"
	errMsgFieldCount          = "record %v has %v fields, expected %v"
	errMsgTruncatedRecord     = "the stream ended in the middle of record %v"
	errMsgDuplicateColumn     = "duplicate column name: %v"
	errMsgUnsupportedType     = "unsupported type: %q"
	errMsgInvalidValue        = "invalid %v value: %q"
	errMsgInvalidValueCause   = "invalid %v value: %q: %v"
	errMsgCursorClosed        = "the cursor is closed"
	errMsgNoCurrentRow        = "the cursor is not positioned on a row"
	errMsgNoColumnRead        = "a column must be read before checking nullability"
	errMsgUnknownColumn       = "there is no column with the name %q"
	errMsgColumnOutOfRange    = "column ordinal %v is out of range, the cursor has %v columns"
	errMsgScanCount           = "expected %v scan destinations, got %v"
	errMsgStreamRead          = "failed to read the stream: %v"
	errMsgCoercion            = "cannot read a %v column as %v"
	errMsgOutOfRange          = "value %v does not fit in %v"
	errMsgUnknownCompression  = "unknown compression: %v"
	errMsgUnknownLocation     = "unknown time zone: %v"
	errMsgInvalidBufferSize   = "buffer size must be at least %v bytes, got %v"
	errMsgInvalidMaxRows      = "max rows must not be negative, got %v"
	errMsgFailedToParseConfig = "failed to parse the config file. %v: %v"
	errMsgInvalidLogLevel     = "unknown log level: %v"
	errMsgConfigureLogging    = "failed to configure logging: %v"
)

var (
	// preformatted errors, the classes every CursorError belongs to

	// ErrFormat matches errors raised for a structurally malformed stream.
	ErrFormat = &CursorError{
		Number:   ErrCodeFormat,
		SQLState: SQLStateDataException,
		Message:  "malformed stream",
	}
	// ErrUnsupportedType matches errors raised for unknown type tags.
	ErrUnsupportedType = &CursorError{
		Number:   ErrCodeUnsupportedType,
		SQLState: SQLStateFeatureNotSupported,
		Message:  "unsupported type",
	}
	// ErrValueFormat matches errors raised for values that do not parse under their type.
	ErrValueFormat = &CursorError{
		Number:   ErrCodeValueFormat,
		SQLState: SQLStateInvalidCharacterValue,
		Message:  "invalid value",
	}
	// ErrState matches errors raised for operations invalid in the cursor state.
	ErrState = &CursorError{
		Number:   ErrCodeState,
		SQLState: SQLStateInvalidCursorState,
		Message:  "invalid cursor state",
	}
	// ErrLookup matches errors raised for unknown columns.
	ErrLookup = &CursorError{
		Number:   ErrCodeLookup,
		SQLState: SQLStateUndefinedColumn,
		Message:  "unknown column",
	}
	// ErrStream matches errors raised by the underlying byte source.
	ErrStream = &CursorError{
		Number:   ErrCodeStream,
		SQLState: SQLStateConnectionFailure,
		Message:  "stream failure",
	}
)

func errFormat(msg string, args ...interface{}) *CursorError {
	return &CursorError{
		Number:      ErrCodeFormat,
		SQLState:    SQLStateDataException,
		Message:     msg,
		MessageArgs: args,
	}
}

func errUnsupportedType(tag string) *CursorError {
	return &CursorError{
		Number:      ErrCodeUnsupportedType,
		SQLState:    SQLStateFeatureNotSupported,
		Message:     errMsgUnsupportedType,
		MessageArgs: []interface{}{tag},
	}
}

func errValueFormat(kind fmt.Stringer, token string, cause error) *CursorError {
	if cause != nil {
		return &CursorError{
			Number:      ErrCodeValueFormat,
			SQLState:    SQLStateInvalidCharacterValue,
			Message:     errMsgInvalidValueCause,
			MessageArgs: []interface{}{kind, token, cause},
			Err:         cause,
		}
	}
	return &CursorError{
		Number:      ErrCodeValueFormat,
		SQLState:    SQLStateInvalidCharacterValue,
		Message:     errMsgInvalidValue,
		MessageArgs: []interface{}{kind, token},
	}
}

func errCoercion(from Kind, to string) *CursorError {
	return &CursorError{
		Number:      ErrCodeValueFormat,
		SQLState:    SQLStateInvalidCharacterValue,
		Message:     errMsgCoercion,
		MessageArgs: []interface{}{from, to},
	}
}

func errOutOfRange(v interface{}, to string) *CursorError {
	return &CursorError{
		Number:      ErrCodeValueFormat,
		SQLState:    SQLStateNumericValueOutOfRange,
		Message:     errMsgOutOfRange,
		MessageArgs: []interface{}{v, to},
	}
}

func errState(msg string) *CursorError {
	return &CursorError{
		Number:   ErrCodeState,
		SQLState: SQLStateInvalidCursorState,
		Message:  msg,
	}
}

func errLookup(msg string, args ...interface{}) *CursorError {
	return &CursorError{
		Number:      ErrCodeLookup,
		SQLState:    SQLStateUndefinedColumn,
		Message:     msg,
		MessageArgs: args,
	}
}

func errStream(cause error) *CursorError {
	return &CursorError{
		Number:      ErrCodeStream,
		SQLState:    SQLStateConnectionFailure,
		Message:     errMsgStreamRead,
		MessageArgs: []interface{}{cause},
		Err:         cause,
	}
}

func errConfig(cause error, msg string, args ...interface{}) *CursorError {
	return &CursorError{
		Number:      ErrCodeConfig,
		Message:     msg,
		MessageArgs: args,
		Err:         cause,
	}
}
