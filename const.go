// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

// wire format constants
const (
	fieldDelimiter = '\t'
	lineTerminator = '\n'
	escapeChar     = '\\'

	// NullSentinel is the token the wire format uses for a missing value.
	NullSentinel = `\N`

	arrayOpen      = '{'
	arrayClose     = '}'
	arrayOpenAlt   = '['
	arrayCloseAlt  = ']'
	arraySeparator = ','

	byteaPrefix = `\x`

	booleanTrue  = "t"
	booleanFalse = "f"
)

const (
	defaultBufferSize = 65536
	minBufferSize     = 16
)

// SQLStates used by CursorError
const (
	SQLStateDataException          = "22000"
	SQLStateFeatureNotSupported    = "0A000"
	SQLStateInvalidCharacterValue  = "22018"
	SQLStateInvalidCursorState     = "24000"
	SQLStateUndefinedColumn        = "42703"
	SQLStateConnectionFailure      = "08006"
	SQLStateNumericValueOutOfRange = "22003"
	SQLStateInvalidDataTimeFormat  = "22007"
)

type contextKey string

// QueryIDKey is the context key of the query id written to logs.
const QueryIDKey contextKey = "LOG_QUERY_ID"
