// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"testing"
	"time"
)

const allTypes = "i16\ti64\tf64\tdec\ttxt\tflag\traw\td\ttm\tts\ttz\tarr\n" +
	"int16\tint64\tfloat64\tdecimal(10,3)\ttext\tboolean\tbytea\tdate\ttime\ttimestamp\ttimestamptz\tarray(int32)\n" +
	"12\t9000000000\t2.5\t123.456\t42\tt\t\\\\xcafe\t2024-01-15\t10:30:00\t2024-01-15 23:30:00\t2024-01-15 23:30:00+02:00\t{1,2,NULL}\n" +
	"\\N\t\\N\t\\N\t\\N\t\\N\t\\N\t\\N\t\\N\t\\N\t\\N\t\\N\t\\N\n"

func newAllTypesCursor(t *testing.T, opts ...Option) *Cursor {
	t.Helper()
	c := openTestCursor(t, allTypes, opts...)
	t.Cleanup(func() { _ = c.Close() })
	mustNext(t, c)
	return c
}

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	assertNilF(t, err)
	return loc
}

func TestValue(t *testing.T) {
	c := newAllTypesCursor(t)
	v, err := c.Value(1)
	assertNilF(t, err)
	assertEqualE(t, v, int16(12))
	v, err = c.ValueByName("arr")
	assertNilF(t, err)
	assertDeepEqualE(t, v, []any{int32(1), int32(2), nil})
}

func TestIntegerAccessors(t *testing.T) {
	c := newAllTypesCursor(t)

	i8, err := c.Int8(1)
	assertNilF(t, err)
	assertEqualE(t, i8, int8(12))
	i64, err := c.Int64(2)
	assertNilF(t, err)
	assertEqualE(t, i64, int64(9000000000))
	_, err = c.Int32(2)
	assertCursorErrorE(t, err, ErrValueFormat, SQLStateNumericValueOutOfRange)

	i16, err := c.Int16ByName("txt")
	assertNilF(t, err)
	assertEqualE(t, i16, int16(42), "text holding a number")

	_, err = c.Int64(3)
	assertCursorErrorE(t, err, ErrValueFormat, SQLStateNumericValueOutOfRange, "2.5 has a fraction")
	_, err = c.Int64(4)
	assertCursorErrorE(t, err, ErrValueFormat, SQLStateNumericValueOutOfRange, "123.456 has a fraction")
	_, err = c.Int32(7)
	assertCursorErrorE(t, err, ErrValueFormat, SQLStateInvalidCharacterValue, "bytes are not numbers")
}

func TestFloatAccessors(t *testing.T) {
	c := newAllTypesCursor(t)

	f, err := c.Float64(3)
	assertNilF(t, err)
	assertEqualE(t, f, 2.5)
	f32, err := c.Float32(3)
	assertNilF(t, err)
	assertEqualE(t, f32, float32(2.5))
	f, err = c.Float64ByName("dec")
	assertNilF(t, err)
	assertEqualEpsilonE(t, f, 123.456, 1e-9)
	f, err = c.Float64(2)
	assertNilF(t, err)
	assertEqualE(t, f, 9e9)
	f, err = c.Float64(5)
	assertNilF(t, err)
	assertEqualE(t, f, 42.0)
	_, err = c.Float64(6)
	assertErrIsE(t, err, ErrValueFormat)
}

func TestBoolAccessor(t *testing.T) {
	c := newAllTypesCursor(t)

	b, err := c.Bool(6)
	assertNilF(t, err)
	assertTrueE(t, b)
	b, err = c.BoolByName("i16")
	assertNilF(t, err)
	assertTrueE(t, b)
	b, err = c.Bool(3)
	assertNilF(t, err)
	assertTrueE(t, b)
	_, err = c.Bool(5)
	assertErrIsE(t, err, ErrValueFormat, "42 is not a boolean")
	_, err = c.Bool(8)
	assertErrIsE(t, err, ErrValueFormat)

	tc := openTestCursor(t, "a\tb\ntext\tint32\nFalse\t0\n")
	defer tc.Close()
	mustNext(t, tc)
	b, err = tc.Bool(1)
	assertNilF(t, err)
	assertFalseE(t, b)
	b, err = tc.Bool(2)
	assertNilF(t, err)
	assertFalseE(t, b)
}

func TestDecimalAccessors(t *testing.T) {
	c := newAllTypesCursor(t)

	d, err := c.Decimal(4)
	assertNilF(t, err)
	assertEqualE(t, d.String(), "123.456")
	d, err = c.DecimalWithScale(4, 2)
	assertNilF(t, err)
	assertEqualE(t, d.String(), "123.46")
	d, err = c.DecimalWithScaleByName("dec", 0)
	assertNilF(t, err)
	assertEqualE(t, d.String(), "123")
	d, err = c.Decimal(3)
	assertNilF(t, err)
	assertEqualE(t, d.String(), "2.5")
	d, err = c.DecimalByName("i64")
	assertNilF(t, err)
	assertEqualE(t, d.String(), "9000000000")
	d, err = c.Decimal(5)
	assertNilF(t, err)
	assertEqualE(t, d.String(), "42")
	_, err = c.Decimal(6)
	assertErrIsE(t, err, ErrValueFormat)
}

func TestStringAccessor(t *testing.T) {
	c := newAllTypesCursor(t)
	testcases := []struct {
		name     string
		expected string
	}{
		{"i16", "12"},
		{"f64", "2.5"},
		{"dec", "123.456"},
		{"txt", "42"},
		{"flag", "t"},
		{"raw", `\xcafe`},
		{"d", "2024-01-15"},
		{"tm", "10:30:00"},
		{"ts", "2024-01-15 23:30:00"},
		{"tz", "2024-01-15 23:30:00+02:00"},
		{"arr", `{1,2,\N}`},
	}
	for _, test := range testcases {
		s, err := c.StringByName(test.name)
		assertNilE(t, err, test.name)
		assertEqualE(t, s, test.expected, test.name)
	}
}

func TestStringUnescapesText(t *testing.T) {
	c := openTestCursor(t, "a\ntext\nline\\none\\tand\\\\tab\n")
	defer c.Close()
	mustNext(t, c)
	s, err := c.String(1)
	assertNilF(t, err)
	assertEqualE(t, s, "line\none\tand\\tab")
}

func TestBytesAccessor(t *testing.T) {
	c := newAllTypesCursor(t)
	b, err := c.Bytes(7)
	assertNilF(t, err)
	assertBytesEqualE(t, b, []byte{0xca, 0xfe})
	b, err = c.BytesByName("txt")
	assertNilF(t, err)
	assertBytesEqualE(t, b, []byte("42"), "raw token of a non byte column")
	b, err = c.Bytes(10)
	assertNilF(t, err)
	assertBytesEqualE(t, b, []byte("2024-01-15 23:30:00"))

	bad := openTestCursor(t, "a\nbytea\nnothex\n")
	defer bad.Close()
	mustNext(t, bad)
	_, err = bad.Bytes(1)
	assertErrIsE(t, err, ErrValueFormat)
}

func TestArrayAccessor(t *testing.T) {
	c := newAllTypesCursor(t)
	a, err := c.ArrayByName("arr")
	assertNilF(t, err)
	assertDeepEqualE(t, a, []any{int32(1), int32(2), nil})
	_, err = c.Array(1)
	assertErrIsE(t, err, ErrValueFormat)

	empty := openTestCursor(t, "a\narray(text)\n{}\n")
	defer empty.Close()
	mustNext(t, empty)
	a, err = empty.Array(1)
	assertNilF(t, err)
	assertNotNilE(t, a, "an empty array is not null")
	assertEqualE(t, len(a), 0)
	null, err := empty.WasNull()
	assertNilF(t, err)
	assertFalseE(t, null)
}

func TestNaiveTemporalAccessors(t *testing.T) {
	est := mustLoadLocation(t, "America/New_York")
	c := newAllTypesCursor(t)

	ts, err := c.Timestamp(10, nil)
	assertNilF(t, err)
	assertTrueE(t, ts.Equal(time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)), "UTC without a calendar")

	ts, err = c.TimestampByName("ts", est)
	assertNilF(t, err)
	assertTrueE(t, ts.Equal(time.Date(2024, 1, 16, 4, 30, 0, 0, time.UTC)), "wall clock read in New York")
	assertEqualE(t, ts.Location(), est)

	d, err := c.Date(8, est)
	assertNilF(t, err)
	assertEqualE(t, d, time.Date(2024, 1, 15, 0, 0, 0, 0, est))
	d, err = c.DateByName("ts", nil)
	assertNilF(t, err)
	assertEqualE(t, d, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	tm, err := c.Time(9, nil)
	assertNilF(t, err)
	assertEqualE(t, tm, time.Date(1970, 1, 1, 10, 30, 0, 0, time.UTC))
	tm, err = c.TimeByName("ts", est)
	assertNilF(t, err)
	assertEqualE(t, tm, time.Date(1970, 1, 1, 23, 30, 0, 0, est))
}

func TestTemporalDefaultLocation(t *testing.T) {
	est := mustLoadLocation(t, "America/New_York")
	warsaw := mustLoadLocation(t, "Europe/Warsaw")
	c := newAllTypesCursor(t, WithLocation(est))

	ts, err := c.Timestamp(10, nil)
	assertNilF(t, err)
	assertEqualE(t, ts, time.Date(2024, 1, 15, 23, 30, 0, 0, est))
	ts, err = c.Timestamp(10, warsaw)
	assertNilF(t, err)
	assertEqualE(t, ts, time.Date(2024, 1, 15, 23, 30, 0, 0, warsaw), "the caller calendar wins")
}

func TestZonedTemporalIgnoresCallerLocation(t *testing.T) {
	est := mustLoadLocation(t, "America/New_York")
	instant := time.Date(2024, 1, 15, 21, 30, 0, 0, time.UTC)
	c := newAllTypesCursor(t)

	for _, loc := range []*time.Location{nil, time.UTC, est} {
		ts, err := c.Timestamp(11, loc)
		assertNilF(t, err)
		assertTrueE(t, ts.Equal(instant))
		_, offset := ts.Zone()
		assertEqualE(t, offset, 7200)
	}

	d, err := c.Date(11, est)
	assertNilF(t, err)
	assertEqualE(t, d.Day(), 15, "the date in the value's own zone")
	_, offset := d.Zone()
	assertEqualE(t, offset, 7200)

	tm, err := c.Time(11, est)
	assertNilF(t, err)
	assertEqualE(t, tm.Hour(), 23)
}

func TestTemporalFromText(t *testing.T) {
	c := openTestCursor(t, "a\tb\ntext\ttext\n2024-05-06 07:08:09\tsoon\n")
	defer c.Close()
	mustNext(t, c)
	ts, err := c.Timestamp(1, nil)
	assertNilF(t, err)
	assertEqualE(t, ts, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC))
	_, err = c.Timestamp(2, nil)
	assertErrIsE(t, err, ErrValueFormat)

	all := newAllTypesCursor(t)
	_, err = all.Timestamp(1, nil)
	assertErrIsE(t, err, ErrValueFormat, "integers are not temporal")
}

func TestNullAccessors(t *testing.T) {
	c := newAllTypesCursor(t)
	mustNext(t, c)

	checkNull := func(name string) {
		t.Helper()
		null, err := c.WasNull()
		assertNilE(t, err, name)
		assertTrueE(t, null, name)
	}
	v, err := c.Value(1)
	assertNilE(t, err)
	assertNilE(t, v)
	checkNull("value")
	i, err := c.Int64(2)
	assertNilE(t, err)
	assertEqualE(t, i, int64(0))
	checkNull("int64")
	f, err := c.Float64(3)
	assertNilE(t, err)
	assertEqualE(t, f, 0.0)
	checkNull("float64")
	d, err := c.Decimal(4)
	assertNilE(t, err)
	assertNilE(t, d)
	d, err = c.DecimalWithScale(4, 1)
	assertNilE(t, err)
	assertNilE(t, d)
	s, err := c.String(5)
	assertNilE(t, err)
	assertEqualE(t, s, "")
	checkNull("string")
	b, err := c.Bool(6)
	assertNilE(t, err)
	assertFalseE(t, b)
	raw, err := c.Bytes(7)
	assertNilE(t, err)
	assertNilE(t, raw)
	checkNull("bytes")
	ts, err := c.Timestamp(10, nil)
	assertNilE(t, err)
	assertTrueE(t, ts.IsZero())
	ts, err = c.Date(8, nil)
	assertNilE(t, err)
	assertTrueE(t, ts.IsZero())
	a, err := c.Array(12)
	assertNilE(t, err)
	assertNilE(t, a)
	checkNull("array")
}

func TestByNameUnknownColumn(t *testing.T) {
	c := newAllTypesCursor(t)
	_, err := c.Int64ByName("missing")
	assertCursorErrorE(t, err, ErrLookup, SQLStateUndefinedColumn)
	_, err = c.TimestampByName("TS", nil)
	assertErrIsE(t, err, ErrLookup, "names are case sensitive")
	_, err = c.Value(13)
	assertErrIsE(t, err, ErrLookup)
}

func TestScan(t *testing.T) {
	c := newAllTypesCursor(t)

	var (
		i16  int16
		i64  int
		f64  float64
		dec  *Decimal
		txt  string
		flag bool
		raw  []byte
		d    any
		tm   string
		ts   time.Time
		tz   time.Time
		arr  []any
	)
	err := c.Scan(&i16, &i64, &f64, &dec, &txt, &flag, &raw, &d, &tm, &ts, &tz, &arr)
	assertNilF(t, err)
	assertEqualE(t, i16, int16(12))
	assertEqualE(t, i64, 9000000000)
	assertEqualE(t, f64, 2.5)
	assertEqualE(t, dec.String(), "123.456")
	assertEqualE(t, txt, "42")
	assertTrueE(t, flag)
	assertBytesEqualE(t, raw, []byte{0xca, 0xfe})
	assertEqualE(t, d.(time.Time), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	assertEqualE(t, tm, "10:30:00")
	assertEqualE(t, ts, time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC))
	assertTrueE(t, tz.Equal(time.Date(2024, 1, 15, 21, 30, 0, 0, time.UTC)))
	assertDeepEqualE(t, arr, []any{int32(1), int32(2), nil})

	err = c.Scan(&i16)
	assertErrIsE(t, err, ErrLookup)
	assertStringContainsE(t, errString(err), "expected 12 scan destinations, got 1")
	var u uint
	err = c.Scan(&u, &i64, &f64, &dec, &txt, &flag, &raw, &d, &tm, &ts, &tz, &arr)
	assertErrIsE(t, err, ErrValueFormat)
}
