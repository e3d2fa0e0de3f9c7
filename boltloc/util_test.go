// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package boltloc

import (
	"errors"
	"testing"
	"time"
)

type testcase struct {
	ss  string
	tt  string
	err error
}

func TestWithOffsetString(t *testing.T) {
	testcases := []testcase{
		{
			ss:  "+0700",
			tt:  "+0700",
			err: nil,
		},
		{
			ss:  "-1200",
			tt:  "-1200",
			err: nil,
		},
		{
			ss:  "+0545",
			tt:  "+0545",
			err: nil,
		},
		{
			ss: "1200",
			err: &LocationError{
				Number:      ErrInvalidOffsetStr,
				Message:     errMsgInvalidOffsetStr,
				MessageArgs: []interface{}{"1200"},
			},
		},
		{
			ss: "+12001",
			err: &LocationError{
				Number:      ErrInvalidOffsetStr,
				Message:     errMsgInvalidOffsetStr,
				MessageArgs: []interface{}{"+12001"},
			},
		},
	}
	for _, t0 := range testcases {
		t.Run(t0.ss, func(t *testing.T) {
			loc, err := WithOffsetString(t0.ss)
			if t0.err != nil {
				var le *LocationError
				if !errors.As(err, &le) {
					t.Fatalf("error expected: %v, got: %v", t0.err, err)
				}
				if le.Number != t0.err.(*LocationError).Number {
					t.Fatalf("error expected: %v, got: %v", t0.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if loc.String() != t0.tt {
				t.Fatalf("location string didn't match. expected: %v, got: %v", t0.tt, loc)
			}
		})
	}
}

func TestWithOffsetIsCached(t *testing.T) {
	if WithOffset(-300) != WithOffset(-300) {
		t.Fatal("expected the same location for the same offset")
	}
	if WithOffset(17) != WithOffset(17) {
		t.Fatal("expected an uncommon offset to be cached after first use")
	}
	_, offset := time.Date(2022, 5, 10, 0, 0, 0, 0, WithOffset(330)).Zone()
	if offset != 330*60 {
		t.Fatalf("unexpected offset: %v", offset)
	}
}

func TestLocation(t *testing.T) {
	testcases := []struct {
		name   string
		offset int
	}{
		{"", 0},
		{"UTC", 0},
		{"utc", 0},
		{"EST", -5 * 3600},
		{"+05:30", 5*3600 + 30*60},
		{"-03", -3 * 3600},
		{"+0100", 3600},
	}
	at := time.Date(2022, 1, 15, 12, 0, 0, 0, time.UTC)
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			loc, err := Location(tc.name)
			if err != nil {
				t.Fatalf("failed to resolve %q: %v", tc.name, err)
			}
			if _, offset := at.In(loc).Zone(); offset != tc.offset {
				t.Fatalf("offset mismatch for %q. expected: %v, got: %v", tc.name, tc.offset, offset)
			}
		})
	}
	if _, err := Location("Not/AZone"); err == nil {
		t.Fatal("should have failed to resolve an unknown zone")
	}
}

func TestResolveNaive(t *testing.T) {
	est, _ := Location("EST")
	v := time.Date(2022, 5, 10, 13, 1, 2, 0, time.UTC)

	if got := Timestamp(v, false, nil); !got.Equal(v) {
		t.Errorf("expected %v, got %v", v, got)
	}
	want := time.Date(2022, 5, 10, 18, 1, 2, 0, time.UTC)
	if got := Timestamp(v, false, est); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	want = time.Date(2022, 5, 10, 5, 0, 0, 0, time.UTC)
	if got := Date(v, false, est); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	want = time.Date(1970, 1, 1, 18, 1, 2, 0, time.UTC)
	if got := Time(v, false, est); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	late := time.Date(2022, 5, 10, 23, 1, 2, 0, time.UTC)
	want = time.Date(1970, 1, 2, 4, 1, 2, 0, time.UTC)
	if got := Time(late, false, est); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestResolveZonedIgnoresCalendar(t *testing.T) {
	est, _ := Location("EST")
	v := time.Date(2022, 5, 11, 6, 1, 2, 0, WithOffset(0))
	for _, loc := range []*time.Location{nil, time.UTC, est} {
		if got := Timestamp(v, true, loc); !got.Equal(v) {
			t.Errorf("expected %v, got %v", v, got)
		}
		want := time.Date(2022, 5, 11, 0, 0, 0, 0, time.UTC)
		if got := Date(v, true, loc); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
		want = time.Date(1970, 1, 1, 6, 1, 2, 0, time.UTC)
		if got := Time(v, true, loc); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}
