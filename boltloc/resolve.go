// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package boltloc

import (
	"time"
)

// Zoned values carry an authoritative offset and ignore the caller calendar.
// Naive values hold their wall clock in UTC and are read in the caller
// calendar, UTC when none is given.

func calendar(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// Timestamp returns the instant of v.
func Timestamp(v time.Time, zoned bool, loc *time.Location) time.Time {
	if zoned {
		return v
	}
	return time.Date(v.Year(), v.Month(), v.Day(), v.Hour(), v.Minute(), v.Second(), v.Nanosecond(), calendar(loc))
}

// Date returns midnight of the calendar date of v.
func Date(v time.Time, zoned bool, loc *time.Location) time.Time {
	if zoned {
		loc = v.Location()
	}
	return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, calendar(loc))
}

// Time returns the wall clock of v on 1970-01-01.
func Time(v time.Time, zoned bool, loc *time.Location) time.Time {
	if zoned {
		loc = v.Location()
	}
	return time.Date(1970, time.January, 1, v.Hour(), v.Minute(), v.Second(), v.Nanosecond(), calendar(loc))
}
