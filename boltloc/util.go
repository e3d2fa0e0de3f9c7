// Copyright (c) 2024 The gobolt Authors. All rights reserved.

// Package boltloc is a timezone utility package for gobolt. It caches fixed
// offset locations and resolves temporal values against a caller calendar.
package boltloc

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// ErrInvalidOffsetStr is an error code for the case where a offset string is invalid. The input string must
	// consist of sHHMI where one sign character '+'/'-' followed by zero filled hours and minutes
	ErrInvalidOffsetStr = 283101
	// ErrUnknownLocation is an error code for a zone name that cannot be resolved.
	ErrUnknownLocation = 283102

	errMsgInvalidOffsetStr = "offset must be a string consist of sHHMI where one sign character '+'/'-' followed by zero filled hours and minutes: %v"
	errMsgUnknownLocation  = "unknown time zone: %v"
)

// LocationError is returned when an offset or a zone name cannot be resolved.
type LocationError struct {
	Number      int
	Message     string
	MessageArgs []interface{}
}

func (le *LocationError) Error() string {
	message := le.Message
	if len(le.MessageArgs) > 0 {
		message = fmt.Sprintf(le.Message, le.MessageArgs...)
	}
	return fmt.Sprintf("%06d (): %s", le.Number, message)
}

var timezones map[int]*time.Location
var updateTimezoneMutex *sync.Mutex

// fixed zones for abbreviations that Go resolves to a local zone or not at
// all; EST is the fixed -05:00 zone, not America/New_York.
var abbreviations = map[string]int{
	"UTC": 0,
	"GMT": 0,
	"Z":   0,
	"EST": -300,
	"MST": -420,
	"HST": -600,
}

// WithOffset returns an offset (minutes) based Location object.
func WithOffset(offset int) *time.Location {
	updateTimezoneMutex.Lock()
	defer updateTimezoneMutex.Unlock()
	loc := timezones[offset]
	if loc != nil {
		return loc
	}
	loc = genTimezone(offset)
	timezones[offset] = loc
	return loc
}

// WithOffsetString returns an offset based Location object. The offset string must consist of sHHMI where one sign
// character '+'/'-' followed by zero filled hours and minutes
func WithOffsetString(offsets string) (loc *time.Location, err error) {
	if len(offsets) != 5 || (offsets[0] != '-' && offsets[0] != '+') {
		return nil, &LocationError{
			Number:      ErrInvalidOffsetStr,
			Message:     errMsgInvalidOffsetStr,
			MessageArgs: []interface{}{offsets},
		}
	}
	s := 1
	if offsets[0] == '-' {
		s = -1
	}
	var h, m int64
	h, err = strconv.ParseInt(offsets[1:3], 10, 64)
	if err != nil {
		return
	}
	m, err = strconv.ParseInt(offsets[3:], 10, 64)
	if err != nil {
		return
	}
	offset := s * (int(h)*60 + int(m))
	loc = WithOffset(offset)
	return
}

// Location resolves a zone name: an abbreviation, a "+hh:mm"/"+hhmm" offset
// or an IANA name. An empty name is UTC.
func Location(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	if offset, ok := abbreviations[strings.ToUpper(name)]; ok {
		if offset == 0 {
			return time.UTC, nil
		}
		return WithOffset(offset), nil
	}
	if name[0] == '+' || name[0] == '-' {
		offsets := strings.Replace(name, ":", "", 1)
		if len(offsets) == 3 {
			offsets += "00"
		}
		if loc, err := WithOffsetString(offsets); err == nil {
			return loc, nil
		}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &LocationError{
			Number:      ErrUnknownLocation,
			Message:     errMsgUnknownLocation,
			MessageArgs: []interface{}{name},
		}
	}
	return loc, nil
}

func genTimezone(offset int) *time.Location {
	var offsetSign string
	var toffset int
	if offset < 0 {
		offsetSign = "-"
		toffset = -offset
	} else {
		offsetSign = "+"
		toffset = offset
	}
	return time.FixedZone(fmt.Sprintf("%v%02d%02d", offsetSign, toffset/60, toffset%60), offset*60)
}

func init() {
	updateTimezoneMutex = &sync.Mutex{}
	timezones = make(map[int]*time.Location, 48)
	// pre-generate all common timezones
	for i := -720; i <= 720; i += 30 {
		timezones[i] = genTimezone(i)
	}
}
