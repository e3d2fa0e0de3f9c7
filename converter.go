// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/boltstream/gobolt/boltloc"
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05"
	timestampLayout = "2006-01-02 15:04:05"
	timestampTLayout = "2006-01-02T15:04:05"

	timeOutputLayout        = "15:04:05.999999999"
	timestampOutputLayout   = "2006-01-02 15:04:05.999999999"
	timestampTZOutputLayout = "2006-01-02 15:04:05.999999999-07:00"
)

var (
	errNullOnlyColumn   = errors.New("a column of type nothing only holds nulls")
	errMissingOffset    = errors.New("the value has no zone offset")
	errTooManyDigits    = errors.New("the value has more significant digits than the declared precision")
	errTooManyFractions = errors.New("the value has more fractional digits than the declared scale")
	errByteaPrefix      = errors.New(`byte string literal must start with \x`)
)

// decodeValue converts a raw wire token into the Go value of its type. Array
// tokens are split and their elements decoded recursively; nil stands for
// null at every level.
func decodeValue(token string, t *Type) (any, error) {
	if token == NullSentinel {
		return nil, nil
	}
	if t.Kind != ArrayKind {
		return decodeScalar(token, t)
	}
	elements, err := splitArray(token)
	if err != nil {
		return nil, errValueFormat(t, token, err)
	}
	values := make([]any, len(elements))
	for i, e := range elements {
		if e.isNull() {
			continue
		}
		raw := e.raw
		if e.quoted && t.Elem.Kind == ArrayKind {
			raw = unescape(raw)
		}
		if values[i], err = decodeValue(raw, t.Elem); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func decodeScalar(token string, t *Type) (any, error) {
	switch t.Kind {
	case NothingKind:
		return nil, errValueFormat(t, token, errNullOnlyColumn)
	case Int16Kind:
		v, err := strconv.ParseInt(token, 10, 16)
		if err != nil {
			return nil, errValueFormat(t, token, err)
		}
		return int16(v), nil
	case Int32Kind:
		v, err := strconv.ParseInt(token, 10, 32)
		if err != nil {
			return nil, errValueFormat(t, token, err)
		}
		return int32(v), nil
	case Int64Kind:
		v, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, errValueFormat(t, token, err)
		}
		return v, nil
	case Float32Kind:
		v, err := strconv.ParseFloat(token, 32)
		if err != nil {
			return nil, errValueFormat(t, token, err)
		}
		return float32(v), nil
	case Float64Kind:
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, errValueFormat(t, token, err)
		}
		return v, nil
	case DecimalKind:
		return decodeDecimal(token, t)
	case TextKind:
		return unescape(token), nil
	case BooleanKind:
		switch token {
		case booleanTrue:
			return true, nil
		case booleanFalse:
			return false, nil
		}
		return nil, errValueFormat(t, token, nil)
	case BytesKind:
		b, err := decodeBytea(token)
		if err != nil {
			return nil, errValueFormat(t, token, err)
		}
		return b, nil
	case DateKind:
		v, err := time.Parse(dateLayout, token)
		if err != nil {
			return nil, errValueFormat(t, token, err)
		}
		return v, nil
	case TimeKind:
		v, err := time.Parse(timeLayout, token)
		if err != nil {
			return nil, errValueFormat(t, token, err)
		}
		return time.Date(1970, time.January, 1, v.Hour(), v.Minute(), v.Second(), v.Nanosecond(), time.UTC), nil
	case TimestampKind:
		v, err := parseNaiveTimestamp(token)
		if err != nil {
			return nil, errValueFormat(t, token, err)
		}
		return v, nil
	case TimestampTZKind:
		v, err := parseZonedTimestamp(token, t.Location)
		if err != nil {
			return nil, errValueFormat(t, token, err)
		}
		return v, nil
	}
	return nil, errUnsupportedType(t.String())
}

func decodeDecimal(token string, t *Type) (any, error) {
	d, err := ParseDecimal(token)
	if err != nil {
		return nil, errValueFormat(t, token, err)
	}
	d, ok := d.rescale(t.Scale)
	if !ok {
		return nil, errValueFormat(t, token, errTooManyFractions)
	}
	if d.Precision() > t.Precision {
		return nil, errValueFormat(t, token, errTooManyDigits)
	}
	return d, nil
}

// decodeBytea converts a hex literal. The escape character of the prefix may
// itself arrive escaped.
func decodeBytea(token string) ([]byte, error) {
	if token == "" {
		return []byte{}, nil
	}
	var digits string
	switch {
	case strings.HasPrefix(token, `\\x`):
		digits = token[3:]
	case strings.HasPrefix(token, byteaPrefix):
		digits = token[2:]
	default:
		return nil, errByteaPrefix
	}
	return hex.DecodeString(digits)
}

func parseNaiveTimestamp(token string) (time.Time, error) {
	layout := timestampLayout
	switch {
	case len(token) == len(dateLayout):
		layout = dateLayout
	case len(token) > 10 && token[10] == 'T':
		layout = timestampTLayout
	}
	return time.Parse(layout, token)
}

// parseZonedTimestamp reads a timestamp followed by its offset. Without an
// offset the value is read in loc when the type declares a zone.
func parseZonedTimestamp(token string, loc *time.Location) (time.Time, error) {
	body, offset, hasOffset, err := splitOffset(token)
	if err != nil {
		return time.Time{}, err
	}
	v, err := parseNaiveTimestamp(body)
	if err != nil {
		return time.Time{}, err
	}
	switch {
	case hasOffset:
		var zone *time.Location
		if offset%60 == 0 {
			zone = boltloc.WithOffset(offset / 60)
		} else {
			zone = time.FixedZone("", offset)
		}
		return time.Date(v.Year(), v.Month(), v.Day(), v.Hour(), v.Minute(), v.Second(), v.Nanosecond(), zone), nil
	case loc != nil:
		return time.Date(v.Year(), v.Month(), v.Day(), v.Hour(), v.Minute(), v.Second(), v.Nanosecond(), loc), nil
	}
	return time.Time{}, errMissingOffset
}

// splitOffset separates a trailing "Z", "±hh", "±hhmm", "±hh:mm" or
// "±hh:mm:ss" suffix. The offset is returned in seconds.
func splitOffset(token string) (body string, offset int, ok bool, err error) {
	if strings.HasSuffix(token, "Z") {
		return token[:len(token)-1], 0, true, nil
	}
	// the offset sign can only follow the time part
	i := strings.LastIndexAny(token, "+-")
	if i <= len(dateLayout) {
		return token, 0, false, nil
	}
	sign := 1
	if token[i] == '-' {
		sign = -1
	}
	parts := strings.Split(token[i+1:], ":")
	if len(parts) == 1 && len(parts[0]) == 4 {
		parts = []string{parts[0][:2], parts[0][2:]}
	}
	if len(parts) > 3 {
		return "", 0, false, fmt.Errorf("invalid zone offset %q", token[i:])
	}
	multipliers := []int{3600, 60, 1}
	for j, p := range parts {
		if len(p) != 2 {
			return "", 0, false, fmt.Errorf("invalid zone offset %q", token[i:])
		}
		n, perr := strconv.Atoi(p)
		if perr != nil {
			return "", 0, false, fmt.Errorf("invalid zone offset %q", token[i:])
		}
		offset += n * multipliers[j]
	}
	return strings.TrimSpace(token[:i]), sign * offset, true, nil
}

// encodeValue renders a decoded value as its canonical wire token.
func encodeValue(v any, t *Type) (string, error) {
	if v == nil {
		return NullSentinel, nil
	}
	if t.Kind == ArrayKind {
		values, ok := v.([]any)
		if !ok {
			return "", errCoercion(t.Kind, fmt.Sprintf("%T", v))
		}
		parts := make([]string, len(values))
		for i, e := range values {
			if e == nil {
				parts[i] = NullSentinel
				continue
			}
			s, err := encodeValue(e, t.Elem)
			if err != nil {
				return "", err
			}
			switch t.Elem.Kind {
			case TextKind:
				s = quoteArrayText(e.(string))
			case BytesKind:
				if s == "" {
					s = `""`
				}
			case TimestampKind, TimestampTZKind, TimeKind, DateKind:
				s = `"` + s + `"`
			}
			parts[i] = s
		}
		return string(arrayOpen) + strings.Join(parts, string(arraySeparator)) + string(arrayClose), nil
	}
	switch x := v.(type) {
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float32:
		return formatFloat(float64(x), 32), nil
	case float64:
		return formatFloat(x, 64), nil
	case Decimal:
		return x.String(), nil
	case string:
		if t.Kind == TextKind {
			return escape(x), nil
		}
		return x, nil
	case bool:
		if x {
			return booleanTrue, nil
		}
		return booleanFalse, nil
	case []byte:
		return formatBytea(x), nil
	case time.Time:
		switch t.Kind {
		case DateKind:
			return x.Format(dateLayout), nil
		case TimeKind:
			return x.Format(timeOutputLayout), nil
		case TimestampTZKind:
			return x.Format(timestampTZOutputLayout), nil
		}
		return x.Format(timestampOutputLayout), nil
	}
	return "", errCoercion(t.Kind, fmt.Sprintf("%T", v))
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

// formatBytea renders bytes as the wire hex literal; empty input renders as
// an empty token.
func formatBytea(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return byteaPrefix + hex.EncodeToString(b)
}
