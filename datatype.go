// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/boltstream/gobolt/boltloc"
)

// Kind is the semantic kind of a column type.
type Kind int

const (
	// NothingKind is the type of a column that only holds nulls.
	NothingKind Kind = iota
	// Int16Kind is a 16-bit signed integer.
	Int16Kind
	// Int32Kind is a 32-bit signed integer.
	Int32Kind
	// Int64Kind is a 64-bit signed integer.
	Int64Kind
	// Float32Kind is a single precision float.
	Float32Kind
	// Float64Kind is a double precision float.
	Float64Kind
	// DecimalKind is a fixed-point number with a precision and a scale.
	DecimalKind
	// TextKind is a string.
	TextKind
	// BooleanKind is a boolean.
	BooleanKind
	// BytesKind is a byte string transferred as a hex literal.
	BytesKind
	// DateKind is a calendar date without time zone.
	DateKind
	// TimeKind is a time of day without time zone.
	TimeKind
	// TimestampKind is a timestamp without time zone.
	TimestampKind
	// TimestampTZKind is a timestamp carrying its own offset.
	TimestampTZKind
	// ArrayKind is an array of an element type.
	ArrayKind
)

var kindNames = map[Kind]string{
	NothingKind:     "nothing",
	Int16Kind:       "int16",
	Int32Kind:       "int32",
	Int64Kind:       "int64",
	Float32Kind:     "float32",
	Float64Kind:     "float64",
	DecimalKind:     "decimal",
	TextKind:        "text",
	BooleanKind:     "boolean",
	BytesKind:       "bytea",
	DateKind:        "date",
	TimeKind:        "time",
	TimestampKind:   "timestamp",
	TimestampTZKind: "timestamptz",
	ArrayKind:       "array",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Type describes a column type. Array types nest through Elem to any depth.
type Type struct {
	Kind      Kind
	Precision int
	Scale     int
	Elem      *Type
	// Location is set on zoned timestamp types declared with a zone name;
	// tokens without an offset are read in it.
	Location *time.Location
}

const (
	defaultDecimalPrecision = 38
	defaultDecimalScale     = 0
	maxDecimalPrecision     = 76
)

// typeAliases maps the scalar tags to their kind.
var typeAliases = map[string]Kind{
	"smallint":                 Int16Kind,
	"int16":                    Int16Kind,
	"short":                    Int16Kind,
	"int":                      Int32Kind,
	"integer":                  Int32Kind,
	"int32":                    Int32Kind,
	"int4":                     Int32Kind,
	"bigint":                   Int64Kind,
	"long":                     Int64Kind,
	"int64":                    Int64Kind,
	"float":                    Float32Kind,
	"float32":                  Float32Kind,
	"real":                     Float32Kind,
	"float4":                   Float32Kind,
	"double":                   Float64Kind,
	"float64":                  Float64Kind,
	"double precision":         Float64Kind,
	"float8":                   Float64Kind,
	"decimal":                  DecimalKind,
	"numeric":                  DecimalKind,
	"text":                     TextKind,
	"string":                   TextKind,
	"varchar":                  TextKind,
	"char":                     TextKind,
	"boolean":                  BooleanKind,
	"bool":                     BooleanKind,
	"bytea":                    BytesKind,
	"binary":                   BytesKind,
	"date":                     DateKind,
	"date32":                   DateKind,
	"pgdate":                   DateKind,
	"date_ext":                 DateKind,
	"time":                     TimeKind,
	"timestamp":                TimestampKind,
	"datetime":                 TimestampKind,
	"timestampntz":             TimestampKind,
	"timestamp_ext":            TimestampKind,
	"datetime64":               TimestampKind,
	"timestamptz":              TimestampTZKind,
	"timestamp with time zone": TimestampTZKind,
	"nothing":                  NothingKind,
	"null":                     NothingKind,
}

// ParseType resolves a wire type tag into its descriptor.
func ParseType(tag string) (*Type, error) {
	t, _, err := parseColumnType(tag)
	return t, err
}

// parseColumnType resolves a header type tag, also reporting whether the
// column is declared nullable.
func parseColumnType(tag string) (*Type, bool, error) {
	s := strings.TrimSpace(tag)
	lower := strings.ToLower(s)
	nullable := false
	switch {
	case strings.HasSuffix(lower, " not null"):
		s = strings.TrimSpace(s[:len(s)-len(" not null")])
	case strings.HasSuffix(lower, " null") && lower != "null":
		s = strings.TrimSpace(s[:len(s)-len(" null")])
		nullable = true
	}
	if name, arg, ok := splitTypeArgs(s); ok && name == "nullable" {
		s = arg
		nullable = true
	}
	t, err := resolveType(s, tag)
	if err != nil {
		return nil, false, err
	}
	if t.Kind == NothingKind {
		nullable = true
	}
	return t, nullable, nil
}

func resolveType(s string, tag string) (*Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errUnsupportedType(tag)
	}
	if kind, ok := typeAliases[strings.ToLower(s)]; ok {
		t := &Type{Kind: kind}
		if kind == DecimalKind {
			t.Precision, t.Scale = defaultDecimalPrecision, defaultDecimalScale
		}
		return t, nil
	}
	name, arg, ok := splitTypeArgs(s)
	if !ok {
		return nil, errUnsupportedType(tag)
	}
	switch name {
	case "array":
		elem, err := resolveType(arg, tag)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: ArrayKind, Elem: elem}, nil
	case "nullable":
		// nested nullability only matters for the column itself
		return resolveType(arg, tag)
	case "decimal", "numeric":
		return parseDecimalArgs(arg, tag)
	case "varchar", "char", "text", "string":
		if _, err := strconv.Atoi(strings.TrimSpace(arg)); err != nil {
			return nil, errUnsupportedType(tag)
		}
		return &Type{Kind: TextKind}, nil
	case "datetime64", "timestamp", "timestamptz":
		return parseDatetimeArgs(name, arg, tag)
	}
	return nil, errUnsupportedType(tag)
}

// splitTypeArgs splits "name(arg)" where the parentheses enclose the rest of
// the tag. The name is lower cased, the argument keeps its case.
func splitTypeArgs(s string) (name string, arg string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return "", "", false
			}
		}
		if depth < 0 {
			return "", "", false
		}
	}
	if depth != 0 {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(s[:open])), s[open+1 : len(s)-1], true
}

func parseDecimalArgs(arg string, tag string) (*Type, error) {
	parts := strings.Split(arg, ",")
	if len(parts) > 2 {
		return nil, errUnsupportedType(tag)
	}
	p, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || p < 1 || p > maxDecimalPrecision {
		return nil, errUnsupportedType(tag)
	}
	scale := 0
	if len(parts) == 2 {
		scale, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || scale < 0 || scale > p {
			return nil, errUnsupportedType(tag)
		}
	}
	return &Type{Kind: DecimalKind, Precision: p, Scale: scale}, nil
}

func parseDatetimeArgs(name string, arg string, tag string) (*Type, error) {
	parts := strings.SplitN(arg, ",", 2)
	p, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || p < 0 || p > 9 {
		return nil, errUnsupportedType(tag)
	}
	t := &Type{Kind: TimestampKind, Precision: p}
	if name == "timestamptz" {
		t.Kind = TimestampTZKind
	}
	if len(parts) == 2 {
		zone := strings.Trim(strings.TrimSpace(parts[1]), `'"`)
		loc, err := boltloc.Location(zone)
		if err != nil {
			return nil, errUnsupportedType(tag)
		}
		t.Kind = TimestampTZKind
		t.Location = loc
	}
	return t, nil
}

// String renders the canonical tag of the type.
func (t *Type) String() string {
	switch t.Kind {
	case ArrayKind:
		return "array(" + t.Elem.String() + ")"
	case DecimalKind:
		return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
	case TimestampTZKind:
		if t.Location != nil {
			return fmt.Sprintf("datetime64(%d, '%s')", t.Precision, t.Location)
		}
	}
	return t.Kind.String()
}

// Zoned reports whether values of the type carry an authoritative zone.
func (t *Type) Zoned() bool {
	return t.Kind == TimestampTZKind
}

// Temporal reports whether the type is a date, time or timestamp.
func (t *Type) Temporal() bool {
	switch t.Kind {
	case DateKind, TimeKind, TimestampKind, TimestampTZKind:
		return true
	}
	return false
}

// Dimensions returns the array nesting depth of the type, zero for scalars.
func (t *Type) Dimensions() int {
	n := 0
	for e := t; e.Kind == ArrayKind; e = e.Elem {
		n++
	}
	return n
}

// BaseType returns the innermost element type of an array, or t itself.
func (t *Type) BaseType() *Type {
	e := t
	for e.Kind == ArrayKind {
		e = e.Elem
	}
	return e
}

// scanType translates the type into the Go type its decoded values have.
func (t *Type) scanType() reflect.Type {
	switch t.Kind {
	case Int16Kind:
		return reflect.TypeOf(int16(0))
	case Int32Kind:
		return reflect.TypeOf(int32(0))
	case Int64Kind:
		return reflect.TypeOf(int64(0))
	case Float32Kind:
		return reflect.TypeOf(float32(0))
	case Float64Kind:
		return reflect.TypeOf(float64(0))
	case DecimalKind:
		return reflect.TypeOf(Decimal{})
	case TextKind:
		return reflect.TypeOf("")
	case BooleanKind:
		return reflect.TypeOf(true)
	case BytesKind:
		return reflect.TypeOf([]byte{})
	case DateKind, TimeKind, TimestampKind, TimestampTZKind:
		return reflect.TypeOf(time.Time{})
	case ArrayKind:
		return reflect.TypeOf([]any{})
	}
	return reflect.TypeOf(new(any)).Elem()
}
