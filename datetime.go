// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"errors"
	"strings"
)

// formatTokens maps the elements of SQL style datetime formats to Go layout
// elements. Longer elements come first so they win over their prefixes.
var formatTokens = []struct {
	element string
	layout  string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"HH24", "15"},
	{"HH12", "03"},
	{"MON", "Jan"},
	{"TZH", "Z07"},
	{"TZM", "00"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"DY", "Mon"},
	{"MI", "04"},
	{"SS", "05"},
	{"AM", "PM"},
	{"PM", "PM"},
}

var errFractionSeparator = errors.New("incorrect second fraction - the fraction must be preceded by a comma or a decimal point")

// SQLFormatToLayout converts a SQL style datetime format such as
// "YYYY-MM-DD HH24:MI:SS.FF3 TZH:TZM" into a Go time layout. FF takes an
// optional digit count, nine by default.
func SQLFormatToLayout(format string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(format); {
		if strings.HasPrefix(format[i:], "FF") {
			if i == 0 || (format[i-1] != '.' && format[i-1] != ',') {
				return "", errFractionSeparator
			}
			i += 2
			digits := 9
			if i < len(format) && format[i] >= '0' && format[i] <= '9' {
				digits = int(format[i] - '0')
				i++
			}
			sb.WriteString(strings.Repeat("0", digits))
			continue
		}
		matched := false
		for _, tok := range formatTokens {
			if strings.HasPrefix(format[i:], tok.element) {
				sb.WriteString(tok.layout)
				i += len(tok.element)
				matched = true
				break
			}
		}
		if !matched {
			sb.WriteByte(format[i])
			i++
		}
	}
	return sb.String(), nil
}
