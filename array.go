// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"errors"
	"strings"
)

type arrayElement struct {
	raw    string
	quoted bool
}

var (
	errArrayNotBracketed = errors.New("array literal must be enclosed in brackets")
	errArrayUnbalanced   = errors.New("unbalanced brackets in array literal")
	errArrayUnterminated = errors.New("unterminated quote in array literal")
)

func closingBracket(open byte) byte {
	if open == arrayOpenAlt {
		return arrayCloseAlt
	}
	return arrayClose
}

// splitArray splits one array literal into its raw elements. Nested literals
// and quoted elements are kept whole; escapes are skipped, not decoded.
func splitArray(token string) ([]arrayElement, error) {
	s := strings.TrimSpace(token)
	if len(s) < 2 || (s[0] != arrayOpen && s[0] != arrayOpenAlt) || s[len(s)-1] != closingBracket(s[0]) {
		return nil, errArrayNotBracketed
	}
	inner := s[1 : len(s)-1]
	elements := make([]arrayElement, 0, 4)
	if strings.TrimSpace(inner) == "" {
		return elements, nil
	}
	var quote byte
	depth := 0
	start := 0
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == escapeChar {
			i++
			continue
		}
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case arrayOpen, arrayOpenAlt:
			depth++
		case arrayClose, arrayCloseAlt:
			depth--
			if depth < 0 {
				return nil, errArrayUnbalanced
			}
		case arraySeparator:
			if depth == 0 {
				elements = append(elements, newArrayElement(inner[start:i]))
				start = i + 1
			}
		}
	}
	if quote != 0 {
		return nil, errArrayUnterminated
	}
	if depth != 0 {
		return nil, errArrayUnbalanced
	}
	return append(elements, newArrayElement(inner[start:])), nil
}

func newArrayElement(raw string) arrayElement {
	e := strings.TrimSpace(raw)
	if n := len(e); n >= 2 && (e[0] == '"' || e[0] == '\'') && e[n-1] == e[0] && !danglingEscape(e[:n-1]) {
		return arrayElement{raw: e[1 : n-1], quoted: true}
	}
	return arrayElement{raw: e}
}

// isNull reports whether an unquoted element stands for a null element.
func (e arrayElement) isNull() bool {
	return !e.quoted && (e.raw == NullSentinel || strings.EqualFold(e.raw, "null"))
}

// quoteArrayText renders a text element, quoting it when it would not
// survive splitArray unquoted.
func quoteArrayText(s string) string {
	escaped := escape(s)
	if s != "" && !strings.EqualFold(s, "null") && strings.TrimSpace(s) == s &&
		!strings.ContainsAny(s, `,"'{}[]`) {
		return escaped
	}
	return `"` + strings.ReplaceAll(escaped, `"`, `\"`) + `"`
}
