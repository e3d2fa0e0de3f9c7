// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"strings"
)

// unescapeMap maps the character following the escape character to the
// character it stands for. Characters not in the table stand for themselves.
var unescapeMap = map[byte]byte{
	't':  '\t',
	'n':  '\n',
	'r':  '\r',
	'0':  0,
	'b':  '\b',
	'f':  '\f',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	',':  ',',
	'{':  '{',
	'}':  '}',
	'[':  '[',
	']':  ']',
}

// escapeMap is the inverse used when rendering text back into a wire token.
var escapeMap = map[byte]byte{
	'\t': 't',
	'\n': 'n',
	'\r': 'r',
	0:    '0',
	'\b': 'b',
	'\f': 'f',
	'\v': 'v',
	'\\': '\\',
}

// unescape decodes a single token. A dangling escape character at the end of
// the token is kept as is.
func unescape(in string) string {
	i := strings.IndexByte(in, escapeChar)
	if i < 0 {
		return in
	}
	var sb strings.Builder
	sb.Grow(len(in))
	start := 0
	for n := len(in); i < n; i++ {
		if in[i] != escapeChar {
			continue
		}
		sb.WriteString(in[start:i])
		if i+1 >= n {
			sb.WriteByte(escapeChar)
			start = n
			break
		}
		i++
		if c, ok := unescapeMap[in[i]]; ok {
			sb.WriteByte(c)
		} else {
			sb.WriteByte(in[i])
		}
		start = i + 1
	}
	sb.WriteString(in[start:])
	return sb.String()
}

// escape renders text so that it survives tokenizing and unescape.
func escape(in string) string {
	needs := false
	for i := 0; i < len(in); i++ {
		if _, ok := escapeMap[in[i]]; ok {
			needs = true
			break
		}
	}
	if !needs {
		return in
	}
	var sb strings.Builder
	sb.Grow(len(in) + 8)
	for i := 0; i < len(in); i++ {
		if c, ok := escapeMap[in[i]]; ok {
			sb.WriteByte(escapeChar)
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte(in[i])
	}
	return sb.String()
}
