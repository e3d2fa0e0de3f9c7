// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

// responseLogger writes the raw lines of a stream to the debug log as the
// tokenizer reads them.
type responseLogger struct {
	entry LogEntry
	lines int64
}

func newResponseLogger(cursorID string, queryID string) *responseLogger {
	return &responseLogger{
		entry: logger.WithFields(map[string]any{
			"cursor_id": cursorID,
			"query_id":  queryID,
		}),
	}
}

func (rl *responseLogger) logLine(line string) {
	rl.lines++
	rl.entry.Debugf("response line %v: %v", rl.lines, line)
}
