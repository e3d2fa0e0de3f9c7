// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package main

import (
	"bytes"
	"io"
	"sync"
)

// sequencer keeps the output of concurrently rendered responses in location
// order. The response at the head writes straight through; the ones behind
// it are buffered until every response before them has finished.
type sequencer struct {
	mu      sync.Mutex
	out     io.Writer
	head    int
	pending []bytes.Buffer
	done    []bool
}

func newSequencer(out io.Writer, n int) *sequencer {
	return &sequencer{
		out:     out,
		pending: make([]bytes.Buffer, n),
		done:    make([]bool, n),
	}
}

func (s *sequencer) writer(i int) io.Writer {
	return &sequencedWriter{seq: s, index: i}
}

// finish marks response i as complete and moves the head past every
// finished response, writing out what the new head buffered so far.
func (s *sequencer) finish(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done[i] = true
	for s.head < len(s.done) && s.done[s.head] {
		s.head++
		if s.head < len(s.pending) {
			if _, err := s.pending[s.head].WriteTo(s.out); err != nil {
				return err
			}
		}
	}
	return nil
}

type sequencedWriter struct {
	seq   *sequencer
	index int
}

func (w *sequencedWriter) Write(p []byte) (int, error) {
	s := w.seq
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.index == s.head {
		return s.out.Write(p)
	}
	return s.pending[w.index].Write(p)
}
