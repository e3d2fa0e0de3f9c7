// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the compression of a result stream.
type Compression string

// supported compressions
const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
	// CompressionAuto detects the compression from the first bytes.
	CompressionAuto Compression = "auto"
)

const (
	mimeGzip = "application/gzip"
	mimeZstd = "application/zstd"
	// sniffLen bytes at most are inspected when detecting the compression
	sniffLen = 512
	// magicLen bytes cover the magic number of every supported format
	magicLen = 4
)

var lz4FrameMagic = []byte{0x04, 0x22, 0x4d, 0x18}

func (c Compression) valid() bool {
	switch Compression(strings.ToLower(string(c))) {
	case CompressionNone, CompressionGzip, CompressionZstd, CompressionLZ4, CompressionAuto:
		return true
	}
	return false
}

// ParseCompression returns the compression named s.
func ParseCompression(s string) (Compression, error) {
	c := Compression(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return CompressionNone, nil
	}
	if !c.valid() {
		return "", errConfig(nil, errMsgUnknownCompression, s)
	}
	return c, nil
}

// detectCompression sniffs the compression of a stream from its first bytes.
func detectCompression(head []byte) Compression {
	if bytes.HasPrefix(head, lz4FrameMagic) {
		return CompressionLZ4
	}
	mtype := mimetype.Detect(head)
	switch {
	case mtype.Is(mimeGzip):
		return CompressionGzip
	case mtype.Is(mimeZstd):
		return CompressionZstd
	}
	return CompressionNone
}

// decompressedReader closes both the decompressor and the source.
type decompressedReader struct {
	io.Reader
	closers []func() error
}

func (r *decompressedReader) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// decompress wraps src in the decompressor of c. The returned reader closes
// src when src is an io.Closer.
func decompress(src io.Reader, c Compression) (io.ReadCloser, error) {
	closers := make([]func() error, 0, 2)
	if closer, ok := src.(io.Closer); ok {
		closers = append(closers, closer.Close)
	}
	c = Compression(strings.ToLower(string(c)))
	if c == CompressionAuto {
		br := bufio.NewReaderSize(src, sniffLen)
		// only wait for the magic number; a live stream may not have more yet
		head, err := br.Peek(magicLen)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, errStream(err)
		}
		if err == nil {
			head, _ = br.Peek(br.Buffered())
		}
		c = detectCompression(head)
		logger.Debugf("detected stream compression: %v", c)
		src = br
	}
	switch c {
	case CompressionNone, "":
		return &decompressedReader{Reader: src, closers: closers}, nil
	case CompressionGzip:
		zr, err := gzip.NewReader(src)
		if err != nil {
			return nil, errStream(err)
		}
		return &decompressedReader{Reader: zr, closers: append([]func() error{zr.Close}, closers...)}, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(src)
		if err != nil {
			return nil, errStream(err)
		}
		closeZstd := func() error {
			zr.Close()
			return nil
		}
		return &decompressedReader{Reader: zr, closers: append([]func() error{closeZstd}, closers...)}, nil
	case CompressionLZ4:
		return &decompressedReader{Reader: lz4.NewReader(src), closers: closers}, nil
	}
	return nil, errConfig(nil, errMsgUnknownCompression, c)
}

// NewCompressWriter wraps dst in the compressor of c. Closing the returned writer
// flushes the compressor but leaves dst open.
func NewCompressWriter(dst io.Writer, c Compression) (io.WriteCloser, error) {
	switch Compression(strings.ToLower(string(c))) {
	case CompressionNone, "":
		return nopWriteCloser{dst}, nil
	case CompressionGzip:
		return gzip.NewWriter(dst), nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(dst)
		if err != nil {
			return nil, err
		}
		return zw, nil
	case CompressionLZ4:
		return lz4.NewWriter(dst), nil
	}
	return nil, errConfig(nil, errMsgUnknownCompression, c)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
