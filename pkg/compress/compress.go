// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compress

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Supported encodings. Identity is the empty string.
const (
	Zstd    = "zstd"
	Gzip    = "gzip"
	Deflate = "deflate"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	// zlibLevels are the second header bytes zlib writes for a 32K window.
	zlibLevels = []byte{0x01, 0x5e, 0x9c, 0xda}
)

// DetectEncoding returns the encoding of a stream starting with header, or
// "" if it does not look compressed.
func DetectEncoding(header []byte) string {
	switch {
	case bytes.HasPrefix(header, zstdMagic):
		return Zstd
	case bytes.HasPrefix(header, gzipMagic):
		return Gzip
	case len(header) >= 2 && header[0] == 0x78 && bytes.IndexByte(zlibLevels, header[1]) >= 0:
		return Deflate
	}
	return ""
}

// EncodingForPath returns the encoding implied by path's extension.
func EncodingForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return Zstd
	case ".gz", ".gzip":
		return Gzip
	case ".zz", ".deflate":
		return Deflate
	}
	return ""
}

// NewReader wraps r with a decompressor for encoding. An empty or "identity"
// encoding returns r unchanged.
func NewReader(r io.Reader, encoding string) (io.ReadCloser, error) {
	var (
		reader io.ReadCloser
		err    error
	)
	switch encoding {
	case "", "identity":
		return io.NopCloser(r), nil
	case Gzip:
		reader, err = gzip.NewReader(r)
	case Deflate:
		reader, err = zlib.NewReader(r)
	case Zstd:
		var zr *zstd.Decoder
		zr, err = zstd.NewReader(r)
		if err == nil {
			reader = zr.IOReadCloser()
		}
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create decompressor for %s: %w", encoding, err)
	}
	return reader, nil
}

// NewWriter wraps w with a compressor for encoding. Closing the returned
// writer flushes the compressor but does not close w.
func NewWriter(w io.Writer, encoding string) (io.WriteCloser, error) {
	switch encoding {
	case "", "identity":
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Deflate:
		return zlib.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	}
	return nil, fmt.Errorf("unsupported encoding %q", encoding)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Open opens the file at path and decompresses it if its content, or failing
// that its extension, says it is compressed.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	header, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, err
	}
	encoding := DetectEncoding(header)
	if encoding == "" {
		encoding = EncodingForPath(path)
	}
	reader, err := NewReader(br, encoding)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &closeWrapper{ReadCloser: reader, onClose: f.Close}, nil
}

// closeWrapper wraps an io.ReadCloser and calls an additional function on Close.
type closeWrapper struct {
	io.ReadCloser
	onClose func() error
}

func (cw *closeWrapper) Close() error {
	err1 := cw.ReadCloser.Close()
	err2 := cw.onClose()
	return errors.Join(err1, err2)
}
