// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compress reads and writes compressed files in the encodings
// response files may use.
//
// # Supported Encodings
//
//   - zstd (Zstandard), extension .zst
//   - gzip, extension .gz
//   - deflate (zlib framing), extension .zz
//
// # Reading
//
// Open detects the encoding from the file's magic bytes, falling back to its
// extension, and returns a reader of the decompressed content:
//
//	r, err := compress.Open("args.rsp.zst")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//
// NewReader wraps an existing stream when the encoding is already known.
//
// # Writing
//
// NewWriter wraps a writer with a compressor; Close flushes it:
//
//	w, err := compress.NewWriter(f, compress.EncodingForPath(f.Name()))
package compress
