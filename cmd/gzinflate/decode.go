// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"github.com/arlofuchs/gzinflate"
)

// defaultInitialBufferFactor and defaultMaxBufferBytes bound the
// grow-and-retry strategy below: gzinflate.DecompressGzip takes a
// fixed-size destination and reports a BufError rather than growing it
// itself (the core has no allocator opinion, per its design), so any
// caller that doesn't already know the uncompressed size has to guess
// and retry. Both are overridable per call via decodeOption.
const (
	defaultInitialBufferFactor = 4
	defaultMaxBufferBytes      = 4 << 30 // 4GiB: a generous but finite backstop
)

// decodeOpts holds decompressGrowing's tunables. It is unexported; the
// only way to set it is through a decodeOption, the same pattern
// parallel.go uses for decompressorOpts and DecompressorOption.
type decodeOpts struct {
	initialBufferFactor int
	maxBufferBytes      int
}

// decodeOption configures decompressGrowing, mirroring the shape of
// cmd/pbzip2's BZVerbose/BZConcurrency DecompressorOption closures.
type decodeOption func(*decodeOpts)

// withInitialBufferFactor sets the multiple of the compressed size used
// to size the first decompression attempt.
func withInitialBufferFactor(f int) decodeOption {
	return func(o *decodeOpts) { o.initialBufferFactor = f }
}

// withMaxBufferBytes caps how large decompressGrowing will grow its
// destination buffer before giving up.
func withMaxBufferBytes(n int) decodeOption {
	return func(o *decodeOpts) { o.maxBufferBytes = n }
}

// decompressGrowing repeatedly doubles dst and retries DecompressGzip
// until it succeeds, fails with an error other than BufError, or the
// configured maxBufferBytes is reached. The ISIZE field a gzip
// stream reports is only a hint (it is the true size mod 2^32) so it is
// used to size the first attempt, not trusted as a hard bound.
func decompressGrowing(compressed []byte, opts ...decodeOption) ([]byte, int, error) {
	o := decodeOpts{
		initialBufferFactor: defaultInitialBufferFactor,
		maxBufferBytes:      defaultMaxBufferBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}

	size := len(compressed) * o.initialBufferFactor
	if info, err := gzinflate.InspectGzip(compressed); err == nil && int64(info.ISIZE) > int64(size) {
		size = int(info.ISIZE)
	}
	if size == 0 {
		size = 64
	}

	for {
		dst := make([]byte, size)
		n, err := gzinflate.DecompressGzip(compressed, dst)
		if err == nil {
			return dst[:n], n, nil
		}
		if _, ok := err.(gzinflate.BufError); !ok {
			return nil, 0, err
		}
		if size >= o.maxBufferBytes {
			return nil, 0, err
		}
		size *= 2
		if size > o.maxBufferBytes {
			size = o.maxBufferBytes
		}
	}
}
