// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package gzinflate implements a streaming DEFLATE decoder (RFC 1951)
// wrapped in gzip container framing (RFC 1952). It decompresses a
// complete gzip member held in memory into a caller-provided
// destination buffer; it does not compress, does not understand the
// zlib wrapper, and does not follow multiple concatenated gzip members
// in one stream.
package gzinflate

import (
	"github.com/arlofuchs/gzinflate/internal/gzerr"
	"github.com/arlofuchs/gzinflate/internal/gzipframe"
	"github.com/arlofuchs/gzinflate/internal/inflate"
)

// DecompressGzip decompresses the gzip-framed compressed bytes into
// dest, returning the number of bytes written. It never writes past
// len(dest); if dest is too small it returns a BufError without the
// caller needing to inspect bytesWritten (though the bytes actually
// written, now invalid, remain in place).
func DecompressGzip(compressed []byte, dest []byte) (bytesWritten int, err error) {
	hdr, err := gzipframe.ParseHeader(compressed)
	if err != nil {
		return 0, err
	}
	payloadEnd := gzipframe.PayloadEnd(compressed)
	if payloadEnd < hdr.PayloadOffset {
		return 0, gzerr.DataError("truncated gzip stream")
	}

	st := inflate.New(compressed[hdr.PayloadOffset:payloadEnd], dest)
	n, err := st.Run()
	if err != nil {
		return n, err
	}

	trailer, err := gzipframe.ParseTrailer(compressed)
	if err != nil {
		return n, err
	}
	if err := gzipframe.Verify(trailer, dest[:n]); err != nil {
		return n, err
	}
	return n, nil
}
