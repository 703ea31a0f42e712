// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gzinflate

import (
	"time"

	"github.com/arlofuchs/gzinflate/internal/gzipframe"
)

// HeaderInspection is the result of InspectGzip: everything that can be
// learned from a gzip stream's header and trailer without running the
// inflater.
type HeaderInspection struct {
	MTime   time.Time
	Name    string
	Comment string
	Extra   []byte
	ISIZE   uint32 // uncompressed size mod 2^32
	CRC32   uint32
}

// InspectGzip reads only the gzip header and trailer of compressed; it
// never invokes the DEFLATE decoder. It is the auxiliary entry point
// from spec §6, useful for e.g. a `list`/`test -l` CLI mode that wants
// the embedded filename and expected size without paying for a full
// decompression.
func InspectGzip(compressed []byte) (HeaderInspection, error) {
	hdr, err := gzipframe.ParseHeader(compressed)
	if err != nil {
		return HeaderInspection{}, err
	}
	trailer, err := gzipframe.ParseTrailer(compressed)
	if err != nil {
		return HeaderInspection{}, err
	}
	return HeaderInspection{
		MTime:   mtimeFromUnix(hdr.MTime),
		Name:    hdr.Name,
		Comment: hdr.Comment,
		Extra:   hdr.Extra,
		ISIZE:   trailer.ISIZE,
		CRC32:   trailer.CRC32,
	}, nil
}

// mtimeFromUnix converts a gzip header MTIME field to a time.Time. A
// zero MTIME (meaning "not available", per RFC 1952 §2.3.1) maps to the
// zero Time rather than the Unix epoch so callers can tell the two
// apart with IsZero.
func mtimeFromUnix(v uint32) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(int64(v), 0).UTC()
}
