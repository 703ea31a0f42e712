// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gzinflate

import "github.com/arlofuchs/gzinflate/internal/gzerr"

// DataError, BufError and FileError are the three error kinds of the
// decoder's error taxonomy (spec §7); DecompressGzip itself only returns
// DataError and BufError, FileError being left to callers doing file I/O.
// They are type aliases over the
// internal package so that internal/inflate and internal/gzipframe can
// construct them directly without an import cycle back through this
// package.
type (
	DataError = gzerr.DataError
	BufError  = gzerr.BufError
	FileError = gzerr.FileError
)

// Code returns the legacy tinf_error_code sentinel (0, -3, -5 or -7) for
// err, for callers that still need the C reference's integer taxonomy,
// e.g. a CLI's process exit code. A nil err maps to 0.
func Code(err error) int {
	if err == nil {
		return 0
	}
	if c, ok := err.(gzerr.Coder); ok {
		return c.Code()
	}
	return -3
}
