// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package gzerr defines the three error kinds the decoder ever produces,
// each carrying the legacy sentinel integer code alongside a Go error so
// existing callers of the C reference's tinf_error_code can be mapped
// over without reintroducing string matching.
package gzerr

// DataError is returned when the compressed stream violates the gzip or
// DEFLATE format: bad magic, reserved flags, malformed Huffman tables,
// reserved block types, bad back-reference distances, or a CRC/ISIZE
// mismatch. It is always terminal; there is no partial recovery.
type DataError string

func (e DataError) Error() string { return "gzip data invalid: " + string(e) }

// Code returns the legacy tinf_error_code value for DATA_ERROR.
func (DataError) Code() int { return -3 }

// BufError is returned when the destination buffer is too small to hold
// the decompressed output.
type BufError string

func (e BufError) Error() string { return "gzip destination buffer too small: " + string(e) }

// Code returns the legacy tinf_error_code value for BUF_ERROR.
func (BufError) Code() int { return -5 }

// FileError is reserved for external collaborators (open/read/write
// failures); the core decoder never produces it directly.
type FileError string

func (e FileError) Error() string { return "gzip file error: " + string(e) }

// Code returns the legacy tinf_error_code value for FILE_ERROR.
func (FileError) Code() int { return -7 }

// Coder is satisfied by all three error kinds above.
type Coder interface {
	error
	Code() int
}
