// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package testutil provides fixture helpers shared by this module's
// tests, mirroring cmd/pbzip2/internal's test_util.go.
package testutil

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"math/rand"
	"os"
)

// fixedRandSeed matches cmd/pbzip2/internal's fixdRandSeed constant
// in spirit: a hardcoded seed so golden data is reproducible run to run.
const fixedRandSeed = 0x1234

// GenPredictableRandomData generates random data starting from a fixed,
// known seed, the same role cmd/pbzip2/internal.GenPredictableRandomData
// plays for its own tests.
func GenPredictableRandomData(size int) []byte {
	gen := rand.New(rand.NewSource(fixedRandSeed))
	out := make([]byte, size)
	for i := range out {
		out[i] = byte(gen.Intn(256))
	}
	return out
}

// CreateGzipFile writes data to filename+".gz" as a single gzip member,
// using the standard library's compress/gzip writer purely as a test
// fixture encoder (the decoder under test never imports compress/gzip).
// It mirrors the role of cmd/pbzip2/internal.CreateBzipFile, which
// shells out to the real bzip2 binary; gzip encoding has no comparable
// external-dependency concern so it is produced in-process instead.
func CreateGzipFile(filename, name string, data []byte) error {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("gzip.NewWriterLevel: %v", err)
	}
	zw.Name = name
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("write gzip payload: %v", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close gzip writer: %v", err)
	}
	if err := os.WriteFile(filename+".gz", buf.Bytes(), 0660); err != nil {
		return fmt.Errorf("write file: %v: %v", filename, err)
	}
	return nil
}

// FirstN returns at most the first n bytes of b, for readable test
// failure messages on long buffers.
func FirstN(n int, b []byte) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
