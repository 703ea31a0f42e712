// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gzipframe

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestCRC32KnownVectors(t *testing.T) {
	cases := []struct {
		in   string
		want uint32
	}{
		{"", 0},
		{"a", 0xe8b7be43},
		{"abc", 0x352441c2},
	}
	for _, c := range cases {
		if got := CRC32([]byte(c.in)); got != c.want {
			t.Errorf("CRC32(%q) = %#08x, want %#08x", c.in, got, c.want)
		}
	}
}

func TestCRC32ConcatenationDiffersFromParts(t *testing.T) {
	// The CRC-32 of a concatenation must differ from the CRC-32 of
	// either part on its own.
	whole := CRC32([]byte("abcdef"))
	if whole == CRC32([]byte("abc")) || whole == CRC32([]byte("def")) {
		t.Fatalf("CRC32 of concatenation unexpectedly matched a part")
	}
}

func TestStreamingCRC32MatchesNibbleTable(t *testing.T) {
	gen := rand.New(rand.NewSource(0x1234))
	large := make([]byte, 5000)
	for i := range large {
		large[i] = byte(gen.Intn(256))
	}

	cases := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("abc"),
		[]byte("hello, gzip"),
		large,
	}
	for _, data := range cases {
		want := CRC32(data)
		got, err := StreamingCRC32(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("StreamingCRC32: %v", err)
		}
		if got != want {
			t.Errorf("StreamingCRC32(%d bytes) = %#08x, want %#08x (from CRC32)", len(data), got, want)
		}
	}
}
