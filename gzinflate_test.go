// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gzinflate_test

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"strings"
	"testing"

	"github.com/arlofuchs/gzinflate"
)

// bitWriter is the same small DEFLATE bit assembler used in
// internal/inflate's tests, duplicated here because this package's
// black-box tests can't reach an internal package's unexported helpers.
type bitWriter struct {
	buf     []byte
	cur     uint32
	curBits uint
}

func (w *bitWriter) writeBits(value uint32, n uint) {
	w.cur |= (value & (1<<n - 1)) << w.curBits
	w.curBits += n
	for w.curBits >= 8 {
		w.buf = append(w.buf, byte(w.cur))
		w.cur >>= 8
		w.curBits -= 8
	}
}

func (w *bitWriter) writeCode(code uint32, nbits uint) {
	for i := int(nbits) - 1; i >= 0; i-- {
		w.writeBits((code>>uint(i))&1, 1)
	}
}

func (w *bitWriter) bytes() []byte {
	if w.curBits > 0 {
		w.buf = append(w.buf, byte(w.cur))
	}
	return w.buf
}

func fixedLitCode(sym int) (uint32, uint) {
	switch {
	case sym <= 143:
		return uint32(0x30 + sym), 8
	case sym <= 255:
		return uint32(0x190 + sym - 144), 9
	case sym <= 279:
		return uint32(sym - 256), 7
	default:
		return uint32(0xC0 + sym - 280), 8
	}
}

// deflateLiterals builds a single final fixed-Huffman block containing
// nothing but literal bytes, terminated by the end-of-block symbol.
func deflateLiterals(data []byte) []byte {
	var w bitWriter
	w.writeBits(1, 1) // BFINAL
	w.writeBits(1, 2) // BTYPE = fixed
	for _, b := range data {
		code, n := fixedLitCode(int(b))
		w.writeCode(code, n)
	}
	code, n := fixedLitCode(256)
	w.writeCode(code, n)
	return w.bytes()
}

// deflateStored builds a single final stored block carrying data
// verbatim.
func deflateStored(data []byte) []byte {
	var w bitWriter
	w.writeBits(1, 1) // BFINAL
	w.writeBits(0, 2) // BTYPE = stored
	payload := w.bytes()
	length := uint16(len(data))
	payload = append(payload, byte(length), byte(length>>8), byte(^length), byte(^length>>8))
	payload = append(payload, data...)
	return payload
}

// buildGzip wraps a raw DEFLATE payload in a minimal gzip header and a
// trailer computed independently via the standard library's CRC-32, so
// these tests don't depend on the package under test to produce their
// own expected values.
func buildGzip(payload []byte, uncompressed []byte) []byte {
	out := []byte{0x1F, 0x8B, 0x08, 0x00, 0, 0, 0, 0, 0, 0x03}
	out = append(out, payload...)
	var trailer [8]byte
	binary.LittleEndian.PutUint32(trailer[0:4], crc32.ChecksumIEEE(uncompressed))
	binary.LittleEndian.PutUint32(trailer[4:8], uint32(len(uncompressed)))
	return append(out, trailer[:]...)
}

func TestDecompressGzipEmpty(t *testing.T) {
	stream := buildGzip(deflateStored(nil), nil)
	dst := make([]byte, 0)
	n, err := gzinflate.DecompressGzip(stream, dst)
	if err != nil {
		t.Fatalf("DecompressGzip: %v", err)
	}
	if n != 0 {
		t.Fatalf("n = %v, want 0", n)
	}
}

func TestDecompressGzipSingleByte(t *testing.T) {
	stream := buildGzip(deflateStored([]byte("a")), []byte("a"))
	dst := make([]byte, 1)
	n, err := gzinflate.DecompressGzip(stream, dst)
	if err != nil {
		t.Fatalf("DecompressGzip: %v", err)
	}
	if string(dst[:n]) != "a" {
		t.Fatalf("got %q, want %q", dst[:n], "a")
	}
}

func TestDecompressGzipLiterals(t *testing.T) {
	want := "hello, gzip"
	stream := buildGzip(deflateLiterals([]byte(want)), []byte(want))
	dst := make([]byte, len(want))
	n, err := gzinflate.DecompressGzip(stream, dst)
	if err != nil {
		t.Fatalf("DecompressGzip: %v", err)
	}
	if string(dst[:n]) != want {
		t.Fatalf("got %q, want %q", dst[:n], want)
	}
}

func TestDecompressGzipBadMethod(t *testing.T) {
	stream := buildGzip(deflateStored([]byte("a")), []byte("a"))
	stream[2] = 0x09 // corrupt the compression method byte
	_, err := gzinflate.DecompressGzip(stream, make([]byte, 1))
	if _, ok := err.(gzinflate.DataError); !ok {
		t.Fatalf("err = %v (%T), want a DataError", err, err)
	}
	if gzinflate.Code(err) != -3 {
		t.Fatalf("Code(err) = %v, want -3", gzinflate.Code(err))
	}
}

func TestDecompressGzipCorruptedTrailer(t *testing.T) {
	stream := buildGzip(deflateStored([]byte("a")), []byte("a"))
	stream[len(stream)-1] ^= 0xFF // corrupt the ISIZE field
	_, err := gzinflate.DecompressGzip(stream, make([]byte, 1))
	if err == nil {
		t.Fatalf("DecompressGzip accepted a corrupted ISIZE trailer")
	}
}

func TestDecompressGzipCorruptedCRC(t *testing.T) {
	stream := buildGzip(deflateStored([]byte("a")), []byte("a"))
	// CRC-32 occupies the first 4 bytes of the 8-byte trailer.
	stream[len(stream)-8] ^= 0xFF
	_, err := gzinflate.DecompressGzip(stream, make([]byte, 1))
	if err == nil {
		t.Fatalf("DecompressGzip accepted a corrupted CRC-32 trailer")
	}
}

func TestDecompressGzipBufferTooSmall(t *testing.T) {
	stream := buildGzip(deflateLiterals([]byte("hello")), []byte("hello"))
	_, err := gzinflate.DecompressGzip(stream, make([]byte, 2))
	if _, ok := err.(gzinflate.BufError); !ok {
		t.Fatalf("err = %v (%T), want a BufError", err, err)
	}
}

func TestInspectGzip(t *testing.T) {
	stream := buildGzip(deflateLiterals([]byte("hi")), []byte("hi"))
	info, err := gzinflate.InspectGzip(stream)
	if err != nil {
		t.Fatalf("InspectGzip: %v", err)
	}
	if info.ISIZE != 2 {
		t.Fatalf("ISIZE = %v, want 2", info.ISIZE)
	}
	if info.CRC32 != crc32.ChecksumIEEE([]byte("hi")) {
		t.Fatalf("CRC32 = %#08x, want %#08x", info.CRC32, crc32.ChecksumIEEE([]byte("hi")))
	}
	if !info.MTime.IsZero() {
		t.Fatalf("MTime = %v, want zero (MTIME field was 0)", info.MTime)
	}
}

func TestInspectGzipNeverRunsTheInflater(t *testing.T) {
	// A payload that would fail to inflate (reserved block type) must
	// still be inspectable, since InspectGzip never touches it.
	var w bitWriter
	w.writeBits(1, 1)
	w.writeBits(3, 2) // reserved block type
	stream := buildGzip(w.bytes(), []byte("whatever"))

	if _, err := gzinflate.InspectGzip(stream); err != nil {
		t.Fatalf("InspectGzip: %v", err)
	}
}

// ExampleDecompressGzip_emptyStream is spec scenario 1: the minimal
// gzip stream, a single fixed-Huffman block holding nothing but the
// end-of-block symbol.
func ExampleDecompressGzip_emptyStream() {
	compressed := []byte{
		0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03,
		0x03, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	n, err := gzinflate.DecompressGzip(compressed, make([]byte, 0))
	fmt.Println(n, err)
	// Output: 0 <nil>
}

// ExampleDecompressGzip_singleByte is spec scenario 2.
func ExampleDecompressGzip_singleByte() {
	stream := buildGzip(deflateLiterals([]byte("a")), []byte("a"))
	dst := make([]byte, 1)
	n, err := gzinflate.DecompressGzip(stream, dst)
	fmt.Printf("%q %v\n", dst[:n], err)
	// Output: "a" <nil>
}

// ExampleDecompressGzip_storedBlock is spec scenario 4.
func ExampleDecompressGzip_storedBlock() {
	stream := buildGzip(deflateStored([]byte("hello")), []byte("hello"))
	dst := make([]byte, 5)
	n, err := gzinflate.DecompressGzip(stream, dst)
	fmt.Printf("%q %v\n", dst[:n], err)
	// Output: "hello" <nil>
}

// ExampleDecompressGzip_corruptedMethod is spec scenario 5.
func ExampleDecompressGzip_corruptedMethod() {
	stream := buildGzip(deflateStored([]byte("a")), []byte("a"))
	stream[2] = 0x09 // CM must be 8 (deflate)
	_, err := gzinflate.DecompressGzip(stream, make([]byte, 1))
	fmt.Println(err)
	// Output: gzip data invalid: unsupported compression method
}

// ExampleDecompressGzip_corruptedTrailer is spec scenario 6: a flipped
// CRC-32 bit is only caught after the whole payload has been inflated.
func ExampleDecompressGzip_corruptedTrailer() {
	stream := buildGzip(deflateStored([]byte("a")), []byte("a"))
	stream[len(stream)-8] ^= 0x01
	dst := make([]byte, 1)
	n, err := gzinflate.DecompressGzip(stream, dst)
	fmt.Println(n, err)
	// Output: 1 gzip data invalid: CRC-32 mismatch
}

func TestDecompressGzipManyLiterals(t *testing.T) {
	want := strings.Repeat("gzip test data ", 50)
	stream := buildGzip(deflateLiterals([]byte(want)), []byte(want))
	dst := make([]byte, len(want))
	n, err := gzinflate.DecompressGzip(stream, dst)
	if err != nil {
		t.Fatalf("DecompressGzip: %v", err)
	}
	if string(dst[:n]) != want {
		t.Fatalf("output mismatch on a larger literal-only stream")
	}
}
