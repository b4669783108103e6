// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package binio reads and writes the fixed-width values and UTF-8 code points
// that make up a container header.
//
// All integers are little-endian. Like the rest of the internal packages,
// the Reader and Writer report I/O failures by panicking through
// errors.Panic; the public API is responsible for recovering.
package binio

import (
	"encoding/binary"
	"io"
	"unicode/utf8"

	"github.com/dsnet/huffblock/internal/errors"
)

// ByteReader is the read interface required by Reader.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

type Writer struct {
	wr  io.Writer
	cnt int64
	buf [utf8.UTFMax + 4]byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{wr: w}
}

// Offset reports the number of bytes written so far.
func (bw *Writer) Offset() int64 { return bw.cnt }

func (bw *Writer) write(b []byte) {
	n, err := bw.wr.Write(b)
	bw.cnt += int64(n)
	errors.PanicIf(err)
}

func (bw *Writer) WriteUint8(v uint8) {
	bw.buf[0] = v
	bw.write(bw.buf[:1])
}

func (bw *Writer) WriteInt8(v int8) { bw.WriteUint8(uint8(v)) }

func (bw *Writer) WriteUint16(v uint16) {
	binary.LittleEndian.PutUint16(bw.buf[:2], v)
	bw.write(bw.buf[:2])
}

func (bw *Writer) WriteUint32(v uint32) {
	binary.LittleEndian.PutUint32(bw.buf[:4], v)
	bw.write(bw.buf[:4])
}

func (bw *Writer) WriteUint64(v uint64) {
	binary.LittleEndian.PutUint64(bw.buf[:8], v)
	bw.write(bw.buf[:8])
}

// WriteRune writes r in its UTF-8 form.
func (bw *Writer) WriteRune(r rune) {
	n := utf8.EncodeRune(bw.buf[:], r)
	bw.write(bw.buf[:n])
}

func (bw *Writer) WriteBytes(b []byte) {
	if len(b) > 0 {
		bw.write(b)
	}
}

type Reader struct {
	rd  ByteReader
	cnt int64
	buf [8]byte
}

func NewReader(r ByteReader) *Reader {
	return &Reader{rd: r}
}

// Offset reports the number of bytes consumed so far.
func (br *Reader) Offset() int64 { return br.cnt }

func (br *Reader) read(n int) []byte {
	m, err := io.ReadFull(br.rd, br.buf[:n])
	br.cnt += int64(m)
	errors.PanicIf(err)
	return br.buf[:n]
}

func (br *Reader) ReadUint8() uint8 {
	c, err := br.rd.ReadByte()
	errors.PanicIf(err)
	br.cnt++
	return c
}

func (br *Reader) ReadInt8() int8 { return int8(br.ReadUint8()) }

func (br *Reader) ReadUint16() uint16 {
	return binary.LittleEndian.Uint16(br.read(2))
}

func (br *Reader) ReadUint32() uint32 {
	return binary.LittleEndian.Uint32(br.read(4))
}

func (br *Reader) ReadUint64() uint64 {
	return binary.LittleEndian.Uint64(br.read(8))
}

// ReadRune reads a single UTF-8 encoded code point.
// It reports ok as false if the bytes do not form a valid encoding.
func (br *Reader) ReadRune() (r rune, ok bool) {
	var b [utf8.UTFMax]byte
	b[0] = br.ReadUint8()
	n := runeLen(b[0])
	if n == 0 {
		return utf8.RuneError, false
	}
	for i := 1; i < n; i++ {
		b[i] = br.ReadUint8()
	}
	r, size := utf8.DecodeRune(b[:n])
	if r == utf8.RuneError && size <= 1 || size != n {
		return utf8.RuneError, false
	}
	return r, true
}

// ReadBytes reads exactly n bytes. The buffer grows as data arrives so that
// a corrupted length cannot trigger a huge allocation up front.
func (br *Reader) ReadBytes(n int64) []byte {
	const maxPrealloc = 1 << 16
	var b []byte
	if n <= maxPrealloc {
		b = make([]byte, 0, n)
	}
	for int64(len(b)) < n {
		var chunk [4096]byte
		want := n - int64(len(b))
		if want > int64(len(chunk)) {
			want = int64(len(chunk))
		}
		m, err := io.ReadFull(br.rd, chunk[:want])
		b = append(b, chunk[:m]...)
		br.cnt += int64(m)
		errors.PanicIf(err)
	}
	return b
}

// runeLen reports the length of the UTF-8 sequence started by the lead byte c
// or zero if c cannot start a sequence.
func runeLen(c byte) int {
	switch {
	case c < 0x80:
		return 1
	case c&0xe0 == 0xc0:
		return 2
	case c&0xf0 == 0xe0:
		return 3
	case c&0xf8 == 0xf0:
		return 4
	default:
		return 0
	}
}
