// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"bytes"
	"fmt"

	"github.com/dsnet/huffblock/internal/errors"
	"github.com/icza/bitio"
)

// Writer packs prefix codes into an in-memory buffer, most significant bit
// first. The exact number of bits written is tracked separately from the
// buffer, which is padded with zero bits up to the next byte boundary.
type Writer struct {
	buf     bytes.Buffer
	bw      *bitio.Writer
	numBits uint64
}

// Init resets the Writer for a new payload.
func (pw *Writer) Init() {
	pw.buf.Reset()
	pw.bw = bitio.NewWriter(&pw.buf)
	pw.numBits = 0
}

// BitsWritten reports the number of bits written since Init.
func (pw *Writer) BitsWritten() uint64 { return pw.numBits }

// WriteBits writes the lower nb bits of v.
func (pw *Writer) WriteBits(v uint64, nb uint) {
	if nb == 0 {
		return
	}
	errors.PanicIf(pw.bw.WriteBits(v, uint8(nb)))
	pw.numBits += uint64(nb)
}

// WriteSymbol writes the prefix code of sym.
func (pw *Writer) WriteSymbol(sym rune, pe *Encoder) {
	val, n, ok := pe.Lookup(sym)
	if !ok {
		errors.Panic(errorf(errors.Internal, "no code for symbol %q", sym))
	}
	pw.WriteBits(uint64(val), uint(n))
}

// Finish pads the final byte with zeros and returns the packed bytes together
// with the number of meaningful bits. The returned slice is only valid until
// the next call to Init.
func (pw *Writer) Finish() ([]byte, uint64) {
	errors.PanicIf(pw.bw.Close())
	return pw.buf.Bytes(), pw.numBits
}

// Pack concatenates bit strings such as "0110" and returns the packed bytes
// and the total number of bits.
func Pack(bits ...string) (buf []byte, nbits uint64) {
	var pw Writer
	pw.Init()
	for _, s := range bits {
		for _, c := range s {
			switch c {
			case '0':
				pw.WriteBits(0, 1)
			case '1':
				pw.WriteBits(1, 1)
			default:
				panic(fmt.Sprintf("prefix: invalid bit %q", c))
			}
		}
	}
	buf, nbits = pw.Finish()
	return append([]byte(nil), buf...), nbits
}
