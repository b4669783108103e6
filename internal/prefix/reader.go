// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"bytes"
	"io"
	"strings"

	"github.com/dsnet/huffblock/internal/errors"
	"github.com/icza/bitio"
)

// Reader reads prefix codes from a packed payload, most significant bit first.
// It never reads beyond the number of meaningful bits it was initialized with.
type Reader struct {
	rd      bytes.Reader
	br      *bitio.Reader
	numBits uint64 // Total number of meaningful bits
	offset  uint64 // Number of bits consumed
	padBits uint64 // Number of padding bits in the final byte
}

// Init prepares the Reader to consume nbits bits from buf. The buffer must
// hold exactly the bytes needed for nbits.
func (pr *Reader) Init(buf []byte, nbits uint64) {
	if uint64(len(buf)) != (nbits+7)/8 {
		errors.Panic(errorf(errors.Corrupted, "payload of %d bytes cannot hold %d bits", len(buf), nbits))
	}
	pr.rd.Reset(buf)
	pr.br = bitio.NewReader(&pr.rd)
	pr.numBits = nbits
	pr.offset = 0
	pr.padBits = uint64(len(buf))*8 - nbits
}

// BitsRead reports the number of bits consumed so far.
func (pr *Reader) BitsRead() uint64 { return pr.offset }

// BitsRemaining reports the number of meaningful bits not yet consumed.
func (pr *Reader) BitsRemaining() uint64 { return pr.numBits - pr.offset }

// ReadBits reads nb bits. Reading past the meaningful bits panics with
// io.ErrUnexpectedEOF.
func (pr *Reader) ReadBits(nb uint) uint64 {
	if nb == 0 {
		return 0
	}
	if uint64(nb) > pr.BitsRemaining() {
		errors.Panic(io.ErrUnexpectedEOF)
	}
	v, err := pr.br.ReadBits(uint8(nb))
	errors.PanicIf(err)
	pr.offset += uint64(nb)
	return v
}

// ReadSymbol reads bits one at a time until they form a code known to pd.
// Running out of meaningful bits in the middle of a code is corruption since
// the bit count is exact.
func (pr *Reader) ReadSymbol(pd *Decoder) rune {
	var val, n uint32
	for n < pd.MaxBits() {
		if pr.BitsRemaining() == 0 {
			errors.Panic(errorf(errors.Corrupted, "truncated prefix code %0*b", int(n), val))
		}
		val = val<<1 | uint32(pr.ReadBits(1))
		n++
		if sym, ok := pd.Match(val, n); ok {
			return sym
		}
	}
	errors.Panic(errorf(errors.Corrupted, "invalid prefix code %0*b", int(n), val))
	return 0
}

// ReadPads reads the padding bits that follow the last meaningful bit and
// returns their value, which a well-formed payload keeps at zero.
// It must only be called once every meaningful bit has been read.
func (pr *Reader) ReadPads() uint64 {
	if pr.BitsRemaining() != 0 {
		errors.Panic(errorf(errors.Internal, "%d bits left before padding", pr.BitsRemaining()))
	}
	if pr.padBits == 0 {
		return 0
	}
	v, err := pr.br.ReadBits(uint8(pr.padBits))
	errors.PanicIf(err)
	return v
}

// Unpack renders the first nbits bits of buf as a string of '0' and '1'.
func Unpack(buf []byte, nbits uint64) string {
	var pr Reader
	pr.Init(buf[:(nbits+7)/8], nbits)
	var sb strings.Builder
	for pr.BitsRemaining() > 0 {
		sb.WriteByte('0' + byte(pr.ReadBits(1)))
	}
	return sb.String()
}
