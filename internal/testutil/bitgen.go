// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgryski/go-bitstream"
)

var (
	reBin = regexp.MustCompile("^[01]{1,64}$")
	reDec = regexp.MustCompile("^D[0-9]+:[0-9]+$")
	reHex = regexp.MustCompile("^H[0-9]+:[0-9a-fA-F]{1,16}$")
	reInt = regexp.MustCompile("^(U8|U16|U32|U64|I8):-?[0-9]+$")
	reRun = regexp.MustCompile("^R:[0-9a-fA-F]{1,8}$")
	reStr = regexp.MustCompile("^S:.+$")
	reRaw = regexp.MustCompile("^X:[0-9a-fA-F]+$")
	reQnt = regexp.MustCompile("[*][0-9]+$")
)

// DecodeBitGen decodes a BitGen formatted string.
//
// The BitGen format allows containers to be generated from a series of tokens
// describing the bits and bytes of the result. It is designed for testing
// purposes by aiding a human in the manual scripting of corrupted or edge case
// containers. Bits are always packed starting with the most-significant bit
// of each byte.
//
// The format consists of a series of tokens separated by white space of any
// kind. The '#' character is used for commenting. Thus, any bytes on a given
// line that appear after the '#' character is ignored.
//
// A token of the pattern "[01]{1,64}" forms a bit-string (e.g. 11010) whose
// left-most bit is written first.
//
// A token of the pattern "D[0-9]+:[0-9]+" or "H[0-9]+:[0-9a-fA-F]{1,16}"
// represents either a decimal value or a hexadecimal value, respectively.
// The first number is the bit-length (0 to 64) and the second is the value,
// which is written most-significant bit first.
//
// The remaining tokens may only be used when the stream is byte-aligned:
//
//	U8:n U16:n U32:n U64:n  little-endian unsigned integers
//	I8:n                    a signed byte
//	R:hex                   the UTF-8 encoding of a code point
//	S:text                  literal UTF-8 text (no white space)
//	X:hex                   literal bytes
//
// A token decorator of the pattern "[*][0-9]+" may trail any token. This is
// a quantifier decorator which indicates that the current token is to be
// repeated some number of times.
//
// If the total bit-stream does not end on a byte-aligned edge, then the stream
// will automatically be padded up to the nearest byte with 0 bits.
//
// Example BitGen file:
//
//	U64:1          # One block
//	U8:2 S:ab      # Alphabet of two code points
//	U64:2 I8:2 U8:1  # Code lengths: {a:1, b:1}
//	U64:4          # Payload bits
//	0 1 0 1        # "abab"
//
// Generated output stream (in hexadecimal):
//
//	"010000000000000002616202000000000000000201040000000000000050"
func DecodeBitGen(str string) ([]byte, error) {
	// Tokenize the input string by removing comments and superfluous spaces.
	var toks []string
	for _, s := range strings.Split(str, "\n") {
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		toks = append(toks, strings.Fields(s)...)
	}

	var bb bytes.Buffer
	bw := bitBuffer{bw: bitstream.NewWriter(&bb)}
	for _, t := range toks {
		// Check for quantifier decorators.
		rep := 1
		if reQnt.MatchString(t) && !reStr.MatchString(t) {
			i := strings.LastIndexByte(t, '*')
			tt, tn := t[:i], t[i+1:]
			n, err := strconv.Atoi(tn)
			if err != nil {
				return nil, errors.New("testutil: invalid quantified token: " + t)
			}
			t, rep = tt, n
		}

		var err error
		switch {
		case reBin.MatchString(t):
			var v uint64
			for _, b := range t {
				v = v<<1 | uint64(b-'0')
			}
			for i := 0; i < rep; i++ {
				bw.WriteBits(v, len(t))
			}
		case reDec.MatchString(t) || reHex.MatchString(t):
			i := strings.IndexByte(t, ':')
			tb, tn, tv := t[0], t[1:i], t[i+1:]

			base := 10
			if tb == 'H' {
				base = 16
			}

			n, err1 := strconv.Atoi(tn)
			v, err2 := strconv.ParseUint(tv, base, 64)
			if err1 != nil || err2 != nil || n > 64 {
				return nil, errors.New("testutil: invalid numeric token: " + t)
			}
			if n < 64 && v&((1<<uint(n))-1) != v {
				return nil, errors.New("testutil: integer overflow on token: " + t)
			}
			for i := 0; i < rep; i++ {
				bw.WriteBits(v, n)
			}
		case reInt.MatchString(t):
			var b []byte
			if b, err = encodeInt(t); err == nil {
				err = bw.WriteBytes(bytes.Repeat(b, rep))
			}
		case reRun.MatchString(t):
			v, _ := strconv.ParseUint(t[2:], 16, 32)
			if !utf8.ValidRune(rune(v)) {
				return nil, errors.New("testutil: invalid code point token: " + t)
			}
			err = bw.WriteBytes(bytes.Repeat(utf8.AppendRune(nil, rune(v)), rep))
		case reStr.MatchString(t):
			err = bw.WriteBytes([]byte(t[2:]))
		case reRaw.MatchString(t):
			b, herr := hex.DecodeString(t[2:])
			if herr != nil {
				return nil, errors.New("testutil: invalid raw bytes token: " + t)
			}
			err = bw.WriteBytes(bytes.Repeat(b, rep))
		default:
			return nil, errors.New("testutil: invalid token: " + t)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := bw.bw.Flush(bitstream.Zero); err != nil {
		return nil, err
	}
	return bb.Bytes(), nil
}

func encodeInt(t string) ([]byte, error) {
	i := strings.IndexByte(t, ':')
	kind, tv := t[:i], t[i+1:]
	var b [8]byte
	switch kind {
	case "I8":
		v, err := strconv.ParseInt(tv, 10, 8)
		if err != nil {
			return nil, errors.New("testutil: invalid integer token: " + t)
		}
		return []byte{byte(int8(v))}, nil
	case "U8":
		v, err := strconv.ParseUint(tv, 10, 8)
		if err != nil {
			return nil, errors.New("testutil: invalid integer token: " + t)
		}
		return []byte{byte(v)}, nil
	case "U16":
		v, err := strconv.ParseUint(tv, 10, 16)
		if err != nil {
			return nil, errors.New("testutil: invalid integer token: " + t)
		}
		binary.LittleEndian.PutUint16(b[:], uint16(v))
		return b[:2], nil
	case "U32":
		v, err := strconv.ParseUint(tv, 10, 32)
		if err != nil {
			return nil, errors.New("testutil: invalid integer token: " + t)
		}
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		return b[:4], nil
	default:
		v, err := strconv.ParseUint(tv, 10, 64)
		if err != nil {
			return nil, errors.New("testutil: invalid integer token: " + t)
		}
		binary.LittleEndian.PutUint64(b[:], v)
		return b[:8], nil
	}
}

// bitBuffer tracks the alignment of a bitstream.BitWriter so that whole bytes
// are only written on byte boundaries.
type bitBuffer struct {
	bw    *bitstream.BitWriter
	nbits int
}

func (b *bitBuffer) WriteBits(v uint64, n int) {
	if n == 0 {
		return
	}
	b.bw.WriteBits(v, n)
	b.nbits += n
}

func (b *bitBuffer) WriteBytes(buf []byte) error {
	if b.nbits%8 != 0 {
		return errors.New("testutil: unaligned write")
	}
	for _, c := range buf {
		if err := b.bw.WriteByte(c); err != nil {
			return err
		}
	}
	b.nbits += 8 * len(buf)
	return nil
}
