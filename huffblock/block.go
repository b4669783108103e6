// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffblock

import (
	"fmt"

	"github.com/dsnet/huffblock/internal/binio"
	"github.com/dsnet/huffblock/internal/errors"
	"github.com/dsnet/huffblock/internal/prefix"
	"github.com/dsnet/huffblock/internal/rle"
)

// Block is a run of text together with the canonical prefix code built for
// it. A Block is not modified after the Segmenter produces it.
type Block struct {
	Text     []rune  // Code points covered by the block
	Alphabet []rune  // Distinct code points in canonical order
	Lengths  []uint8 // Code length of each Alphabet entry
	Height   int     // Height of the Huffman tree the lengths came from

	codes prefix.PrefixCodes
}

func newBlock(text []rune, codes prefix.PrefixCodes, height int) Block {
	return Block{
		Text:     text,
		Alphabet: codes.Symbols(),
		Lengths:  codes.Lengths(),
		Height:   height,
		codes:    codes,
	}
}

// Code returns the canonical code of sym as a string of '0' and '1',
// or the empty string if sym is not in the block's alphabet.
func (b *Block) Code(sym rune) string {
	for _, c := range b.codes {
		if c.Sym == sym {
			return fmt.Sprintf("%0*b", int(c.Len), c.Val)
		}
	}
	return ""
}

// PayloadBits reports the number of bits needed to pack the block's text.
func (b *Block) PayloadBits() uint64 { return b.codes.Length() }

func (b *Block) String() string {
	return fmt.Sprintf("block{runes: %d, alphabet: %d, height: %d, bits: %d}\n%v",
		len(b.Text), len(b.Alphabet), b.Height, b.PayloadBits(), b.codes)
}

// pack encodes the block's text with its prefix code.
func (b *Block) pack() []byte {
	var pe prefix.Encoder
	pe.Init(b.codes)
	var pw prefix.Writer
	pw.Init()
	for _, r := range b.Text {
		pw.WriteSymbol(r, &pe)
	}
	buf, nbits := pw.Finish()
	if nbits != b.PayloadBits() {
		panicf(errors.Internal, "packed %d bits, expected %d", nbits, b.PayloadBits())
	}
	return buf
}

func writeBlock(bw *binio.Writer, b *Block, payload []byte) {
	bw.WriteUint8(uint8(len(b.Alphabet)))
	for _, r := range b.Alphabet {
		bw.WriteRune(r)
	}
	rle.Write(bw, b.Lengths)
	bw.WriteUint64(b.PayloadBits())
	bw.WriteBytes(payload)
}

// blockDecoder decodes blocks from a container, reusing its tables.
type blockDecoder struct {
	codes prefix.PrefixCodes
	pd    prefix.Decoder
	pr    prefix.Reader
	seen  map[rune]bool
	nbits uint64
}

// readHeader reads the alphabet and code lengths of a block and rebuilds
// its canonical codes.
func (d *blockDecoder) readHeader(br *binio.Reader) {
	n := int(br.ReadUint8())
	if n == 0 {
		panicf(errors.Corrupted, "empty alphabet")
	}
	if d.seen == nil {
		d.seen = make(map[rune]bool)
	}
	clear(d.seen)
	d.codes = d.codes[:0]
	for i := 0; i < n; i++ {
		r, ok := br.ReadRune()
		if !ok {
			panicf(errors.Corrupted, "invalid code point in alphabet")
		}
		if d.seen[r] {
			panicf(errors.Corrupted, "duplicate code point %q in alphabet", r)
		}
		d.seen[r] = true
		d.codes = append(d.codes, prefix.PrefixCode{Sym: r})
	}

	lens := rle.Read(br, n)
	if len(lens) != n {
		panicf(errors.Corrupted, "got %d code lengths for %d code points", len(lens), n)
	}
	for i, l := range lens {
		if l == 0 || l > prefix.MaxPrefixBits {
			panicf(errors.Corrupted, "invalid code length %d", l)
		}
		d.codes[i].Len = uint32(l)
	}
	if err := prefix.GeneratePrefixes(d.codes); err != nil {
		errors.Panic(err)
	}
	d.pd.Init(d.codes)
}

// readPayload reads the packed text of a block and appends the decoded code
// points to dst.
func (d *blockDecoder) readPayload(br *binio.Reader, dst []rune) []rune {
	d.nbits = br.ReadUint64()
	if d.nbits > 1<<62 {
		panicf(errors.Corrupted, "payload of %d bits", d.nbits)
	}
	payload := br.ReadBytes(int64((d.nbits + 7) / 8))
	d.pr.Init(payload, d.nbits)
	for d.pr.BitsRemaining() > 0 {
		dst = append(dst, d.pr.ReadSymbol(&d.pd))
	}
	if d.pr.ReadPads() != 0 {
		panicf(errors.Corrupted, "non-zero padding bits")
	}
	return dst
}
