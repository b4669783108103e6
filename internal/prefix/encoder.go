// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

const (
	countBits = 5 // Number of bits to store the bit-length of the code
	countMask = (1 << countBits) - 1

	asciiSize = 128 // Code points below this use a direct lookup table
)

// Encoder maps symbols to their canonical prefix codes.
type Encoder struct {
	chunks  [asciiSize]uint32 // val<<countBits | len, zero when absent
	others  map[rune]uint32   // Same packing for code points above ASCII
	numSyms int
}

// Init initializes Encoder according to the codes provided.
// The codes must already carry their canonical values.
func (pe *Encoder) Init(codes PrefixCodes) {
	pe.chunks = [asciiSize]uint32{}
	pe.others = nil
	pe.numSyms = len(codes)
	for _, c := range codes {
		chunk := c.Val<<countBits | c.Len
		if c.Sym >= 0 && c.Sym < asciiSize {
			pe.chunks[c.Sym] = chunk
			continue
		}
		if pe.others == nil {
			pe.others = make(map[rune]uint32)
		}
		pe.others[c.Sym] = chunk
	}
}

// Lookup returns the code value and its bit-length for sym.
func (pe *Encoder) Lookup(sym rune) (val, n uint32, ok bool) {
	var chunk uint32
	if sym >= 0 && sym < asciiSize {
		chunk = pe.chunks[sym]
	} else {
		chunk = pe.others[sym]
	}
	if chunk == 0 {
		return 0, 0, false
	}
	return chunk >> countBits, chunk & countMask, true
}
