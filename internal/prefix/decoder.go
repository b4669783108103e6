// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

// Decoder resolves canonical prefix codes back into symbols.
//
// Canonical codes of one length are consecutive integers, so a length is
// fully described by its first value, the number of codes, and the position
// of its first symbol in canonical order.
type Decoder struct {
	syms    []rune                    // Symbols in canonical order
	counts  [MaxPrefixBits + 1]uint32 // Number of codes of each length
	firsts  [MaxPrefixBits + 1]uint32 // Value of the first code of each length
	offsets [MaxPrefixBits + 1]uint32 // Index into syms of that first code
	minBits uint32
	maxBits uint32
	numSyms int
}

// Init initializes Decoder according to the codes provided.
// The codes must be in the order produced by GeneratePrefixes.
func (pd *Decoder) Init(codes PrefixCodes) {
	*pd = Decoder{syms: pd.syms[:0], numSyms: len(codes)}
	for i, c := range codes {
		if pd.counts[c.Len] == 0 {
			pd.firsts[c.Len] = c.Val
			pd.offsets[c.Len] = uint32(i)
		}
		pd.counts[c.Len]++
		pd.syms = append(pd.syms, c.Sym)
		if pd.minBits == 0 || c.Len < pd.minBits {
			pd.minBits = c.Len
		}
		if c.Len > pd.maxBits {
			pd.maxBits = c.Len
		}
	}
}

// Match reports the symbol whose code is the n-bit value val.
func (pd *Decoder) Match(val, n uint32) (sym rune, ok bool) {
	if n < pd.minBits || n > pd.maxBits || pd.counts[n] == 0 {
		return 0, false
	}
	if val < pd.firsts[n] || val-pd.firsts[n] >= pd.counts[n] {
		return 0, false
	}
	return pd.syms[pd.offsets[n]+val-pd.firsts[n]], true
}

// MaxBits reports the longest code length known to the decoder.
func (pd *Decoder) MaxBits() uint32 { return pd.maxBits }
