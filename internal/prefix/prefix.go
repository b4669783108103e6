// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package prefix implements bit readers and writers that use canonical prefix
// encoding over an arbitrary code-point alphabet.
//
// A canonical prefix code is fully described by the ordered list of symbols
// and their bit-lengths. The tree used to derive the lengths never needs to
// be transmitted; GeneratePrefixes rebuilds identical code values on both the
// encoding and decoding side.
package prefix

import (
	"fmt"
	"sort"

	"github.com/dsnet/huffblock/internal/errors"
)

// MaxPrefixBits is the longest code that can be represented. It is bounded by
// the single decimal digit used to store each length in a container.
const MaxPrefixBits = 9

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "prefix", Msg: fmt.Sprintf(f, a...)}
}

type PrefixCode struct {
	Sym rune   // The symbol being mapped
	Cnt uint32 // The number times this symbol is used
	Len uint32 // Bit-length of the prefix code
	Val uint32 // Value of the prefix code (must be in 0..(1<<Len)-1)
}
type PrefixCodes []PrefixCode

func (c PrefixCodes) Len() int           { return len(c) }
func (c PrefixCodes) Less(i, j int) bool { return c[i].Len < c[j].Len }
func (c PrefixCodes) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }

// SortBySymbol sorts the codes by ascending code point.
func (c PrefixCodes) SortBySymbol() {
	sort.Slice(c, func(i, j int) bool { return c[i].Sym < c[j].Sym })
}

// SortByLength stably sorts the codes by ascending bit-length. Codes of equal
// length keep their current relative order.
func (c PrefixCodes) SortByLength() {
	sort.Stable(c)
}

// Length computes the total bit-length using the Len and Cnt fields.
func (c PrefixCodes) Length() (nb uint64) {
	for _, v := range c {
		nb += uint64(v.Len) * uint64(v.Cnt)
	}
	return nb
}

// MaxLen reports the longest bit-length in the set.
func (c PrefixCodes) MaxLen() (n uint32) {
	for _, v := range c {
		if n < v.Len {
			n = v.Len
		}
	}
	return n
}

// Symbols returns the symbols in their current order.
func (c PrefixCodes) Symbols() []rune {
	syms := make([]rune, len(c))
	for i, v := range c {
		syms[i] = v.Sym
	}
	return syms
}

// Lengths returns the bit-lengths in their current order.
func (c PrefixCodes) Lengths() []uint8 {
	lens := make([]uint8, len(c))
	for i, v := range c {
		lens[i] = uint8(v.Len)
	}
	return lens
}

// checkLengths reports whether the codes satisfy the Kraft inequality.
// A single code of length 1 is the only permitted incomplete tree.
func (c PrefixCodes) checkLengths() bool {
	if len(c) == 0 {
		return true
	}
	if len(c) == 1 {
		return c[0].Len == 1
	}
	var sum uint64
	for _, v := range c {
		if v.Len == 0 || v.Len > MaxPrefixBits {
			return false
		}
		sum += 1 << (MaxPrefixBits - v.Len)
	}
	return sum <= 1<<MaxPrefixBits
}

// checkPrefixes reports whether no code is a prefix of another.
func (c PrefixCodes) checkPrefixes() bool {
	for i, c1 := range c {
		for j, c2 := range c {
			if i == j || c1.Len > c2.Len {
				continue
			}
			if c2.Val>>(c2.Len-c1.Len) == c1.Val {
				return false
			}
		}
	}
	return true
}

// checkCanonical reports whether the codes are the canonical numbering of
// their lengths: ordered by length, and each code is the smallest value that
// follows its predecessor.
func (c PrefixCodes) checkCanonical() bool {
	for i := range c {
		if i == 0 {
			if c[i].Val != 0 {
				return false
			}
			continue
		}
		prev, cur := c[i-1], c[i]
		if cur.Len < prev.Len || cur.Val != (prev.Val+1)<<(cur.Len-prev.Len) {
			return false
		}
	}
	return true
}

// GeneratePrefixes assigns canonical prefix code values to the codes using
// only their Len fields and current order. The codes are first stably sorted
// by bit-length; the first code is all zeros and every following code is
// derived from its predecessor:
//
//	next = (prev + 1) << (len(next) - len(prev))
//
// Since the same procedure runs on the decoding side over the transmitted
// symbol order and lengths, both sides agree on every code value.
func GeneratePrefixes(codes PrefixCodes) error {
	codes.SortByLength()

	var code uint32
	for i := range codes {
		c := &codes[i]
		if c.Len == 0 || c.Len > MaxPrefixBits {
			return errorf(errors.Reconstruction, "symbol %q has invalid bit-length %d", c.Sym, c.Len)
		}
		if i > 0 {
			code = (code + 1) << (c.Len - codes[i-1].Len)
		}
		if code >= 1<<c.Len {
			return errorf(errors.Reconstruction, "over-subscribed code at symbol %q", c.Sym)
		}
		c.Val = code
	}
	return nil
}

// CanonicalCodes derives the canonical code set of a Huffman tree.
// Codes of equal length are ordered by ascending code point.
func CanonicalCodes(t *Tree) (PrefixCodes, error) {
	codes := t.Lengths()
	codes.SortBySymbol()
	if err := GeneratePrefixes(codes); err != nil {
		return nil, err
	}
	return codes, nil
}
