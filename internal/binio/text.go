// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package binio

import (
	"fmt"
	"unicode/utf8"

	"github.com/dsnet/huffblock/internal/errors"
)

// DecodeText converts UTF-8 text into code points. It fails with an
// errors.Invalid error that names the offset of the first malformed sequence.
func DecodeText(b []byte) ([]rune, error) {
	rs := make([]rune, 0, utf8.RuneCount(b))
	for i := 0; i < len(b); {
		r, n := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && n <= 1 {
			return nil, errors.Error{
				Code: errors.Invalid,
				Pkg:  "binio",
				Msg:  fmt.Sprintf("malformed UTF-8 sequence at offset %d", i),
			}
		}
		rs = append(rs, r)
		i += n
	}
	return rs, nil
}

// CheckText verifies that every element of rs is a Unicode scalar value.
// It fails with an errors.Invalid error that names the index of the first
// surrogate, negative or out of range value.
func CheckText(rs []rune) error {
	for i, r := range rs {
		if !utf8.ValidRune(r) {
			return errors.Error{
				Code: errors.Invalid,
				Pkg:  "binio",
				Msg:  fmt.Sprintf("invalid code point %U at index %d", r, i),
			}
		}
	}
	return nil
}

// EncodeText appends the UTF-8 form of rs to b.
func EncodeText(b []byte, rs []rune) []byte {
	for _, r := range rs {
		b = utf8.AppendRune(b, r)
	}
	return b
}
