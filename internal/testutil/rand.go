// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// Rand implements a deterministic pseudo-random number generator.
// This differs from the math.Rand in that the exact output will be consistent
// across different versions of Go.
type Rand struct {
	cipher.Block
	blk [aes.BlockSize]byte
}

func NewRand(seed int) *Rand {
	var key [aes.BlockSize]byte
	binary.LittleEndian.PutUint64(key[:], uint64(seed))
	r, _ := aes.NewCipher(key[:])
	return &Rand{Block: r}
}

func (r *Rand) Int() int {
	r.Encrypt(r.blk[:], r.blk[:])
	return int(binary.LittleEndian.Uint64(r.blk[:]) >> 2)
}

func (r *Rand) Intn(n int) int {
	return r.Int() % n
}

func (r *Rand) Perm(n int) []int {
	m := make([]int, n)
	for i := 0; i < n; i++ {
		j := r.Intn(i + 1)
		m[i] = m[j]
		m[j] = i
	}
	return m
}

// Runes returns n code points drawn uniformly from alphabet.
func (r *Rand) Runes(n int, alphabet []rune) []rune {
	rs := make([]rune, n)
	for i := range rs {
		rs[i] = alphabet[r.Intn(len(alphabet))]
	}
	return rs
}

// SkewedRunes returns n code points from alphabet where the i-th code point
// is drawn roughly twice as often as the (i+1)-th.
func (r *Rand) SkewedRunes(n int, alphabet []rune) []rune {
	rs := make([]rune, n)
	for i := range rs {
		j := 0
		for j < len(alphabet)-1 && r.Intn(2) == 1 {
			j++
		}
		rs[i] = alphabet[j]
	}
	return rs
}
