// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package huffblock implements an adaptive-block canonical Huffman format
// for text.
//
// A document is split into blocks of code points. Each block grows until its
// Huffman tree would exceed a maximum height, so every block carries a prefix
// code tailored to its own symbol distribution. Only the alphabet and the code
// lengths of each block are stored; both sides derive identical canonical
// codes from them.
//
// Container layout, with all integers little-endian:
//
//	blockCount       u64
//	blockCount times:
//	  alphabetLength u8
//	  alphabet       UTF-8 code points in canonical order
//	  lengths        run-length compacted code lengths, one digit per symbol
//	  payloadBits    u64
//	  payload        ceil(payloadBits/8) bytes, most-significant bit first
package huffblock

import (
	"fmt"

	"github.com/dsnet/huffblock/internal/errors"
)

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "huffblock", Msg: fmt.Sprintf(f, a...)}
}

func panicf(c int, f string, a ...interface{}) {
	errors.Panic(errorf(c, f, a...))
}
