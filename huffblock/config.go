// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffblock

import (
	"runtime"

	"github.com/dsnet/huffblock/internal/errors"
	"github.com/dsnet/huffblock/internal/prefix"
)

const (
	DefaultMaxHeight     = 8
	DefaultInitialWindow = 100
	DefaultIncrement     = 50
	DefaultMaxBlockSize  = 100000
	DefaultPrecision     = 2

	// MaxAlphabet is the largest alphabet a block header can describe.
	MaxAlphabet = 255

	maxPrecision = 15
)

// WriterConfig configures the block segmentation of a Writer.
// The zero value of any field selects its default.
type WriterConfig struct {
	// MaxHeight is the maximum Huffman tree height of a block, counting a
	// leaf as height one. It must be in 1..9, which keeps every code
	// length a single decimal digit.
	MaxHeight int

	// InitialWindow is the number of code points a block starts with before
	// it is grown.
	InitialWindow int

	// Increment is the number of code points added per growth step.
	Increment int

	// MaxBlockSize caps the number of code points in a block.
	MaxBlockSize int

	// MaxAlphabet caps the number of distinct code points in a block.
	// It must not exceed 255.
	MaxAlphabet int

	// Precision is the number of decimal digits kept when the relative
	// frequencies of a block are quantized before tree construction.
	Precision int

	// Concurrency is the number of blocks whose payloads may be packed at
	// the same time. It defaults to the number of CPUs and never affects
	// the output.
	Concurrency int

	// Listeners are notified after every block is written.
	Listeners []Listener

	_ struct{} // Blank field to prevent unkeyed struct literals
}

// ReaderConfig configures a Reader.
type ReaderConfig struct {
	// Listeners are notified after every block is decoded.
	Listeners []Listener

	_ struct{} // Blank field to prevent unkeyed struct literals
}

// resolve returns a copy of the configuration with defaults filled in.
func (c *WriterConfig) resolve() (WriterConfig, error) {
	var conf WriterConfig
	if c != nil {
		conf = *c
	}
	defaults := []struct {
		v   *int
		def int
	}{
		{&conf.MaxHeight, DefaultMaxHeight},
		{&conf.InitialWindow, DefaultInitialWindow},
		{&conf.Increment, DefaultIncrement},
		{&conf.MaxBlockSize, DefaultMaxBlockSize},
		{&conf.MaxAlphabet, MaxAlphabet},
		{&conf.Precision, DefaultPrecision},
		{&conf.Concurrency, runtime.NumCPU()},
	}
	for _, d := range defaults {
		if *d.v == 0 {
			*d.v = d.def
		}
	}

	switch {
	case conf.MaxHeight < 1 || conf.MaxHeight > prefix.MaxPrefixBits:
		return conf, errorf(errors.Invalid, "max height %d not in 1..%d", conf.MaxHeight, prefix.MaxPrefixBits)
	case conf.InitialWindow < 1:
		return conf, errorf(errors.Invalid, "initial window %d must be positive", conf.InitialWindow)
	case conf.Increment < 1:
		return conf, errorf(errors.Invalid, "increment %d must be positive", conf.Increment)
	case conf.MaxBlockSize < 1:
		return conf, errorf(errors.Invalid, "max block size %d must be positive", conf.MaxBlockSize)
	case conf.MaxAlphabet < 1 || conf.MaxAlphabet > MaxAlphabet:
		return conf, errorf(errors.Invalid, "max alphabet %d not in 1..%d", conf.MaxAlphabet, MaxAlphabet)
	case conf.Precision < 1 || conf.Precision > maxPrecision:
		return conf, errorf(errors.Invalid, "precision %d not in 1..%d", conf.Precision, maxPrecision)
	case conf.Concurrency < 1:
		return conf, errorf(errors.Invalid, "concurrency %d must be positive", conf.Concurrency)
	}
	return conf, nil
}

func (c *ReaderConfig) resolve() ReaderConfig {
	if c == nil {
		return ReaderConfig{}
	}
	return *c
}
