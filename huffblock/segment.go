// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffblock

import (
	"github.com/dsnet/huffblock/internal/binio"
	"github.com/dsnet/huffblock/internal/errors"
	"github.com/dsnet/huffblock/internal/prefix"
)

// Segmenter splits text into blocks whose Huffman trees respect the height
// and alphabet limits of a WriterConfig.
//
// Blocks are produced lazily and strictly in order:
//
//	seg, err := NewSegmenter(text, nil)
//	for seg.Next() {
//		blk := seg.Block()
//		...
//	}
//
// Every window starts at InitialWindow code points and grows by Increment
// until the tree no longer fits, MaxBlockSize is reached, or the text ends.
// A window that fails to fit rolls back to the last size that did. If the
// initial window itself does not fit, it shrinks by Increment while it is
// larger than Increment and then one code point at a time. A window of k code
// points has a tree no taller than k, so the search always ends.
type Segmenter struct {
	text []rune
	conf WriterConfig
	pos  int
	blk  Block
	hist histogram
	tree prefix.Tree
}

// NewSegmenter returns a Segmenter over text. A nil conf selects the defaults;
// any other conf is validated first. Text holding a surrogate or an out of
// range code point is rejected.
func NewSegmenter(text []rune, conf *WriterConfig) (*Segmenter, error) {
	c, err := conf.resolve()
	if err != nil {
		return nil, err
	}
	if err := binio.CheckText(text); err != nil {
		return nil, err
	}
	return newSegmenter(text, c), nil
}

func newSegmenter(text []rune, conf WriterConfig) *Segmenter {
	return &Segmenter{text: text, conf: conf}
}

// Next advances to the next block. It reports false once the text is
// exhausted.
func (s *Segmenter) Next() bool {
	rest := s.text[s.pos:]
	if len(rest) == 0 {
		return false
	}

	n := min(s.conf.InitialWindow, s.conf.MaxBlockSize, len(rest))
	s.hist.Reset()
	s.hist.Add(rest[:n])
	if s.fits() {
		for n < len(rest) && n < s.conf.MaxBlockSize {
			m := min(n+s.conf.Increment, s.conf.MaxBlockSize, len(rest))
			s.hist.Add(rest[n:m])
			if !s.fits() {
				s.hist.Remove(rest[n:m])
				break
			}
			n = m
		}
	} else {
		for {
			step := 1
			if n > s.conf.Increment {
				step = s.conf.Increment
			}
			s.hist.Remove(rest[n-step : n])
			n -= step
			if s.fits() {
				break
			}
		}
	}

	s.blk = s.finish(rest[:n])
	s.pos += n
	return true
}

// Block returns the most recent block produced by Next.
// The block's Text aliases the input text.
func (s *Segmenter) Block() Block { return s.blk }

// Offset reports the number of code points consumed by the blocks so far.
func (s *Segmenter) Offset() int { return s.pos }

// fits builds the tree of the current window and reports whether it is
// within the configured limits.
func (s *Segmenter) fits() bool {
	if s.hist.Len() > s.conf.MaxAlphabet {
		return false
	}
	s.tree.Init(s.hist.Frequencies(s.conf.Precision).ByWeight())
	return s.tree.Height() <= s.conf.MaxHeight
}

func (s *Segmenter) finish(text []rune) Block {
	s.tree.Init(s.hist.Frequencies(s.conf.Precision).ByWeight())
	codes, err := prefix.CanonicalCodes(&s.tree)
	if err != nil {
		errors.Panic(errorf(errors.Internal, "block at %d: %v", s.pos, err))
	}
	for i := range codes {
		codes[i].Cnt = uint32(s.hist.counts[codes[i].Sym])
	}
	return newBlock(text, codes, s.tree.Height())
}
