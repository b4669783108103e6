// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	stdflate "compress/flate"
	"io"

	"github.com/dsnet/huffblock/huffblock"
	kpflate "github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

func init() {
	RegisterCodec("huffblock",
		func(w io.Writer, lvl int) io.WriteCloser {
			hw, err := huffblock.NewWriter(w, &huffblock.WriterConfig{MaxHeight: heightForLevel(lvl)})
			if err != nil {
				panic(err)
			}
			return hw
		},
		func(r io.Reader) io.ReadCloser {
			hr, err := huffblock.NewReader(r, nil)
			if err != nil {
				return errReadCloser{err}
			}
			return hr
		})
	RegisterCodec("std-flate",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := stdflate.NewWriter(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		},
		func(r io.Reader) io.ReadCloser {
			return stdflate.NewReader(r)
		})
	RegisterCodec("kp-flate",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := kpflate.NewWriter(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		},
		func(r io.Reader) io.ReadCloser {
			return kpflate.NewReader(r)
		})
	RegisterCodec("zstd",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(lvl)))
			if err != nil {
				panic(err)
			}
			return zw
		},
		func(r io.Reader) io.ReadCloser {
			zr, err := zstd.NewReader(r)
			if err != nil {
				return errReadCloser{err}
			}
			return zstdReader{zr}
		})
	RegisterCodec("xz",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := xz.NewWriter(w)
			if err != nil {
				panic(err)
			}
			return zw
		},
		func(r io.Reader) io.ReadCloser {
			zr, err := xz.NewReader(r)
			if err != nil {
				return errReadCloser{err}
			}
			return io.NopCloser(zr)
		})
	RegisterCodec("huff0",
		func(w io.Writer, lvl int) io.WriteCloser { return newHuff0Writer(w) },
		func(r io.Reader) io.ReadCloser { return newHuff0Reader(r) })
}

// heightForLevel maps a compression level onto a maximum tree height so that
// the default level 6 selects the default height.
func heightForLevel(lvl int) int {
	if lvl < 1 {
		return 0
	}
	return min(lvl+2, 9)
}

type zstdReader struct{ *zstd.Decoder }

func (zr zstdReader) Close() error {
	zr.Decoder.Close()
	return nil
}

type errReadCloser struct{ err error }

func (er errReadCloser) Read([]byte) (int, error) { return 0, er.err }
func (er errReadCloser) Close() error             { return er.err }
