// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffblock

import (
	"io"

	"github.com/dsnet/huffblock/internal/binio"
	"github.com/dsnet/huffblock/internal/errors"
	"golang.org/x/sync/errgroup"
)

var errClosed = errorf(errors.Closed, "")

// Writer compresses UTF-8 text written to it.
//
// Block boundaries depend on the whole document and the block count leads the
// container, so the text is buffered and nothing is written to the underlying
// io.Writer until Close.
type Writer struct {
	InputOffset  int64 // Total number of bytes issued to Write
	OutputOffset int64 // Total number of bytes written to underlying io.Writer

	wr   io.Writer
	conf WriterConfig
	buf  []byte
	err  error // Persistent error
}

func NewWriter(w io.Writer, conf *WriterConfig) (*Writer, error) {
	c, err := conf.resolve()
	if err != nil {
		return nil, err
	}
	hw := &Writer{conf: c}
	hw.Reset(w)
	return hw, nil
}

func (hw *Writer) Write(buf []byte) (int, error) {
	if hw.err != nil {
		return 0, hw.err
	}
	hw.buf = append(hw.buf, buf...)
	hw.InputOffset += int64(len(buf))
	return len(buf), nil
}

// Close encodes the buffered text and writes the container. The text must be
// valid UTF-8. Close does not close the underlying io.Writer.
func (hw *Writer) Close() error {
	if hw.err == errClosed {
		return nil
	}
	if hw.err != nil {
		return hw.err
	}

	text, err := binio.DecodeText(hw.buf)
	if err == nil {
		hw.OutputOffset, err = encode(hw.wr, text, &hw.conf)
	}
	hw.buf = hw.buf[:0]
	if err != nil {
		hw.err = err
		return err
	}
	hw.err = errClosed
	return nil
}

func (hw *Writer) Reset(w io.Writer) error {
	*hw = Writer{wr: w, conf: hw.conf, buf: hw.buf[:0]}
	return nil
}

// Compress writes the container for text to w and reports the number of
// bytes written.
func Compress(w io.Writer, text []rune, conf *WriterConfig) (int64, error) {
	c, err := conf.resolve()
	if err != nil {
		return 0, err
	}
	return encode(w, text, &c)
}

func encode(w io.Writer, text []rune, conf *WriterConfig) (n int64, err error) {
	bw := binio.NewWriter(w)
	defer func() { n = bw.Offset() }()
	defer errors.Recover(&err)

	if err := binio.CheckText(text); err != nil {
		return 0, err
	}

	var blocks []Block
	seg := newSegmenter(text, *conf)
	for seg.Next() {
		blocks = append(blocks, seg.Block())
	}

	// Payloads are independent of each other, so they are packed in
	// parallel and then written in block order.
	payloads := make([][]byte, len(blocks))
	var g errgroup.Group
	g.SetLimit(conf.Concurrency)
	for i := range blocks {
		i := i
		g.Go(func() (err error) {
			defer errors.Recover(&err)
			payloads[i] = blocks[i].pack()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errors.Panic(err)
	}

	var scratch []byte
	bw.WriteUint64(uint64(len(blocks)))
	for i := range blocks {
		b := &blocks[i]
		offset := bw.Offset()
		writeBlock(bw, b, payloads[i])
		payloads[i] = nil
		if len(conf.Listeners) > 0 {
			scratch = binio.EncodeText(scratch[:0], b.Text)
			notify(conf.Listeners, newEvent(EvtBlockEncoded, i, offset, scratch,
				len(b.Text), b.Alphabet, b.Lengths, b.PayloadBits()))
		}
	}
	return bw.Offset(), nil
}
