// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/klauspost/compress/huff0"
)

// huff0 only compresses single blocks, so its streams are framed here as a
// sequence of chunks, each with a header of a mode byte, the raw length and
// the stored length.
const (
	modeRaw = iota
	modeRLE
	modeHuff

	huff0Chunk = 64 << 10
)

var errHuff0Corrupt = errors.New("bench: corrupted huff0 frame")

type huff0Writer struct {
	wr  io.Writer
	buf []byte
	s   huff0.Scratch
}

func newHuff0Writer(w io.Writer) *huff0Writer {
	hw := &huff0Writer{wr: w}
	hw.s.Reuse = huff0.ReusePolicyNone
	return hw
}

func (hw *huff0Writer) Write(b []byte) (int, error) {
	hw.buf = append(hw.buf, b...)
	for len(hw.buf) >= huff0Chunk {
		if err := hw.flush(hw.buf[:huff0Chunk]); err != nil {
			return 0, err
		}
		hw.buf = hw.buf[huff0Chunk:]
	}
	return len(b), nil
}

func (hw *huff0Writer) Close() error {
	if len(hw.buf) == 0 {
		return nil
	}
	err := hw.flush(hw.buf)
	hw.buf = nil
	return err
}

func (hw *huff0Writer) flush(chunk []byte) error {
	mode, data := byte(modeHuff), chunk
	out, _, err := huff0.Compress1X(chunk, &hw.s)
	switch err {
	case nil:
		data = out
	case huff0.ErrUseRLE:
		mode, data = modeRLE, chunk[:1]
	case huff0.ErrIncompressible:
		mode = modeRaw
	default:
		return err
	}
	var hdr [9]byte
	hdr[0] = mode
	binary.LittleEndian.PutUint32(hdr[1:], uint32(len(chunk)))
	binary.LittleEndian.PutUint32(hdr[5:], uint32(len(data)))
	if _, err := hw.wr.Write(hdr[:]); err != nil {
		return err
	}
	_, err = hw.wr.Write(data)
	return err
}

type huff0Reader struct {
	rd     io.Reader
	toRead []byte
	s      *huff0.Scratch
	err    error
}

func newHuff0Reader(r io.Reader) *huff0Reader {
	return &huff0Reader{rd: r}
}

func (hr *huff0Reader) Read(b []byte) (int, error) {
	for len(hr.toRead) == 0 {
		if hr.err != nil {
			return 0, hr.err
		}
		hr.toRead, hr.err = hr.next()
	}
	n := copy(b, hr.toRead)
	hr.toRead = hr.toRead[n:]
	return n, nil
}

func (hr *huff0Reader) next() ([]byte, error) {
	var hdr [9]byte
	if _, err := io.ReadFull(hr.rd, hdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, errHuff0Corrupt
		}
		return nil, err // io.EOF between chunks ends the stream
	}
	rawLen := int(binary.LittleEndian.Uint32(hdr[1:]))
	data := make([]byte, binary.LittleEndian.Uint32(hdr[5:]))
	if _, err := io.ReadFull(hr.rd, data); err != nil {
		return nil, errHuff0Corrupt
	}
	switch hdr[0] {
	case modeRaw:
		return data, nil
	case modeRLE:
		if len(data) != 1 {
			return nil, errHuff0Corrupt
		}
		return bytes.Repeat(data, rawLen), nil
	case modeHuff:
		s, remain, err := huff0.ReadTable(data, hr.s)
		if err != nil {
			return nil, err
		}
		hr.s = s
		out, err := s.Decompress1X(remain)
		if err != nil {
			return nil, err
		}
		if len(out) != rawLen {
			return nil, errHuff0Corrupt
		}
		return append([]byte(nil), out...), nil
	default:
		return nil, errHuff0Corrupt
	}
}

func (hr *huff0Reader) Close() error {
	if hr.err == io.EOF {
		return nil
	}
	return hr.err
}
