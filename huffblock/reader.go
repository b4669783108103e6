// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffblock

import (
	"bufio"
	"io"

	"github.com/dsnet/huffblock/internal/binio"
	"github.com/dsnet/huffblock/internal/errors"
)

// Reader decompresses a container into UTF-8 text, one block at a time.
type Reader struct {
	InputOffset  int64 // Total number of bytes read from underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read

	rd      *binio.Reader // Input source
	conf    ReaderConfig  // Reader options
	numBlks uint64        // Block count from the container header
	blkIdx  uint64        // Index of the next block to decode
	runes   []rune        // Code points of the current block
	toRead  []byte        // Uncompressed data ready to be emitted from Read
	dec     blockDecoder  // Per-block tables
	err     error         // Persistent error

	step func(*Reader) // Single step of decompression work (can panic)
}

func NewReader(r io.Reader, conf *ReaderConfig) (*Reader, error) {
	hr := &Reader{conf: conf.resolve()}
	hr.Reset(r)
	return hr, nil
}

func (hr *Reader) Read(buf []byte) (int, error) {
	for {
		if len(hr.toRead) > 0 {
			cnt := copy(buf, hr.toRead)
			hr.toRead = hr.toRead[cnt:]
			hr.OutputOffset += int64(cnt)
			return cnt, nil
		}
		if hr.err != nil {
			return 0, hr.err
		}

		hr.next()
	}
}

// next performs a single step of decompression work.
func (hr *Reader) next() {
	func() {
		defer errors.Recover(&hr.err)
		hr.step(hr)
	}()
	hr.InputOffset = hr.rd.Offset()
	if hr.err == io.ErrUnexpectedEOF {
		hr.err = errorf(errors.Corrupted, "container truncated at offset %d", hr.InputOffset)
	}
}

func (hr *Reader) Close() error {
	if hr.err == io.EOF || hr.err == errClosed {
		hr.toRead = nil // Make sure future reads fail
		hr.err = errClosed
		return nil
	}
	return hr.err // Return the persistent error
}

func (hr *Reader) Reset(r io.Reader) error {
	br, ok := r.(binio.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	*hr = Reader{
		rd:    binio.NewReader(br),
		conf:  hr.conf,
		runes: hr.runes[:0],
		dec:   hr.dec,
		step:  (*Reader).readHeader,
	}
	return nil
}

// readHeader reads the block count.
func (hr *Reader) readHeader() {
	hr.numBlks = hr.rd.ReadUint64()
	hr.step = (*Reader).readBlock
}

// readBlock decodes the next block in full.
func (hr *Reader) readBlock() {
	if hr.blkIdx == hr.numBlks {
		errors.Panic(io.EOF)
	}

	offset := hr.rd.Offset()
	hr.dec.readHeader(hr.rd)
	hr.runes = hr.dec.readPayload(hr.rd, hr.runes[:0])
	hr.toRead = binio.EncodeText(hr.toRead[:0], hr.runes)

	if len(hr.conf.Listeners) > 0 {
		notify(hr.conf.Listeners, newEvent(EvtBlockDecoded, int(hr.blkIdx), offset, hr.toRead,
			len(hr.runes), hr.dec.codes.Symbols(), hr.dec.codes.Lengths(), hr.dec.nbits))
	}
	hr.blkIdx++
}

// Decompress decodes a whole container into code points.
func Decompress(r io.Reader) ([]rune, error) {
	hr, err := NewReader(r, nil)
	if err != nil {
		return nil, err
	}
	var text []rune
	for {
		hr.next()
		if hr.err == io.EOF {
			return text, nil
		}
		if hr.err != nil {
			return nil, hr.err
		}
		text = append(text, hr.runes...)
	}
}
