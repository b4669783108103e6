// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffblock

import (
	"hash/crc32"
	"io"

	hashutil "github.com/dsnet/golib/hashmerge"
)

// BlockInfo describes a single block of a container.
type BlockInfo struct {
	Offset   int64   // Byte offset of the block header in the container
	Runes    int     // Number of code points in the block
	Size     int64   // Size of the block's text in UTF-8 bytes
	Alphabet []rune  // Distinct code points in canonical order
	Lengths  []uint8 // Code length of each Alphabet entry
	Bits     uint64  // Payload size in bits
	CRC      uint32  // CRC-32 (IEEE) of the block's UTF-8 text
}

// Info summarizes a container.
type Info struct {
	Blocks         []BlockInfo
	CompressedSize int64  // Size of the container in bytes
	RawSize        int64  // Size of the decoded text in UTF-8 bytes
	Runes          int64  // Number of decoded code points
	CRC            uint32 // CRC-32 (IEEE) of the whole decoded text
}

// AvgBlockLen reports the mean number of code points per block.
func (fi *Info) AvgBlockLen() float64 {
	if len(fi.Blocks) == 0 {
		return 0
	}
	return float64(fi.Runes) / float64(len(fi.Blocks))
}

// BitsPerRune reports the payload bits spent per code point, not counting
// the block headers.
func (fi *Info) BitsPerRune() float64 {
	if fi.Runes == 0 {
		return 0
	}
	var bits uint64
	for _, b := range fi.Blocks {
		bits += b.Bits
	}
	return float64(bits) / float64(fi.Runes)
}

// Ratio reports the size of the text relative to the size of the container.
func (fi *Info) Ratio() float64 {
	if fi.CompressedSize == 0 {
		return 0
	}
	return float64(fi.RawSize) / float64(fi.CompressedSize)
}

// Inspect decodes a container and reports its structure without retaining
// the decoded text.
func Inspect(r io.Reader) (Info, error) {
	var fi Info
	collect := ListenerFunc(func(evt *Event) {
		fi.Blocks = append(fi.Blocks, BlockInfo{
			Offset:   evt.Offset,
			Runes:    evt.Runes,
			Size:     evt.Size,
			Alphabet: evt.Alphabet,
			Lengths:  evt.Lengths,
			Bits:     evt.Bits,
			CRC:      evt.CRC,
		})
		fi.CRC = hashutil.CombineCRC32(crc32.IEEE, fi.CRC, evt.CRC, evt.Size)
		fi.RawSize += evt.Size
		fi.Runes += int64(evt.Runes)
	})

	hr, err := NewReader(r, &ReaderConfig{Listeners: []Listener{collect}})
	if err != nil {
		return Info{}, err
	}
	if _, err := io.Copy(io.Discard, hr); err != nil {
		return Info{}, err
	}
	fi.CompressedSize = hr.InputOffset
	return fi, nil
}
