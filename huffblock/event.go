// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffblock

import (
	"fmt"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
)

const (
	EvtBlockEncoded = iota
	EvtBlockDecoded
)

// Event describes one block that was written or read.
type Event struct {
	Type     int
	Block    int    // Index of the block in the container
	Offset   int64  // Byte offset of the block header in the container
	Runes    int    // Number of code points in the block
	Size     int64  // Size of the block's text in UTF-8 bytes
	Alphabet []rune // Distinct code points in canonical order
	Lengths  []uint8
	Bits     uint64 // Payload size in bits
	Hash     uint64 // XXH64 of the block's UTF-8 text
	CRC      uint32 // CRC-32 (IEEE) of the block's UTF-8 text
}

// Listener receives block events. ProcessEvent is called synchronously from
// the goroutine that drives the Writer or Reader.
type Listener interface {
	ProcessEvent(evt *Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(evt *Event)

func (f ListenerFunc) ProcessEvent(evt *Event) { f(evt) }

func newEvent(typ, id int, offset int64, text []byte, runes int, alphabet []rune, lengths []uint8, bits uint64) *Event {
	return &Event{
		Type:     typ,
		Block:    id,
		Offset:   offset,
		Runes:    runes,
		Size:     int64(len(text)),
		Alphabet: alphabet,
		Lengths:  lengths,
		Bits:     bits,
		Hash:     xxhash.Sum64(text),
		CRC:      crc32.ChecksumIEEE(text),
	}
}

func notify(ls []Listener, evt *Event) {
	for _, l := range ls {
		l.ProcessEvent(evt)
	}
}

func (e *Event) String() string {
	typ := "encoded"
	if e.Type == EvtBlockDecoded {
		typ = "decoded"
	}
	return fmt.Sprintf("block %d %s: offset=%d runes=%d alphabet=%d bits=%d xxh64=%016x",
		e.Block, typ, e.Offset, e.Runes, len(e.Alphabet), e.Bits, e.Hash)
}
