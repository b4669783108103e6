// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffblock

import (
	"bytes"
	"testing"
	"unicode/utf8"

	"github.com/dsnet/huffblock/internal/errors"
	"github.com/dsnet/huffblock/internal/testutil"
)

// FuzzDecompress checks that arbitrary input never crashes the Reader and
// that every failure is classified as a corrupted container. Inputs that do
// decode must encode back into a container with the same text.
func FuzzDecompress(f *testing.F) {
	f.Add([]byte{})
	f.Add(testutil.MustDecodeBitGen("U64:0"))
	f.Add(testutil.MustDecodeBitGen("U64:1 U8:2 S:ab U64:2 I8:2 U8:1 U64:4 0101"))
	f.Add(testutil.MustDecodeBitGen("U64:1 U8:3 S:abc U64:3 I8:-3 U8:12 I8:-2 U64:5 0 10 11"))
	f.Add(mustCompress(f, testTexts["Russian"], &WriterConfig{MaxBlockSize: 200}))

	f.Fuzz(func(t *testing.T, data []byte) {
		text, err := Decompress(bytes.NewReader(data))
		if err != nil {
			if !errors.IsCorrupted(err) && !errors.IsReconstruction(err) {
				t.Fatalf("unexpected error class: %v", err)
			}
			return
		}
		var buf bytes.Buffer
		if _, err := Compress(&buf, text, nil); err != nil {
			t.Fatalf("unexpected Compress error: %v", err)
		}
		got, err := Decompress(&buf)
		if err != nil {
			t.Fatalf("unexpected Decompress error: %v", err)
		}
		if string(got) != string(text) {
			t.Fatalf("text mismatch: got %q, want %q", string(got), string(text))
		}
	})
}

// FuzzRoundTrip checks that any valid text survives encoding under a range
// of segmentation settings.
func FuzzRoundTrip(f *testing.F) {
	f.Add("hello", 8, 3)
	f.Add("hello世界", 2, 1)
	f.Add("🚀rocket", 9, 50)
	f.Add("", 8, 50)
	f.Add("aaaaaaaaab", 1, 1)
	f.Add("null\x00byte", 4, 7)

	f.Fuzz(func(t *testing.T, input string, height, increment int) {
		if !utf8.ValidString(input) {
			t.Skip()
		}
		conf := &WriterConfig{
			MaxHeight:     1 + int(uint(height)%9),
			InitialWindow: 1 + int(uint(increment)%64),
			Increment:     1 + int(uint(increment)%16),
		}
		text := []rune(input)
		var buf bytes.Buffer
		if _, err := Compress(&buf, text, conf); err != nil {
			t.Fatalf("unexpected Compress error: %v", err)
		}
		got, err := Decompress(&buf)
		if err != nil {
			t.Fatalf("unexpected Decompress error: %v", err)
		}
		if string(got) != input {
			t.Fatalf("text mismatch: got %q, want %q", string(got), input)
		}
	})
}
