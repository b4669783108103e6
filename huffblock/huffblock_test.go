// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffblock

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"
	"testing"
	"testing/iotest"

	"github.com/cespare/xxhash/v2"
	"github.com/dsnet/golib/memfile"
	"github.com/dsnet/huffblock/internal/errors"
	"github.com/dsnet/huffblock/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTexts = func() map[string][]rune {
	r := testutil.NewRand(0)
	return map[string][]rune{
		"Empty":   nil,
		"Single":  []rune("x"),
		"Repeat":  testutil.ResizeText([]rune("a"), 5000),
		"English": testutil.MustLoadText("../testdata/english.txt"),
		"Russian": testutil.MustLoadText("../testdata/russian.txt"),
		"Mixed":   r.MixedText(50000),
		"Skewed":  r.SkewedRunes(30000, []rune("0123456789abcdefghijklmnopqrstuvwxyz")),
	}
}()

func mustCompress(t testing.TB, text []rune, conf *WriterConfig) []byte {
	var buf bytes.Buffer
	n, err := Compress(&buf, text, conf)
	if err != nil {
		t.Fatalf("unexpected Compress error: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("output size mismatch: got %d, want %d", n, buf.Len())
	}
	return buf.Bytes()
}

func TestScenarios(t *testing.T) {
	var vectors = []struct {
		desc   string
		input  string
		output string // BitGen container
		codes  map[rune]string
	}{{
		desc:   "single repeated code point",
		input:  "aaaa",
		output: "U64:1  U8:1 S:a  U64:1 I8:1 U8:1  U64:4 0000",
		codes:  map[rune]string{'a': "0"},
	}, {
		desc:   "two equally frequent code points",
		input:  "abab",
		output: "U64:1  U8:2 S:ab  U64:2 I8:2 U8:1  U64:4 0101",
		codes:  map[rune]string{'a': "0", 'b': "1"},
	}, {
		desc:   "empty document",
		input:  "",
		output: "U64:0",
	}, {
		desc:  "canonical order places shorter codes first",
		input: "cbaaaaaa",
		output: `
			U64:1
			U8:3 S:abc            # a:1 then b:2 and c:2
			U64:3 I8:1 U8:1 I8:2 U8:2
			U64:10
			11 10 0 0 0 0 0 0     # c b a a a a a a
		`,
		codes: map[rune]string{'a': "0", 'b': "10", 'c': "11"},
	}, {
		desc:   "multi-byte code points",
		input:  "жжя",
		output: "U64:1  U8:2 R:436 R:44f  U64:2 I8:2 U8:1  U64:3 0 0 1",
		codes:  map[rune]string{'ж': "0", 'я': "1"},
	}}

	for i, v := range vectors {
		input := []rune(v.input)
		want := testutil.MustDecodeBitGen(v.output)
		got := mustCompress(t, input, nil)
		if !bytes.Equal(got, want) {
			t.Errorf("test %d, %s, output mismatch:\ngot  %x\nwant %x", i, v.desc, got, want)
		}

		seg, err := NewSegmenter(input, nil)
		require.NoError(t, err)
		for seg.Next() {
			blk := seg.Block()
			for sym, code := range v.codes {
				assert.Equal(t, code, blk.Code(sym), "test %d, %s, code of %q", i, v.desc, sym)
			}
		}

		output, err := Decompress(bytes.NewReader(want))
		if err != nil {
			t.Errorf("test %d, %s, unexpected Decompress error: %v", i, v.desc, err)
			continue
		}
		if string(output) != v.input {
			t.Errorf("test %d, %s, text mismatch: got %q, want %q", i, v.desc, string(output), v.input)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	confs := []*WriterConfig{
		nil,
		{MaxHeight: 3, InitialWindow: 10, Increment: 5},
		{MaxHeight: 9, MaxBlockSize: 1000, Precision: 4},
		{MaxAlphabet: 4, InitialWindow: 8, Increment: 1},
	}
	for name, text := range testTexts {
		for i, conf := range confs {
			t.Run(fmt.Sprintf("%s/Config%d", name, i), func(t *testing.T) {
				got, err := Decompress(bytes.NewReader(mustCompress(t, text, conf)))
				if err != nil {
					t.Fatalf("unexpected Decompress error: %v", err)
				}
				if diff := cmp.Diff(text, got, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("text mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestDeterminism(t *testing.T) {
	text := testTexts["Mixed"]
	want := mustCompress(t, text, &WriterConfig{MaxBlockSize: 500, Concurrency: 1})
	for _, n := range []int{2, 3, 8, 64} {
		got := mustCompress(t, text, &WriterConfig{MaxBlockSize: 500, Concurrency: n})
		if !bytes.Equal(got, want) {
			t.Errorf("concurrency %d, output differs from sequential encoding", n)
		}
	}
	if got := mustCompress(t, text, &WriterConfig{MaxBlockSize: 500, Concurrency: 1}); !bytes.Equal(got, want) {
		t.Errorf("repeated encoding differs")
	}
}

func TestWriterReader(t *testing.T) {
	text := testTexts["Russian"]
	raw := []byte(string(text))

	// Write the text in uneven chunks through the streaming API.
	mf := memfile.New(nil)
	hw, err := NewWriter(mf, &WriterConfig{MaxBlockSize: 300})
	require.NoError(t, err)
	for b := raw; len(b) > 0; {
		n := min(len(b), 77)
		cnt, err := hw.Write(b[:n])
		require.NoError(t, err)
		require.Equal(t, n, cnt)
		b = b[n:]
	}
	require.NoError(t, hw.Close())
	require.NoError(t, hw.Close())
	assert.Equal(t, int64(len(raw)), hw.InputOffset)
	assert.Equal(t, int64(len(mf.Bytes())), hw.OutputOffset)
	if _, err := hw.Write([]byte("more")); !errors.IsClosed(err) {
		t.Errorf("mismatching error after Close: got %v", err)
	}
	assert.Equal(t, mustCompress(t, text, &WriterConfig{MaxBlockSize: 300}), mf.Bytes())

	readers := map[string]func([]byte) io.Reader{
		"bytes.Reader": func(b []byte) io.Reader { return bytes.NewReader(b) },
		"io.Reader":    func(b []byte) io.Reader { return struct{ io.Reader }{bytes.NewReader(b)} },
		"OneByte":      func(b []byte) io.Reader { return iotest.OneByteReader(bytes.NewReader(b)) },
		"Half":         func(b []byte) io.Reader { return iotest.HalfReader(bytes.NewReader(b)) },
	}
	for name, newReader := range readers {
		hr, err := NewReader(newReader(mf.Bytes()), nil)
		require.NoError(t, err)
		got, err := io.ReadAll(iotest.OneByteReader(hr))
		if err != nil {
			t.Errorf("%s, unexpected Read error: %v", name, err)
			continue
		}
		assert.Equal(t, raw, got, name)
		assert.Equal(t, int64(len(mf.Bytes())), hr.InputOffset, name)
		assert.Equal(t, int64(len(raw)), hr.OutputOffset, name)
		assert.NoError(t, hr.Close(), name)
		if _, err := hr.Read(make([]byte, 1)); !errors.IsClosed(err) {
			t.Errorf("%s, mismatching error after Close: got %v", name, err)
		}
	}
}

func TestWriterInvalid(t *testing.T) {
	if _, err := NewWriter(io.Discard, &WriterConfig{MaxHeight: 12}); !errors.IsInvalid(err) {
		t.Errorf("mismatching error: got %v", err)
	}
	if _, err := Compress(io.Discard, nil, &WriterConfig{Precision: -1}); !errors.IsInvalid(err) {
		t.Errorf("mismatching error: got %v", err)
	}

	// Code points must be Unicode scalar values.
	for i, text := range [][]rune{
		{0xd800},
		{0xd800, 'a', 'a'},
		{0xd800, 0xfffd, 'a'},
		{'a', -1},
		{0x110000, 'b'},
	} {
		var out bytes.Buffer
		n, err := Compress(&out, text, nil)
		if !errors.IsInvalid(err) {
			t.Errorf("test %d, mismatching error: got %v", i, err)
		}
		if n != 0 || out.Len() != 0 {
			t.Errorf("test %d, wrote %d bytes for invalid text", i, out.Len())
		}
		if _, err := NewSegmenter(text, nil); !errors.IsInvalid(err) {
			t.Errorf("test %d, mismatching NewSegmenter error: got %v", i, err)
		}
	}

	var buf bytes.Buffer
	hw, err := NewWriter(&buf, nil)
	require.NoError(t, err)
	hw.Write([]byte("valid then \xc3\x28 invalid"))
	if err := hw.Close(); !errors.IsInvalid(err) {
		t.Errorf("mismatching error: got %v", err)
	}
	assert.Equal(t, 0, buf.Len(), "nothing is written for invalid text")
	if err := hw.Close(); !errors.IsInvalid(err) {
		t.Errorf("error is not persistent: got %v", err)
	}

	hw.Reset(&buf)
	hw.Write([]byte("ok"))
	assert.NoError(t, hw.Close())
}

func TestIOErrors(t *testing.T) {
	text := testTexts["English"]
	data := mustCompress(t, text, nil)

	for _, n := range []int64{0, 5, 8, 20, int64(len(data) / 2)} {
		wr := &testutil.BuggyWriter{W: io.Discard, N: n, Err: io.ErrShortWrite}
		if _, err := Compress(wr, text, nil); err != io.ErrShortWrite {
			t.Errorf("write limit %d, mismatching error: got %v, want %v", n, err, io.ErrShortWrite)
		}

		rd := &testutil.BuggyReader{R: bytes.NewReader(data), N: n, Err: io.ErrClosedPipe}
		if _, err := Decompress(rd); err != io.ErrClosedPipe {
			t.Errorf("read limit %d, mismatching error: got %v, want %v", n, err, io.ErrClosedPipe)
		}
	}

	// A container cut short is corrupt.
	for _, n := range []int{0, 7, 9, len(data) - 1} {
		if _, err := Decompress(bytes.NewReader(data[:n])); !errors.IsCorrupted(err) {
			t.Errorf("truncated to %d, mismatching error: got %v", n, err)
		}
	}
}

func TestListeners(t *testing.T) {
	text := testTexts["Mixed"][:5000]
	var encoded, decoded []*Event
	conf := &WriterConfig{
		MaxBlockSize: 400,
		Listeners:    []Listener{ListenerFunc(func(evt *Event) { encoded = append(encoded, evt) })},
	}
	data := mustCompress(t, text, conf)

	var blocks []Block
	seg, err := NewSegmenter(text, conf)
	require.NoError(t, err)
	for seg.Next() {
		blocks = append(blocks, seg.Block())
	}
	require.Equal(t, len(blocks), len(encoded))
	for i, evt := range encoded {
		raw := []byte(string(blocks[i].Text))
		assert.Equal(t, EvtBlockEncoded, evt.Type)
		assert.Equal(t, i, evt.Block)
		assert.Equal(t, len(blocks[i].Text), evt.Runes)
		assert.Equal(t, xxhash.Sum64(raw), evt.Hash)
		assert.Equal(t, crc32.ChecksumIEEE(raw), evt.CRC)
		assert.Equal(t, blocks[i].PayloadBits(), evt.Bits)
	}

	rconf := &ReaderConfig{Listeners: []Listener{ListenerFunc(func(evt *Event) { decoded = append(decoded, evt) })}}
	hr, err := NewReader(bytes.NewReader(data), rconf)
	require.NoError(t, err)
	_, err = io.Copy(io.Discard, hr)
	require.NoError(t, err)
	require.Equal(t, len(encoded), len(decoded))
	for i := range decoded {
		want, got := *encoded[i], *decoded[i]
		want.Type = EvtBlockDecoded
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("block %d, event mismatch (-encoded +decoded):\n%s", i, diff)
		}
	}
}

func TestInspect(t *testing.T) {
	text := testTexts["English"]
	raw := []byte(string(text))
	conf := &WriterConfig{MaxBlockSize: 250}
	data := mustCompress(t, text, conf)

	var want []Block
	seg, err := NewSegmenter(text, conf)
	require.NoError(t, err)
	for seg.Next() {
		want = append(want, seg.Block())
	}

	fi, err := Inspect(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), fi.CompressedSize)
	assert.Equal(t, int64(len(raw)), fi.RawSize)
	assert.Equal(t, int64(len(text)), fi.Runes)
	assert.Equal(t, crc32.ChecksumIEEE(raw), fi.CRC)
	require.Equal(t, len(want), len(fi.Blocks))
	for i, b := range fi.Blocks {
		assert.Equal(t, len(want[i].Text), b.Runes, "block %d", i)
		assert.Equal(t, want[i].Alphabet, b.Alphabet, "block %d", i)
		assert.Equal(t, want[i].Lengths, b.Lengths, "block %d", i)
		assert.Equal(t, want[i].PayloadBits(), b.Bits, "block %d", i)
	}
	assert.Equal(t, int64(8), fi.Blocks[0].Offset)
	assert.InDelta(t, float64(len(text))/float64(len(fi.Blocks)), fi.AvgBlockLen(), 1e-9)
	assert.InDelta(t, float64(len(raw))/float64(len(data)), fi.Ratio(), 1e-9)
	assert.Less(t, fi.BitsPerRune(), float64(DefaultMaxHeight))

	fi, err = Inspect(bytes.NewReader(mustCompress(t, nil, nil)))
	require.NoError(t, err)
	assert.Empty(t, fi.Blocks)
	assert.Equal(t, uint32(0), fi.CRC)
	assert.Equal(t, 0.0, fi.AvgBlockLen())
	assert.Equal(t, 0.0, fi.BitsPerRune())

	if _, err := Inspect(bytes.NewReader(data[:len(data)-3])); !errors.IsCorrupted(err) {
		t.Errorf("mismatching error: got %v", err)
	}
}

func BenchmarkEncode(b *testing.B) {
	text := testTexts["Mixed"]
	b.SetBytes(int64(len(string(text))))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Compress(io.Discard, text, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	text := testTexts["Mixed"]
	data := mustCompress(b, text, nil)
	b.SetBytes(int64(len(string(text))))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Decompress(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}
