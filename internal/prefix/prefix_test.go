// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"bytes"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/dsnet/huffblock/internal/errors"
	"github.com/dsnet/huffblock/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBuildTree(t *testing.T) {
	var vectors = []struct {
		syms    []rune
		weights []float64
		height  int
		tree    string
		codes   PrefixCodes // Sym, Len, and Val only
	}{{
		height: 0,
		tree:   "()",
	}, {
		syms:    []rune{'a'},
		weights: []float64{1},
		height:  1,
		tree:    "'a':1",
		codes:   PrefixCodes{{Sym: 'a', Len: 1, Val: 0}},
	}, {
		syms:    []rune{'a', 'b'},
		weights: []float64{0.5, 0.5},
		height:  2,
		tree:    "('a':0.5 'b':0.5)",
		codes:   PrefixCodes{{Sym: 'a', Len: 1, Val: 0}, {Sym: 'b', Len: 1, Val: 1}},
	}, {
		// Equal weights: the older subtree is consumed first.
		syms:    []rune{'a', 'b', 'c', 'd'},
		weights: []float64{0.25, 0.25, 0.25, 0.25},
		height:  3,
		tree:    "(('a':0.25 'b':0.25) ('c':0.25 'd':0.25))",
		codes: PrefixCodes{
			{Sym: 'a', Len: 2, Val: 0}, {Sym: 'b', Len: 2, Val: 1},
			{Sym: 'c', Len: 2, Val: 2}, {Sym: 'd', Len: 2, Val: 3},
		},
	}, {
		// The merged weight 0.1+0.2 is within Epsilon of 0.3, so it is
		// placed after the leaf 'c'.
		syms:    []rune{'a', 'b', 'c', 'd'},
		weights: []float64{0.1, 0.2, 0.3, 0.4},
		height:  4,
		tree:    "('d':0.4 ('c':0.3 ('a':0.1 'b':0.2)))",
		codes: PrefixCodes{
			{Sym: 'd', Len: 1, Val: 0b0}, {Sym: 'c', Len: 2, Val: 0b10},
			{Sym: 'a', Len: 3, Val: 0b110}, {Sym: 'b', Len: 3, Val: 0b111},
		},
	}, {
		syms:    []rune{'я', 'ж', '€'},
		weights: []float64{0.2, 0.3, 0.5},
		height:  3,
		tree:    "('€':0.5 ('я':0.2 'ж':0.3))",
		codes: PrefixCodes{
			{Sym: '€', Len: 1, Val: 0b0},
			{Sym: 'ж', Len: 2, Val: 0b10}, {Sym: 'я', Len: 2, Val: 0b11},
		},
	}}

	for i, v := range vectors {
		tree := BuildTree(v.syms, v.weights)
		if got := tree.Height(); got != v.height {
			t.Errorf("test %d, height mismatch: got %d, want %d", i, got, v.height)
		}
		if got := tree.String(); got != v.tree {
			t.Errorf("test %d, tree mismatch:\ngot  %s\nwant %s", i, got, v.tree)
		}
		codes, err := CanonicalCodes(tree)
		if err != nil {
			t.Errorf("test %d, unexpected error: %v", i, err)
			continue
		}
		assert.Equal(t, len(v.codes), len(codes), "test %d", i)
		for j := range v.codes {
			if j < len(codes) && codes[j] != v.codes[j] {
				t.Errorf("test %d, code %d mismatch: got %+v, want %+v", i, j, codes[j], v.codes[j])
			}
		}
	}
}

func TestGeneratePrefixes(t *testing.T) {
	var vectors = []struct {
		input  PrefixCodes // Sym and Len only
		output PrefixCodes
		valid  bool
	}{{
		input:  PrefixCodes{},
		output: PrefixCodes{},
		valid:  true,
	}, {
		input:  PrefixCodes{{Sym: 'a', Len: 1}},
		output: PrefixCodes{{Sym: 'a', Len: 1, Val: 0}},
		valid:  true,
	}, {
		input:  PrefixCodes{{Sym: 'a', Len: 2}, {Sym: 'b', Len: 1}, {Sym: 'c', Len: 2}},
		output: PrefixCodes{{Sym: 'b', Len: 1, Val: 0}, {Sym: 'a', Len: 2, Val: 2}, {Sym: 'c', Len: 2, Val: 3}},
		valid:  true,
	}, {
		// Incomplete trees are still numbered.
		input:  PrefixCodes{{Sym: 'x', Len: 3}, {Sym: 'y', Len: 1}},
		output: PrefixCodes{{Sym: 'y', Len: 1, Val: 0}, {Sym: 'x', Len: 3, Val: 4}},
		valid:  true,
	}, {
		input: PrefixCodes{{Sym: 'a', Len: 1}, {Sym: 'b', Len: 1}, {Sym: 'c', Len: 1}},
		valid: false,
	}, {
		input: PrefixCodes{{Sym: 'a', Len: 0}, {Sym: 'b', Len: 1}},
		valid: false,
	}, {
		input: PrefixCodes{{Sym: 'a', Len: MaxPrefixBits + 1}},
		valid: false,
	}}

	for i, v := range vectors {
		err := GeneratePrefixes(v.input)
		if v.valid != (err == nil) {
			t.Errorf("test %d, validity mismatch: got %v, want %v", i, err == nil, v.valid)
			continue
		}
		if err != nil {
			if !errors.IsReconstruction(err) {
				t.Errorf("test %d, unexpected error kind: %v", i, err)
			}
			continue
		}
		assert.Equal(t, v.output, v.input, "test %d", i)
		if !v.input.checkPrefixes() {
			t.Errorf("test %d, codes are not prefix-free", i)
		}
		if !v.input.checkCanonical() {
			t.Errorf("test %d, codes are not canonical", i)
		}
	}
}

func TestCanonicalRandom(t *testing.T) {
	r := testutil.NewRand(0)
	for i := 0; i < 200; i++ {
		n := 1 + r.Intn(40)
		syms := make([]rune, n)
		for j, k := range r.Perm(n) {
			syms[j] = rune(0x20 + 3*k)
		}
		weights := make([]float64, n)
		for j := range weights {
			weights[j] = float64(1+r.Intn(100)) / 100
		}
		// The tree expects ascending weight with ties in code point order.
		idx := make([]int, n)
		for j := range idx {
			idx[j] = j
		}
		sort.Slice(idx, func(a, b int) bool {
			if weights[idx[a]] != weights[idx[b]] {
				return weights[idx[a]] < weights[idx[b]]
			}
			return syms[idx[a]] < syms[idx[b]]
		})
		ss, ws := make([]rune, n), make([]float64, n)
		for j, k := range idx {
			ss[j], ws[j] = syms[k], weights[k]
		}

		tree := BuildTree(ss, ws)
		if tree.Height() > n {
			t.Errorf("test %d, height %d exceeds alphabet size %d", i, tree.Height(), n)
		}
		lens := tree.Lengths()
		if got := int(lens.MaxLen()); got != max(tree.Height()-1, 1) {
			t.Errorf("test %d, longest code mismatch: got %d, want %d", i, got, tree.Height()-1)
		}
		if tree.Height() > MaxPrefixBits {
			continue
		}

		codes, err := CanonicalCodes(tree)
		if err != nil {
			t.Fatalf("test %d, unexpected error: %v", i, err)
		}
		if !codes.checkLengths() {
			t.Errorf("test %d, lengths violate the Kraft inequality", i)
		}
		if !codes.checkPrefixes() {
			t.Errorf("test %d, codes are not prefix-free", i)
		}
		if !codes.checkCanonical() {
			t.Errorf("test %d, codes are not canonical", i)
		}

		// Renumbering from only the symbol order and lengths must agree.
		again := make(PrefixCodes, len(codes))
		for j, c := range codes {
			again[j] = PrefixCode{Sym: c.Sym, Len: c.Len}
		}
		if err := GeneratePrefixes(again); err != nil {
			t.Fatalf("test %d, unexpected error: %v", i, err)
		}
		assert.Equal(t, codes, again, "test %d", i)
	}
}

func TestDebugString(t *testing.T) {
	codes := PrefixCodes{{Sym: 'a', Len: 2}, {Sym: 'b', Len: 1}, {Sym: 'ж', Len: 2}}
	if err := GeneratePrefixes(codes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var pd Decoder
	pd.Init(codes)
	var pe Encoder
	pe.Init(codes)

	wantCodes := strings.Join([]string{
		"{",
		"\t'b'       0,  ",
		"\t'a'      10,  ",
		"\t'ж'      11,  ",
		"}",
	}, "\n")
	assert.Equal(t, wantCodes, codes.String())

	wantDecoder := strings.Join([]string{
		"{",
		"\tlen 1:  {first:  0, count:   1, syms: ['b']},",
		"\tlen 2:  {first: 10, count:   2, syms: ['a' 'ж']},",
		"\tminBits: 1,",
		"\tmaxBits: 2,",
		"\tnumSyms: 3,",
		"}",
	}, "\n")
	assert.Equal(t, wantDecoder, pd.String())

	wantEncoder := strings.Join([]string{
		"{",
		"\t'a'             10,",
		"\t'b'              0,",
		"\t'ж'             11,",
		"\tnumSyms: 3,",
		"}",
	}, "\n")
	assert.Equal(t, wantEncoder, pe.String())

	var empty Decoder
	assert.Equal(t, "{\n\tminBits: 0,\n\tmaxBits: 0,\n\tnumSyms: 0,\n}", empty.String())
}

func TestReadWrite(t *testing.T) {
	codes := PrefixCodes{
		{Sym: 'e', Len: 2}, {Sym: 't', Len: 2}, {Sym: ' ', Len: 3},
		{Sym: 'ё', Len: 3}, {Sym: '😀', Len: 3}, {Sym: 'q', Len: 4}, {Sym: 'z', Len: 4},
	}
	if err := GeneratePrefixes(codes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var pe Encoder
	pe.Init(codes)
	var pd Decoder
	pd.Init(codes)

	type op struct {
		sym  rune
		val  uint64
		bits uint
	}
	r := testutil.NewRand(0)
	var ops []op
	var pw Writer
	pw.Init()
	for i := 0; i < 1000; i++ {
		if r.Intn(4) == 0 {
			nb := uint(r.Intn(24))
			o := op{sym: -1, val: uint64(r.Int() & (1<<nb - 1)), bits: nb}
			pw.WriteBits(o.val, o.bits)
			ops = append(ops, o)
			continue
		}
		o := op{sym: codes[r.Intn(len(codes))].Sym}
		pw.WriteSymbol(o.sym, &pe)
		ops = append(ops, o)
	}
	buf, nbits := pw.Finish()
	if got, want := uint64(len(buf)), (nbits+7)/8; got != want {
		t.Fatalf("buffer length mismatch: got %d, want %d", got, want)
	}

	var pr Reader
	pr.Init(buf, nbits)
	for i, o := range ops {
		if o.sym < 0 {
			if got := pr.ReadBits(o.bits); got != o.val {
				t.Fatalf("op %d, read bits mismatch: got %d, want %d", i, got, o.val)
			}
			continue
		}
		if got := pr.ReadSymbol(&pd); got != o.sym {
			t.Fatalf("op %d, read symbol mismatch: got %q, want %q", i, got, o.sym)
		}
	}
	if pr.BitsRead() != nbits {
		t.Errorf("bits read mismatch: got %d, want %d", pr.BitsRead(), nbits)
	}
	if pads := pr.ReadPads(); pads != 0 {
		t.Errorf("bit padding mismatch: got %d, want 0", pads)
	}

	var err error
	func() {
		defer errors.Recover(&err)
		pr.ReadBits(1)
	}()
	if err != io.ErrUnexpectedEOF {
		t.Errorf("mismatching error: got %v, want %v", err, io.ErrUnexpectedEOF)
	}
}

func TestReadSymbolInvalid(t *testing.T) {
	codes := PrefixCodes{{Sym: 'a', Len: 1}}
	if err := GeneratePrefixes(codes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var pd Decoder
	pd.Init(codes)

	buf, nbits := Pack("0", "0", "1")
	var pr Reader
	pr.Init(buf, nbits)

	var syms []rune
	var err error
	func() {
		defer errors.Recover(&err)
		for {
			syms = append(syms, pr.ReadSymbol(&pd))
		}
	}()
	assert.Equal(t, []rune{'a', 'a'}, syms)
	assert.True(t, errors.IsCorrupted(err), "got %v", err)
}

func TestPack(t *testing.T) {
	var vectors = []struct {
		bits   []string
		output []byte
		nbits  uint64
	}{
		{nil, nil, 0},
		{[]string{"0", "1", "0", "1"}, []byte{0x50}, 4},
		{[]string{"0000"}, []byte{0x00}, 4},
		{[]string{"11111111", "1"}, []byte{0xff, 0x80}, 9},
		{[]string{"110", "10", "0", "111"}, []byte{0xd3, 0x80}, 9},
	}

	for i, v := range vectors {
		output, nbits := Pack(v.bits...)
		if !bytes.Equal(output, v.output) || nbits != v.nbits {
			t.Errorf("test %d, output mismatch: got (%x, %d), want (%x, %d)", i, output, nbits, v.output, v.nbits)
		}
		var want string
		for _, s := range v.bits {
			want += s
		}
		if got := Unpack(output, nbits); got != want {
			t.Errorf("test %d, unpack mismatch: got %q, want %q", i, got, want)
		}
	}
}

func BenchmarkBuildTree(b *testing.B) {
	r := testutil.NewRand(0)
	syms := make([]rune, 200)
	weights := make([]float64, 200)
	for i := range syms {
		syms[i] = rune(0x400 + i)
		weights[i] = float64(1+r.Intn(100)) / 100
	}
	sort.Float64s(weights)

	var tree Tree
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tree.Init(syms, weights)
	}
}
