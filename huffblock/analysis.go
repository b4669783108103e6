// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffblock

import (
	"math"
	"sort"
)

// Frequencies is the symbol distribution of a window of text.
// The three slices are parallel and ordered by ascending code point.
type Frequencies struct {
	Alphabet []rune
	Counts   []int
	Weights  []float64 // Relative frequency, quantized
}

// Analyze computes the frequencies of the code points in window. Each weight
// is count/len(window) rounded half away from zero to the given number of
// decimal digits.
func Analyze(window []rune, digits int) Frequencies {
	var h histogram
	h.Add(window)
	return h.Frequencies(digits)
}

// Quantize rounds x half away from zero to the given number of decimal digits.
func Quantize(x float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(x*p) / p
}

// Entropy reports the Shannon entropy of text in bits per code point.
func Entropy(text []rune) float64 {
	if len(text) == 0 {
		return 0
	}
	var h histogram
	h.Add(text)
	var e float64
	n := float64(h.total)
	for _, c := range h.counts {
		p := float64(c) / n
		e -= p * math.Log2(p)
	}
	return e
}

// MatchRatio reports the fraction of positions at which got and want hold
// the same code point, relative to the longer of the two.
func MatchRatio(got, want []rune) float64 {
	n := max(len(got), len(want))
	if n == 0 {
		return 1
	}
	var same int
	for i, m := 0, min(len(got), len(want)); i < m; i++ {
		if got[i] == want[i] {
			same++
		}
	}
	return float64(same) / float64(n)
}

// histogram counts code points and supports incremental updates as a
// window grows or shrinks.
type histogram struct {
	counts map[rune]int
	total  int
}

func (h *histogram) Reset() {
	clear(h.counts)
	h.total = 0
}

func (h *histogram) Add(rs []rune) {
	if h.counts == nil {
		h.counts = make(map[rune]int)
	}
	for _, r := range rs {
		h.counts[r]++
	}
	h.total += len(rs)
}

func (h *histogram) Remove(rs []rune) {
	for _, r := range rs {
		if h.counts[r]--; h.counts[r] <= 0 {
			delete(h.counts, r)
		}
	}
	h.total -= len(rs)
}

// Len reports the number of distinct code points.
func (h *histogram) Len() int { return len(h.counts) }

func (h *histogram) Frequencies(digits int) Frequencies {
	var f Frequencies
	if h.total == 0 {
		return f
	}
	f.Alphabet = make([]rune, 0, len(h.counts))
	for r := range h.counts {
		f.Alphabet = append(f.Alphabet, r)
	}
	sort.Slice(f.Alphabet, func(i, j int) bool { return f.Alphabet[i] < f.Alphabet[j] })
	f.Counts = make([]int, len(f.Alphabet))
	f.Weights = make([]float64, len(f.Alphabet))
	for i, r := range f.Alphabet {
		f.Counts[i] = h.counts[r]
		f.Weights[i] = Quantize(float64(f.Counts[i])/float64(h.total), digits)
	}
	return f
}

// ByWeight returns the alphabet and weights reordered by ascending weight,
// keeping code point order among equal weights.
func (f Frequencies) ByWeight() ([]rune, []float64) {
	idx := make([]int, len(f.Alphabet))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return f.Weights[idx[i]] < f.Weights[idx[j]] })
	syms := make([]rune, len(idx))
	weights := make([]float64, len(idx))
	for i, k := range idx {
		syms[i], weights[i] = f.Alphabet[k], f.Weights[k]
	}
	return syms, weights
}
