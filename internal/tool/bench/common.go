// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench compares block Huffman coding of text against other
// compression implementations with respect to encode speed, decode speed,
// and ratio.
package bench

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"testing"

	strconv "github.com/dsnet/golib/unitconv"
	"github.com/dsnet/huffblock/internal/testutil"
)

const (
	TestEncodeRate = iota
	TestDecodeRate
	TestCompressRatio
)

// An Encoder returns a compressor at the given level. Codecs without levels
// ignore it.
type Encoder func(io.Writer, int) io.WriteCloser
type Decoder func(io.Reader) io.ReadCloser

// Codec pairs the two halves of one compression format implementation.
type Codec struct {
	Encoder Encoder
	Decoder Decoder
}

var (
	Codecs = make(map[string]Codec)

	// List of search paths for test files.
	Paths []string
)

func RegisterCodec(name string, enc Encoder, dec Decoder) {
	Codecs[name] = Codec{enc, dec}
}

// CodecNames returns the registered codecs with "huffblock" first.
func CodecNames() []string {
	var names []string
	for k := range Codecs {
		if k != "huffblock" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	if _, ok := Codecs["huffblock"]; ok {
		names = append([]string{"huffblock"}, names...)
	}
	return names
}

// Compress encodes input with enc at the given level.
func Compress(input []byte, enc Encoder, lvl int) ([]byte, error) {
	buf := new(bytes.Buffer)
	wr := enc(buf, lvl)
	_, err := io.Copy(wr, bytes.NewReader(input))
	if cerr := wr.Close(); err == nil {
		err = cerr
	}
	return buf.Bytes(), err
}

// BenchmarkEncoder benchmarks a single encoder on the given input data using
// the selected compression level and reports the result.
func BenchmarkEncoder(input []byte, enc Encoder, lvl int) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if enc == nil {
			b.Fatalf("unexpected error: nil Encoder")
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			wr := enc(io.Discard, lvl)
			_, err := io.Copy(wr, bytes.NewReader(input))
			if err := wr.Close(); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(int64(len(input)))
		}
	})
}

type Result struct {
	R float64 // Rate (MB/s) or ratio (rawSize/compSize)
	D float64 // Delta ratio relative to primary benchmark
}

// BenchmarkEncoderSuite runs multiple benchmarks across all encoder
// implementations, files, levels, and sizes.
//
// The values returned have the following structure:
//
//	results: [len(files)*len(levels)*len(sizes)][len(codecs)]Result
//	names:   [len(files)*len(levels)*len(sizes)]string
func BenchmarkEncoderSuite(codecs, files []string, levels, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, files, levels, sizes, tick,
		func(input []byte, codec string, lvl int) Result {
			result := BenchmarkEncoder(input, Codecs[codec].Encoder, lvl)
			return rate(result)
		})
}

// BenchmarkDecoder benchmarks a single decoder on the given pre-compressed
// input data and reports the result.
func BenchmarkDecoder(input []byte, dec Decoder) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if dec == nil {
			b.Fatalf("unexpected error: nil Decoder")
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			rd := dec(bytes.NewReader(input))
			cnt, err := io.Copy(io.Discard, rd)
			if err := rd.Close(); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(int64(cnt))
		}
	})
}

// BenchmarkDecoderSuite runs multiple benchmarks across all decoder
// implementations, files, levels, and sizes. Every format is different, so
// each decoder reads the output of its own codec's encoder.
//
// The values returned have the following structure:
//
//	results: [len(files)*len(levels)*len(sizes)][len(codecs)]Result
//	names:   [len(files)*len(levels)*len(sizes)]string
func BenchmarkDecoderSuite(codecs, files []string, levels, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, files, levels, sizes, tick,
		func(input []byte, codec string, lvl int) Result {
			output, err := Compress(input, Codecs[codec].Encoder, lvl)
			if err != nil {
				return Result{}
			}
			result := BenchmarkDecoder(output, Codecs[codec].Decoder)
			return rate(result)
		})
}

// BenchmarkRatioSuite runs multiple benchmarks across all encoder
// implementations, files, levels, and sizes.
//
// The values returned have the following structure:
//
//	results: [len(files)*len(levels)*len(sizes)][len(codecs)]Result
//	names:   [len(files)*len(levels)*len(sizes)]string
func BenchmarkRatioSuite(codecs, files []string, levels, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, files, levels, sizes, tick,
		func(input []byte, codec string, lvl int) Result {
			output, err := Compress(input, Codecs[codec].Encoder, lvl)
			if err != nil || len(output) == 0 {
				return Result{}
			}
			ratio := float64(len(input)) / float64(len(output))
			return Result{R: ratio}
		})
}

func rate(result testing.BenchmarkResult) Result {
	if result.N == 0 {
		return Result{}
	}
	us := (float64(result.T.Nanoseconds()) / 1e3) / float64(result.N)
	return Result{R: float64(result.Bytes) / us}
}

type benchFunc func(input []byte, codec string, level int) Result

func benchmarkSuite(codecs, files []string, levels, sizes []int, tick func(), run benchFunc) ([][]Result, []string) {
	// Allocate buffers for the result.
	d0 := len(files) * len(levels) * len(sizes)
	d1 := len(codecs)
	results := make([][]Result, d0)
	for i := range results {
		results[i] = make([]Result, d1)
	}
	names := make([]string, d0)

	// Run the benchmark for every codec, file, level, and size.
	var i int
	for _, f := range files {
		for _, l := range levels {
			for _, n := range sizes {
				b, err := loadText(getPath(f), n)
				name := getName(f, l, len(b))
				for j, c := range codecs {
					if tick != nil {
						tick()
					}
					names[i] = name
					if err == nil {
						results[i][j] = run(b, c, l)
					}
					results[i][j].D = results[i][j].R / results[i][0].R
				}
				i++
			}
		}
	}
	return results, names
}

// loadText loads a UTF-8 file resized to n code points.
func loadText(file string, n int) ([]byte, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("bench: empty file %s", file)
	}
	return []byte(string(testutil.ResizeText([]rune(string(b)), n))), nil
}

func getPath(file string) string {
	if path.IsAbs(file) {
		return file
	}
	for _, p := range Paths {
		p = path.Join(p, file)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return file
}

func getName(f string, l, n int) string {
	var sn string
	switch n {
	case 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10, 1e11, 1e12:
		s := fmt.Sprintf("%e", float64(n))
		re := regexp.MustCompile("\\.0*e\\+0*")
		sn = re.ReplaceAllString(s, "e")
	default:
		s := strconv.FormatPrefix(float64(n), strconv.Base1024, 2)
		sn = strings.Replace(s, ".00", "", -1)
	}
	return fmt.Sprintf("%s:%d:%s", path.Base(f), l, sn)
}
