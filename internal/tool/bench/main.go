// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build ignore

// Benchmark tool to compare block Huffman coding of text against other
// compression implementations. Individual implementations are referred to
// as codecs. Since every codec has its own format, decode rates are always
// measured on the output of the same codec's encoder.
//
// Example usage:
//
//	$ go build -o benchmark main.go
//	$ ./benchmark \
//		-tests   encRate,ratio       \
//		-codecs  huffblock,zstd,xz   \
//		-files   english.txt         \
//		-levels  1,6,9               \
//		-sizes   1e4,64Ki
//
// The level selects the maximum tree height for huffblock (level+2, up to 9)
// and is ignored by codecs without levels.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	strconv "github.com/dsnet/golib/unitconv"
	"github.com/dsnet/huffblock/internal/tool/bench"
)

// By default, the benchmark tool will look for test data relative to the
// working directory.
const testDir = "testdata"

const (
	defaultLevels = "1,6,9"
	defaultSizes  = "1e4,1e5"
)

var (
	testToEnum = map[string]int{
		"encRate": bench.TestEncodeRate,
		"decRate": bench.TestDecodeRate,
		"ratio":   bench.TestCompressRatio,
	}
	enumToTest = map[int]string{
		bench.TestEncodeRate:    "encRate",
		bench.TestDecodeRate:    "decRate",
		bench.TestCompressRatio: "ratio",
	}
)

func defaultTests() string {
	var d []int
	for k := range enumToTest {
		d = append(d, k)
	}
	sort.Ints(d)
	var s []string
	for _, v := range d {
		s = append(s, enumToTest[v])
	}
	return strings.Join(s, ",")
}

func defaultFiles() string {
	des, err := os.ReadDir(testDir)
	if err != nil {
		return ""
	}
	var s []string
	for _, de := range des {
		if filepath.Ext(de.Name()) == ".txt" {
			s = append(s, de.Name())
		}
	}
	return strings.Join(s, ",")
}

func main() {
	// Setup flag arguments.
	f0 := flag.String("tests", defaultTests(), "List of different benchmark tests")
	f1 := flag.String("codecs", strings.Join(bench.CodecNames(), ","), "List of codecs to benchmark")
	f2 := flag.String("paths", testDir, "List of paths to search for test files")
	f3 := flag.String("files", defaultFiles(), "List of input files to benchmark")
	f4 := flag.String("levels", defaultLevels, "List of compression levels to benchmark")
	f5 := flag.String("sizes", defaultSizes, "List of input sizes in code points to benchmark")
	flag.Parse()

	// Parse the flag arguments.
	var sep = regexp.MustCompile("[,:]")
	var codecs, paths, files []string
	var tests, levels, sizes []int
	for _, s := range sep.Split(*f1, -1) {
		if _, ok := bench.Codecs[s]; !ok {
			fmt.Fprintf(os.Stderr, "unknown codec: %q\n", s)
			os.Exit(1)
		}
		codecs = append(codecs, s)
	}
	paths = sep.Split(*f2, -1)
	files = sep.Split(*f3, -1)
	for _, s := range sep.Split(*f0, -1) {
		if _, ok := testToEnum[s]; !ok {
			fmt.Fprintf(os.Stderr, "unknown test: %q\n", s)
			os.Exit(1)
		}
		tests = append(tests, testToEnum[s])
	}
	for _, s := range sep.Split(*f4, -1) {
		lvl, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid level: %q\n", s)
			os.Exit(1)
		}
		levels = append(levels, int(lvl))
	}
	for _, s := range sep.Split(*f5, -1) {
		var size int
		if nf, err := strconv.ParsePrefix(s, strconv.AutoParse); err == nil {
			size = int(nf)
		}
		sizes = append(sizes, size)
	}

	ts := time.Now()
	bench.Paths = paths
	runBenchmarks(files, codecs, tests, levels, sizes)
	te := time.Now()
	fmt.Printf("RUNTIME: %v\n", te.Sub(ts))
}

func runBenchmarks(files, codecs []string, tests, levels, sizes []int) {
	for _, t := range tests {
		var results [][]bench.Result
		var names []string
		var title, suffix string

		fmt.Printf("BENCHMARK: %s\n", enumToTest[t])
		if len(codecs) == 0 {
			fmt.Print("\tSKIP: There are no codecs available.\n\n")
			continue
		}

		// Progress ticker.
		var cnt int
		tick := func() {
			total := len(codecs) * len(files) * len(levels) * len(sizes)
			pct := 100.0 * float64(cnt) / float64(total)
			fmt.Printf("\t[%6.2f%%] %d of %d\r", pct, cnt, total)
			cnt++
		}

		// Perform the bench. This may take some time.
		switch t {
		case bench.TestEncodeRate:
			title, suffix = "MB/s", ""
			results, names = bench.BenchmarkEncoderSuite(codecs, files, levels, sizes, tick)
		case bench.TestDecodeRate:
			title, suffix = "MB/s", ""
			results, names = bench.BenchmarkDecoderSuite(codecs, files, levels, sizes, tick)
		case bench.TestCompressRatio:
			title, suffix = "ratio", "x"
			results, names = bench.BenchmarkRatioSuite(codecs, files, levels, sizes, tick)
		default:
			panic("unknown test")
		}

		printResults(results, names, codecs, title, suffix)
		fmt.Println()
	}
}

func printResults(results [][]bench.Result, names, codecs []string, title, suffix string) {
	// Allocate result table.
	cells := make([][]string, 1+len(names))
	for i := range cells {
		cells[i] = make([]string, 1+2*len(codecs))
	}

	// Label the first row.
	cells[0][0] = "benchmark"
	for i, c := range codecs {
		cells[0][1+2*i] = c + " " + title
		cells[0][2+2*i] = "delta"
	}

	// Insert all rows.
	for j, row := range results {
		cells[1+j][0] = names[j]
		for i, r := range row {
			if r.R != 0 && !math.IsNaN(r.R) && !math.IsInf(r.R, 0) {
				cells[1+j][1+2*i] = fmt.Sprintf("%.2f", r.R) + suffix
			}
			if r.D != 0 && !math.IsNaN(r.D) && !math.IsInf(r.D, 0) {
				cells[1+j][2+2*i] = fmt.Sprintf("%.2f", r.D) + "x"
			}
		}
	}

	// Compute the maximum lengths.
	maxLens := make([]int, 1+2*len(codecs))
	for _, row := range cells {
		for i, s := range row {
			maxLens[i] = max(maxLens[i], len(s))
		}
	}

	// Print padded versions of all cells.
	for _, row := range cells {
		fmt.Print("\t")
		for i, s := range row {
			switch {
			case i == 0: // Column 0
				row[i] = s + strings.Repeat(" ", maxLens[i]-len(s))
			case i%2 == 1: // Column 1, 3, 5, 7, ...
				row[i] = strings.Repeat(" ", 6+maxLens[i]-len(s)) + s
			case i%2 == 0: // Column 2, 4, 6, 8, ...
				row[i] = strings.Repeat(" ", 2+maxLens[i]-len(s)) + s
			}
			fmt.Print(row[i])
		}
		fmt.Println()
	}
}
