// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command huffblock compresses UTF-8 text files into block containers and
// restores them.
//
// Example usage:
//
//	$ huffblock encode book.txt book.hb
//	$ huffblock -max-block 64Ki -jobs 4 encode book.txt book.hb
//	$ huffblock decode book.hb book.out
//	$ huffblock -verify book.txt info book.hb
//
// Output files are only written once the whole input has been processed,
// so a failed run never leaves a partial file behind.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/golib/memfile"
	strconv "github.com/dsnet/golib/unitconv"
	"github.com/dsnet/huffblock/huffblock"
	"github.com/dsnet/huffblock/internal/errors"
	"github.com/dsnet/huffblock/internal/logger"
)

const usage = `Usage:
	huffblock [flags] encode SRC DST
	huffblock [flags] decode SRC DST
	huffblock [flags] info SRC

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes a single command and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("huffblock", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	f0 := fs.Int("max-height", huffblock.DefaultMaxHeight, "Maximum Huffman tree height of a block (1..9)")
	f1 := fs.String("initial", "100", "Initial block window in code points")
	f2 := fs.String("increment", "50", "Block window growth step in code points")
	f3 := fs.String("max-block", "1e5", "Maximum block size in code points")
	f4 := fs.Int("precision", huffblock.DefaultPrecision, "Decimal digits kept in quantized frequencies")
	f5 := fs.Int("jobs", 0, "Number of blocks packed in parallel (0 selects the CPU count)")
	f6 := fs.String("verify", "", "Original text to compare the decoded container against (info only)")
	f7 := fs.Bool("v", false, "Log every block")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	log := logger.New(stderr, *f7)

	var conf huffblock.WriterConfig
	sizes := []struct {
		name string
		val  string
		dst  *int
	}{
		{"initial", *f1, &conf.InitialWindow},
		{"increment", *f2, &conf.Increment},
		{"max-block", *f3, &conf.MaxBlockSize},
	}
	for _, s := range sizes {
		n, err := parseSize(s.val)
		if err != nil {
			log.Errorf("invalid -%s: %v", s.name, err)
			return 1
		}
		*s.dst = n
	}
	conf.MaxHeight = *f0
	conf.Precision = *f4
	conf.Concurrency = *f5

	events := huffblock.ListenerFunc(func(evt *huffblock.Event) {
		log.Debugf("%v", evt)
	})

	var err error
	switch cmd := fs.Arg(0); {
	case cmd == "encode" && fs.NArg() == 3:
		conf.Listeners = []huffblock.Listener{events}
		err = encode(log, fs.Arg(1), fs.Arg(2), &conf)
	case cmd == "decode" && fs.NArg() == 3:
		err = decode(log, fs.Arg(1), fs.Arg(2), &huffblock.ReaderConfig{Listeners: []huffblock.Listener{events}})
	case cmd == "info" && fs.NArg() == 2:
		err = info(stdout, fs.Arg(1), *f6, *f7)
	default:
		fs.Usage()
		return 1
	}
	if err != nil {
		log.Errorf("%s: %v", fs.Arg(0), err)
		return 1
	}
	return 0
}

// parseSize parses a positive count that may carry a unit prefix
// such as 1e5 or 64Ki.
func parseSize(s string) (int, error) {
	f, err := strconv.ParsePrefix(s, strconv.AutoParse)
	if err != nil {
		return 0, err
	}
	if f < 1 || f != float64(int(f)) {
		return 0, fmt.Errorf("%q is not a positive integer", s)
	}
	return int(f), nil
}

// resourceError classifies a failure to open, read or write a file.
func resourceError(err error) error {
	return errors.Error{Code: errors.Resource, Pkg: "huffblock", Msg: err.Error()}
}

func formatSize(n int64) string {
	s := strconv.FormatPrefix(float64(n), strconv.Base1024, 2)
	return strings.Replace(s, ".00", "", -1) + "B"
}

func encode(log logger.Logger, src, dst string, conf *huffblock.WriterConfig) error {
	input, err := os.ReadFile(src)
	if err != nil {
		return resourceError(err)
	}

	mf := memfile.New(nil)
	hw, err := huffblock.NewWriter(mf, conf)
	if err != nil {
		return err
	}
	if _, err := hw.Write(input); err != nil {
		return err
	}
	if err := hw.Close(); err != nil {
		return err
	}
	if err := os.WriteFile(dst, mf.Bytes(), 0644); err != nil {
		return resourceError(err)
	}
	log.Infof("encoded %s (%s) into %s (%s)", src, formatSize(hw.InputOffset), dst, formatSize(hw.OutputOffset))
	return nil
}

func decode(log logger.Logger, src, dst string, conf *huffblock.ReaderConfig) error {
	f, err := os.Open(src)
	if err != nil {
		return resourceError(err)
	}
	defer f.Close()

	hr, err := huffblock.NewReader(f, conf)
	if err != nil {
		return err
	}
	mf := memfile.New(nil)
	if _, err := io.Copy(mf, hr); err != nil {
		return err
	}
	if err := hr.Close(); err != nil {
		return err
	}
	if err := os.WriteFile(dst, mf.Bytes(), 0644); err != nil {
		return resourceError(err)
	}
	log.Infof("decoded %s (%s) into %s (%s)", src, formatSize(hr.InputOffset), dst, formatSize(hr.OutputOffset))
	return nil
}

func info(w io.Writer, src, orig string, verbose bool) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return resourceError(err)
	}
	fi, err := huffblock.Inspect(bytes.NewReader(data))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "container:      %s\n", src)
	fmt.Fprintf(w, "blocks:         %d\n", len(fi.Blocks))
	fmt.Fprintf(w, "code points:    %d\n", fi.Runes)
	fmt.Fprintf(w, "raw size:       %s\n", formatSize(fi.RawSize))
	fmt.Fprintf(w, "packed size:    %s\n", formatSize(fi.CompressedSize))
	fmt.Fprintf(w, "ratio:          %.3fx\n", fi.Ratio())
	fmt.Fprintf(w, "bits per rune:  %.3f\n", fi.BitsPerRune())
	fmt.Fprintf(w, "avg block len:  %.1f\n", fi.AvgBlockLen())
	fmt.Fprintf(w, "crc32:          0x%08x\n", fi.CRC)
	if verbose {
		for i, b := range fi.Blocks {
			fmt.Fprintf(w, "\tblock %d: offset=%d runes=%d alphabet=%d bits=%d crc32=0x%08x\n",
				i, b.Offset, b.Runes, len(b.Alphabet), b.Bits, b.CRC)
		}
	}
	if orig == "" {
		return nil
	}

	want, err := os.ReadFile(orig)
	if err != nil {
		return resourceError(err)
	}
	got, err := huffblock.Decompress(bytes.NewReader(data))
	if err != nil {
		return err
	}
	wantText := []rune(string(want))
	r := huffblock.MatchRatio(got, wantText)
	fmt.Fprintf(w, "entropy:        %.3f bits\n", huffblock.Entropy(wantText))
	fmt.Fprintf(w, "match ratio:    %.4f\n", r)
	if r != 1 {
		return fmt.Errorf("decoded text differs from %s (match ratio %.4f)", orig, r)
	}
	return nil
}
