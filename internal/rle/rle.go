// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package rle implements run-length compaction of decimal digit sequences.
//
// A compacted sequence is a list of runs. A positive run repeats one digit;
// a negative run holds that many literal digits. In binary form the literal
// digits are packed as decimal numbers so that nineteen digits fit in eight
// bytes.
package rle

import (
	"fmt"

	"github.com/dsnet/huffblock/internal/binio"
	"github.com/dsnet/huffblock/internal/errors"
)

// MaxRun is the largest number of digits a single run may cover.
const MaxRun = 127

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "rle", Msg: fmt.Sprintf(f, a...)}
}

type Run struct {
	Count  int     // Positive for a repeated digit, negative for literal digits
	Digits []uint8 // One digit if Count > 0, otherwise -Count digits
}

// Len reports the number of digits the run expands to.
func (r Run) Len() int {
	if r.Count < 0 {
		return -r.Count
	}
	return r.Count
}

// Compact splits digits into runs. Repetitions of two or more become
// repeated runs; everything else is gathered into literal runs. A lone
// literal digit is stored as a repeated run of one.
func Compact(digits []uint8) []Run {
	var runs []Run
	var lits []uint8
	flush := func() {
		switch len(lits) {
		case 0:
		case 1:
			runs = append(runs, Run{Count: 1, Digits: lits})
		default:
			runs = append(runs, Run{Count: -len(lits), Digits: lits})
		}
		lits = nil
	}

	for i := 0; i < len(digits); {
		j := i + 1
		for j < len(digits) && digits[j] == digits[i] {
			j++
		}
		if j-i == 1 {
			lits = append(lits, digits[i])
			if len(lits) == MaxRun {
				flush()
			}
			i = j
			continue
		}
		flush()
		for n := j - i; n > 0; n -= MaxRun {
			runs = append(runs, Run{Count: min(n, MaxRun), Digits: []uint8{digits[i]}})
		}
		i = j
	}
	flush()
	return runs
}

// Expand is the inverse of Compact.
func Expand(runs []Run) []uint8 {
	var digits []uint8
	for _, r := range runs {
		if r.Count > 0 {
			for i := 0; i < r.Count; i++ {
				digits = append(digits, r.Digits[0])
			}
			continue
		}
		digits = append(digits, r.Digits...)
	}
	return digits
}

// digitGroups lists the literal packing widths, widest first.
var digitGroups = []struct {
	digits int
	bytes  int
}{{19, 8}, {9, 4}, {4, 2}, {2, 1}, {1, 1}}

// Write writes the digit count followed by the compacted runs.
// Every digit must be in 0..9.
func Write(bw *binio.Writer, digits []uint8) {
	bw.WriteUint64(uint64(len(digits)))
	for _, r := range Compact(digits) {
		bw.WriteInt8(int8(r.Count))
		if r.Count > 0 {
			bw.WriteUint8(r.Digits[0])
			continue
		}
		writeLiterals(bw, r.Digits)
	}
}

func writeLiterals(bw *binio.Writer, lits []uint8) {
	for len(lits) > 0 {
		for _, g := range digitGroups {
			if len(lits) < g.digits {
				continue
			}
			var v uint64
			for _, d := range lits[:g.digits] {
				v = 10*v + uint64(d)
			}
			switch g.bytes {
			case 8:
				bw.WriteUint64(v)
			case 4:
				bw.WriteUint32(uint32(v))
			case 2:
				bw.WriteUint16(uint16(v))
			default:
				if g.digits == 1 {
					bw.WriteInt8(-int8(v))
				} else {
					bw.WriteUint8(uint8(v))
				}
			}
			lits = lits[g.digits:]
			break
		}
	}
}

// Read reads a digit sequence produced by Write. The sequence may hold at
// most maxDigits digits.
func Read(br *binio.Reader, maxDigits int) []uint8 {
	cnt := br.ReadUint64()
	if cnt > uint64(maxDigits) {
		errors.Panic(errorf(errors.Corrupted, "digit count %d exceeds %d", cnt, maxDigits))
	}
	digits := make([]uint8, 0, cnt)
	for uint64(len(digits)) < cnt {
		n := int(br.ReadInt8())
		left := int(cnt) - len(digits)
		switch {
		case n == 0:
			errors.Panic(errorf(errors.Corrupted, "empty run"))
		case n > 0:
			if n > left {
				errors.Panic(errorf(errors.Corrupted, "run of %d overflows %d remaining digits", n, left))
			}
			d := br.ReadUint8()
			for i := 0; i < n; i++ {
				digits = append(digits, d)
			}
		default:
			if -n > left {
				errors.Panic(errorf(errors.Corrupted, "run of %d overflows %d remaining digits", -n, left))
			}
			digits = readLiterals(br, digits, -n)
		}
	}
	return digits
}

func readLiterals(br *binio.Reader, digits []uint8, n int) []uint8 {
	for n > 0 {
		for _, g := range digitGroups {
			if n < g.digits {
				continue
			}
			var v uint64
			switch g.bytes {
			case 8:
				v = br.ReadUint64()
			case 4:
				v = uint64(br.ReadUint32())
			case 2:
				v = uint64(br.ReadUint16())
			default:
				if g.digits == 1 {
					s := br.ReadInt8()
					if s > 0 || s < -9 {
						errors.Panic(errorf(errors.Corrupted, "invalid literal digit %d", -int(s)))
					}
					v = uint64(-s)
				} else {
					v = uint64(br.ReadUint8())
				}
			}
			var buf [19]uint8
			for i := g.digits - 1; i >= 0; i-- {
				buf[i] = uint8(v % 10)
				v /= 10
			}
			if v != 0 {
				errors.Panic(errorf(errors.Corrupted, "literal group overflows %d digits", g.digits))
			}
			digits = append(digits, buf[:g.digits]...)
			n -= g.digits
			break
		}
	}
	return digits
}
