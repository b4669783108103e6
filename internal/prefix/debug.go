// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"fmt"
	"strings"
)

func lenBase10(n int) int { return len(fmt.Sprintf("%d", n)) }
func padBase10(n interface{}, m int) string {
	s := fmt.Sprintf("%d", n)
	if pad := m - len(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}

func padBase2(v, n uint32, m int) string {
	var s string
	if n > 0 {
		s = fmt.Sprintf("%0*b", int(n), v)
	}
	if pad := m - len(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}

func (pc PrefixCodes) String() string {
	var maxLen, maxCnt int
	for _, c := range pc {
		if maxLen < int(c.Len) {
			maxLen = int(c.Len)
		}
		if maxCnt < int(c.Cnt) {
			maxCnt = int(c.Cnt)
		}
	}
	maxCntStr := lenBase10(maxCnt)

	var ss []string
	ss = append(ss, "{")
	for _, c := range pc {
		var cntStr string
		if maxCnt > 0 {
			cnt := int(32*float32(c.Cnt)/float32(maxCnt) + 0.5)
			cntStr = fmt.Sprintf("%s |%s",
				padBase10(c.Cnt, maxCntStr),
				strings.Repeat("#", cnt),
			)
		}
		ss = append(ss, fmt.Sprintf("\t%-8q %s,  %s",
			c.Sym,
			padBase2(c.Val, c.Len, maxLen),
			cntStr,
		))
	}
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}

func (pd Decoder) String() string {
	var ss []string
	ss = append(ss, "{")
	for n := pd.minBits; n <= pd.maxBits && n > 0; n++ {
		if pd.counts[n] == 0 {
			continue
		}
		ss = append(ss, fmt.Sprintf("\tlen %d:  {first: %s, count: %s, syms: %q},",
			n, padBase2(pd.firsts[n], n, int(pd.maxBits)),
			padBase10(pd.counts[n], 3),
			pd.syms[pd.offsets[n]:pd.offsets[n]+pd.counts[n]],
		))
	}
	ss = append(ss, fmt.Sprintf("\tminBits: %d,", pd.minBits))
	ss = append(ss, fmt.Sprintf("\tmaxBits: %d,", pd.maxBits))
	ss = append(ss, fmt.Sprintf("\tnumSyms: %d,", pd.numSyms))
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}

func (pe Encoder) String() string {
	var ss []string
	ss = append(ss, "{")
	for i, c := range pe.chunks {
		if c == 0 {
			continue
		}
		ss = append(ss, fmt.Sprintf("\t%-8q %s,", rune(i), padBase2(c>>countBits, c&countMask, MaxPrefixBits)))
	}
	for sym, c := range pe.others {
		ss = append(ss, fmt.Sprintf("\t%-8q %s,", sym, padBase2(c>>countBits, c&countMask, MaxPrefixBits)))
	}
	ss = append(ss, fmt.Sprintf("\tnumSyms: %d,", pe.numSyms))
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}

func (t *Tree) String() string {
	if t.Height() == 0 {
		return "()"
	}
	var sb strings.Builder
	var walk func(idx int32)
	walk = func(idx int32) {
		n := &t.nodes[idx]
		if n.left == nilNode {
			fmt.Fprintf(&sb, "%q:%g", n.sym, n.weight)
			return
		}
		sb.WriteByte('(')
		walk(n.left)
		sb.WriteByte(' ')
		walk(n.right)
		sb.WriteByte(')')
	}
	walk(t.root)
	return sb.String()
}
