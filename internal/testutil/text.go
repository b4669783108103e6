// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

// scripts are the alphabets MixedText draws its words from.
var scripts = [][]rune{
	[]rune("etaoinshrdlcumwfgypbvkjxqz"),
	[]rune("оеаинтсрвлкмдпуяыьгзбчйхжшюцщэфъё"),
	[]rune("αεοιντσρυηκλμπωδγχθφβζξψ"),
	[]rune("的一是不了人我在有他这中大来上国个到说们为子和你地出道也时年"),
	[]rune("😀😂🙂🎉🔥🌍🚀💡📦🧩"),
}

// MixedText returns n code points of word-like text. Each paragraph switches
// to a different script so that the symbol distribution shifts along the
// text.
func (r *Rand) MixedText(n int) []rune {
	text := make([]rune, 0, n)
	script := scripts[0]
	for len(text) < n {
		switch {
		case r.Intn(40) == 0:
			script = scripts[r.Intn(len(scripts))]
			text = append(text, '\n', '\n')
		case r.Intn(12) == 0:
			text = append(text, '.', ' ')
		default:
			text = append(text, r.SkewedRunes(1+r.Intn(9), script)...)
			text = append(text, ' ')
		}
	}
	return text[:n]
}
