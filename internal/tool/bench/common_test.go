// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecNames(t *testing.T) {
	names := CodecNames()
	require.NotEmpty(t, names)
	assert.Equal(t, "huffblock", names[0])
	assert.ElementsMatch(t, []string{"huffblock", "huff0", "kp-flate", "std-flate", "xz", "zstd"}, names)
}

func TestGetName(t *testing.T) {
	var vectors = []struct {
		file  string
		level int
		size  int
		want  string
	}{
		{"english.txt", 6, 1e4, "english.txt:6:1e4"},
		{"/tmp/russian.txt", 1, 1e6, "russian.txt:1:1e6"},
		{"english.txt", 9, 2048, "english.txt:9:2Ki"},
	}
	for i, v := range vectors {
		if got := getName(v.file, v.level, v.size); got != v.want {
			t.Errorf("test %d, getName() = %q, want %q", i, got, v.want)
		}
	}
}

func TestLoadText(t *testing.T) {
	b, err := loadText("../../../testdata/russian.txt", 1000)
	require.NoError(t, err)
	assert.True(t, utf8.Valid(b))
	assert.Equal(t, 1000, utf8.RuneCount(b))

	_, err = loadText("../../../testdata/missing.txt", 10)
	assert.Error(t, err)
}

func TestRatioSuite(t *testing.T) {
	Paths = []string{"../../../testdata"}
	defer func() { Paths = nil }()

	codecs := []string{"huffblock", "std-flate"}
	results, names := BenchmarkRatioSuite(codecs, []string{"english.txt"}, []int{6}, []int{5000}, nil)
	require.Len(t, results, 1)
	require.Len(t, names, 1)
	assert.Contains(t, names[0], "english.txt:6:")
	for i, r := range results[0] {
		assert.Greater(t, r.R, 0.0, codecs[i])
	}
	assert.Equal(t, 1.0, results[0][0].D)
}
