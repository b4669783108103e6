// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		var buf bytes.Buffer
		l := New(&buf, verbose)
		l.Infof("encoded %d blocks", 3)
		l.Debugf("block %d", 0)
		l.Errorf("failed: %v", "boom")

		out := buf.String()
		assert.Contains(t, out, "[INFO] encoded 3 blocks")
		assert.Contains(t, out, "[ERROR] failed: boom")
		assert.Equal(t, verbose, strings.Contains(out, "[DEBUG] block 0"))
	}
}
