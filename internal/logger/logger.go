// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package logger provides the leveled logger used by the command-line tool.
package logger

import (
	"io"
	"log"
)

type Logger interface {
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
	Debugf(format string, v ...any)
}

type stdLogger struct {
	l       *log.Logger
	verbose bool
}

// New returns a Logger writing to w. Debug messages are dropped unless
// verbose is set.
func New(w io.Writer, verbose bool) Logger {
	return &stdLogger{l: log.New(w, "", log.LstdFlags), verbose: verbose}
}

func (l *stdLogger) Infof(format string, v ...any)  { l.l.Printf("[INFO] "+format, v...) }
func (l *stdLogger) Errorf(format string, v ...any) { l.l.Printf("[ERROR] "+format, v...) }
func (l *stdLogger) Debugf(format string, v ...any) {
	if l.verbose {
		l.l.Printf("[DEBUG] "+format, v...)
	}
}
