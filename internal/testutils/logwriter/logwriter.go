// Package logwriter provides an io.Writer that duplicates writes to a
// test logger.
package logwriter

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
)

// Logger writes everything to an io.Writer and mirrors complete lines to
// t.Log.
type Logger struct {
	t   *testing.T
	w   io.Writer
	buf bytes.Buffer
	mu  sync.Mutex
}

// New returns a writer that writes to w and to t.Log.
// A buffered incomplete line is logged when the test finishes.
func New(t *testing.T, w io.Writer) *Logger {
	l := Logger{t: t, w: w}

	t.Cleanup(l.flush)

	return &l
}

func (l *Logger) Write(p []byte) (int, error) {
	l.t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.w.Write(p)
	l.buf.Write(p[:n])

	for {
		line, readErr := l.buf.ReadString('\n')
		if readErr != nil {
			// incomplete line, keep it buffered
			l.buf.WriteString(line)
			break
		}

		l.t.Log(strings.TrimRight(line, "\n"))
	}

	return n, err
}

func (l *Logger) flush() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.buf.Len() != 0 {
		l.t.Log(l.buf.String())
		l.buf.Reset()
	}
}
