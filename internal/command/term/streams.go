package term

import (
	"fmt"
	"io"
	"sync"
)

// Stream is a concurrency-safe output for term.messages.
type Stream struct {
	stream io.Writer
	lock   sync.Mutex
}

func NewStream(out io.Writer) *Stream {
	return &Stream{stream: out}
}

func (s *Stream) Printf(format string, a ...any) {
	s.lock.Lock()
	defer s.lock.Unlock()

	fmt.Fprintf(s.stream, format, a...)
}

func (s *Stream) Println(a ...any) {
	s.lock.Lock()
	defer s.lock.Unlock()

	fmt.Fprintln(s.stream, a...)
}

// ErrPrintln prints an error with an "ERROR: " prefix.
// The optional msg arguments are printed before the error, separated by a
// colon.
func (s *Stream) ErrPrintln(err error, msg ...any) {
	if len(msg) == 0 {
		s.Println(ErrPrefix, err.Error())
		return
	}

	s.ErrPrintf(err, "%s", fmt.Sprint(msg...))
}

// ErrPrintf prints an error prefixed with "ERROR: " and a formatted message.
func (s *Stream) ErrPrintf(err error, format string, a ...any) {
	s.Printf("%s %s: %s\n", ErrPrefix, fmt.Sprintf(format, a...), err)
}

func (s *Stream) Write(p []byte) (n int, err error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.stream.Write(p)
}
