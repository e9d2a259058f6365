package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

type line struct {
	err  error
	text string
}

// LineReader reads answers from the terminal line by line. A read returns
// as soon as its context is canceled. A line typed after the cancellation is
// kept for the next read.
type LineReader struct {
	src   *bufio.Reader
	lines chan line
	start sync.Once
}

// NewLineReader creates a reader of src.
func NewLineReader(src io.Reader) *LineReader {
	if src == nil {
		panic("reader cannot be nil")
	}
	return &LineReader{
		src:   bufio.NewReader(src),
		lines: make(chan line),
	}
}

// pump reads src until it fails. The final error is repeated for every
// later read.
func (r *LineReader) pump() {
	for {
		text, err := r.src.ReadString('\n')
		if text != "" {
			r.lines <- line{text: text}
		}
		if err != nil {
			for {
				r.lines <- line{err: err}
			}
		}
	}
}

// ReadLine returns the next line without surrounding whitespace. A last line
// without newline is returned before io.EOF.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.start.Do(func() { go r.pump() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case l := <-r.lines:
		if l.err != nil {
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}
