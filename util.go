package huffcodec

import (
	"io"
)

// countingWriter counts the bytes successfully written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

var _ io.Writer = (*countingWriter)(nil)
