package huffcodec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// maxPad is the largest number of filler bits the last body byte can hold.
const maxPad = 7

// Pack reads src to EOF and writes the code of every byte to dst, most
// significant bit first.  The final partial byte, if any, is filled with 0
// bits, and one more byte recording the number of filler bits (0 .. 7) is
// written after the body.  Pack returns that number.
func Pack(dst io.Writer, codes *CodeTable, src io.Reader) (int, error) {
	bw := bitio.NewWriter(dst)

	buf := make([]byte, readChunkSize)
	for {
		n, err := src.Read(buf)
		for _, b := range buf[:n] {
			hc := codes.codes[b]
			if hc.Size == 0 {
				return 0, fmt.Errorf("%w: %d", ErrNoCode, b)
			}
			if werr := writeCode(bw, hc); werr != nil {
				return 0, writeError(werr)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, readError(err)
		}
	}

	pad, err := bw.Align()
	if err != nil {
		return 0, writeError(err)
	}
	if err := bw.WriteByte(pad); err != nil {
		return 0, writeError(err)
	}
	if err := bw.Close(); err != nil {
		return 0, writeError(err)
	}
	return int(pad), nil
}

// Unpack decodes a packed body produced by Pack, writing the decoded symbols
// to dst.  The last byte of body is the pad count; every byte before it is
// data.  Each data bit moves one step down t, left on 0 and right on 1, and
// each leaf reached emits its symbol and restarts the walk at the root.  The
// filler bits of the last data byte are never walked.
//
// Unpack fails with ErrTruncatedStream if the body lacks its pad count, the
// pad count is impossible, or the bits run out in the middle of a code.
//
func Unpack(dst io.Writer, t *Tree, body []byte) error {
	if len(body) == 0 {
		return fmt.Errorf("%w: missing pad count", ErrTruncatedStream)
	}

	pad := int(body[len(body)-1])
	data := body[:len(body)-1]

	if t.Len() == 0 {
		if len(data) != 0 || pad != 0 {
			return fmt.Errorf("%w: %d data bytes for an empty alphabet", ErrFormat, len(data))
		}
		return nil
	}

	switch {
	case pad > maxPad:
		return fmt.Errorf("%w: pad count %d out of range", ErrTruncatedStream, pad)
	case len(data) == 0:
		return fmt.Errorf("%w: no data bytes", ErrTruncatedStream)
	case data[len(data)-1]&(1<<uint(pad)-1) != 0:
		return fmt.Errorf("%w: %d filler bits are not zero", ErrTruncatedStream, pad)
	}

	numBits := len(data)*8 - pad
	br := bitio.NewReader(bytes.NewReader(data))
	bw := bufio.NewWriter(dst)

	n := t.root
	for i := 0; i < numBits; i++ {
		bit, err := br.ReadBool()
		if err != nil {
			return readError(err)
		}

		n = t.step(n, bit)
		if n == noNode {
			return fmt.Errorf("%w: bit %d leads to an empty branch", ErrFormat, i)
		}

		if node := &t.nodes[n]; node.isLeaf {
			if err := bw.WriteByte(byte(node.symbol)); err != nil {
				return writeError(err)
			}
			n = t.root
		}
	}

	if n != t.root {
		return fmt.Errorf("%w: input ends inside a code", ErrTruncatedStream)
	}
	if err := bw.Flush(); err != nil {
		return writeError(err)
	}
	return nil
}
