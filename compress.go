package huffcodec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/op/go-logging"
)

const logModule = "huffcodec"

var log = logging.MustGetLogger(logModule)

func init() {
	// go-logging's default backend prints everything down to DEBUG.  Keep
	// the per-stream summaries quiet unless a program asks for them.
	logging.SetLevel(logging.INFO, logModule)
}

// Compress reads all of src and writes its compressed form to dst.
//
// The frequency scan must finish before any code can be assigned, so src is
// read twice.  If src implements io.Seeker it is rewound to where it started
// for the second pass; otherwise it is buffered in memory during the first.
// An empty src produces only a zero symbol count.
//
func Compress(dst io.Writer, src io.Reader) error {
	second, ft, err := scan(src)
	if err != nil {
		return err
	}

	cw := &countingWriter{w: dst}
	if ft.Distinct() == 0 {
		log.Debug("compressed empty input")
		return WriteTree(cw, nil, 0)
	}

	t, err := BuildTree(ft)
	if err != nil {
		return err
	}
	codes := t.Codes()

	if err := WriteTree(cw, t, codes.PackedSize(ft)); err != nil {
		return err
	}
	headerBytes := cw.n

	pad, err := Pack(cw, codes, second)
	if err != nil {
		return err
	}

	log.Debugf("compressed %d bytes with %d distinct symbols (codes of %d .. %d bits) into %d header + %d body bytes, %d pad bits",
		ft.Total(), t.Len(), codes.MinSize(), codes.MaxSize(), headerBytes, cw.n-headerBytes, pad)
	return nil
}

// Decompress reads a stream written by Compress from src and writes the
// original bytes to dst.
func Decompress(dst io.Writer, src io.Reader) error {
	t, err := ReadTree(src)
	if err != nil {
		return err
	}

	if t.Len() == 0 {
		var extra [1]byte
		n, err := io.ReadFull(src, extra[:])
		if n != 0 {
			return fmt.Errorf("%w: data follows a zero symbol count", ErrFormat)
		}
		if err != nil && err != io.EOF {
			return readError(err)
		}
		log.Debug("decompressed empty input")
		return nil
	}

	body, err := io.ReadAll(src)
	if err != nil {
		return readError(err)
	}
	if err := t.CheckBodySize(len(body)); err != nil {
		return err
	}

	cw := &countingWriter{w: dst}
	if err := Unpack(cw, t, body); err != nil {
		return err
	}

	log.Debugf("decompressed %d body bytes with %d distinct symbols into %d bytes", len(body), t.Len(), cw.n)
	return nil
}

// scan counts the frequencies in src and returns a reader that yields the
// same bytes again.
func scan(src io.Reader) (io.Reader, *FrequencyTable, error) {
	if rs, ok := src.(io.ReadSeeker); ok {
		// Seek fails on pipes and terminals; buffer those instead.
		if start, err := rs.Seek(0, io.SeekCurrent); err == nil {
			ft, err := CountFrequencies(rs)
			if err != nil {
				return nil, nil, err
			}
			if _, err := rs.Seek(start, io.SeekStart); err != nil {
				return nil, nil, &IOError{Op: "seek", Err: err}
			}
			return rs, ft, nil
		}
	}

	var buf bytes.Buffer
	ft, err := CountFrequencies(io.TeeReader(src, &buf))
	if err != nil {
		return nil, nil, err
	}
	return &buf, ft, nil
}
