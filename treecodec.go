package huffcodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

const (
	countFieldBytes = 2
	codeFieldBytes  = 32
	codeFieldBits   = codeFieldBytes * 8
	entryBytes      = 1 + codeFieldBytes

	// The count field holds the symbol count in its low countBits bits and
	// the packed body length, modulo bodyCheckModulus, in the rest.
	countBits        = 9
	countMask        = 1<<countBits - 1
	bodyCheckModulus = 1 << (countFieldBytes*8 - countBits)
)

// WriteTree writes the header that describes t: the count field, then one
// entry per leaf in the order given by Leaves.  Each entry is the symbol byte
// followed by a 32-byte code field.  A nil or empty tree is written as a zero
// count.
//
// bodySize is the number of bytes that will follow the header, pad count
// included.  Its low 7 bits share the count field with the symbol count, so
// that a body shortened by 1 .. 127 bytes is always detected.
//
func WriteTree(w io.Writer, t *Tree, bodySize int) error {
	bw := bitio.NewWriter(w)

	var count int
	if t != nil {
		count = t.Len()
	}
	field := uint64(bodySize%bodyCheckModulus)<<countBits | uint64(count)
	if err := bw.WriteBits(field, countFieldBytes*8); err != nil {
		return writeError(err)
	}

	if count != 0 {
		codes := t.Codes()
		for _, sym := range t.Leaves() {
			if err := bw.WriteByte(byte(sym)); err != nil {
				return writeError(err)
			}
			if err := writeCodeField(bw, codes.Encode(sym)); err != nil {
				return writeError(err)
			}
		}
	}

	if err := bw.Close(); err != nil {
		return writeError(err)
	}
	return nil
}

// ReadTree reads a header written by WriteTree and rebuilds the tree it
// describes.  Exactly the header bytes are consumed from r.  A zero count
// yields an empty tree whose Len is 0.  The body length check is available
// from the tree's BodyCheck method.
func ReadTree(r io.Reader) (*Tree, error) {
	var countField [countFieldBytes]byte
	if _, err := io.ReadFull(r, countField[:]); err != nil {
		return nil, headerError(err, "symbol count")
	}

	field := int(binary.BigEndian.Uint16(countField[:]))
	count := field & countMask
	check := field >> countBits
	if count > NumSymbols {
		return nil, fmt.Errorf("%w: symbol count %d exceeds %d", ErrFormat, count, NumSymbols)
	}
	if count == 0 {
		if check != 0 {
			return nil, fmt.Errorf("%w: body length check %d with a zero symbol count", ErrFormat, check)
		}
		return newTree(0), nil
	}

	t := newTree(2 * count)
	t.root = t.newInternal(noNode, noNode, 0)
	t.bodyCheck = check

	var seen [NumSymbols]bool
	var entry [entryBytes]byte
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return nil, headerError(err, fmt.Sprintf("entry %d of %d", i, count))
		}

		sym := Symbol(entry[0])
		if seen[sym] {
			return nil, fmt.Errorf("%w: duplicate entry for symbol %d", ErrFormat, sym)
		}
		seen[sym] = true

		hc, err := readCodeField(entry[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: symbol %d: %v", ErrFormat, sym, err)
		}
		if count == 1 && hc.Size != 1 {
			return nil, fmt.Errorf("%w: lone symbol %d has %d-bit code %v, expected 1 bit", ErrFormat, sym, hc.Size, hc)
		}
		if err := t.insert(sym, hc); err != nil {
			return nil, err
		}
	}

	if count >= 2 && !t.complete() {
		return nil, fmt.Errorf("%w: codes for %d symbols leave gaps in the tree", ErrFormat, count)
	}
	return t, nil
}

// CheckBodySize reports ErrTruncatedStream unless bodySize agrees with the
// body length check that ReadTree found in the header.
func (t *Tree) CheckBodySize(bodySize int) error {
	if bodySize%bodyCheckModulus != t.bodyCheck {
		return fmt.Errorf("%w: body is %d bytes, header expects %d modulo %d", ErrTruncatedStream, bodySize, t.bodyCheck, bodyCheckModulus)
	}
	return nil
}

// PackedSize returns the number of bytes Pack writes for a source whose
// frequencies are ft: the packed codes plus the pad count byte.
func (ct *CodeTable) PackedSize(ft *FrequencyTable) int {
	return int((ct.WeightedSize(ft)+7)/8) + 1
}

// writeCodeField writes hc as a run of 0s, a 1 delimiter, and the code bits,
// codeFieldBits in total.
func writeCodeField(bw *bitio.Writer, hc Code) error {
	zeros := codeFieldBits - 1 - int(hc.Size)
	for zeros > 0 {
		n := zeros
		if n > 64 {
			n = 64
		}
		if err := bw.WriteBits(0, byte(n)); err != nil {
			return err
		}
		zeros -= n
	}
	if err := bw.WriteBool(true); err != nil {
		return err
	}
	return writeCode(bw, hc)
}

// readCodeField strips the leading 0s and the 1 delimiter from a code field
// and returns the remaining bits.
func readCodeField(field []byte) (Code, error) {
	br := bitio.NewReader(bytes.NewReader(field))

	pos := 0
	for ; pos < codeFieldBits; pos++ {
		bit, err := br.ReadBool()
		if err != nil {
			return Code{}, err
		}
		if bit {
			break
		}
	}
	if pos == codeFieldBits {
		return Code{}, errors.New("code field has no delimiter")
	}

	size := codeFieldBits - 1 - pos
	if size == 0 {
		return Code{}, errors.New("code field holds an empty code")
	}

	var hc Code
	for i := 0; i < size; i++ {
		bit, err := br.ReadBool()
		if err != nil {
			return Code{}, err
		}
		hc = hc.Append(bit)
	}
	return hc, nil
}

func headerError(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: header ends before %s", ErrFormat, what)
	}
	return readError(err)
}
