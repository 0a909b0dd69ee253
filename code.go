package huffcodec

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chronos-tachyon/assert"
	"github.com/icza/bitio"
)

const codeWords = (MaxCodeSize + 63) / 64

// Code represents a sequence of up to MaxCodeSize bits.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The most significant bit
	// of Bits[0] is the first bit; bits past Size are always zero.
	Bits [codeWords]uint64
}

// ParseCode parses a string of '0' and '1' characters into a Code.
func ParseCode(str string) (Code, error) {
	var hc Code
	if len(str) > MaxCodeSize {
		return hc, fmt.Errorf("code %q is longer than %d bits", str, MaxCodeSize)
	}
	for _, ch := range str {
		switch ch {
		case '0':
			hc = hc.Append(false)
		case '1':
			hc = hc.Append(true)
		default:
			return Code{}, fmt.Errorf("code %q contains %q, expected '0' or '1'", str, ch)
		}
	}
	return hc, nil
}

// Bit returns the i'th bit of the code.
func (hc Code) Bit(i int) bool {
	return (hc.Bits[i/64]>>(63-uint(i%64)))&1 != 0
}

// Append returns the code extended by one more bit.
func (hc Code) Append(bit bool) Code {
	assert.Assertf(hc.Size < MaxCodeSize, "code %v cannot grow past %d bits", hc, MaxCodeSize)
	if bit {
		i := int(hc.Size)
		hc.Bits[i/64] |= 1 << (63 - uint(i%64))
	}
	hc.Size++
	return hc
}

// HasPrefix reports whether prefix is a prefix of this Code.
func (hc Code) HasPrefix(prefix Code) bool {
	if prefix.Size > hc.Size {
		return false
	}
	for i := 0; i < int(prefix.Size); i++ {
		if hc.Bit(i) != prefix.Bit(i) {
			return false
		}
	}
	return true
}

// Bitstring returns the bits of this Code as a string of '0' and '1'
// characters.  It is the inverse of ParseCode.
func (hc Code) Bitstring() string {
	var buf strings.Builder
	buf.Grow(int(hc.Size))
	for i := 0; i < int(hc.Size); i++ {
		if hc.Bit(i) {
			buf.WriteByte('1')
		} else {
			buf.WriteByte('0')
		}
	}
	return buf.String()
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	return strconv.Quote(hc.Bitstring())
}

var _ fmt.Stringer = Code{}

// writeCode writes the bits of hc to bw, first bit first.
func writeCode(bw *bitio.Writer, hc Code) error {
	remaining := int(hc.Size)
	for i := 0; remaining > 0; i++ {
		n := remaining
		if n > 64 {
			n = 64
		}
		if err := bw.WriteBits(hc.Bits[i]>>(64-uint(n)), byte(n)); err != nil {
			return err
		}
		remaining -= n
	}
	return nil
}

// CodeTable maps each Symbol to its code.  Symbols that do not occur in the
// tree have a zero-sized code.
type CodeTable struct {
	codes   [NumSymbols]Code
	count   int
	minSize byte
	maxSize byte
}

// Codes walks the tree depth first and returns the code of every leaf: "0"
// for each step to a left child and "1" for each step to a right child.
func (t *Tree) Codes() *CodeTable {
	ct := new(CodeTable)
	if t.root == noNode {
		return ct
	}

	type stackItem struct {
		n  nodeIndex
		hc Code
	}

	stack := make([]stackItem, 0, 64)
	stack = append(stack, stackItem{n: t.root})
	for len(stack) != 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &t.nodes[top.n]
		if node.isLeaf {
			hc := top.hc
			if hc.Size == 0 {
				// The root itself is a leaf; an empty code could
				// never be packed.
				hc = hc.Append(false)
			}
			ct.set(node.symbol, hc)
			continue
		}

		// Push right before left so that left subtrees are visited first.
		if node.right != noNode {
			stack = append(stack, stackItem{node.right, top.hc.Append(true)})
		}
		if node.left != noNode {
			stack = append(stack, stackItem{node.left, top.hc.Append(false)})
		}
	}

	assert.Assertf(ct.count == t.leaves, "generated %d codes for %d leaves", ct.count, t.leaves)
	return ct
}

func (ct *CodeTable) set(sym Symbol, hc Code) {
	if ct.count == 0 {
		ct.minSize = hc.Size
		ct.maxSize = hc.Size
	} else if ct.minSize > hc.Size {
		ct.minSize = hc.Size
	} else if ct.maxSize < hc.Size {
		ct.maxSize = hc.Size
	}
	ct.codes[sym] = hc
	ct.count++
}

// Encode returns the code for sym.  The code is empty if sym has none.
func (ct *CodeTable) Encode(sym Symbol) Code {
	return ct.codes[sym]
}

// Lookup returns the code for sym, and whether sym has one.
func (ct *CodeTable) Lookup(sym Symbol) (Code, bool) {
	hc := ct.codes[sym]
	return hc, hc.Size != 0
}

// Len returns the number of symbols with a code.
func (ct *CodeTable) Len() int {
	return ct.count
}

// MinSize is the bit length of the shortest code.
func (ct *CodeTable) MinSize() byte {
	return ct.minSize
}

// MaxSize is the bit length of the longest code.
func (ct *CodeTable) MaxSize() byte {
	return ct.maxSize
}

// SizeBySymbol returns an array containing the bit length for each Symbol in
// the alphabet.
func (ct *CodeTable) SizeBySymbol() []byte {
	out := make([]byte, NumSymbols)
	for sym := range ct.codes {
		out[sym] = ct.codes[sym].Size
	}
	return out
}

// WeightedSize returns the total number of bits needed to encode every
// symbol counted in ft, i.e. the sum of frequency × code length.
func (ct *CodeTable) WeightedSize(ft *FrequencyTable) uint64 {
	var sum uint64
	for sym := range ct.codes {
		sum += ft.counts[sym] * uint64(ct.codes[sym].Size)
	}
	return sum
}

// Dump writes a programmer-readable debugging dump of the CodeTable to the
// given writer.  Symbols without a code are omitted.
func (ct *CodeTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", ct.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", ct.maxSize)
	for sym := range ct.codes {
		hc := ct.codes[sym]
		if hc.Size != 0 {
			fmt.Fprintf(&buf, "\tEncode(%d) = %s\n", sym, hc)
		}
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}
