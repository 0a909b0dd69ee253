package huffcodec

import (
	"io"
)

const readChunkSize = 32 << 10

// FrequencyTable holds the number of occurrences of each Symbol.
type FrequencyTable struct {
	counts [NumSymbols]uint64
}

// CountFrequencies reads src to EOF and returns the frequency of every byte
// value in it.  Read errors are returned as *IOError.
func CountFrequencies(src io.Reader) (*FrequencyTable, error) {
	ft := new(FrequencyTable)
	if _, err := ft.ReadFrom(src); err != nil {
		return nil, err
	}
	return ft, nil
}

// ReadFrom reads src to EOF, adding every byte it sees to the table.  It
// returns the number of bytes read.
func (ft *FrequencyTable) ReadFrom(src io.Reader) (int64, error) {
	var total int64
	buf := make([]byte, readChunkSize)
	for {
		n, err := src.Read(buf)
		for _, b := range buf[:n] {
			ft.counts[b]++
		}
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, readError(err)
		}
	}
}

// Add adds n occurrences of sym.
func (ft *FrequencyTable) Add(sym Symbol, n uint64) {
	ft.counts[sym] += n
}

// Count returns the number of occurrences of sym.
func (ft *FrequencyTable) Count(sym Symbol) uint64 {
	return ft.counts[sym]
}

// Distinct returns the number of symbols with a non-zero count.
func (ft *FrequencyTable) Distinct() int {
	var n int
	for _, count := range ft.counts {
		if count != 0 {
			n++
		}
	}
	return n
}

// Total returns the sum of all counts.
func (ft *FrequencyTable) Total() uint64 {
	var sum uint64
	for _, count := range ft.counts {
		sum += count
	}
	return sum
}

// Symbols returns the symbols with a non-zero count, in ascending order.
func (ft *FrequencyTable) Symbols() []Symbol {
	out := make([]Symbol, 0, NumSymbols)
	for sym, count := range ft.counts {
		if count != 0 {
			out = append(out, Symbol(sym))
		}
	}
	return out
}

var _ io.ReaderFrom = (*FrequencyTable)(nil)
