// Command huff compresses and decompresses files with a static Huffman code.
//
// Usage:
//
//     huff [-debug] [-table] compress INPUT OUTPUT
//     huff [-debug] decompress INPUT OUTPUT
//
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chronos-tachyon/huffcodec"
	"github.com/op/go-logging"
	"sigs.k8s.io/yaml"
)

const progName = "huff"

const usageMessage = `Usage: huff [-debug] [-table] MODE INPUT OUTPUT

MODE is one of:
  compress, c     compress INPUT into OUTPUT
  decompress, d   decompress INPUT into OUTPUT

Options:
  -debug   log debugging details to stderr
  -table   after compressing, print the code table as YAML
`

var log = logging.MustGetLogger("huff")

var leveledLogBackend logging.LeveledBackend

func startLogging(w io.Writer) {
	backend := logging.NewLogBackend(w, progName+": ", 0)
	formatSpec := "%{level:-7s} %{module:-10s} | %{message}"
	formatter := logging.MustStringFormatter(formatSpec)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
	leveledLogBackend = leveled
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line in args and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet(progName, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var debugLogging, printTable bool
	flags.BoolVar(&debugLogging, "debug", false, "")
	flags.BoolVar(&printTable, "table", false, "")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			io.WriteString(stdout, usageMessage)
			return 0
		}
		return usageErrorf(stderr, "%v", err)
	}
	if flags.NArg() != 3 {
		return usageErrorf(stderr, "expected 3 arguments, got %d", flags.NArg())
	}

	startLogging(stderr)
	if debugLogging {
		leveledLogBackend.SetLevel(logging.DEBUG, "")
	}

	mode, inPath, outPath := flags.Arg(0), flags.Arg(1), flags.Arg(2)

	var op func(io.Writer, io.Reader) error
	var doneMessage string
	switch mode {
	case "compress", "c":
		op, doneMessage = huffcodec.Compress, "Compression successful"
	case "decompress", "d":
		if printTable {
			return usageErrorf(stderr, "-table only applies to compress")
		}
		op, doneMessage = huffcodec.Decompress, "Decompressed successfully"
	default:
		return usageErrorf(stderr, "bad mode %q", mode)
	}

	if err := convertFile(outPath, inPath, op); err != nil {
		log.Errorf("%s: %v", mode, err)
		return 1
	}

	if printTable {
		if err := writeTable(stdout, inPath); err != nil {
			log.Errorf("table: %v", err)
			return 1
		}
	}

	fmt.Fprintln(stdout, doneMessage)
	return 0
}

func usageErrorf(stderr io.Writer, format string, args ...interface{}) int {
	fmt.Fprintf(stderr, "%s: %s\n\n", progName, fmt.Sprintf(format, args...))
	io.WriteString(stderr, usageMessage)
	return 2
}

// convertFile runs op from inPath to outPath.  A failed run leaves no output
// file behind.
func convertFile(outPath, inPath string, op func(io.Writer, io.Reader) error) (err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(outPath)
		}
	}()

	log.Debugf("%s -> %s", inPath, outPath)
	return op(out, in)
}

type tableEntry struct {
	Symbol int    `json:"symbol"`
	Char   string `json:"char,omitempty"`
	Count  uint64 `json:"count"`
	Size   int    `json:"size"`
	Code   string `json:"code"`
}

// writeTable prints the code table that compressing inPath uses, one entry
// per distinct symbol in ascending symbol order.
func writeTable(w io.Writer, inPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	ft, err := huffcodec.CountFrequencies(in)
	if err != nil {
		return err
	}

	entries := make([]tableEntry, 0, ft.Distinct())
	if ft.Distinct() != 0 {
		t, err := huffcodec.BuildTree(ft)
		if err != nil {
			return err
		}
		codes := t.Codes()
		for _, sym := range ft.Symbols() {
			hc := codes.Encode(sym)
			entry := tableEntry{
				Symbol: int(sym),
				Count:  ft.Count(sym),
				Size:   int(hc.Size),
			}
			entry.Code = hc.Bitstring()
			if sym >= 0x20 && sym < 0x7f {
				entry.Char = string(rune(sym))
			}
			entries = append(entries, entry)
		}
	}

	raw, err := yaml.Marshal(entries)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
