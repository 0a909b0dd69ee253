// Package huffcodec implements a static Huffman codec for byte streams.
//
// Compress scans its source once to count symbol frequencies, builds a
// Huffman tree from those counts, writes the tree into a header, and then
// packs the source into a bit stream using the tree's prefix codes.
// Decompress rebuilds the tree from the header and walks it bit by bit.
//
// The compressed format is, in order:
//
//     count field      2 bytes, big-endian: body check (7 bits) and
//                      symbol count (9 bits, 0 .. 256)
//     entries          symbol count × (1 symbol byte + 32-byte code field)
//     packed body      the codes of every input byte, MSB first
//     pad count        1 byte, 0 .. 7 filler bits in the last body byte
//
// A code field holds 256 bits: a run of 0s, a single 1 delimiter, and then
// the code itself.  An empty input has a zero count field and no body.
//
// The body check is the length in bytes of the packed body and pad count,
// modulo 128.  Decompress compares it with the bytes that actually follow the
// header, so a stream cut short by 1 .. 127 bytes is always reported as
// ErrTruncatedStream.  A lone symbol always has a 1-bit code.
//
// The package logs through go-logging under the module name "huffcodec" at
// level INFO.  Programs that want the per-stream DEBUG summaries raise the
// level on their own backend.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package huffcodec
