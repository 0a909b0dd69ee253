package huffcodec

// Symbol represents one byte value of the input alphabet.
type Symbol byte

// NumSymbols is the size of the alphabet.
const NumSymbols = 256

// MaxCodeSize is the longest code a tree over NumSymbols leaves can assign.
// The pathological case is a fully skewed tree, one level per symbol.
const MaxCodeSize = NumSymbols - 1
