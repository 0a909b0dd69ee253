package huffcodec

import (
	"bytes"
	"container/heap"
	"fmt"
	"io"
	"strconv"

	"github.com/chronos-tachyon/assert"
	"golang.org/x/exp/slices"
)

// nodeIndex addresses a node within Tree.nodes.
type nodeIndex int32

const noNode = nodeIndex(-1)

type treeNode struct {
	freq   uint64
	left   nodeIndex
	right  nodeIndex
	symbol Symbol
	isLeaf bool
}

// Tree is a Huffman tree.  Nodes live in a single arena and refer to their
// children by index.
//
// A tree with N ≥ 2 leaves has exactly N-1 internal nodes, each with two
// children.  A tree with one leaf has a single internal root whose right
// branch is empty, so that the leaf still receives the 1-bit code "0".
//
type Tree struct {
	nodes  []treeNode
	root   nodeIndex
	leaves int

	// bodyCheck is the body length check read from a header; see ReadTree.
	bodyCheck int
}

func newTree(capacity int) *Tree {
	return &Tree{nodes: make([]treeNode, 0, capacity), root: noNode}
}

// BuildTree builds the Huffman tree for ft.
//
// Nodes are merged lowest frequency first.  Ties are broken by arena index:
// leaves are created first in ascending symbol order, and internal nodes are
// appended in the order they are created.  The first node popped becomes the
// left ("0") child and the second becomes the right ("1") child.  Building
// twice from the same table therefore always yields the same tree.
//
func BuildTree(ft *FrequencyTable) (*Tree, error) {
	numLeaves := ft.Distinct()
	if numLeaves == 0 {
		return nil, ErrEmptyAlphabet
	}

	t := newTree(2 * numLeaves)
	for sym, count := range ft.counts {
		if count != 0 {
			t.newLeaf(Symbol(sym), count)
		}
	}

	if numLeaves == 1 {
		t.root = t.newInternal(0, noNode, t.nodes[0].freq)
		return t, nil
	}

	h := nodeHeap{tree: t, list: make([]nodeIndex, numLeaves, 2*numLeaves)}
	for i := range h.list {
		h.list[i] = nodeIndex(i)
	}
	h.Init()

	for h.Len() > 1 {
		a := heap.Pop(&h).(nodeIndex)
		b := heap.Pop(&h).(nodeIndex)
		sum := t.nodes[a].freq + t.nodes[b].freq
		heap.Push(&h, t.newInternal(a, b, sum))
	}
	t.root = heap.Pop(&h).(nodeIndex)

	assert.Assertf(len(t.nodes) == 2*numLeaves-1, "tree has %d nodes for %d leaves", len(t.nodes), numLeaves)
	return t, nil
}

// Len returns the number of leaves, i.e. the number of distinct symbols.
func (t *Tree) Len() int {
	return t.leaves
}

// BodyCheck returns the packed body length, modulo 128, recorded in the
// header this tree was read from.  It is 0 for a tree built by BuildTree.
func (t *Tree) BodyCheck() int {
	return t.bodyCheck
}

// Leaves returns the leaf symbols in header order: ascending frequency, ties
// broken by arena index exactly as in BuildTree.  For a tree read back with
// ReadTree, this is the order in which the header listed the symbols.
func (t *Tree) Leaves() []Symbol {
	list := make([]nodeIndex, 0, t.leaves)
	for i := range t.nodes {
		if t.nodes[i].isLeaf {
			list = append(list, nodeIndex(i))
		}
	}
	slices.SortFunc(list, t.less)

	out := make([]Symbol, len(list))
	for i, n := range list {
		out[i] = t.nodes[n].symbol
	}
	return out
}

// Dump writes a programmer-readable debugging dump of the Tree to the given
// writer.
func (t *Tree) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Tree{\n")
	fmt.Fprintf(&buf, "\tRoot() = %s\n", t.root)
	for i, node := range t.nodes {
		if node.isLeaf {
			fmt.Fprintf(&buf, "\tNode(%d) = Leaf{symbol: %d, freq: %d}\n", i, node.symbol, node.freq)
		} else {
			fmt.Fprintf(&buf, "\tNode(%d) = Internal{left: %s, right: %s, freq: %d}\n", i, node.left, node.right, node.freq)
		}
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

func (t *Tree) less(a, b nodeIndex) bool {
	fa, fb := t.nodes[a].freq, t.nodes[b].freq
	if fa != fb {
		return fa < fb
	}
	return a < b
}

func (t *Tree) newLeaf(sym Symbol, freq uint64) nodeIndex {
	t.nodes = append(t.nodes, treeNode{freq: freq, left: noNode, right: noNode, symbol: sym, isLeaf: true})
	t.leaves++
	return nodeIndex(len(t.nodes) - 1)
}

func (t *Tree) newInternal(left, right nodeIndex, freq uint64) nodeIndex {
	t.nodes = append(t.nodes, treeNode{freq: freq, left: left, right: right})
	return nodeIndex(len(t.nodes) - 1)
}

// step returns the child of n selected by bit, or noNode.
func (t *Tree) step(n nodeIndex, bit bool) nodeIndex {
	if bit {
		return t.nodes[n].right
	}
	return t.nodes[n].left
}

// insert adds a leaf for sym at the position described by code, creating
// internal nodes along the way as needed.
func (t *Tree) insert(sym Symbol, code Code) error {
	assert.Assertf(code.Size != 0, "insert called with an empty code for symbol %d", sym)

	n := t.root
	for i := 0; i < int(code.Size); i++ {
		if t.nodes[n].isLeaf {
			return fmt.Errorf("%w: code %v for symbol %d extends the code of symbol %d", ErrFormat, code, sym, t.nodes[n].symbol)
		}
		bit := code.Bit(i)
		next := t.step(n, bit)
		if next == noNode {
			next = t.newInternal(noNode, noNode, 0)
			if bit {
				t.nodes[n].right = next
			} else {
				t.nodes[n].left = next
			}
		}
		n = next
	}

	node := &t.nodes[n]
	if node.isLeaf {
		return fmt.Errorf("%w: symbols %d and %d share code %v", ErrFormat, node.symbol, sym, code)
	}
	if node.left != noNode || node.right != noNode {
		return fmt.Errorf("%w: code %v for symbol %d is a prefix of another code", ErrFormat, code, sym)
	}
	node.symbol = sym
	node.isLeaf = true
	t.leaves++
	return nil
}

// complete reports whether every internal node has two children.
func (t *Tree) complete() bool {
	for _, node := range t.nodes {
		if !node.isLeaf && (node.left == noNode || node.right == noNode) {
			return false
		}
	}
	return true
}

func (n nodeIndex) String() string {
	if n == noNode {
		return "-"
	}
	return strconv.Itoa(int(n))
}

// type nodeHeap {{{

type nodeHeap struct {
	tree *Tree
	list []nodeIndex
}

func (h *nodeHeap) Init() {
	heap.Init(h)
}

func (h *nodeHeap) Len() int {
	return len(h.list)
}

func (h *nodeHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap) Less(i, j int) bool {
	return h.tree.less(h.list[i], h.list[j])
}

func (h *nodeHeap) Push(x interface{}) {
	h.list = append(h.list, x.(nodeIndex))
}

func (h *nodeHeap) Pop() interface{} {
	last := uint(len(h.list)) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*nodeHeap)(nil)

// }}}
