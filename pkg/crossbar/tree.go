package crossbar

import (
	"sort"

	apperr "github.com/matzehuels/xbar/pkg/errors"
)

// Node is one vertex of the block tree. Inner nodes cover the terminals of
// both children; leaves are the wiring blocks.
type Node struct {
	Index         int  // Position in the arena
	Parent        int  // Arena index of the parent, -1 for the root
	Depth         int  // Distance from the root
	FirstTerminal int  // First terminal covered
	Terminals     int  // Number of terminals covered
	Start         int  // First absolute row owned
	Len           int  // Number of rows owned
	Leaf          bool // Whether the node is a block
	Block         int  // Block index for leaves, -1 for inner nodes
}

// Block is a leaf of the block tree: a contiguous range of rows.
type Block struct {
	Index         int // Position in block order
	Node          int // Arena index of the leaf
	Depth         int // Depth of the leaf in the tree
	FirstTerminal int // First terminal whose rows the block is sized by
	Terminals     int // Number of terminals the block is sized by
	Start         int // First absolute row
	Len           int // Number of rows
}

// End returns the absolute row one past the last row of the block.
func (b Block) End() int { return b.Start + b.Len }

// Contains reports whether absolute row abs belongs to the block.
func (b Block) Contains(abs int) bool { return abs >= b.Start && abs < b.End() }

// Tree is the one-sided binary tree decomposition for n terminals, stored as
// an arena. Node 0 is the root; every inner node is followed by its leaf
// child and then by its inner (or final leaf) child.
//
// Tree is immutable after construction and safe for concurrent use.
type Tree struct {
	n      int
	nodes  []Node
	blocks []Block
}

// NewTree builds the block tree for n terminals.
func NewTree(n int) (*Tree, error) {
	if err := apperr.ValidateTerminalCount(n); err != nil {
		return nil, err
	}
	return buildTree(n), nil
}

func buildTree(n int) *Tree {
	t := &Tree{n: n}
	if n == 0 {
		return t
	}
	t.nodes = make([]Node, 0, 2*blockCount(n))
	t.blocks = make([]Block, 0, blockCount(n))

	w := stageCount(n) // rows per terminal
	parent, depth, first, m := -1, 0, 0, n
	for {
		idx := len(t.nodes)
		node := Node{
			Index:         idx,
			Parent:        parent,
			Depth:         depth,
			FirstTerminal: first,
			Terminals:     m,
			Start:         first * w,
			Len:           m * w,
			Block:         -1,
		}
		if m == 1 {
			t.addLeaf(node)
			return t
		}
		t.nodes = append(t.nodes, node)

		half := m / 2
		t.addLeaf(Node{
			Index:         idx + 1,
			Parent:        idx,
			Depth:         depth + 1,
			FirstTerminal: first,
			Terminals:     half,
			Start:         first * w,
			Len:           half * w,
		})
		parent, depth, first, m = idx, depth+1, first+half, m-half
	}
}

func (t *Tree) addLeaf(node Node) {
	node.Leaf = true
	node.Block = len(t.blocks)
	t.nodes = append(t.nodes, node)
	t.blocks = append(t.blocks, Block{
		Index:         node.Block,
		Node:          node.Index,
		Depth:         node.Depth,
		FirstTerminal: node.FirstTerminal,
		Terminals:     node.Terminals,
		Start:         node.Start,
		Len:           node.Len,
	})
}

// Terminals returns the terminal count the tree was built for.
func (t *Tree) Terminals() int { return t.n }

// Nodes returns a copy of the arena in construction order.
func (t *Tree) Nodes() []Node {
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Blocks returns a copy of the blocks in row order.
func (t *Tree) Blocks() []Block {
	out := make([]Block, len(t.blocks))
	copy(out, t.blocks)
	return out
}

// Block returns the block with index i.
func (t *Tree) Block(i int) (Block, bool) {
	if i < 0 || i >= len(t.blocks) {
		return Block{}, false
	}
	return t.blocks[i], true
}

// BlockOf returns the index of the block containing absolute row abs, or -1
// if abs is outside [0, rows).
func (t *Tree) BlockOf(abs int) int {
	if abs < 0 || abs >= rowCount(t.n) {
		return -1
	}
	i := sort.Search(len(t.blocks), func(i int) bool { return t.blocks[i].End() > abs })
	if i == len(t.blocks) {
		return -1
	}
	return i
}

// Position resolves an absolute row to its full position. The second result
// is false if abs is outside [0, rows).
func (t *Tree) Position(abs int) (Position, bool) {
	b := t.BlockOf(abs)
	if b < 0 {
		return Position{}, false
	}
	return Position{
		Block:    b,
		Row:      abs - t.blocks[b].Start,
		Abs:      abs,
		Stage:    abs / t.n,
		Terminal: abs % t.n,
	}, true
}

// Divergence returns the depth of the deepest common ancestor of blocks a
// and b, the level at which their paths from the root split. For a == b it
// returns the depth of the block itself. It returns -1 for unknown blocks.
func (t *Tree) Divergence(a, b int) int {
	if a < 0 || b < 0 || a >= len(t.blocks) || b >= len(t.blocks) {
		return -1
	}
	x, y := t.nodes[t.blocks[a].Node], t.nodes[t.blocks[b].Node]
	for x.Depth > y.Depth {
		x = t.nodes[x.Parent]
	}
	for y.Depth > x.Depth {
		y = t.nodes[y.Parent]
	}
	for x.Index != y.Index {
		x, y = t.nodes[x.Parent], t.nodes[y.Parent]
	}
	return x.Depth
}
