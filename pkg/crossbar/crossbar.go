package crossbar

import (
	"iter"

	apperr "github.com/matzehuels/xbar/pkg/errors"
)

// Crossbar is the validated topology of a switch with a fixed number of
// terminals. It answers the structural queries and generates wires on
// demand; nothing is materialized besides the block tree.
//
// The zero value is not usable - use New.
type Crossbar struct {
	n    int
	tree *Tree
}

// New creates the crossbar for n terminals. It fails with
// ErrCodeInvalidArgument for negative n.
func New(n int) (*Crossbar, error) {
	if err := apperr.ValidateTerminalCount(n); err != nil {
		return nil, err
	}
	return &Crossbar{n: n, tree: buildTree(n)}, nil
}

// Connections returns the lazy wire sequence for n terminals. The argument
// is validated before anything is produced.
func Connections(n int) (iter.Seq[Connection], error) {
	x, err := New(n)
	if err != nil {
		return nil, err
	}
	return x.Connections(), nil
}

// Terminals returns n.
func (x *Crossbar) Terminals() int { return x.n }

// Rows returns n*(n-1), or 0 for fewer than two terminals.
func (x *Crossbar) Rows() int { return rowCount(x.n) }

// Blocks returns the number of blocks in the block tree.
func (x *Crossbar) Blocks() int { return len(x.tree.blocks) }

// Columns returns floor(n/2).
func (x *Crossbar) Columns() int { return columnCount(x.n) }

// Stages returns the number of stacked stages, n-1 for n >= 2.
func (x *Crossbar) Stages() int { return stageCount(x.n) }

// Tree returns the block tree.
func (x *Crossbar) Tree() *Tree { return x.tree }

// Len returns the number of wires, n*(n-1)/2.
func (x *Crossbar) Len() int { return connectionCount(x.n) }

// At computes wire k. The second result is false if k is outside [0, Len()).
func (x *Crossbar) At(k int) (Connection, bool) {
	if k < 0 || k >= x.Len() {
		return Connection{}, false
	}
	w := pack(x.n, k)
	start, _ := x.tree.Position(w.startStage*x.n + w.startTerminal)
	end, _ := x.tree.Position(w.endStage*x.n + w.endTerminal)
	return Connection{Start: start, End: end, Column: w.column}, true
}

// Connections returns a restartable iterator over all wires in index order.
// Each range over the result starts again from the first wire.
func (x *Crossbar) Connections() iter.Seq[Connection] {
	return func(yield func(Connection) bool) {
		for k := range x.Len() {
			c, _ := x.At(k)
			if !yield(c) {
				return
			}
		}
	}
}

// Indexed is like Connections but also yields each wire's index.
func (x *Crossbar) Indexed() iter.Seq2[int, Connection] {
	return func(yield func(int, Connection) bool) {
		for k := range x.Len() {
			c, _ := x.At(k)
			if !yield(k, c) {
				return
			}
		}
	}
}

// Generator returns a fresh cursor positioned at the first wire.
func (x *Crossbar) Generator() *Generator {
	return &Generator{x: x}
}

// Generator is a pull-style cursor over the wires of a crossbar. It is not
// safe for concurrent use.
type Generator struct {
	x    *Crossbar
	next int
}

// Next returns the wire under the cursor and advances it. The second result
// is false once the sequence is exhausted.
func (g *Generator) Next() (Connection, bool) {
	c, ok := g.x.At(g.next)
	if ok {
		g.next++
	}
	return c, ok
}

// Remaining returns how many wires Next will still produce.
func (g *Generator) Remaining() int { return g.x.Len() - g.next }

// Reset moves the cursor back to the first wire.
func (g *Generator) Reset() { g.next = 0 }
