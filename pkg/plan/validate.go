package plan

import (
	"iter"

	"github.com/matzehuels/xbar/pkg/crossbar"
	apperr "github.com/matzehuels/xbar/pkg/errors"
)

// Validate checks a decoded plan against the crossbar it claims to describe:
// the header must match the terminal count, the block table must equal the
// block tree, and every wire must stay inside the row and column bounds on
// a distinct pair of rows. The wires are then checked with
// crossbar.VerifyConnections, which rejects overlaps on a shared column,
// repeated pairs, endpoint positions that disagree with the tree, and wires
// bridging more than crossbar.MaxBlockGap blocks.
func (p Plan) Validate() error {
	if p.Version != Version {
		return invalid("unsupported version %d", p.Version)
	}
	n := p.Terminals
	if n < 0 {
		return invalid("negative terminal count %d", n)
	}
	rows, stages, conns := 0, 0, 0
	if n >= 2 {
		rows, stages, conns = n*(n-1), n-1, n*(n-1)/2
	}
	switch {
	case p.Rows != rows:
		return invalid("rows = %d, want %d", p.Rows, rows)
	case p.Stages != stages:
		return invalid("stages = %d, want %d", p.Stages, stages)
	case p.Columns != n/2:
		return invalid("columns = %d, want %d", p.Columns, n/2)
	case p.Connections != conns:
		return invalid("connections = %d, want %d", p.Connections, conns)
	case len(p.Wires) != conns:
		return invalid("%d wires listed, header says %d", len(p.Wires), conns)
	}

	next := 0
	for i, b := range p.Blocks {
		if b.Index != i || b.Start != next || b.End < b.Start {
			return invalid("block %d does not continue the row range at %d", i, next)
		}
		next = b.End
	}
	if next != rows {
		return invalid("blocks cover %d rows, want %d", next, rows)
	}
	x, err := crossbar.New(n)
	if err != nil {
		return err
	}
	want := Summarize(x).Blocks
	if len(p.Blocks) != len(want) {
		return invalid("%d blocks listed, want %d", len(p.Blocks), len(want))
	}
	for i, b := range p.Blocks {
		if b != want[i] {
			return invalid("block %d is %+v, the block tree has %+v", i, b, want[i])
		}
	}

	used := make([]bool, rows)
	for i, c := range p.Wires {
		if c.Index != i {
			return invalid("wire %d carries index %d", i, c.Index)
		}
		if c.Column < 0 || c.Column >= p.Columns {
			return invalid("wire %d: column %d outside [0, %d)", i, c.Column, p.Columns)
		}
		if c.Start.Abs >= c.End.Abs {
			return invalid("wire %d: start row %d not above end row %d", i, c.Start.Abs, c.End.Abs)
		}
		for _, pos := range []Position{c.Start, c.End} {
			if pos.Abs < 0 || pos.Abs >= rows {
				return invalid("wire %d: row %d outside [0, %d)", i, pos.Abs, rows)
			}
			if used[pos.Abs] {
				return invalid("wire %d: row %d already wired", i, pos.Abs)
			}
			used[pos.Abs] = true
		}
		a, b := c.Start.Abs%n, c.End.Abs%n
		if a > b {
			a, b = b, a
		}
		if c.Terminals != [2]int{a, b} {
			return invalid("wire %d: terminals %v do not match endpoints %d and %d", i, c.Terminals, a, b)
		}
	}

	if _, err := crossbar.VerifyConnections(n, p.connections()); err != nil {
		return invalid("%s", apperr.UserMessage(err))
	}
	return nil
}

// connections yields the wires in crossbar form, keyed by index.
func (p Plan) connections() iter.Seq2[int, crossbar.Connection] {
	return func(yield func(int, crossbar.Connection) bool) {
		for i, c := range p.Wires {
			if !yield(i, c.Crossbar()) {
				return
			}
		}
	}
}

func invalid(format string, args ...any) error {
	return apperr.New(apperr.ErrCodeInvalidInput, "plan: "+format, args...)
}
