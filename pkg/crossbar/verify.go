package crossbar

import (
	"fmt"
	"iter"
	"slices"

	apperr "github.com/matzehuels/xbar/pkg/errors"
)

// MaxBlockGap is the largest block distance a wire may bridge. Endpoints in
// the same or in neighbouring blocks keep every wire within two adjacent
// blocks.
const MaxBlockGap = 1

// Report summarizes a verified wiring plan.
type Report struct {
	Terminals   int // n
	Connections int // Wires produced
	ColumnsUsed int // Distinct columns with at least one wire
	IntraBlock  int // Wires with both endpoints in one block
	InterBlock  int // Wires crossing a block boundary
	MaxSpan     int // Longest wire in row gaps
	MaxBlockGap int // Largest block distance bridged by a wire
	MinSplit    int // Shallowest tree depth at which an inter-block wire's blocks split, -1 if none
}

// Verify generates the full plan for n terminals and checks it. See
// [Crossbar.Verify].
func Verify(n int) (Report, error) {
	x, err := New(n)
	if err != nil {
		return Report{}, err
	}
	return x.Verify()
}

// Verify drives the generator to exhaustion and checks every wiring
// property. It returns an error with ErrCodeInvariant describing the first
// violation found:
//
//   - exactly n*(n-1)/2 wires, one per unordered terminal pair
//   - every row used by exactly one wire endpoint
//   - endpoint positions agreeing with the block tree
//   - Start.Abs < End.Abs, endpoint stages equal or consecutive
//   - columns in [0, floor(n/2)), all of them used when n >= 2
//   - wires sharing a column never overlap
//   - each wire crosses an occupied row of every lower column within its span
//   - block gaps of at most [MaxBlockGap] and spans below n rows
func (x *Crossbar) Verify() (Report, error) {
	return verifyWires(x.n, x.tree, x.Indexed())
}

// VerifyConnections checks an externally supplied wire list for n terminals
// against the same properties as [Crossbar.Verify]. Keys of wires are
// reported in error messages as connection indices.
func VerifyConnections(n int, wires iter.Seq2[int, Connection]) (Report, error) {
	x, err := New(n)
	if err != nil {
		return Report{}, err
	}
	return verifyWires(n, x.tree, wires)
}

func verifyWires(n int, tree *Tree, wires iter.Seq2[int, Connection]) (Report, error) {
	rep := Report{Terminals: n, MinSplit: -1}
	rows := rowCount(n)
	cols := columnCount(n)

	usedRow := make([]bool, rows)
	seenPair := make([]bool, n*n)
	byColumn := make([][]Connection, cols)

	for k, c := range wires {
		rep.Connections++
		if c.Column < 0 || c.Column >= cols {
			return rep, violation(n, k, "column %d outside [0, %d)", c.Column, cols)
		}
		if c.Start.Abs >= c.End.Abs {
			return rep, violation(n, k, "start row %d not above end row %d", c.Start.Abs, c.End.Abs)
		}
		for _, p := range []Position{c.Start, c.End} {
			if p.Abs < 0 || p.Abs >= rows {
				return rep, violation(n, k, "row %d outside [0, %d)", p.Abs, rows)
			}
			if usedRow[p.Abs] {
				return rep, violation(n, k, "row %d already wired", p.Abs)
			}
			usedRow[p.Abs] = true
			if want, _ := tree.Position(p.Abs); p != want {
				return rep, violation(n, k, "row %d recorded as %+v, want %+v", p.Abs, p, want)
			}
		}
		if d := c.End.Stage - c.Start.Stage; d != 0 && d != 1 {
			return rep, violation(n, k, "stages %d and %d are not adjacent", c.Start.Stage, c.End.Stage)
		}

		a, b := c.Pair()
		if a == b {
			return rep, violation(n, k, "terminal %d wired to itself", a)
		}
		if seenPair[a*n+b] {
			return rep, violation(n, k, "terminals %d and %d wired twice", a, b)
		}
		seenPair[a*n+b] = true

		gap := c.BlockGap()
		if gap < 0 || gap > MaxBlockGap {
			return rep, violation(n, k, "blocks %d and %d are not adjacent", c.Start.Block, c.End.Block)
		}
		rep.MaxBlockGap = max(rep.MaxBlockGap, gap)
		if s := c.Span(); s >= n {
			return rep, violation(n, k, "span %d reaches %d rows", s, n)
		} else if s > rep.MaxSpan {
			rep.MaxSpan = s
		}
		if c.IntraBlock() {
			rep.IntraBlock++
		} else {
			rep.InterBlock++
			if d := tree.Divergence(c.Start.Block, c.End.Block); rep.MinSplit < 0 || d < rep.MinSplit {
				rep.MinSplit = d
			}
		}
		byColumn[c.Column] = append(byColumn[c.Column], c)
	}

	if want := connectionCount(n); rep.Connections != want {
		return rep, apperr.New(apperr.ErrCodeInvariant, "n=%d: produced %d connections, want %d", n, rep.Connections, want)
	}

	for col, wires := range byColumn {
		if len(wires) > 0 {
			rep.ColumnsUsed++
		}
		slices.SortFunc(wires, func(a, b Connection) int { return a.Start.Abs - b.Start.Abs })
		for i := 1; i < len(wires); i++ {
			if wires[i-1].Overlaps(wires[i]) {
				return rep, apperr.New(apperr.ErrCodeInvariant,
					"n=%d: column %d: rows [%d, %d) and [%d, %d) overlap", n, col,
					wires[i-1].Start.Abs, wires[i-1].End.Abs, wires[i].Start.Abs, wires[i].End.Abs)
			}
		}
	}
	if rep.ColumnsUsed != cols {
		return rep, apperr.New(apperr.ErrCodeInvariant, "n=%d: %d of %d columns used", n, rep.ColumnsUsed, cols)
	}

	for col := 1; col < cols; col++ {
		for _, c := range byColumn[col] {
			for lower := range col {
				if !occupied(byColumn[lower], c.Start.Abs, c.End.Abs) {
					return rep, apperr.New(apperr.ErrCodeInvariant,
						"n=%d: column %d wire [%d, %d) could drop to free column %d", n, col, c.Start.Abs, c.End.Abs, lower)
				}
			}
		}
	}

	return rep, nil
}

// occupied reports whether any wire in sorted, disjoint wires intersects the
// half-open row range [from, to).
func occupied(wires []Connection, from, to int) bool {
	i, _ := slices.BinarySearchFunc(wires, from, func(c Connection, row int) int {
		if c.End.Abs <= row {
			return -1
		}
		return 1
	})
	return i < len(wires) && wires[i].Start.Abs < to
}

func violation(n, k int, format string, args ...any) error {
	return apperr.New(apperr.ErrCodeInvariant, "n=%d: connection %d: %s", n, k, fmt.Sprintf(format, args...))
}
