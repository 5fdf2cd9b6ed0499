// Package crossbar computes wiring plans for locality preserving one-sided
// binary tree crossbar switches.
//
// # Overview
//
// A one-sided crossbar realizes the complete graph K_n: every pair of the n
// terminals gets its own wire, and all wires run on the same side of the
// switching fabric. Wires are vertical segments placed on wiring columns;
// two wires may share a column as long as their row spans do not overlap.
// This package derives the layout for a given n and assigns every wire a
// column such that
//
//   - no more than floor(n/2) columns are used, and that bound is tight;
//   - no wire connects blocks that are not adjacent (locality).
//
// The construction follows D. Sahin, "A locality preserving one-sided binary
// tree - crossbar switch wiring design algorithm", CISS 2015.
//
// # Layout
//
// The switch is a stack of n-1 stages. Each stage holds one row per terminal,
// in terminal order, so there are n*(n-1) rows in total and every terminal
// owns n-1 of them, one per wire it takes part in. Row r of the stack is
// terminal r mod n in stage r / n.
//
// Rows are grouped into blocks by a one-sided binary tree over the terminal
// range: a node holding m >= 2 terminals splits off a leaf with the first
// floor(m/2) terminals and recurses on the remaining ceil(m/2). Each leaf is
// a block owning (n-1) rows per terminal, so blocks partition the rows and
// there are ceil(log2 n) + 1 of them. [Tree] stores the decomposition as an
// arena of [Node] values with parent indices.
//
// # Packing
//
// Wires are produced level by level. Level i joins terminal j to terminal
// (i+j) mod n for every j; a full level (2i < n) spans stages 2i-2 and 2i-1,
// the half level (2i = n, even n only) stays inside the last stage. Within a
// level the column is derived from j mod i, with a second band of columns for
// wires that wrap around the end of an odd run. Every wire spans fewer than n
// rows, so its endpoints always sit in the same or in adjacent blocks.
//
// # Basic Usage
//
// The four scalar queries take the terminal count directly:
//
//	rows, _ := crossbar.Rows(5)       // 20
//	blocks, _ := crossbar.Blocks(5)   // 4
//	columns, _ := crossbar.Columns(5) // 2
//
// Wires are generated lazily, one per index:
//
//	xb, err := crossbar.New(5)
//	if err != nil {
//	    return err
//	}
//	for c := range xb.Connections() {
//	    fmt.Println(c.Start.Abs, c.End.Abs, c.Column)
//	}
//
// [Crossbar.At] computes a single wire from its index, and [Generator] offers
// a pull-style cursor for callers that cannot use range-over-func.
//
// # Errors
//
// Negative terminal counts are rejected with an error carrying
// [errors.ErrCodeInvalidArgument]. Zero and one terminal are valid and yield
// empty plans.
//
// # Concurrency
//
// [Crossbar] and [Tree] are immutable after construction and safe for
// concurrent use. A [Generator] holds a cursor and must not be shared between
// goroutines; create one per consumer instead.
//
// [errors.ErrCodeInvalidArgument]: github.com/matzehuels/xbar/pkg/errors.ErrCodeInvalidArgument
package crossbar
