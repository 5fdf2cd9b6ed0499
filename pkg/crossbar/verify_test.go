package crossbar_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/xbar/pkg/crossbar"
	apperr "github.com/matzehuels/xbar/pkg/errors"
)

// wiresFor returns the generated wires for n terminals along with the tree
// used to resolve hand-built endpoints.
func wiresFor(t *testing.T, n int) ([]crossbar.Connection, *crossbar.Tree) {
	t.Helper()
	x, err := crossbar.New(n)
	require.NoError(t, err)
	return slices.Collect(x.Connections()), x.Tree()
}

func wire(t *testing.T, tree *crossbar.Tree, from, to, column int) crossbar.Connection {
	t.Helper()
	start, ok := tree.Position(from)
	require.True(t, ok, "row %d", from)
	end, ok := tree.Position(to)
	require.True(t, ok, "row %d", to)
	return crossbar.Connection{Start: start, End: end, Column: column}
}

func TestVerifyConnectionsAcceptsGenerated(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 9, 16} {
		conns, _ := wiresFor(t, n)
		rep, err := crossbar.VerifyConnections(n, slices.All(conns))
		require.NoError(t, err, "n=%d", n)

		want, err := crossbar.Verify(n)
		require.NoError(t, err)
		require.Equal(t, want, rep)
	}
}

func TestVerifyMinSplit(t *testing.T) {
	tests := []struct {
		n     int
		inter int
		split int
	}{
		{n: 0, inter: 0, split: -1},
		{n: 1, inter: 0, split: -1},
		{n: 2, inter: 1, split: 0},
		// Blocks 1 and 2 meet at depth 1, blocks 2 and 3 at depth 2.
		{n: 5, inter: 4, split: 1},
	}
	for _, tt := range tests {
		rep, err := crossbar.Verify(tt.n)
		require.NoError(t, err)
		require.Equal(t, tt.inter, rep.InterBlock, "n=%d", tt.n)
		require.Equal(t, tt.split, rep.MinSplit, "n=%d", tt.n)
	}
}

func TestVerifyConnectionsRejectsTampering(t *testing.T) {
	const n = 5

	tests := []struct {
		name   string
		mutate func(conns []crossbar.Connection, tree *crossbar.Tree) []crossbar.Connection
		want   string
	}{
		{
			name: "ColumnOutOfRange",
			mutate: func(conns []crossbar.Connection, _ *crossbar.Tree) []crossbar.Connection {
				conns[0].Column = 2
				return conns
			},
			want: "column 2 outside [0, 2)",
		},
		{
			name: "Direction",
			mutate: func(conns []crossbar.Connection, _ *crossbar.Tree) []crossbar.Connection {
				conns[0].Start, conns[0].End = conns[0].End, conns[0].Start
				return conns
			},
			want: "not above end row",
		},
		{
			name: "SharedRow",
			mutate: func(conns []crossbar.Connection, _ *crossbar.Tree) []crossbar.Connection {
				conns[1].Start = conns[0].Start
				return conns
			},
			want: "row 0 already wired",
		},
		{
			name: "PositionBlock",
			mutate: func(conns []crossbar.Connection, _ *crossbar.Tree) []crossbar.Connection {
				conns[1].Start.Block = 3
				return conns
			},
			want: "row 6 recorded as",
		},
		{
			name: "PositionTerminal",
			mutate: func(conns []crossbar.Connection, _ *crossbar.Tree) []crossbar.Connection {
				conns[0].End.Terminal = 4
				return conns
			},
			want: "row 1 recorded as",
		},
		{
			name: "SelfLoop",
			mutate: func(conns []crossbar.Connection, tree *crossbar.Tree) []crossbar.Connection {
				conns[0] = wire(t, tree, 0, 5, 0)
				return conns
			},
			want: "terminal 0 wired to itself",
		},
		{
			name: "DuplicatePair",
			mutate: func(conns []crossbar.Connection, tree *crossbar.Tree) []crossbar.Connection {
				conns[1] = wire(t, tree, 5, 6, 0)
				return conns
			},
			want: "terminals 0 and 1 wired twice",
		},
		{
			name: "BlockGap",
			mutate: func(conns []crossbar.Connection, tree *crossbar.Tree) []crossbar.Connection {
				conns[0] = wire(t, tree, 7, 13, 0)
				return conns
			},
			want: "blocks 0 and 2 are not adjacent",
		},
		{
			name: "Span",
			mutate: func(conns []crossbar.Connection, tree *crossbar.Tree) []crossbar.Connection {
				conns[0] = wire(t, tree, 0, 9, 0)
				return conns
			},
			want: "span 9 reaches 5 rows",
		},
		{
			name: "MissingWire",
			mutate: func(conns []crossbar.Connection, _ *crossbar.Tree) []crossbar.Connection {
				return conns[:len(conns)-1]
			},
			want: "produced 9 connections, want 10",
		},
		{
			name: "Overlap",
			mutate: func(conns []crossbar.Connection, _ *crossbar.Tree) []crossbar.Connection {
				// [11, 13) lands on [10, 12) in column 0.
				conns[6].Column = 0
				return conns
			},
			want: "column 0: rows [10, 12) and [11, 13) overlap",
		},
		{
			name: "CouldDrop",
			mutate: func(conns []crossbar.Connection, _ *crossbar.Tree) []crossbar.Connection {
				conns[2].Column = 1
				return conns
			},
			want: "could drop to free column 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conns, tree := wiresFor(t, n)
			require.Len(t, conns, 10)
			conns = tt.mutate(conns, tree)

			_, err := crossbar.VerifyConnections(n, slices.All(conns))
			require.Error(t, err)
			require.True(t, apperr.Is(err, apperr.ErrCodeInvariant), "code = %s", apperr.GetCode(err))
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestVerifyConnectionsCollapsedColumns(t *testing.T) {
	const n = 4
	conns, _ := wiresFor(t, n)
	for i := range conns {
		conns[i].Column = 0
	}
	_, err := crossbar.VerifyConnections(n, slices.All(conns))
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.ErrCodeInvariant))
}

func TestVerifyConnectionsInvalidCount(t *testing.T) {
	_, err := crossbar.VerifyConnections(-1, slices.All([]crossbar.Connection(nil)))
	require.True(t, apperr.Is(err, apperr.ErrCodeInvalidArgument))
}
