package crossbar

// Position locates one endpoint of a wire.
type Position struct {
	Block    int // Index of the block holding the row
	Row      int // Row offset within the block
	Abs      int // Absolute row index in [0, rows)
	Stage    int // Stage holding the row (Abs / n)
	Terminal int // Terminal the row belongs to (Abs mod n)
}

// Connection is a vertical wire between two rows on one column. Start is
// always the upper endpoint: Start.Abs < End.Abs.
type Connection struct {
	Start  Position
	End    Position
	Column int
}

// Span returns the number of row gaps the wire covers on its column, i.e. the
// length of the half-open interval [Start.Abs, End.Abs).
func (c Connection) Span() int { return c.End.Abs - c.Start.Abs }

// IntraBlock reports whether both endpoints sit in the same block.
func (c Connection) IntraBlock() bool { return c.Start.Block == c.End.Block }

// BlockGap returns how many block boundaries the wire crosses.
func (c Connection) BlockGap() int { return c.End.Block - c.Start.Block }

// Pair returns the two terminals joined by the wire, smaller first.
func (c Connection) Pair() (int, int) {
	a, b := c.Start.Terminal, c.End.Terminal
	if a > b {
		a, b = b, a
	}
	return a, b
}

// Overlaps reports whether c and o would short if placed on the same column.
func (c Connection) Overlaps(o Connection) bool {
	return c.Start.Abs < o.End.Abs && o.Start.Abs < c.End.Abs
}
