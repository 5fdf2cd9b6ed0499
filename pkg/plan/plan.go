package plan

import (
	"github.com/matzehuels/xbar/pkg/crossbar"
)

// Version is the current plan document version.
const Version = 1

// Format names.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// ValidFormats is the set of supported encodings.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatJSONL: true,
}

// =============================================================================
// Document Types
// =============================================================================

// Summary is the plan header: the topology of the crossbar without its wires.
type Summary struct {
	Version     int     `json:"version"`
	Terminals   int     `json:"terminals"`
	Rows        int     `json:"rows"`
	Columns     int     `json:"columns"`
	Stages      int     `json:"stages"`
	Connections int     `json:"connections"`
	Blocks      []Block `json:"blocks"`
}

// Plan is a complete wiring plan.
type Plan struct {
	Summary
	Wires []Connection `json:"wires"`
}

// Block is one leaf of the block tree. Rows [Start, End) belong to it.
//
// SizeFrom and SizeTerminals name the terminal range of the tree node that
// fixes the block's length, SizeTerminals*(n-1) rows. Rows are stage-major,
// so the rows of a block belong to many terminals, not to that range.
type Block struct {
	Index         int `json:"index"`
	Depth         int `json:"depth"`
	SizeFrom      int `json:"size_from"`
	SizeTerminals int `json:"size_terminals"`
	Start         int `json:"start"`
	End           int `json:"end"`
}

// Position is one wire endpoint.
type Position struct {
	Block    int `json:"block"`
	Row      int `json:"row"`
	Abs      int `json:"abs"`
	Stage    int `json:"stage"`
	Terminal int `json:"terminal"`
}

// Connection is one wire. Terminals lists the joined pair, smaller first.
type Connection struct {
	Index     int      `json:"index"`
	Terminals [2]int   `json:"terminals"`
	Column    int      `json:"column"`
	Start     Position `json:"start"`
	End       Position `json:"end"`
}

// =============================================================================
// Conversion
// =============================================================================

// Summarize returns the header of the plan for x.
func Summarize(x *crossbar.Crossbar) Summary {
	tree := x.Tree()
	blocks := make([]Block, 0, x.Blocks())
	for _, b := range tree.Blocks() {
		blocks = append(blocks, Block{
			Index:         b.Index,
			Depth:         b.Depth,
			SizeFrom:      b.FirstTerminal,
			SizeTerminals: b.Terminals,
			Start:         b.Start,
			End:           b.End(),
		})
	}
	return Summary{
		Version:     Version,
		Terminals:   x.Terminals(),
		Rows:        x.Rows(),
		Columns:     x.Columns(),
		Stages:      x.Stages(),
		Connections: x.Len(),
		Blocks:      blocks,
	}
}

// Build materializes the full plan for x.
func Build(x *crossbar.Crossbar) Plan {
	p := Plan{Summary: Summarize(x), Wires: make([]Connection, 0, x.Len())}
	for k, c := range x.Indexed() {
		p.Wires = append(p.Wires, FromConnection(k, c))
	}
	return p
}

// FromConnection converts wire k of a crossbar to its serialized form.
func FromConnection(k int, c crossbar.Connection) Connection {
	a, b := c.Pair()
	return Connection{
		Index:     k,
		Terminals: [2]int{a, b},
		Column:    c.Column,
		Start:     Position(c.Start),
		End:       Position(c.End),
	}
}

// Crossbar converts the wire back to its crossbar form.
func (c Connection) Crossbar() crossbar.Connection {
	return crossbar.Connection{
		Start:  crossbar.Position(c.Start),
		End:    crossbar.Position(c.End),
		Column: c.Column,
	}
}

// Span returns the number of row gaps the wire covers.
func (c Connection) Span() int { return c.End.Abs - c.Start.Abs }
