package plan

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/xbar/pkg/crossbar"
	apperr "github.com/matzehuels/xbar/pkg/errors"
)

func mustCrossbar(t *testing.T, n int) *crossbar.Crossbar {
	t.Helper()
	x, err := crossbar.New(n)
	if err != nil {
		t.Fatalf("crossbar.New(%d): %v", n, err)
	}
	return x
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		wantBlocks int
		wantWires  int
	}{
		{"Empty", 0, 0, 0},
		{"Single", 1, 1, 0},
		{"Pair", 2, 2, 1},
		{"Four", 4, 3, 6},
		{"Sixteen", 16, 5, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(mustCrossbar(t, tt.n))
			if p.Version != Version {
				t.Errorf("Version = %d, want %d", p.Version, Version)
			}
			if len(p.Blocks) != tt.wantBlocks {
				t.Errorf("blocks = %d, want %d", len(p.Blocks), tt.wantBlocks)
			}
			if len(p.Wires) != tt.wantWires || p.Connections != tt.wantWires {
				t.Errorf("wires = %d (header %d), want %d", len(p.Wires), p.Connections, tt.wantWires)
			}
			if err := p.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestFromConnectionOrdersPair(t *testing.T) {
	x := mustCrossbar(t, 5)
	// Wire 4 runs from terminal 4 down to terminal 0.
	c, _ := x.At(4)
	got := FromConnection(4, c)
	if got.Terminals != [2]int{0, 4} {
		t.Errorf("Terminals = %v, want [0 4]", got.Terminals)
	}
	if got.Start.Terminal != 4 || got.End.Terminal != 0 {
		t.Errorf("endpoints = %d -> %d, want 4 -> 0", got.Start.Terminal, got.End.Terminal)
	}
	if got.Span() != 1 {
		t.Errorf("Span = %d, want 1", got.Span())
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	p := Build(mustCrossbar(t, 9))
	data, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Terminals != 9 || len(got.Wires) != 36 || len(got.Blocks) != len(p.Blocks) {
		t.Errorf("round trip lost data: %+v", got.Summary)
	}
	for i := range p.Wires {
		if got.Wires[i] != p.Wires[i] {
			t.Fatalf("wire %d = %+v, want %+v", i, got.Wires[i], p.Wires[i])
		}
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"NotJSON", "{"},
		{"UnknownField", `{"version":1,"terminals":0,"rows":0,"columns":0,"stages":0,"connections":0,"blocks":[],"wires":[],"extra":1}`},
		{"WrongVersion", `{"version":7,"terminals":0,"rows":0,"columns":0,"stages":0,"connections":0,"blocks":[],"wires":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
				t.Errorf("Unmarshal error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

// firstInColumn returns the index of the first wire on column col. Any such
// wire overlaps a wire on every lower column.
func firstInColumn(t *testing.T, p *Plan, col int) int {
	t.Helper()
	for i, c := range p.Wires {
		if c.Column == col {
			return i
		}
	}
	t.Fatalf("no wire on column %d", col)
	return -1
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Plan)
		want   string
	}{
		{"Rows", func(p *Plan) { p.Rows++ }, "rows"},
		{"Stages", func(p *Plan) { p.Stages = 0 }, "stages"},
		{"Columns", func(p *Plan) { p.Columns = 9 }, "columns"},
		{"HeaderCount", func(p *Plan) { p.Connections-- }, "connections"},
		{"MissingWire", func(p *Plan) { p.Wires = p.Wires[1:] }, "wires listed"},
		{"BlockGap", func(p *Plan) { p.Blocks[1].Start++ }, "block 1"},
		{"BlockShort", func(p *Plan) { p.Blocks = p.Blocks[:len(p.Blocks)-1] }, "blocks cover"},
		{"Index", func(p *Plan) { p.Wires[3].Index = 9 }, "index"},
		{"Column", func(p *Plan) { p.Wires[0].Column = 3 }, "column"},
		{"Direction", func(p *Plan) { p.Wires[0].Start, p.Wires[0].End = p.Wires[0].End, p.Wires[0].Start }, "not above"},
		{"RowBounds", func(p *Plan) { p.Wires[0].End.Abs = 99 }, "outside"},
		{"SharedRow", func(p *Plan) { p.Wires[1].Start.Abs = p.Wires[0].Start.Abs }, "already wired"},
		{"BlockDepth", func(p *Plan) { p.Blocks[0].Depth = 7 }, "block tree"},
		{"BlockSize", func(p *Plan) { p.Blocks[2].SizeTerminals++ }, "block tree"},
		{"DuplicateTerminals", func(p *Plan) { p.Wires[1].Terminals = p.Wires[0].Terminals }, "do not match endpoints"},
		{"PositionBlock", func(p *Plan) { p.Wires[1].Start.Block++ }, "recorded as"},
		{"PositionRow", func(p *Plan) { p.Wires[0].End.Row++ }, "recorded as"},
		{"PositionStage", func(p *Plan) { p.Wires[2].End.Stage++ }, "recorded as"},
		{"PositionTerminal", func(p *Plan) { p.Wires[3].Start.Terminal = 5 - p.Wires[3].Start.Terminal }, "recorded as"},
		{"Overlap", func(p *Plan) { p.Wires[firstInColumn(t, p, 1)].Column = 0 }, "overlap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(mustCrossbar(t, 6))
			tt.mutate(&p)
			err := p.Validate()
			if err == nil {
				t.Fatal("Validate should fail")
			}
			if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestWriteJSONLStream(t *testing.T) {
	x := mustCrossbar(t, 12)
	var buf bytes.Buffer
	if err := Encode(&buf, x, FormatJSONL); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 66 {
		t.Errorf("lines = %d, want 66", lines)
	}

	wires, err := ReadJSONL(&buf)
	if err != nil {
		t.Fatalf("ReadJSONL: %v", err)
	}
	want := Build(x).Wires
	if len(wires) != len(want) {
		t.Fatalf("read %d wires, want %d", len(wires), len(want))
	}
	for i := range want {
		if wires[i] != want[i] {
			t.Errorf("wire %d = %+v, want %+v", i, wires[i], want[i])
		}
	}
}

func TestReadJSONLErrors(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader("\n{\"index\":0}\nnope\n"))
	if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Fatalf("error = %v, want INVALID_INPUT", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestEncodeJSONMatchesMarshal(t *testing.T) {
	x := mustCrossbar(t, 4)
	var buf bytes.Buffer
	if err := Encode(&buf, x, FormatJSON); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data, _ := Marshal(Build(x))
	if !bytes.Equal(buf.Bytes(), data) {
		t.Error("Encode(json) and Marshal(Build) should agree byte for byte")
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, mustCrossbar(t, 4), "svg")
	if !apperr.Is(err, apperr.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written for an unknown format")
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"jsonl", false},
		{"JSON", true}, // case-sensitive
		{"svg", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "k7.json")
	p := Build(mustCrossbar(t, 7))
	if err := WriteFile(p, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Terminals != 7 || len(got.Wires) != 21 {
		t.Errorf("ReadFile = %+v", got.Summary)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadFile on a missing file should fail")
	}
}
