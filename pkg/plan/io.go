package plan

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/matzehuels/xbar/pkg/crossbar"
	apperr "github.com/matzehuels/xbar/pkg/errors"
)

// =============================================================================
// Plan Serialization API
// =============================================================================

// ValidateFormat checks that format names a supported encoding.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperr.New(apperr.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", format, formatList())
	}
	return nil
}

// Encode writes the plan for x to w in the given format.
func Encode(w io.Writer, x *crossbar.Crossbar, format string) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, x)
	case FormatJSONL:
		return WriteJSONL(w, x)
	default:
		return ValidateFormat(format)
	}
}

// Marshal encodes p as indented JSON.
func Marshal(p Plan) ([]byte, error) {
	var buf bytes.Buffer
	if err := writePlanTo(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a JSON plan.
func Unmarshal(data []byte) (Plan, error) {
	return readPlanFrom(bytes.NewReader(data))
}

// WriteJSON writes the full plan for x as one indented JSON document.
func WriteJSON(w io.Writer, x *crossbar.Crossbar) error {
	return writePlanTo(Build(x), w)
}

// WriteJSONL streams the wires of x to w, one compact JSON object per line.
// Nothing beyond the current wire is held in memory.
func WriteJSONL(w io.Writer, x *crossbar.Crossbar) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for k, c := range x.Indexed() {
		if err := enc.Encode(FromConnection(k, c)); err != nil {
			return fmt.Errorf("encode connection %d: %w", k, err)
		}
	}
	return bw.Flush()
}

// ReadJSONL decodes a JSONL wire stream as written by WriteJSONL. Blank
// lines are skipped.
func ReadJSONL(r io.Reader) ([]Connection, error) {
	var out []Connection
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		var c Connection
		if err := json.Unmarshal(text, &c); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "line %d", line)
		}
		out = append(out, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return out, nil
}

// WriteFile writes p as JSON to path, creating or truncating it.
func WriteFile(p Plan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writePlanTo(p, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads and validates a JSON plan file.
func ReadFile(path string) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readPlanFrom(f)
}

// Read decodes and validates a JSON plan from r.
func Read(r io.Reader) (Plan, error) {
	return readPlanFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writePlanTo(p Plan, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readPlanFrom(r io.Reader) (Plan, error) {
	var p Plan
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Plan{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode plan")
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

func formatList() string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
