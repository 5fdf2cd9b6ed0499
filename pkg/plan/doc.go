// Package plan defines the serialized form of a crossbar wiring plan.
//
// This is the wire format shared by the CLI, the HTTP API and the plan cache.
// It sits at the boundary between the lazy [crossbar.Crossbar] and external
// consumers (place-and-route scripts, netlist generators, fabrication
// tooling) that want every wire spelled out.
//
// # Core Types
//
//   - [Plan]: the complete document, header plus every wire
//   - [Summary]: the header alone, with the block table
//   - [Block], [Connection], [Position]: the structural pieces
//
// # Formats
//
// Two encodings are supported:
//
//	plan.FormatJSON   // "json": one indented Plan document
//	plan.FormatJSONL  // "jsonl": one Connection per line, streamed
//
// JSONL output never materializes the wire list, so it stays cheap for large
// terminal counts.
//
// # Common operations
//
//	x, _ := crossbar.New(16)
//	p := plan.Build(x)                       // Crossbar -> Plan
//	data, _ := plan.Marshal(p)               // Plan -> []byte
//	parsed, _ := plan.Unmarshal(data)        // []byte -> Plan (validated)
//	_ = plan.Encode(os.Stdout, x, "jsonl")   // Crossbar -> stream
//	_ = plan.WriteFile(p, "k16.json")        // Plan -> file
//
// Decoded plans are checked with [Plan.Validate] so a hand-edited or
// truncated file is rejected before anything downstream trusts it.
package plan
