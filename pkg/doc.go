// Package pkg provides the libraries behind xbar, a wiring generator for
// one-sided binary tree crossbars.
//
// # Overview
//
// A crossbar for n terminals connects every unordered pair of terminals by
// one wire. Its n(n-1) rows are split into the blocks of a one-sided binary
// tree, and wires are packed into floor(n/2) columns so that each wire stays
// within two adjacent blocks.
//
// # Architecture
//
//	terminal count n
//	       ↓
//	  [crossbar] (block tree, column packing, verification)
//	       ↓
//	  [plan] (JSON / JSONL wire format)
//	       ↓
//	  [pipeline] (validation, caching, hooks)
//	       ↓
//	  CLI / HTTP API
//
// # Quick Start
//
//	x, err := crossbar.New(16)
//	if err != nil {
//	    return err
//	}
//	for c := range x.Connections() {
//	    fmt.Println(c.Start.Abs, c.End.Abs, c.Column)
//	}
//
// # Packages
//
// [crossbar] - Topology, block tree and the connection generator. Plans are
// produced lazily and are deterministic for a given n.
//
// [plan] - Serializable plan documents, streaming JSONL output and plan
// validation after decoding.
//
// [pipeline] - One entry point for the CLI and the HTTP API: option
// validation, cached encoding and concurrent verification.
//
// [cache] - Plan cache backends: in-memory, Redis and a no-op cache.
//
// [observability] - Optional hooks for pipeline, cache and HTTP events.
//
// [errors] - Error codes shared by every layer.
//
// [buildinfo] - Version metadata stamped at link time.
//
// [crossbar]: https://pkg.go.dev/github.com/matzehuels/xbar/pkg/crossbar
// [plan]: https://pkg.go.dev/github.com/matzehuels/xbar/pkg/plan
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/xbar/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/xbar/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/xbar/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/xbar/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/xbar/pkg/buildinfo
package pkg
