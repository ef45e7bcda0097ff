// Package pkg provides the core libraries for lanekit roadmap rendering.
//
// # Overview
//
// Lanekit turns a tabular description of dated work items into a laid-out
// swimlane roadmap and renders it to SVG, PNG, or JSON. The pkg directory is
// organized around the data flow:
//
//	Roadmap document (YAML/TOML)
//	         ↓
//	    [roadmap] package (validated Task/Workstream/Settings entities)
//	         ↓
//	    [roadmap/schedule] package (sub-lane assignment per workstream)
//	         ↓
//	    [roadmap/layout] package (band/row geometry in abstract units)
//	         ↓
//	    [chart] package (renderer-agnostic chart document)
//	         ↓
//	    [render/svg] / [render/png] sinks
//
// # Main Packages
//
// [roadmap] - Entities and the validation layer: tasks, workstreams, chart
// settings, color normalization, and the default palette.
//
// [roadmap/schedule] - Deterministic greedy interval partitioning: assigns
// each task a sub-lane within its workstream so that no two tasks sharing a
// sub-lane overlap in time.
//
// [roadmap/layout] - Band/row geometry computation and the date→x helpers
// shared by every renderer.
//
// [roadmap/timeline] - Header granularity selection (weeks, months,
// quarters, quarters+years) and labeled segment builders.
//
// [chart] - The serialization format all renderers consume: positioned
// blocks, bands, header segments, and the today line, with deterministic
// ordering for caching.
//
// [render/svg], [render/png] - Output sinks mapping chart units onto pixels.
//
// [pipeline] - Orchestration (load → schedule+layout → render) with
// content-hash caching, used by both the CLI and the HTTP server.
//
// [cache] - Cache backends: file (CLI), redis and mongo (server), null.
//
// [io] - Roadmap document decoding (YAML/TOML) and artifact writing.
//
// # Quick Start
//
//	doc, warns, _ := io.Import("roadmap.yaml")
//	c, _ := chart.Build(doc.Settings, doc.Workstreams, doc.Tasks, chart.Options{})
//	svgBytes := svg.Render(c)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/roadmap/schedule     # Specific package
package pkg
