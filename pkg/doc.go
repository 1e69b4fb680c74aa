// Package pkg provides the core libraries for tmdlayout diagram layouts.
//
// # Overview
//
// tmdlayout arranges the tables of a Power BI semantic model the way a
// modeller would: fact tables in the center, dimensions fanning out left
// and right by their distance from a fact, calendars and utility tables at
// the edges. The pkg directory is organized into three areas:
//
//  1. Engine - classification and geometry
//  2. Infrastructure - TMDL reading, caching, serialization
//  3. Orchestration - the load → layout → encode pipeline
//
// # Architecture
//
// The typical data flow:
//
//	*.SemanticModel/definition/*.tmdl
//	         ↓
//	    [tmdl] package (find the project, parse tables and relationships)
//	         ↓
//	    [graph] package (undirected table graph)
//	         ↓
//	    [categorize] package (facts, dimension levels, special tables, extensions)
//	         ↓
//	    [optimize] package (left/right stacks, 1:1 and M:M adjustments)
//	         ↓
//	    [chain] + [position] packages (families, coordinates)
//	         ↓
//	    [layout] package (JSON/YAML document with a [quality] report)
//
// [engine] runs the middle stages in order; [pipeline] adds loading,
// caching and encoding on top and is what the CLI and HTTP server call.
//
// # Quick Start
//
//	m, _ := pipeline.Load(ctx, pipeline.Options{Path: "./Retail"})
//	res, _ := engine.Run(ctx, pipeline.RequestFor(m).Input)
//	for _, p := range res.Positions {
//	    fmt.Printf("%s at (%.0f, %.0f)\n", p.Table, p.X, p.Y)
//	}
//
// # Main Packages
//
// ## Engine
//
// [model] - Shared types: relationships, table hints, categories,
// positions and warnings.
//
// [heuristics] - The tunable profile (vocabularies, score weights, geometry)
// loaded from TOML.
//
// [categorize] - Fact scoring, BFS dimension levels, special-table detection
// and 1:1 extension discovery.
//
// [optimize] - Places dimensions into per-level stacks and rebalances them.
//
// [chain] - Detects chain families across levels.
//
// [position] - Column layout and coordinate generation.
//
// ## Infrastructure
//
// [tmdl] - Reader for the TMDL folder format.
//
// [cache] - Layout cache with file, Redis and null backends.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// ## Orchestration
//
// [pipeline] - load → layout → encode with caching, used by CLI and API.
//
// [model]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/model
// [heuristics]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/heuristics
// [categorize]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/categorize
// [optimize]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/optimize
// [chain]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/chain
// [position]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/position
// [graph]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/graph
// [engine]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/engine
// [tmdl]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/tmdl
// [layout]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/layout
// [quality]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/quality
// [cache]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tmdlayout/pkg/pipeline
package pkg
