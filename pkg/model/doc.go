// Package model defines the shared data types of the layout engine.
//
// Every type here is plain data: the engine packages (graph, categorize,
// optimize, chain, position) build and consume them, and the collaborators
// around the engine (tmdl, pipeline, layout, the CLI and the HTTP API)
// serialize them.
//
// # Core Types
//
//   - [Relationship]: one relationship record between two tables
//   - [TableHints]: structural markers of a table used for special-table detection
//   - [Category]: the bucket a table is classified into
//   - [Categorization]: the partition of all tables into buckets
//   - [TableRecord]: per-table classification details
//   - [Position]: the final rectangle assigned to a table
//   - [Warning]: a recoverable anomaly reported by the engine
//
// # Constants
//
// This package is the single source of truth for category names:
//
//	model.CategoryFact      // "fact"
//	model.CategoryL1        // "l1"
//	model.CategoryCalendar  // "calendar"
//	model.CategoryAutoDate  // "auto_date"
//
// All types are created fresh per engine invocation; none of them carry
// state between runs.
package model
