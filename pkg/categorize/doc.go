// Package categorize classifies the tables of a data model.
//
// A [Categorizer] runs five strictly ordered phases over a [graph.Graph]:
//
//  1. Exclusion: generated auto-date tables are removed from layout.
//  2. Special tables: calculation groups, parameters and metrics tables are
//     recognized from structural markers and naming, in that priority.
//  3. Fact detection: remaining connected tables are scored on naming and
//     connection count; the highest scorers become facts.
//  4. Leveling: every other table gets a category from its BFS distance to
//     the nearest fact (L1 to L4+), or calendar, parameter or disconnected.
//  5. Extensions: dimension pairs joined by a 1:1 relationship are detected
//     and the extension is moved one level beyond its base.
//
// A final reconciliation guarantees that every table lands in exactly one
// bucket. The detectors in detect.go (time-period tables, calendar-connected
// specials and pair kinds) are used by the optimizer after categorization.
//
// Every constant comes from a [heuristics.Profile].
package categorize
