// Package engine is the single entry point of the layout engine.
//
// [Engine.Run] takes relationship records, table names and optional
// structural hints and returns the category partition of the tables
// together with one rectangle per placed table:
//
//	res, err := engine.New(engine.Options{}).Run(ctx, engine.Input{
//		Relationships: records,
//		Tables:        tables,
//	})
//
// A run threads a workspace value through the phases in a fixed order:
//
//  1. build the relationship graph
//  2. categorize the tables
//  3. split L1 into left and right and demote single-L1 tables
//  4. place L2, L3 and L4+ next to their parents
//  5. keep extensions next to their bases, split 1:1 pairs, join M:M pairs
//  6. align chain families
//  7. generate positions
//
// The engine is pure and deterministic: it performs no I/O and the same
// input always yields the same positions. Runs share nothing, so one
// [Engine] may serve any number of concurrent calls.
//
// Recoverable anomalies are reported as [model.Warning] values in the
// result. Invalid input fails with an [errors.ErrCodeInvalidInput] error
// and broken internal invariants with [errors.ErrCodeInternal].
package engine
