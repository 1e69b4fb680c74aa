// Package graph provides the relationship graph of a data model.
//
// A [Graph] is an undirected adjacency structure over table names, built once
// per engine run from relationship records and never mutated afterwards. An
// edge exists between two tables whenever at least one relationship record
// joins them, regardless of direction, cardinality or activity.
//
// # Building
//
// [Build] normalizes every name through a [Normalizer], drops records that
// reference unknown tables or join a table to itself, and reports each dropped
// record as a [model.Warning]:
//
//	g, warnings := graph.Build(records, tables, graph.NewNormalizer())
//
// # Queries
//
// All queries iterate in sorted name order, so every algorithm built on top
// of the graph is deterministic:
//
//   - [Graph.Neighbors] and [Graph.Connections] for adjacency
//   - [Graph.DistanceToNearest] for the BFS distance to a target set
//   - [Graph.IsStarSchemaTable] for the star-schema test around fact tables
//   - [Graph.Edges] for every undirected edge once
//
// # Symmetry
//
// B is a neighbour of A if and only if A is a neighbour of B. The graph
// has no self-loops.
package graph
