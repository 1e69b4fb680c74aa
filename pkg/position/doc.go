// Package position turns ordered stacks into table rectangles.
//
// The diagram is a row of columns. Only columns holding at least one table
// are drawn, from left to right:
//
//	L4+ L3 L2 L1 | center | L1 L2 L3 L4+ | metrics | parameters
//
// The center column stacks calendar-connected special tables, then the
// calendar tables (both collapsed), then the facts. Dimension columns honor
// the slots reserved by chain alignment and fill the remaining slots from
// the top. Parameters, disconnected tables and calculation groups share a
// grid anchored at the parameters column.
//
// All geometry comes from [heuristics.Geometry]; nothing in this package
// knows about the graph.
package position
