// Package optimize decides which side of the fact tables each dimension is
// placed on, and in which order.
//
// The diagram is built middle-out: facts sit in a center column, L1
// dimensions in the columns directly left and right of it, L2 one column
// further out, and so on. [Stacks] holds the ordered tables of every
// dimension column. Each [Optimizer] step takes a Stacks value, works on a
// private copy and returns the result, so steps can be tested in isolation
// and composed in any order:
//
//	st := optimize.NewStacks(left, right)
//	st, _ = opt.PlaceLevel(st, 2, l2Tables, g)
//	st, warnings = opt.PlaceLevel(st, 3, l3Tables, g)
//	st = opt.ApplyOppositeSidePlacement(st, g, extensions)
//
// Placement follows relationships: a table joins the side of the inner-level
// table it connects to. When it connects to several, the least connected of
// them (the most specific relationship) wins.
package optimize
