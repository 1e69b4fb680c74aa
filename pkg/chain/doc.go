// Package chain aligns relationship chains across dimension columns.
//
// A chain family is a path that starts at an outer dimension (L3, or L2 when
// the L2 table is not yet claimed) and follows relationships inwards, one
// table per level, until it reaches a fact. Placing every member of a family
// at the same vertical slot in its column keeps the relationship lines of
// the chain horizontal:
//
//	L3 Region ── L2 Country ── L1 Customer ── Sales
//
// [DetectFamilies] finds the families, [Reorganize] orders each column by
// family, and [ReservedSlots] returns the slot every chain member is locked
// to.
package chain
