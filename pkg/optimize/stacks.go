package optimize

import (
	"slices"

	"github.com/matzehuels/tmdlayout/pkg/model"
)

// Side is the half of the diagram a dimension column belongs to.
type Side int

// Sides.
const (
	Left Side = iota
	Right
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Left {
		return Right
	}
	return Left
}

// String returns "left" or "right".
func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Stacks holds the ordered dimension tables per side and level. Index 0 of
// each array is L1, index MaxLevel-1 is L4+.
type Stacks struct {
	Left  [model.MaxLevel][]string `json:"left" yaml:"left"`
	Right [model.MaxLevel][]string `json:"right" yaml:"right"`
}

// NewStacks returns stacks holding the given L1 sides.
func NewStacks(leftL1, rightL1 []string) Stacks {
	var s Stacks
	s.Left[0] = slices.Clone(leftL1)
	s.Right[0] = slices.Clone(rightL1)
	return s
}

func (s *Stacks) side(side Side) *[model.MaxLevel][]string {
	if side == Left {
		return &s.Left
	}
	return &s.Right
}

// Get returns the tables at side and level (1..MaxLevel). The slice must
// not be modified.
func (s *Stacks) Get(side Side, level int) []string {
	if level < 1 || level > model.MaxLevel {
		return nil
	}
	return s.side(side)[level-1]
}

// Set replaces the tables at side and level.
func (s *Stacks) Set(side Side, level int, tables []string) {
	s.side(side)[level-1] = tables
}

// Level returns the tables of a level, left side first.
func (s *Stacks) Level(level int) []string {
	return slices.Concat(s.Get(Left, level), s.Get(Right, level))
}

// Find returns the side and level holding table.
func (s *Stacks) Find(table string) (Side, int, bool) {
	for _, side := range []Side{Left, Right} {
		for i, tables := range s.side(side) {
			if slices.Contains(tables, table) {
				return side, i + 1, true
			}
		}
	}
	return Left, 0, false
}

// Contains reports whether table is in any stack.
func (s *Stacks) Contains(table string) bool {
	_, _, ok := s.Find(table)
	return ok
}

// Remove deletes table from every stack. Reports whether it was present.
func (s *Stacks) Remove(table string) bool {
	removed := false
	for _, side := range []Side{Left, Right} {
		arr := s.side(side)
		for i := range arr {
			if j := slices.Index(arr[i], table); j >= 0 {
				arr[i] = slices.Delete(arr[i], j, j+1)
				removed = true
			}
		}
	}
	return removed
}

// Append adds table to the end of the stack at side and level.
func (s *Stacks) Append(side Side, level int, table string) {
	arr := s.side(side)
	arr[level-1] = append(arr[level-1], table)
}

// Move removes table from wherever it is and appends it at side and level.
func (s *Stacks) Move(table string, side Side, level int) {
	s.Remove(table)
	s.Append(side, level, table)
}

// InsertAfter moves table directly after anchor, which must be at side and
// level. Reports whether anchor was found.
func (s *Stacks) InsertAfter(side Side, level int, anchor, table string) bool {
	if slices.Index(s.Get(side, level), anchor) < 0 {
		return false
	}
	s.Remove(table)
	arr := s.side(side)
	i := slices.Index(arr[level-1], anchor)
	arr[level-1] = slices.Insert(arr[level-1], i+1, table)
	return true
}

// Count returns the number of tables in all stacks.
func (s *Stacks) Count() int {
	n := 0
	for i := range model.MaxLevel {
		n += len(s.Left[i]) + len(s.Right[i])
	}
	return n
}

// Tables returns every table, left side inner to outer, then right side.
func (s *Stacks) Tables() []string {
	var out []string
	for _, side := range []Side{Left, Right} {
		for _, tables := range s.side(side) {
			out = append(out, tables...)
		}
	}
	return out
}

// Clone returns a deep copy.
func (s Stacks) Clone() Stacks {
	var out Stacks
	for i := range model.MaxLevel {
		out.Left[i] = slices.Clone(s.Left[i])
		out.Right[i] = slices.Clone(s.Right[i])
	}
	return out
}
