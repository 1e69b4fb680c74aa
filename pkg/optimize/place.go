package optimize

import (
	"fmt"

	"github.com/matzehuels/tmdlayout/pkg/graph"
	"github.com/matzehuels/tmdlayout/pkg/model"
)

// parentLevels returns the inner levels a table at level follows, in
// priority order.
func parentLevels(level int) []int {
	switch level {
	case 2:
		return []int{1}
	case 3:
		return []int{2}
	case model.MaxLevel:
		return []int{3, 2}
	}
	return nil
}

// primary returns the least connected of candidates, ties broken by name.
// candidates must be sorted and non-empty.
func primary(candidates []string, g *graph.Graph) string {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if g.Connections(c) < g.Connections(best) {
			best = c
		}
	}
	return best
}

// expectedSide returns the side of the primary parent of table, searching
// the parent levels in priority order.
func expectedSide(st *Stacks, table string, level int, g *graph.Graph) (Side, string, bool) {
	for _, pl := range parentLevels(level) {
		parents := g.NeighborsIn(table, graph.NewSet(st.Level(pl)...))
		if len(parents) == 0 {
			continue
		}
		p := primary(parents, g)
		side, _, _ := st.Find(p)
		return side, p, true
	}
	return Left, "", false
}

// PlaceLevel distributes tables (level 2, 3 or 4) over the two sides next
// to the parents they connect to and returns the updated stacks. Tables
// without a parent are balanced; at level 2 they first follow the side
// holding more of their neighbours. Levels 3 and 4 then get a
// misplacement check and correction.
func (o *Optimizer) PlaceLevel(st Stacks, level int, tables []string, g *graph.Graph) (Stacks, []model.Warning) {
	st = st.Clone()
	if level < 2 || level > model.MaxLevel {
		return st, nil
	}
	st.Set(Left, level, nil)
	st.Set(Right, level, nil)

	var unplaced []string
	for _, t := range tables {
		side, parent, ok := expectedSide(&st, t, level, g)
		if !ok {
			unplaced = append(unplaced, t)
			continue
		}
		st.Append(side, level, t)
		o.logger.Debug("placed near parent", "table", t, "level", level, "parent", parent, "side", side)
	}

	for _, t := range unplaced {
		side := o.balanceSide(&st, t, level, g)
		st.Append(side, level, t)
		o.logger.Debug("placed by balance", "table", t, "level", level, "side", side)
	}

	if level < 3 {
		return st, nil
	}
	st = o.CorrectMisplacements(st, level, g)
	var warnings []model.Warning
	for _, m := range findMisplaced(&st, level, g) {
		warnings = append(warnings, model.Warning{
			Code:    model.WarnMisplaced,
			Table:   m.table,
			Message: fmt.Sprintf("L%d table remains on the %s side after correction", level, m.want.Opposite()),
		})
	}
	return st, warnings
}

func (o *Optimizer) balanceSide(st *Stacks, table string, level int, g *graph.Graph) Side {
	if level == 2 {
		neighbors := graph.NewSet(g.Neighbors(table)...)
		score := func(side Side) int {
			n := 0
			for _, t := range append(st.Get(side, 1), st.Get(side, 2)...) {
				if neighbors[t] {
					n++
				}
			}
			return n
		}
		switch l, r := score(Left), score(Right); {
		case l > r:
			return Left
		case r > l:
			return Right
		}
	}
	if len(st.Get(Left, level)) <= len(st.Get(Right, level)) {
		return Left
	}
	return Right
}

type misplacement struct {
	table string
	want  Side
}

func findMisplaced(st *Stacks, level int, g *graph.Graph) []misplacement {
	var out []misplacement
	for _, side := range []Side{Left, Right} {
		for _, t := range st.Get(side, level) {
			want, _, ok := expectedSide(st, t, level, g)
			if ok && want != side {
				out = append(out, misplacement{table: t, want: want})
			}
		}
	}
	return out
}

// CorrectMisplacements moves every table at level whose primary parent is
// on the other side to the end of the parent's side.
func (o *Optimizer) CorrectMisplacements(st Stacks, level int, g *graph.Graph) Stacks {
	st = st.Clone()
	for _, m := range findMisplaced(&st, level, g) {
		st.Move(m.table, m.want, level)
		o.logger.Debug("corrected misplacement", "table", m.table, "level", level, "side", m.want)
	}
	return st
}

// DemoteSingleL1 returns the candidates that connect to exactly one L1
// table. Candidates are visited in sorted order and a demoted L1 table
// stops counting as L1 for the candidates after it.
func DemoteSingleL1(candidates, l1 []string, g *graph.Graph) []string {
	set := graph.NewSet(l1...)
	var out []string
	for _, t := range graph.NewSet(candidates...).Sorted() {
		if len(g.NeighborsIn(t, set)) == 1 {
			out = append(out, t)
			delete(set, t)
		}
	}
	return out
}
