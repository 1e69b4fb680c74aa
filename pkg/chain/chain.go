package chain

import (
	"slices"

	"github.com/matzehuels/tmdlayout/pkg/errors"
	"github.com/matzehuels/tmdlayout/pkg/graph"
	"github.com/matzehuels/tmdlayout/pkg/model"
	"github.com/matzehuels/tmdlayout/pkg/optimize"
)

// MinChainLength is the number of chain members a family needs.
const MinChainLength = 2

// Family is one chain of related tables across levels.
type Family struct {
	Name    string   `json:"name" yaml:"name"`
	Chain   []string `json:"chain" yaml:"chain"`     // outer to inner, one table per level
	Members []string `json:"members" yaml:"members"` // chain plus folded extensions
}

// DetectFamilies traces chain families through the stacks. Starting tables
// are taken from L3, then L2, in sorted order; a table already claimed by a
// family does not start another one. At each step the first neighbour (by
// name) on the next inner level is followed. Extensions of a chain member
// that sit on the member's level or one level further out join the family;
// an extension whose base can start a family never starts one itself.
func DetectFamilies(st optimize.Stacks, facts []string, g *graph.Graph, extensions map[string]model.ExtensionInfo) []Family {
	// levels[0] is L4, levels[1] L3, levels[4] the facts.
	levels := []graph.Set{
		graph.NewSet(st.Level(4)...),
		graph.NewSet(st.Level(3)...),
		graph.NewSet(st.Level(2)...),
		graph.NewSet(st.Level(1)...),
		graph.NewSet(facts...),
	}

	var families []Family
	claimed := make(graph.Set)
	for start := 1; start < 3; start++ {
		for _, t := range levels[start].Sorted() {
			if claimed[t] {
				continue
			}
			// The base's own family folds the extension in.
			if ext, ok := extensions[t]; ok && (levels[1][ext.Base] || levels[2][ext.Base]) {
				continue
			}
			f := trace(t, start, levels, g, extensions)
			if len(f.Chain) < MinChainLength {
				continue
			}
			families = append(families, f)
			for _, m := range f.Members {
				claimed[m] = true
			}
		}
	}
	return families
}

func trace(start string, level int, levels []graph.Set, g *graph.Graph, extensions map[string]model.ExtensionInfo) Family {
	f := Family{Name: start}
	cur := start
	for {
		f.Chain = append(f.Chain, cur)
		f.Members = append(f.Members, cur)
		for _, n := range append(g.NeighborsIn(cur, levels[level]), g.NeighborsIn(cur, levels[level-1])...) {
			if ext, ok := extensions[n]; ok && ext.Base == cur && !slices.Contains(f.Members, n) {
				f.Members = append(f.Members, n)
			}
		}
		level++
		if level == len(levels) {
			return f
		}
		candidates := g.NeighborsIn(cur, levels[level])
		if len(candidates) == 0 {
			return f
		}
		cur = candidates[0]
	}
}

// Reorganize orders every dimension column and the fact column by family:
// members of earlier families first, in family order, then the remaining
// tables in their original order. The number of tables never changes; a
// mismatch is an internal error.
func Reorganize(st optimize.Stacks, facts []string, families []Family) (optimize.Stacks, []string, error) {
	out := st.Clone()
	for _, side := range []optimize.Side{optimize.Left, optimize.Right} {
		for level := 1; level <= model.MaxLevel; level++ {
			col, err := reorganizeColumn(st.Get(side, level), families)
			if err != nil {
				return st, facts, err
			}
			out.Set(side, level, col)
		}
	}
	newFacts, err := reorganizeColumn(facts, families)
	if err != nil {
		return st, facts, err
	}
	if out.Count() != st.Count() {
		return st, facts, errors.Internal("chain alignment changed the table count from %d to %d", st.Count(), out.Count())
	}
	return out, newFacts, nil
}

func reorganizeColumn(tables []string, families []Family) ([]string, error) {
	if len(tables) == 0 {
		return nil, nil
	}
	remaining := slices.Clone(tables)
	out := make([]string, 0, len(tables))
	for _, f := range families {
		for _, m := range f.Members {
			if i := slices.Index(remaining, m); i >= 0 {
				out = append(out, m)
				remaining = slices.Delete(remaining, i, i+1)
			}
		}
	}
	out = append(out, remaining...)
	if len(out) != len(tables) {
		return nil, errors.Internal("column reorganization produced %d tables from %d", len(out), len(tables))
	}
	return out, nil
}

// ReservedSlots maps every chain member to the ordinal of the first family
// whose chain contains it. Folded extensions are not reserved.
func ReservedSlots(families []Family) map[string]int {
	slots := make(map[string]int)
	for i, f := range families {
		for _, t := range f.Chain {
			if _, ok := slots[t]; !ok {
				slots[t] = i
			}
		}
	}
	return slots
}
