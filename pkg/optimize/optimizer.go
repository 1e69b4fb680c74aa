package optimize

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-openapi/inflect"

	"github.com/matzehuels/tmdlayout/pkg/categorize"
	"github.com/matzehuels/tmdlayout/pkg/graph"
	"github.com/matzehuels/tmdlayout/pkg/heuristics"
)

// Optimizer places dimension tables. It holds no per-run state.
type Optimizer struct {
	profile heuristics.Profile
	logger  *log.Logger
}

// New returns an Optimizer using profile. A nil logger discards output.
func New(profile heuristics.Profile, logger *log.Logger) *Optimizer {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Optimizer{profile: profile, logger: logger}
}

// =============================================================================
// L1 split
// =============================================================================

// SplitLeftRight divides the L1 tables between the two sides. The first
// half goes left and the rest right; time-period tables then move to the
// top of the left side (next to the calendar), connected tables join their
// partner's side, and each side is sorted with SortTables.
func (o *Optimizer) SplitLeftRight(l1 []string, g *graph.Graph, calendar graph.Set) (left, right []string) {
	if len(l1) == 0 {
		return nil, nil
	}
	var timeTables []string
	for _, t := range l1 {
		if categorize.IsTimePeriod(t, g, calendar, o.profile) {
			timeTables = append(timeTables, t)
		}
	}
	pairs := connectedPairs(l1, g)

	mid := len(l1) / 2
	left, right = slices.Clone(l1[:mid]), slices.Clone(l1[mid:])

	for _, t := range timeTables {
		if i := slices.Index(right, t); i >= 0 {
			right = slices.Delete(right, i, i+1)
		} else if i := slices.Index(left, t); i >= 0 {
			left = slices.Delete(left, i, i+1)
		}
		left = slices.Insert(left, 0, t)
	}

	for _, p := range pairs {
		a, b := p[0], p[1]
		switch {
		case slices.Contains(left, a):
			if i := slices.Index(right, b); i >= 0 {
				right = slices.Delete(right, i, i+1)
				left = append(left, b)
			}
		case slices.Contains(right, a):
			if i := slices.Index(left, b); i >= 0 {
				left = slices.Delete(left, i, i+1)
				right = append(right, b)
			}
		}
	}

	left = o.SortTables(left, g, timeTables)
	right = o.SortTables(right, g, timeTables)
	o.logger.Debug("split L1", "left", left, "right", right)
	return left, right
}

// connectedPairs pairs every table with its first neighbour in tables.
// Each table starts at most one pair.
func connectedPairs(tables []string, g *graph.Graph) [][2]string {
	in := graph.NewSet(tables...)
	processed := make(graph.Set)
	var pairs [][2]string
	for _, a := range tables {
		if processed[a] {
			continue
		}
		for _, b := range g.Neighbors(a) {
			if !in[b] || b == a {
				continue
			}
			p := orderedPair(a, b)
			if !slices.Contains(pairs, p) {
				pairs = append(pairs, p)
				processed[a], processed[b] = true, true
				break
			}
		}
	}
	return pairs
}

// generalPairs returns every connected pair within tables once.
func generalPairs(tables []string, g *graph.Graph) [][2]string {
	in := graph.NewSet(tables...)
	var pairs [][2]string
	for _, a := range tables {
		for _, b := range g.Neighbors(a) {
			if in[b] && b != a {
				if p := orderedPair(a, b); !slices.Contains(pairs, p) {
					pairs = append(pairs, p)
				}
			}
		}
	}
	return pairs
}

func orderedPair(a, b string) [2]string {
	if b < a {
		return [2]string{b, a}
	}
	return [2]string{a, b}
}

// =============================================================================
// Ordering within a stack
// =============================================================================

// SortTables orders one stack: time-period tables first, then parent-child
// pairs (parent directly above child), then other connected pairs, then
// everything else in input order.
func (o *Optimizer) SortTables(tables []string, g *graph.Graph, timeTables []string) []string {
	if len(tables) <= 1 {
		return slices.Clone(tables)
	}
	remaining := slices.Clone(tables)
	var out []string
	take := func(t string) bool {
		i := slices.Index(remaining, t)
		if i < 0 {
			return false
		}
		remaining = slices.Delete(remaining, i, i+1)
		return true
	}

	for _, t := range timeTables {
		if take(t) {
			out = slices.Insert(out, 0, t)
		}
	}

	for _, p := range o.ParentChildPairs(remaining, g) {
		if slices.Contains(remaining, p[0]) && slices.Contains(remaining, p[1]) {
			take(p[0])
			take(p[1])
			out = append(out, p[0], p[1])
		}
	}

	for _, p := range generalPairs(remaining, g) {
		if slices.Contains(remaining, p[0]) && slices.Contains(remaining, p[1]) {
			take(p[0])
			take(p[1])
			out = append(out, p[0], p[1])
		}
	}
	return append(out, remaining...)
}

// ParentChildPairs returns the connected (parent, child) pairs among
// tables. A parent has more connections than its child, or the names form
// a hierarchy such as Account and AccountTree.
func (o *Optimizer) ParentChildPairs(tables []string, g *graph.Graph) [][2]string {
	var pairs [][2]string
	for _, parent := range tables {
		for _, child := range tables {
			if parent == child || !g.HasEdge(parent, child) {
				continue
			}
			if g.Connections(parent) > g.Connections(child) ||
				o.namingHierarchy(parent, child) ||
				o.businessHierarchy(parent, child) {
				if p := [2]string{parent, child}; !slices.Contains(pairs, p) {
					pairs = append(pairs, p)
				}
			}
		}
	}
	return pairs
}

// namingHierarchy reports whether child carries a hierarchy suffix and the
// part of its name before the suffix names the parent.
func (o *Optimizer) namingHierarchy(parent, child string) bool {
	p, c := strings.ToLower(parent), strings.ToLower(child)
	for _, suffix := range o.profile.Naming.HierarchySuffixes {
		if suffix == "" || !strings.Contains(c, suffix) {
			continue
		}
		stem, _, _ := strings.Cut(c, suffix)
		for _, part := range strings.Split(stem, "_") {
			if len([]rune(part)) <= 2 {
				continue
			}
			if strings.Contains(p, part) {
				return true
			}
			if s := inflect.Singularize(part); len([]rune(s)) > 2 && strings.Contains(p, s) {
				return true
			}
		}
	}
	return false
}

func (o *Optimizer) businessHierarchy(parent, child string) bool {
	p, c := strings.ToLower(parent), strings.ToLower(child)
	for _, h := range o.profile.Naming.BusinessHierarchy {
		if strings.Contains(p, h[0]) && strings.Contains(c, h[1]) {
			return true
		}
	}
	return false
}
