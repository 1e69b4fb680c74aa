package categorize

import (
	"strings"

	"github.com/matzehuels/tmdlayout/pkg/graph"
	"github.com/matzehuels/tmdlayout/pkg/heuristics"
	"github.com/matzehuels/tmdlayout/pkg/model"
)

// IsTimePeriod reports whether table holds time periods: its name uses the
// time vocabulary or it is connected to a calendar table.
func IsTimePeriod(table string, g *graph.Graph, calendar graph.Set, p heuristics.Profile) bool {
	if containsAny(strings.ToLower(table), p.Naming.TimeVocabulary) {
		return true
	}
	return len(g.NeighborsIn(table, calendar)) > 0
}

// CalendarConnectedSpecials returns the fact, calendar and dimension tables
// whose every neighbour is a calendar table, sorted. These are stacked above
// the calendar in the center column instead of their own bucket.
func CalendarConnectedSpecials(c *model.Categorization, g *graph.Graph) []string {
	calendar := graph.NewSet(c.Calendar...)
	candidates := graph.NewSet(c.Facts...)
	for _, t := range c.Calendar {
		candidates[t] = true
	}
	for _, t := range c.Dimensions() {
		candidates[t] = true
	}

	var out []string
	for _, t := range candidates.Sorted() {
		n := g.Neighbors(t)
		if len(n) > 0 && len(g.NeighborsIn(t, calendar)) == len(n) {
			out = append(out, t)
		}
	}
	return out
}

// PairKind classifies an edge by the connection counts of its ends.
type PairKind int

// Pair kinds.
const (
	PairRegular PairKind = iota
	PairOneToOne
	PairManyToMany
)

// String returns the kind name.
func (k PairKind) String() string {
	switch k {
	case PairOneToOne:
		return "one_to_one"
	case PairManyToMany:
		return "many_to_many"
	}
	return "regular"
}

// ClassifyPair returns the kind of the edge a-b. A pair is 1:1 when both
// ends have exactly the one-to-one connection count, and M:M when both
// exceed the many-to-many minimum.
func ClassifyPair(g *graph.Graph, a, b string, p heuristics.Profile) PairKind {
	ca, cb := g.Connections(a), g.Connections(b)
	s := p.Scoring
	switch {
	case ca == s.OneToOneConnections && cb == s.OneToOneConnections:
		return PairOneToOne
	case ca > s.ManyToManyMin && cb > s.ManyToManyMin:
		return PairManyToMany
	}
	return PairRegular
}
