package graph

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/matzehuels/tmdlayout/pkg/model"
)

// Unreachable is the distance reported when no target can be reached.
const Unreachable = 999

// ErrUnknownTable is returned by lookups for a table the graph does not hold.
var ErrUnknownTable = errors.New("unknown table")

// Set is a set of table names.
type Set map[string]bool

// NewSet returns a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

// Sorted returns the members of s in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Graph is a symmetric adjacency structure over table names.
type Graph struct {
	tables  []string
	adj     map[string][]string
	records []model.Relationship
}

// Build constructs the graph for tables from records. Names are normalized
// with norm. Records naming an unknown table, records with an empty end and
// self-relationships are dropped and reported.
func Build(records []model.Relationship, tables []string, norm *Normalizer) (*Graph, []model.Warning) {
	if norm == nil {
		norm = NewNormalizer()
	}
	g := &Graph{adj: make(map[string][]string)}

	known := make(Set, len(tables))
	for _, t := range tables {
		if n := norm.Normalize(t); n != "" {
			known[n] = true
		}
	}
	g.tables = known.Sorted()

	var warnings []model.Warning
	sets := make(map[string]Set, len(g.tables))
	for _, rec := range records {
		from, to := norm.Normalize(rec.FromTable), norm.Normalize(rec.ToTable)
		switch {
		case from == "" || to == "":
			warnings = append(warnings, model.Warning{
				Code:    model.WarnMalformedRecord,
				Message: fmt.Sprintf("relationship %q has an empty end", rec.Name),
			})
			continue
		case !known[from]:
			warnings = append(warnings, unknownTable(from, rec, g.tables))
			continue
		case !known[to]:
			warnings = append(warnings, unknownTable(to, rec, g.tables))
			continue
		case from == to:
			warnings = append(warnings, model.Warning{
				Code:    model.WarnSelfRelationship,
				Table:   from,
				Message: fmt.Sprintf("relationship %q joins the table to itself", rec.Name),
			})
			continue
		}

		rec.FromTable, rec.ToTable = from, to
		g.records = append(g.records, rec)
		add(sets, from, to)
		add(sets, to, from)
	}

	for t, s := range sets {
		g.adj[t] = s.Sorted()
	}
	return g, warnings
}

func add(sets map[string]Set, a, b string) {
	s, ok := sets[a]
	if !ok {
		s = make(Set)
		sets[a] = s
	}
	s[b] = true
}

func unknownTable(name string, rec model.Relationship, known []string) model.Warning {
	msg := fmt.Sprintf("relationship %q references unknown table %q", rec.Name, name)
	if s := Suggest(name, known); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return model.Warning{Code: model.WarnUnknownTable, Table: name, Message: msg}
}

// Suggest returns the candidate closest to name by case-insensitive edit
// distance, or "" when nothing is close enough to be a likely typo.
func Suggest(name string, candidates []string) string {
	target := []rune(strings.ToLower(name))
	limit := max(2, len(target)/3)
	best, bestDist := "", limit+1
	for _, c := range candidates {
		d := levenshtein.DistanceForStrings(target, []rune(strings.ToLower(c)), levenshtein.DefaultOptions)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Tables returns every known table, sorted. The slice must not be modified.
func (g *Graph) Tables() []string { return g.tables }

// Has reports whether table is known to the graph.
func (g *Graph) Has(table string) bool {
	_, ok := slices.BinarySearch(g.tables, table)
	return ok
}

// Records returns the accepted relationship records with normalized names.
func (g *Graph) Records() []model.Relationship { return g.records }

// Neighbors returns the tables sharing an edge with table, sorted. The slice
// must not be modified.
func (g *Graph) Neighbors(table string) []string { return g.adj[table] }

// Connections returns the number of distinct neighbours of table.
func (g *Graph) Connections(table string) int { return len(g.adj[table]) }

// HasEdge reports whether a and b are neighbours.
func (g *Graph) HasEdge(a, b string) bool {
	_, ok := slices.BinarySearch(g.adj[a], b)
	return ok
}

// Edges returns every undirected edge once as an ordered pair (a < b),
// sorted.
func (g *Graph) Edges() [][2]string {
	var out [][2]string
	for _, a := range g.tables {
		for _, b := range g.adj[a] {
			if a < b {
				out = append(out, [2]string{a, b})
			}
		}
	}
	return out
}

// NeighborsIn returns the neighbours of table that are members of s, sorted.
func (g *Graph) NeighborsIn(table string, s Set) []string {
	var out []string
	for _, n := range g.adj[table] {
		if s[n] {
			out = append(out, n)
		}
	}
	return out
}

// DistanceToNearest returns the number of hops from table to the closest
// member of targets: 0 when table is itself a target, Unreachable when no
// target is connected.
func (g *Graph) DistanceToNearest(table string, targets Set) int {
	if targets[table] {
		return 0
	}
	type item struct {
		table string
		dist  int
	}
	visited := Set{table: true}
	queue := []item{{table, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.adj[cur.table] {
			if targets[n] {
				return cur.dist + 1
			}
			if !visited[n] {
				visited[n] = true
				queue = append(queue, item{n, cur.dist + 1})
			}
		}
	}
	return Unreachable
}

// IsStarSchemaTable reports whether table connects to at least one fact and
// to nothing else.
func (g *Graph) IsStarSchemaTable(table string, facts Set) bool {
	neighbors := g.adj[table]
	if len(neighbors) == 0 {
		return false
	}
	for _, n := range neighbors {
		if !facts[n] {
			return false
		}
	}
	return true
}

// Lookup returns the neighbours of table, or ErrUnknownTable when the graph
// does not hold it.
func (g *Graph) Lookup(table string) ([]string, error) {
	if !g.Has(table) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return g.adj[table], nil
}
