package categorize

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmdlayout/pkg/errors"
	"github.com/matzehuels/tmdlayout/pkg/graph"
	"github.com/matzehuels/tmdlayout/pkg/heuristics"
	"github.com/matzehuels/tmdlayout/pkg/model"
)

// Categorizer classifies tables. It holds no per-run state and may be
// shared by concurrent runs.
type Categorizer struct {
	profile heuristics.Profile
	logger  *log.Logger
}

// New returns a Categorizer using profile. A nil logger discards output.
func New(profile heuristics.Profile, logger *log.Logger) *Categorizer {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Categorizer{profile: profile, logger: logger}
}

// Result is the outcome of one categorization.
type Result struct {
	Categorization *model.Categorization
	Scores         []FactScore // one per fact candidate, sorted by table
	Warnings       []model.Warning
}

// run carries the state of a single Categorize call.
type run struct {
	*Categorizer
	g        *graph.Graph
	hints    map[string]model.TableHints
	cat      *model.Categorization
	levels   map[string]int
	assigned graph.Set
	res      *Result
}

// Categorize classifies every table of g. hints may be nil; tables without
// hints are treated as having no structural markers.
func (c *Categorizer) Categorize(g *graph.Graph, hints map[string]model.TableHints) (*Result, error) {
	r := &run{
		Categorizer: c,
		g:           g,
		hints:       hints,
		cat:         &model.Categorization{Extensions: map[string]model.ExtensionInfo{}},
		levels:      make(map[string]int),
		assigned:    make(graph.Set),
		res:         &Result{},
	}
	r.res.Categorization = r.cat

	remaining := r.excludeAutoDate(g.Tables())
	remaining = r.detectSpecialTables(remaining)
	facts, remaining := r.detectFacts(remaining)
	r.assignLevels(facts, remaining)
	r.detectExtensions()
	if err := r.reconcile(); err != nil {
		return nil, err
	}
	return r.res, nil
}

func (r *run) hint(table string) model.TableHints { return r.hints[table] }

func (r *run) put(cat model.Category, table string) {
	r.cat.Add(cat, table)
	r.assigned[table] = true
}

func (r *run) warn(w model.Warning) {
	r.logger.Warn(w.Message, "code", w.Code, "table", w.Table)
	r.res.Warnings = append(r.res.Warnings, w)
}

// =============================================================================
// Phase 0: auto-date exclusion
// =============================================================================

func (r *run) excludeAutoDate(tables []string) []string {
	var rest []string
	for _, t := range tables {
		if hasAnyPrefix(strings.ToLower(t), r.profile.Naming.AutoDatePrefixes) || r.hint(t).IsAutoDate() {
			r.logger.Debug("excluded auto-date table", "table", t)
			r.put(model.CategoryAutoDate, t)
			continue
		}
		rest = append(rest, t)
	}
	return rest
}

// =============================================================================
// Phase 1: special tables
// =============================================================================

func (r *run) detectSpecialTables(tables []string) []string {
	var rest []string
	for _, t := range tables {
		switch {
		case r.hint(t).CalculationGroup:
			r.put(model.CategoryCalculationGroup, t)
		case r.isParameter(t):
			r.put(model.CategoryParameter, t)
		case r.isMetrics(t):
			r.put(model.CategoryMetrics, t)
		default:
			rest = append(rest, t)
			continue
		}
		cat, _ := r.cat.CategoryOf(t)
		r.logger.Debug("special table", "table", t, "category", cat)
	}
	return rest
}

func (r *run) isParameter(table string) bool {
	n := r.profile.Naming
	if n.ParameterPrefix != "" && strings.HasPrefix(table, n.ParameterPrefix) {
		return true
	}
	return containsAny(strings.ToLower(table), n.ParameterVocabulary) || r.hint(table).HasParameterMarker()
}

func (r *run) isMetrics(table string) bool {
	h := r.hint(table)
	if r.g.Connections(table) != 0 || !h.Known {
		return false
	}
	if h.RegularColumns > r.profile.Scoring.MetricsMaxRegularColumns {
		return false
	}
	if h.RegularColumns == 0 && (h.Measures == 0 || !h.MeasuresHaveMetadata) {
		return false
	}
	n := r.profile.Naming
	name := strings.ToLower(table)
	if hasAnyPrefix(name, n.MetricsPrefixes) && strings.Contains(name, n.MetricsPrefixWord) {
		return true
	}
	return containsAny(name, n.MetricsVocabulary)
}

// IsSpecialDisconnected reports whether table is a configuration-style
// table that must never become a fact, whatever its connections.
func IsSpecialDisconnected(table string, h model.TableHints, p heuristics.Profile) bool {
	if p.Naming.ParameterPrefix != "" && strings.HasPrefix(table, p.Naming.ParameterPrefix) {
		return true
	}
	if containsAny(strings.ToLower(table), p.Naming.SpecialDisconnected) {
		return true
	}
	return h.ParameterMetadata || h.CalculationGroup || h.Hidden
}

// =============================================================================
// Phase 2: fact detection
// =============================================================================

func (r *run) detectFacts(tables []string) (graph.Set, []string) {
	facts := make(graph.Set)
	var eligible []string
	for _, t := range tables {
		if r.g.Connections(t) == 0 || IsSpecialDisconnected(t, r.hint(t), r.profile) {
			continue
		}
		eligible = append(eligible, t)
		fs := ScoreFact(t, r.g.Connections(t), r.profile)
		r.res.Scores = append(r.res.Scores, fs)
		r.logger.Debug("fact score", "table", t, "fact", fs.Fact, "dimension", fs.Dimension, "rule", fs.Rule)
		if fs.IsFact {
			facts[t] = true
		}
	}

	if len(facts) == 0 && len(eligible) > 0 {
		for _, t := range r.fallbackFacts(eligible) {
			facts[t] = true
			for i := range r.res.Scores {
				if r.res.Scores[i].Table == t {
					r.res.Scores[i].IsFact, r.res.Scores[i].Rule = true, RuleFallback
				}
			}
			r.warn(model.Warning{
				Code:    model.WarnFactFallback,
				Table:   t,
				Message: fmt.Sprintf("no table scored as fact; using %s (%d connections)", t, r.g.Connections(t)),
			})
		}
	}
	if len(facts) == 0 {
		r.warn(model.Warning{Code: model.WarnNoFacts, Message: "no fact tables detected; connected dimensions are placed at level 1"})
	}

	var rest []string
	for _, t := range tables {
		if facts[t] {
			r.put(model.CategoryFact, t)
			continue
		}
		rest = append(rest, t)
	}
	return facts, rest
}

// fallbackFacts picks the most connected eligible tables, ties broken by
// name, keeping only those with enough connections.
func (r *run) fallbackFacts(eligible []string) []string {
	s := r.profile.Scoring
	ranked := slices.Clone(eligible)
	slices.SortStableFunc(ranked, func(a, b string) int {
		return cmp.Or(cmp.Compare(r.g.Connections(b), r.g.Connections(a)), cmp.Compare(a, b))
	})
	var out []string
	for _, t := range ranked {
		if len(out) >= s.FallbackLimit {
			break
		}
		if r.g.Connections(t) >= s.FallbackMinConnections {
			out = append(out, t)
		}
	}
	return out
}

// =============================================================================
// Phase 3: leveling
// =============================================================================

func (r *run) assignLevels(facts graph.Set, tables []string) {
	for _, t := range tables {
		dist := r.g.DistanceToNearest(t, facts)
		level := distanceLevel(dist)
		switch {
		case IsCalendarName(t, r.profile):
			r.put(model.CategoryCalendar, t)
			r.levels[t] = level
		case IsSpecialDisconnected(t, r.hint(t), r.profile):
			r.put(model.CategoryParameter, t)
		case r.g.Connections(t) == 0:
			r.put(model.CategoryDisconnected, t)
		case r.g.IsStarSchemaTable(t, facts):
			r.put(model.CategoryL1, t)
			r.levels[t] = 1
		default:
			r.put(model.DimensionCategory(level), t)
			r.levels[t] = level
		}
		r.logger.Debug("leveled table", "table", t, "distance", dist, "level", r.levels[t])
	}
}

// distanceLevel maps a BFS distance to a dimension level. Unreachable
// tables are kept next to the facts.
func distanceLevel(dist int) int {
	switch {
	case dist == graph.Unreachable, dist <= 1:
		return 1
	case dist >= model.MaxLevel:
		return model.MaxLevel
	}
	return dist
}

// =============================================================================
// Reconciliation
// =============================================================================

func (r *run) reconcile() error {
	for _, t := range r.g.Tables() {
		if !r.assigned[t] {
			r.put(model.CategoryDisconnected, t)
			r.warn(model.Warning{Code: model.WarnUnclassified, Table: t, Message: "table matched no category; placed with disconnected tables"})
		}
	}

	for _, cat := range []model.Category{model.CategoryL1, model.CategoryL2, model.CategoryL3, model.CategoryL4Plus} {
		slices.Sort(r.cat.Bucket(cat))
	}

	seen := make(map[string]model.Category)
	for _, cat := range append(slices.Clone(model.PlacementCategories), model.CategoryAutoDate) {
		for _, t := range r.cat.Bucket(cat) {
			if prev, dup := seen[t]; dup {
				return errors.Internal("table %q assigned to both %s and %s", t, prev, cat)
			}
			seen[t] = cat
		}
	}

	r.cat.Tables = make([]model.TableRecord, 0, len(r.g.Tables()))
	for _, t := range r.g.Tables() {
		rec := model.TableRecord{
			Name:        t,
			Category:    seen[t],
			Level:       r.levels[t],
			Connections: r.g.Connections(t),
		}
		if seen[t].IsDimension() {
			rec.Level = seen[t].Level()
		}
		if ext, ok := r.cat.Extensions[t]; ok {
			rec.Extension = &ext
		}
		r.cat.Tables = append(r.cat.Tables, rec)
	}
	return nil
}
