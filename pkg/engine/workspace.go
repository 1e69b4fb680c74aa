package engine

import (
	"fmt"
	"slices"

	"github.com/matzehuels/tmdlayout/pkg/categorize"
	"github.com/matzehuels/tmdlayout/pkg/chain"
	"github.com/matzehuels/tmdlayout/pkg/errors"
	"github.com/matzehuels/tmdlayout/pkg/graph"
	"github.com/matzehuels/tmdlayout/pkg/model"
	"github.com/matzehuels/tmdlayout/pkg/optimize"
	"github.com/matzehuels/tmdlayout/pkg/position"
)

// workspace is the state threaded through the phases of one run. Phases
// take it by value and return the updated copy.
type workspace struct {
	input Input

	g      *graph.Graph
	hints  map[string]model.TableHints
	cat    *model.Categorization
	scores []categorize.FactScore

	// specials are calendar-connected tables drawn above the calendar.
	// They keep their bucket but leave every stack.
	specials []string
	// pending holds the tables of L2..L4+ waiting for placement; index 0
	// is unused.
	pending [model.MaxLevel + 1][]string
	stacks  optimize.Stacks
	facts   []string

	families  []chain.Family
	reserved  map[string]int
	positions []model.Position
	columns   position.Columns

	warnings []model.Warning
}

func (e *Engine) warn(ws *workspace, warnings ...model.Warning) {
	for _, w := range warnings {
		e.logger.Warn(w.Message, "code", w.Code, "table", w.Table)
	}
	ws.warnings = append(ws.warnings, warnings...)
}

func (e *Engine) buildGraph(ws workspace) (workspace, error) {
	norm := graph.NewNormalizer()
	g, warnings := graph.Build(ws.input.Relationships, ws.input.Tables, norm)
	e.warn(&ws, warnings...)
	if len(g.Tables()) == 0 {
		return ws, errors.New(errors.ErrCodeInvalidInput, "no valid table names")
	}
	ws.g = g

	ws.hints = make(map[string]model.TableHints, len(ws.input.Hints))
	for name, h := range ws.input.Hints {
		n := norm.Normalize(name)
		if !g.Has(n) {
			e.warn(&ws, model.Warning{
				Code:    model.WarnUnknownHint,
				Table:   name,
				Message: "hints supplied for a table that is not in the table list",
			})
			continue
		}
		ws.hints[n] = h
	}
	e.logger.Debug("graph built", "tables", len(g.Tables()), "edges", len(g.Edges()))
	return ws, nil
}

func (e *Engine) classify(ws workspace) (workspace, error) {
	res, err := e.categorize.Categorize(ws.g, ws.hints)
	if err != nil {
		return ws, fmt.Errorf("categorize: %w", err)
	}
	ws.cat = res.Categorization
	ws.scores = res.Scores
	ws.warnings = append(ws.warnings, res.Warnings...)
	ws.specials = categorize.CalendarConnectedSpecials(ws.cat, ws.g)
	if len(ws.specials) > 0 {
		e.logger.Debug("calendar-connected specials", "tables", ws.specials)
	}
	return ws, nil
}

// split divides L1 between the sides and demotes tables hanging off a
// single L1 table to L2.
func (e *Engine) split(ws workspace) (workspace, error) {
	l1 := without(ws.cat.L1, ws.specials)
	left, right := e.optimize.SplitLeftRight(l1, ws.g, graph.NewSet(ws.cat.Calendar...))
	ws.stacks = optimize.NewStacks(left, right)
	for level := 2; level <= model.MaxLevel; level++ {
		ws.pending[level] = without(ws.cat.Bucket(model.DimensionCategory(level)), ws.specials)
	}

	var candidates []string
	candidates = append(candidates, l1...)
	candidates = append(candidates, ws.pending[3]...)
	candidates = append(candidates, ws.pending[4]...)
	for _, t := range optimize.DemoteSingleL1(candidates, l1, ws.g) {
		e.logger.Debug("demoted to L2", "table", t)
		ws.stacks.Remove(t)
		ws.pending[3] = without(ws.pending[3], []string{t})
		ws.pending[4] = without(ws.pending[4], []string{t})
		ws.pending[2] = append(ws.pending[2], t)
	}
	return ws, nil
}

func (e *Engine) place(ws workspace) (workspace, error) {
	for level := 2; level <= model.MaxLevel; level++ {
		var warnings []model.Warning
		ws.stacks, warnings = e.optimize.PlaceLevel(ws.stacks, level, ws.pending[level], ws.g)
		e.warn(&ws, warnings...)
		ws.pending[level] = nil
	}
	return ws, nil
}

func (e *Engine) adjust(ws workspace) (workspace, error) {
	ws.stacks = e.optimize.RepositionExtensions(ws.stacks, ws.cat.Extensions)
	ws.stacks = e.optimize.ApplyOppositeSidePlacement(ws.stacks, ws.g, ws.cat.Extensions)
	return ws, nil
}

func (e *Engine) align(ws workspace) (workspace, error) {
	facts := without(ws.cat.Facts, ws.specials)
	ws.families = chain.DetectFamilies(ws.stacks, facts, ws.g, ws.cat.Extensions)
	stacks, facts, err := chain.Reorganize(ws.stacks, facts, ws.families)
	if err != nil {
		return ws, fmt.Errorf("chain alignment: %w", err)
	}
	ws.stacks, ws.facts = stacks, facts
	ws.reserved = chain.ReservedSlots(ws.families)
	for _, f := range ws.families {
		e.logger.Debug("chain family", "name", f.Name, "chain", f.Chain)
	}
	return ws, e.syncLevels(&ws)
}

// syncLevels rewrites the dimension buckets and table records so that they
// match the stacks. Calendar-connected specials keep their bucket.
func (e *Engine) syncLevels(ws *workspace) error {
	cat := ws.cat
	for level := 1; level <= model.MaxLevel; level++ {
		c := model.DimensionCategory(level)
		var tables []string
		for _, t := range cat.Bucket(c) {
			if slices.Contains(ws.specials, t) {
				tables = append(tables, t)
			}
		}
		tables = append(tables, ws.stacks.Level(level)...)
		slices.Sort(tables)
		cat.SetBucket(c, tables)
	}
	for i := range cat.Tables {
		rec := &cat.Tables[i]
		if _, level, ok := ws.stacks.Find(rec.Name); ok {
			rec.Category = model.DimensionCategory(level)
			rec.Level = level
		}
	}

	placed := cat.Placed()
	seen := make(map[string]bool, len(placed))
	for _, t := range placed {
		if seen[t] {
			return errors.Internal("table %q in two buckets after placement", t)
		}
		seen[t] = true
	}
	return nil
}

func (e *Engine) generate(ws workspace) (workspace, error) {
	cat := ws.cat
	in := position.Input{
		Stacks:            ws.stacks,
		Facts:             ws.facts,
		Calendar:          without(cat.Calendar, ws.specials),
		CalendarSpecials:  ws.specials,
		Metrics:           cat.Metrics,
		Parameters:        cat.Parameters,
		Disconnected:      cat.Disconnected,
		CalculationGroups: cat.CalculationGroups,
		Reserved:          ws.reserved,
		CategoryOf:        lookupCategory(cat),
	}
	positions, cols, err := e.position.Generate(in)
	if err != nil {
		return ws, fmt.Errorf("position: %w", err)
	}

	placed := graph.NewSet(cat.Placed()...)
	if len(positions) != len(placed) {
		return ws, errors.Internal("%d positions for %d placed tables", len(positions), len(placed))
	}
	for _, p := range positions {
		if !placed[p.Table] {
			return ws, errors.Internal("position for unplaced table %q", p.Table)
		}
	}
	ws.positions, ws.columns = positions, cols
	return ws, nil
}

func without(tables, skip []string) []string {
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		if !slices.Contains(skip, t) {
			out = append(out, t)
		}
	}
	return out
}
