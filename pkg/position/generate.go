package position

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmdlayout/pkg/errors"
	"github.com/matzehuels/tmdlayout/pkg/heuristics"
	"github.com/matzehuels/tmdlayout/pkg/model"
	"github.com/matzehuels/tmdlayout/pkg/optimize"
)

// Input carries the final arrangement of every placed table.
type Input struct {
	Stacks optimize.Stacks
	Facts  []string

	Calendar []string
	// CalendarSpecials are special tables drawn above the calendar. They
	// are skipped in the metrics column and the grid.
	CalendarSpecials []string

	Metrics           []string
	Parameters        []string
	Disconnected      []string
	CalculationGroups []string

	// Reserved maps chain members to their locked slot.
	Reserved map[string]int

	// CategoryOf reports the category of a table outside the dimension
	// stacks. It is consulted for calendar specials and grid tables.
	CategoryOf func(table string) model.Category
}

func (in Input) metrics() []string {
	return without(in.Metrics, in.CalendarSpecials)
}

func (in Input) grid() []string {
	var all []string
	all = append(all, in.Parameters...)
	all = append(all, in.Disconnected...)
	all = append(all, in.CalculationGroups...)
	return without(all, in.CalendarSpecials)
}

func (in Input) categoryOf(table string, fallback model.Category) model.Category {
	if in.CategoryOf == nil {
		return fallback
	}
	if c := in.CategoryOf(table); c != "" {
		return c
	}
	return fallback
}

func without(tables, skip []string) []string {
	var out []string
	for _, t := range tables {
		if !slices.Contains(skip, t) {
			out = append(out, t)
		}
	}
	return out
}

// Generator produces the final positions.
type Generator struct {
	geo    heuristics.Geometry
	logger *log.Logger
}

// NewGenerator returns a Generator using geo. A nil logger discards output.
func NewGenerator(geo heuristics.Geometry, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Generator{geo: geo, logger: logger}
}

// Generate returns one position per placed table, column by column from
// left to right. ZIndex is the position's index in the result. A table
// positioned twice is an internal error.
func (g *Generator) Generate(in Input) ([]model.Position, Columns, error) {
	cols := AssignColumns(in, g.geo)
	g.logger.Debug("columns assigned", "columns", len(cols.Drawn))

	var out []model.Position
	for _, c := range cols.Drawn {
		x := cols.X[c]
		switch c {
		case ColumnCenter:
			out = append(out, GenerateCenterPositions(in, x, g.geo)...)
		case ColumnMetrics:
			out = append(out, GenerateMetricsPositions(in.metrics(), x, g.geo)...)
		case ColumnParameters:
			grid := in.grid()
			ps := GenerateGridPositions(grid, x, g.geo.GridStartY, g.geo)
			for i := range ps {
				ps[i].Category = in.categoryOf(ps[i].Table, model.CategoryParameter)
			}
			out = append(out, ps...)
		default:
			side, level := c.dimension()
			cat := model.DimensionCategory(level)
			out = append(out, GenerateColumnPositions(in.Stacks.Get(side, level), x, cat, in.Reserved, g.geo)...)
		}
		g.logger.Debug("column positioned", "column", c, "x", x)
	}

	seen := make(map[string]bool, len(out))
	for i := range out {
		if seen[out[i].Table] {
			return nil, cols, errors.Internal("table %q positioned twice", out[i].Table)
		}
		seen[out[i].Table] = true
		out[i].ZIndex = i
	}
	return out, cols, nil
}

func (c Column) dimension() (optimize.Side, int) {
	for _, side := range []optimize.Side{optimize.Left, optimize.Right} {
		for level := 1; level <= model.MaxLevel; level++ {
			if DimensionColumn(side, level) == c {
				return side, level
			}
		}
	}
	return optimize.Left, 0
}

func expanded(table string, x, y float64, cat model.Category, geo heuristics.Geometry) model.Position {
	return model.Position{Table: table, X: x, Y: y, Width: geo.TableWidth, Height: geo.TableHeight, Category: cat}
}

// GenerateColumnPositions lays out one dimension column. Tables holding a
// reserved slot are put at StackStartY + slot*SlotStep, in slot order; every
// other table takes the lowest free slot, in stack order.
func GenerateColumnPositions(tables []string, x float64, cat model.Category, reserved map[string]int, geo heuristics.Geometry) []model.Position {
	type locked struct {
		table string
		slot  int
	}
	var lockedTables []locked
	var free []string
	for _, t := range tables {
		if slot, ok := reserved[t]; ok {
			lockedTables = append(lockedTables, locked{t, slot})
		} else {
			free = append(free, t)
		}
	}
	slices.SortStableFunc(lockedTables, func(a, b locked) int { return a.slot - b.slot })

	used := make(map[int]bool)
	out := make([]model.Position, 0, len(tables))
	for _, l := range lockedTables {
		slot := l.slot
		// Two tables locked to one slot: the later one moves down.
		for used[slot] {
			slot++
		}
		used[slot] = true
		out = append(out, expanded(l.table, x, geo.StackStartY+float64(slot)*geo.SlotStep(), cat, geo))
	}
	slot := 0
	for _, t := range free {
		for used[slot] {
			slot++
		}
		used[slot] = true
		out = append(out, expanded(t, x, geo.StackStartY+float64(slot)*geo.SlotStep(), cat, geo))
	}
	return out
}

// GenerateCenterPositions lays out the center column: calendar specials,
// then calendar tables, both collapsed, then the facts. Facts start at
// StackStartY when there is no calendar.
func GenerateCenterPositions(in Input, x float64, geo heuristics.Geometry) []model.Position {
	var out []model.Position
	y := geo.CenterStartY
	collapsed := func(table string, cat model.Category) {
		out = append(out, model.Position{
			Table: table, X: x, Y: y,
			Width: geo.TableWidth, Height: geo.CollapsedHeight,
			Collapsed: true, Category: cat,
		})
		y += geo.CollapsedStep()
	}

	if len(in.CalendarSpecials) > 0 {
		for _, t := range in.CalendarSpecials {
			collapsed(t, in.categoryOf(t, model.CategoryMetrics))
		}
		y += geo.SpecialsGap
	}
	if len(in.Calendar) > 0 {
		for _, t := range in.Calendar {
			collapsed(t, model.CategoryCalendar)
		}
		y += geo.CalendarSpacing
	} else {
		// Facts never start above the dimension stacks.
		y = max(y, geo.StackStartY)
	}
	for _, t := range in.Facts {
		out = append(out, expanded(t, x, y, model.CategoryFact, geo))
		y += geo.SlotStep()
	}
	return out
}

// GenerateMetricsPositions stacks the metrics tables from StackStartY.
func GenerateMetricsPositions(tables []string, x float64, geo heuristics.Geometry) []model.Position {
	out := make([]model.Position, 0, len(tables))
	for i, t := range tables {
		out = append(out, expanded(t, x, geo.StackStartY+float64(i)*geo.SlotStep(), model.CategoryMetrics, geo))
	}
	return out
}

// GenerateGridPositions lays tables out row by row in a grid anchored at
// (x, y). Above GridWideThreshold tables the grid has GridWideColumns
// columns; otherwise every table gets its own column.
func GenerateGridPositions(tables []string, x, y float64, geo heuristics.Geometry) []model.Position {
	if len(tables) == 0 {
		return nil
	}
	cols := len(tables)
	if cols > geo.GridWideThreshold {
		cols = geo.GridWideColumns
	}
	out := make([]model.Position, 0, len(tables))
	for i, t := range tables {
		col, row := i%cols, i/cols
		out = append(out, expanded(t, x+float64(col)*geo.GridColumnStep, y+float64(row)*geo.GridRowStep, model.CategoryParameter, geo))
	}
	return out
}

// Extent returns the bottom-right corner of the bounding box of ps.
func Extent(ps []model.Position) (width, height float64) {
	for _, p := range ps {
		width = max(width, p.Right())
		height = max(height, p.Bottom())
	}
	return width, height
}
