package position

import (
	"fmt"

	"github.com/matzehuels/tmdlayout/pkg/heuristics"
	"github.com/matzehuels/tmdlayout/pkg/model"
	"github.com/matzehuels/tmdlayout/pkg/optimize"
)

// Column names one vertical lane of the diagram.
type Column string

// Columns in drawing order.
const (
	ColumnL4Left     Column = "l4_plus_left"
	ColumnL3Left     Column = "l3_left"
	ColumnL2Left     Column = "l2_left"
	ColumnL1Left     Column = "l1_left"
	ColumnCenter     Column = "center"
	ColumnL1Right    Column = "l1_right"
	ColumnL2Right    Column = "l2_right"
	ColumnL3Right    Column = "l3_right"
	ColumnL4Right    Column = "l4_plus_right"
	ColumnMetrics    Column = "metrics"
	ColumnParameters Column = "parameters"
)

// Order lists every column from left to right.
var Order = []Column{
	ColumnL4Left, ColumnL3Left, ColumnL2Left, ColumnL1Left,
	ColumnCenter,
	ColumnL1Right, ColumnL2Right, ColumnL3Right, ColumnL4Right,
	ColumnMetrics, ColumnParameters,
}

// DimensionColumn returns the column for a dimension stack.
func DimensionColumn(side optimize.Side, level int) Column {
	if level < 1 || level > model.MaxLevel {
		panic(fmt.Sprintf("position: dimension level %d out of range", level))
	}
	left := []Column{ColumnL1Left, ColumnL2Left, ColumnL3Left, ColumnL4Left}
	right := []Column{ColumnL1Right, ColumnL2Right, ColumnL3Right, ColumnL4Right}
	if side == optimize.Left {
		return left[level-1]
	}
	return right[level-1]
}

// isUtility reports whether c is one of the compact trailing columns.
func (c Column) isUtility() bool { return c == ColumnMetrics || c == ColumnParameters }

// Columns maps every drawn column to its x coordinate.
type Columns struct {
	Drawn []Column
	X     map[Column]float64
}

// Has reports whether col is drawn.
func (c Columns) Has(col Column) bool {
	_, ok := c.X[col]
	return ok
}

// AssignColumns returns the x coordinate of every non-empty column. Columns
// advance by the table width plus the column gap; the utility columns and
// the column right before the first of them use the narrow gap.
func AssignColumns(in Input, geo heuristics.Geometry) Columns {
	present := map[Column]bool{
		ColumnCenter:     len(in.Facts) > 0 || len(in.Calendar) > 0 || len(in.CalendarSpecials) > 0,
		ColumnMetrics:    len(in.metrics()) > 0,
		ColumnParameters: len(in.grid()) > 0,
	}
	for _, side := range []optimize.Side{optimize.Left, optimize.Right} {
		for level := 1; level <= model.MaxLevel; level++ {
			present[DimensionColumn(side, level)] = len(in.Stacks.Get(side, level)) > 0
		}
	}

	var cols Columns
	cols.X = make(map[Column]float64)
	for _, c := range Order {
		if present[c] {
			cols.Drawn = append(cols.Drawn, c)
		}
	}
	x := geo.StartX
	for i, c := range cols.Drawn {
		cols.X[c] = x
		gap := geo.ColumnGap
		if c.isUtility() || (i+1 < len(cols.Drawn) && cols.Drawn[i+1].isUtility()) {
			gap = geo.NarrowColumnGap
		}
		x += geo.TableWidth + gap
	}
	return cols
}
