package position

import (
	"slices"
	"testing"

	"github.com/matzehuels/tmdlayout/pkg/heuristics"
	"github.com/matzehuels/tmdlayout/pkg/model"
	"github.com/matzehuels/tmdlayout/pkg/optimize"
)

var geo = heuristics.Default().Geometry

func TestAssignColumns(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		drawn []Column
		x     []float64
	}{
		{
			name:  "star",
			in:    Input{Stacks: optimize.NewStacks([]string{"A"}, []string{"B"}), Facts: []string{"F"}},
			drawn: []Column{ColumnL1Left, ColumnCenter, ColumnL1Right},
			x:     []float64{50, 400, 750},
		},
		{
			name: "utility columns use the narrow gap",
			in: Input{
				Stacks:     optimize.NewStacks([]string{"A"}, nil),
				Facts:      []string{"F"},
				Metrics:    []string{"_Measures"},
				Parameters: []string{"Param"},
			},
			drawn: []Column{ColumnL1Left, ColumnCenter, ColumnMetrics, ColumnParameters},
			x:     []float64{50, 400, 700, 1000},
		},
		{
			name:  "calendar alone draws the center",
			in:    Input{Calendar: []string{"Date"}, Disconnected: []string{"X"}},
			drawn: []Column{ColumnCenter, ColumnParameters},
			x:     []float64{50, 350},
		},
		{
			name:  "calendar specials leave the metrics column empty",
			in:    Input{Calendar: []string{"Date"}, Metrics: []string{"Period"}, CalendarSpecials: []string{"Period"}},
			drawn: []Column{ColumnCenter},
			x:     []float64{50},
		},
		{
			name:  "specials alone draw the center",
			in:    Input{CalendarSpecials: []string{"Date", "Period"}},
			drawn: []Column{ColumnCenter},
			x:     []float64{50},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := AssignColumns(tt.in, geo)
			if !slices.Equal(cols.Drawn, tt.drawn) {
				t.Fatalf("Drawn = %v, want %v", cols.Drawn, tt.drawn)
			}
			for i, c := range tt.drawn {
				if cols.X[c] != tt.x[i] {
					t.Errorf("X[%s] = %v, want %v", c, cols.X[c], tt.x[i])
				}
			}
		})
	}
}

func TestGenerateColumnPositions(t *testing.T) {
	reserved := map[string]int{"C": 2, "A": 0}
	ps := GenerateColumnPositions([]string{"A", "B", "C", "D", "E"}, 50, model.CategoryL1, reserved, geo)

	want := map[string]float64{
		"A": 150,       // slot 0
		"C": 150 + 390, // slot 2
		"B": 150 + 195, // slot 1
		"D": 150 + 585, // slot 3
		"E": 150 + 780, // slot 4
	}
	if len(ps) != len(want) {
		t.Fatalf("len = %d", len(ps))
	}
	for _, p := range ps {
		if p.Y != want[p.Table] {
			t.Errorf("%s.Y = %v, want %v", p.Table, p.Y, want[p.Table])
		}
		if p.X != 50 || p.Width != 200 || p.Height != 180 || p.Category != model.CategoryL1 || p.Collapsed {
			t.Errorf("%s = %+v", p.Table, p)
		}
	}
}

func TestGenerateColumnPositionsSharedSlot(t *testing.T) {
	ps := GenerateColumnPositions([]string{"A", "B"}, 0, model.CategoryL2, map[string]int{"A": 1, "B": 1}, geo)
	if ps[0].Y == ps[1].Y {
		t.Errorf("tables share y = %v", ps[0].Y)
	}
}

func TestGenerateCenterPositions(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want map[string]float64
	}{
		{
			name: "specials calendar facts",
			in: Input{
				CalendarSpecials: []string{"Period"},
				Calendar:         []string{"Date"},
				Facts:            []string{"Sales", "Orders"},
			},
			// 50; 50+155+20; 225+155+80; +195
			want: map[string]float64{"Period": 50, "Date": 225, "Sales": 460, "Orders": 655},
		},
		{
			name: "calendar only",
			in:   Input{Calendar: []string{"Date", "Fiscal"}, Facts: []string{"Sales"}},
			want: map[string]float64{"Date": 50, "Fiscal": 205, "Sales": 440},
		},
		{
			name: "no calendar",
			in:   Input{Facts: []string{"Sales"}},
			want: map[string]float64{"Sales": 150},
		},
		{
			name: "specials without calendar",
			in:   Input{CalendarSpecials: []string{"Date", "Period"}, Facts: []string{"Sales"}},
			// 50; 205; 360+20
			want: map[string]float64{"Date": 50, "Period": 205, "Sales": 380},
		},
		{
			name: "specials only",
			in:   Input{CalendarSpecials: []string{"Date", "Period"}},
			want: map[string]float64{"Date": 50, "Period": 205},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := GenerateCenterPositions(tt.in, 400, geo)
			if len(ps) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(ps), len(tt.want))
			}
			for _, p := range ps {
				if p.Y != tt.want[p.Table] {
					t.Errorf("%s.Y = %v, want %v", p.Table, p.Y, tt.want[p.Table])
				}
				if got := p.Category != model.CategoryFact; got != p.Collapsed {
					t.Errorf("%s collapsed = %v", p.Table, p.Collapsed)
				}
			}
		})
	}
}

func TestGenerateGridPositions(t *testing.T) {
	names := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = string(rune('A' + i))
		}
		return out
	}
	tests := []struct {
		name    string
		n       int
		last    [2]float64
		columns int
	}{
		{"three in a row", 3, [2]float64{1000 + 440, 50}, 3},
		{"eight in a row", 8, [2]float64{1000 + 7*220, 50}, 8},
		{"nine wrap at four", 9, [2]float64{1000, 50 + 2*190}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := GenerateGridPositions(names(tt.n), 1000, 50, geo)
			last := ps[len(ps)-1]
			if last.X != tt.last[0] || last.Y != tt.last[1] {
				t.Errorf("last = (%v, %v), want %v", last.X, last.Y, tt.last)
			}
			xs := make(map[float64]bool)
			for _, p := range ps {
				xs[p.X] = true
			}
			if len(xs) != tt.columns {
				t.Errorf("columns = %d, want %d", len(xs), tt.columns)
			}
		})
	}
	if ps := GenerateGridPositions(nil, 0, 0, geo); ps != nil {
		t.Errorf("empty grid = %v", ps)
	}
}

func TestGenerate(t *testing.T) {
	st := optimize.NewStacks([]string{"Customer"}, []string{"Product"})
	st.Set(optimize.Right, 2, []string{"Category"})
	in := Input{
		Stacks:            st,
		Facts:             []string{"Sales"},
		Calendar:          []string{"Date"},
		CalendarSpecials:  []string{"Period"},
		Metrics:           []string{"_Measures", "Period"},
		Parameters:        []string{"Param"},
		Disconnected:      []string{"Notes"},
		CalculationGroups: []string{"TimeCalc"},
		Reserved:          map[string]int{"Category": 0, "Product": 0},
		CategoryOf: func(table string) model.Category {
			switch table {
			case "Notes":
				return model.CategoryDisconnected
			case "TimeCalc":
				return model.CategoryCalculationGroup
			case "Param":
				return model.CategoryParameter
			}
			return model.CategoryMetrics
		},
	}
	ps, cols, err := NewGenerator(geo, nil).Generate(in)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(ps) != 10 {
		t.Fatalf("len = %d, want 10: %+v", len(ps), ps)
	}
	if len(cols.Drawn) != 6 {
		t.Errorf("Drawn = %v", cols.Drawn)
	}

	byTable := make(map[string]model.Position)
	for i, p := range ps {
		if p.ZIndex != i {
			t.Errorf("%s.ZIndex = %d, want %d", p.Table, p.ZIndex, i)
		}
		byTable[p.Table] = p
	}
	if got := byTable["Period"]; got.X != cols.X[ColumnCenter] || !got.Collapsed {
		t.Errorf("Period = %+v, want collapsed in the center", got)
	}
	if got := byTable["Notes"].Category; got != model.CategoryDisconnected {
		t.Errorf("Notes category = %s", got)
	}
	if byTable["Product"].Y != byTable["Category"].Y {
		t.Error("chain members not aligned")
	}
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if ps[i].Overlaps(ps[j]) {
				t.Errorf("%s overlaps %s", ps[i].Table, ps[j].Table)
			}
		}
	}
}

func TestGenerateDuplicate(t *testing.T) {
	in := Input{Facts: []string{"Sales"}, Disconnected: []string{"Sales"}}
	if _, _, err := NewGenerator(geo, nil).Generate(in); err == nil {
		t.Error("Generate() accepted a table positioned twice")
	}
}

func TestExtent(t *testing.T) {
	w, h := Extent([]model.Position{{X: 50, Y: 150, Width: 200, Height: 180}, {X: 400, Y: 50, Width: 200, Height: 140}})
	if w != 600 || h != 330 {
		t.Errorf("Extent() = %v, %v", w, h)
	}
}
