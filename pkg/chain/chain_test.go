package chain

import (
	"slices"
	"testing"

	"github.com/matzehuels/tmdlayout/pkg/graph"
	"github.com/matzehuels/tmdlayout/pkg/model"
	"github.com/matzehuels/tmdlayout/pkg/optimize"
)

func build(t *testing.T, edges ...[2]string) *graph.Graph {
	t.Helper()
	seen := make(graph.Set)
	records := make([]model.Relationship, len(edges))
	for i, e := range edges {
		records[i] = model.Relationship{FromTable: e[0], ToTable: e[1]}
		seen[e[0]], seen[e[1]] = true, true
	}
	g, warnings := graph.Build(records, seen.Sorted(), nil)
	if len(warnings) > 0 {
		t.Fatalf("graph warnings: %v", warnings)
	}
	return g
}

// snowflake returns a two-branch snowflake:
//
//	Region - Country - Customer - Sales - Product - Category
func snowflake(t *testing.T) (*graph.Graph, optimize.Stacks, []string) {
	g := build(t,
		[2]string{"Sales", "Customer"},
		[2]string{"Sales", "Account"},
		[2]string{"Sales", "Product"},
		[2]string{"Orders", "Product"},
		[2]string{"Customer", "Country"},
		[2]string{"Country", "Region"},
		[2]string{"Product", "Category"},
	)
	st := optimize.NewStacks([]string{"Account", "Customer"}, []string{"Product"})
	st.Set(optimize.Left, 2, []string{"Country"})
	st.Set(optimize.Left, 3, []string{"Region"})
	st.Set(optimize.Right, 2, []string{"Category"})
	return g, st, []string{"Orders", "Sales"}
}

func TestDetectFamilies(t *testing.T) {
	g, st, facts := snowflake(t)
	families := DetectFamilies(st, facts, g, nil)
	want := []Family{
		{Name: "Region", Chain: []string{"Region", "Country", "Customer", "Sales"}, Members: []string{"Region", "Country", "Customer", "Sales"}},
		{Name: "Category", Chain: []string{"Category", "Product", "Orders"}, Members: []string{"Category", "Product", "Orders"}},
	}
	if len(families) != len(want) {
		t.Fatalf("families = %+v", families)
	}
	for i := range want {
		if families[i].Name != want[i].Name || !slices.Equal(families[i].Chain, want[i].Chain) || !slices.Equal(families[i].Members, want[i].Members) {
			t.Errorf("family %d = %+v, want %+v", i, families[i], want[i])
		}
	}
}

func TestDetectFamiliesShortChain(t *testing.T) {
	// Island has no inner neighbour, so it forms no family.
	g := build(t, [2]string{"Sales", "Customer"}, [2]string{"Island", "Other"})
	st := optimize.NewStacks([]string{"Customer"}, nil)
	st.Set(optimize.Left, 2, []string{"Island"})
	if got := DetectFamilies(st, []string{"Sales"}, g, nil); len(got) != 0 {
		t.Errorf("DetectFamilies() = %+v, want none", got)
	}
}

func TestDetectFamiliesFoldsExtensions(t *testing.T) {
	g := build(t,
		[2]string{"Sales", "Store"},
		[2]string{"Store", "District"},
		[2]string{"District", "DistrictInfo"},
	)
	st := optimize.NewStacks([]string{"Store"}, nil)
	st.Set(optimize.Left, 2, []string{"District", "DistrictInfo"})
	ext := map[string]model.ExtensionInfo{"DistrictInfo": {Base: "District", Strength: 3}}

	families := DetectFamilies(st, []string{"Sales"}, g, ext)
	if len(families) != 1 {
		t.Fatalf("families = %+v", families)
	}
	f := families[0]
	if want := []string{"District", "Store", "Sales"}; !slices.Equal(f.Chain, want) {
		t.Errorf("Chain = %v, want %v", f.Chain, want)
	}
	if !slices.Contains(f.Members, "DistrictInfo") {
		t.Errorf("Members = %v, want DistrictInfo folded in", f.Members)
	}
	if _, ok := ReservedSlots(families)["DistrictInfo"]; ok {
		t.Error("folded extension received a reserved slot")
	}
}

func TestDetectFamiliesFoldsOuterExtensions(t *testing.T) {
	// Extensions are placed one level outside their base.
	tests := []struct {
		name      string
		baseLevel int
		chain     []string
	}{
		{"L3 extension of an L2 base", 2, []string{"District", "Store", "Sales"}},
		{"L4 extension of an L3 base", 3, []string{"District", "Region", "Store", "Sales"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := [][2]string{{"Sales", "Store"}, {"District", "DistrictInfo"}}
			st := optimize.NewStacks([]string{"Store"}, nil)
			if tt.baseLevel == 2 {
				edges = append(edges, [2]string{"Store", "District"})
			} else {
				edges = append(edges, [2]string{"Store", "Region"}, [2]string{"Region", "District"})
				st.Set(optimize.Left, 2, []string{"Region"})
			}
			st.Set(optimize.Left, tt.baseLevel, []string{"District"})
			st.Set(optimize.Left, tt.baseLevel+1, []string{"DistrictInfo"})
			ext := map[string]model.ExtensionInfo{"DistrictInfo": {Base: "District", Strength: 3}}

			families := DetectFamilies(st, []string{"Sales"}, build(t, edges...), ext)
			if len(families) != 1 {
				t.Fatalf("families = %+v", families)
			}
			f := families[0]
			if !slices.Equal(f.Chain, tt.chain) {
				t.Errorf("Chain = %v, want %v", f.Chain, tt.chain)
			}
			if !slices.Contains(f.Members, "DistrictInfo") {
				t.Errorf("Members = %v, want DistrictInfo folded in", f.Members)
			}
			if _, ok := ReservedSlots(families)["DistrictInfo"]; ok {
				t.Error("folded extension received a reserved slot")
			}
		})
	}
}

func TestDetectFamiliesExtensionOfL1Base(t *testing.T) {
	// An L1 base never starts a family, so its L2 extension leads the chain.
	g := build(t, [2]string{"Sales", "Product"}, [2]string{"Product", "ProductCategory"})
	st := optimize.NewStacks(nil, []string{"Product"})
	st.Set(optimize.Right, 2, []string{"ProductCategory"})
	ext := map[string]model.ExtensionInfo{"ProductCategory": {Base: "Product", Strength: 2}}

	families := DetectFamilies(st, []string{"Sales"}, g, ext)
	if len(families) != 1 {
		t.Fatalf("families = %+v", families)
	}
	if want := []string{"ProductCategory", "Product", "Sales"}; !slices.Equal(families[0].Chain, want) {
		t.Errorf("Chain = %v, want %v", families[0].Chain, want)
	}
}

func TestReorganize(t *testing.T) {
	g, st, facts := snowflake(t)
	families := DetectFamilies(st, facts, g, nil)

	out, newFacts, err := Reorganize(st, facts, families)
	if err != nil {
		t.Fatalf("Reorganize() error = %v", err)
	}
	if got, want := out.Get(optimize.Left, 1), []string{"Customer", "Account"}; !slices.Equal(got, want) {
		t.Errorf("left L1 = %v, want %v", got, want)
	}
	if want := []string{"Sales", "Orders"}; !slices.Equal(newFacts, want) {
		t.Errorf("facts = %v, want %v", newFacts, want)
	}
	if out.Count() != st.Count() {
		t.Errorf("Count() = %d, want %d", out.Count(), st.Count())
	}
	// Input is not modified.
	if got := st.Get(optimize.Left, 1); !slices.Equal(got, []string{"Account", "Customer"}) {
		t.Errorf("input left L1 = %v", got)
	}
}

func TestReservedSlots(t *testing.T) {
	families := []Family{
		{Chain: []string{"Region", "Country", "Customer", "Sales"}},
		{Chain: []string{"City", "Customer", "Sales"}},
	}
	got := ReservedSlots(families)
	want := map[string]int{"Region": 0, "Country": 0, "Customer": 0, "Sales": 0, "City": 1}
	if len(got) != len(want) {
		t.Fatalf("ReservedSlots() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("slot[%s] = %d, want %d", k, got[k], v)
		}
	}
}

func TestReorganizePreservesEveryTable(t *testing.T) {
	// Five populated stacks holding 23 dimensions between them.
	var edges [][2]string
	st := optimize.NewStacks(nil, nil)
	add := func(side optimize.Side, level int, names ...string) {
		for _, n := range names {
			st.Append(side, level, n)
		}
	}
	add(optimize.Left, 1, "L1a", "L1b", "L1c", "L1d", "L1e", "L1f")
	add(optimize.Right, 1, "R1a", "R1b", "R1c", "R1d", "R1e")
	add(optimize.Left, 2, "L2a", "L2b", "L2c", "L2d")
	add(optimize.Right, 2, "R2a", "R2b", "R2c", "R2d", "R2e")
	add(optimize.Left, 3, "L3a", "L3b", "L3c")
	for _, n := range st.Level(1) {
		edges = append(edges, [2]string{"Fact", n})
	}
	edges = append(edges,
		[2]string{"L2a", "L1c"}, [2]string{"L2b", "L1a"}, [2]string{"L2c", "L1f"}, [2]string{"L2d", "L1b"},
		[2]string{"R2a", "R1e"}, [2]string{"R2b", "R1d"}, [2]string{"R2c", "R1a"}, [2]string{"R2d", "R1b"}, [2]string{"R2e", "R1c"},
		[2]string{"L3a", "L2d"}, [2]string{"L3b", "L2c"}, [2]string{"L3c", "L2a"},
	)
	g := build(t, edges...)
	if st.Count() != 23 {
		t.Fatalf("setup Count() = %d", st.Count())
	}

	families := DetectFamilies(st, []string{"Fact"}, g, nil)
	if len(families) != 3+1+5 {
		t.Errorf("len(families) = %d, want 9", len(families))
	}
	out, _, err := Reorganize(st, []string{"Fact"}, families)
	if err != nil {
		t.Fatalf("Reorganize() error = %v", err)
	}
	if out.Count() != 23 {
		t.Fatalf("Count() = %d, want 23", out.Count())
	}
	before, after := st.Tables(), out.Tables()
	slices.Sort(before)
	slices.Sort(after)
	if !slices.Equal(before, after) {
		t.Errorf("tables changed: %v -> %v", before, after)
	}
	if got := out.Get(optimize.Left, 2)[0]; got != "L2d" {
		t.Errorf("left L2 head = %s, want L2d (chained from L3a)", got)
	}
}
