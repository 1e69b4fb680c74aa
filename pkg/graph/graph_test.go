package graph

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/tmdlayout/pkg/model"
)

func rel(from, to string) model.Relationship {
	return model.Relationship{Name: from + "->" + to, FromTable: from, ToTable: to}
}

func buildChain(t *testing.T) *Graph {
	t.Helper()
	// Sales - Product - Category - Group, Sales - Customer, Island alone.
	g, warnings := Build([]model.Relationship{
		rel("Sales", "Product"),
		rel("Product", "Category"),
		rel("Category", "Group"),
		rel("Sales", "Customer"),
	}, []string{"Sales", "Product", "Category", "Group", "Customer", "Island"}, nil)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	return g
}

func TestBuildSymmetric(t *testing.T) {
	g := buildChain(t)
	for _, a := range g.Tables() {
		for _, b := range g.Neighbors(a) {
			if !g.HasEdge(b, a) {
				t.Errorf("edge %s-%s is not symmetric", a, b)
			}
			if a == b {
				t.Errorf("self-loop on %s", a)
			}
		}
	}
	if got := g.Neighbors("Product"); !slices.Equal(got, []string{"Category", "Sales"}) {
		t.Errorf("Neighbors(Product) = %v", got)
	}
	if g.Connections("Island") != 0 {
		t.Errorf("Connections(Island) = %d, want 0", g.Connections("Island"))
	}
}

func TestBuildWarnings(t *testing.T) {
	g, warnings := Build([]model.Relationship{
		rel("Sales", "Prodcut"),
		rel("Sales", "Sales"),
		rel("", "Sales"),
		rel("Sales", "Product"),
		rel("Product", "Sales"),
	}, []string{"Sales", "Product"}, nil)

	codes := make([]model.WarningCode, len(warnings))
	for i, w := range warnings {
		codes[i] = w.Code
	}
	want := []model.WarningCode{model.WarnUnknownTable, model.WarnSelfRelationship, model.WarnMalformedRecord}
	if !slices.Equal(codes, want) {
		t.Fatalf("warning codes = %v, want %v", codes, want)
	}
	if !strings.Contains(warnings[0].Message, `did you mean "Product"`) {
		t.Errorf("unknown table warning lacks suggestion: %s", warnings[0].Message)
	}
	if g.Connections("Sales") != 1 {
		t.Errorf("duplicate records produced %d connections", g.Connections("Sales"))
	}
	if len(g.Records()) != 2 {
		t.Errorf("Records() = %d, want 2", len(g.Records()))
	}
}

func TestBuildNormalizesNames(t *testing.T) {
	g, warnings := Build([]model.Relationship{
		rel("'Sales'", "Sales%20Region"),
	}, []string{" Sales ", "\"Sales Region\""}, NewNormalizer())
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v", warnings)
	}
	if !g.HasEdge("Sales", "Sales Region") {
		t.Errorf("normalized edge missing, tables = %v", g.Tables())
	}
	if r := g.Records()[0]; r.FromTable != "Sales" || r.ToTable != "Sales Region" {
		t.Errorf("record not normalized: %+v", r)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Sales", "Sales"},
		{"  'Sales'  ", "Sales"},
		{`"Dim Product"`, "Dim Product"},
		{"Sales%20Region", "Sales Region"},
		{"100%", "100%"},
		{"Café", "Café"},
	}
	n := NewNormalizer()
	for _, tt := range tests {
		if got := n.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDistanceToNearest(t *testing.T) {
	g := buildChain(t)
	facts := NewSet("Sales")
	tests := []struct {
		table string
		want  int
	}{
		{"Sales", 0},
		{"Product", 1},
		{"Customer", 1},
		{"Category", 2},
		{"Group", 3},
		{"Island", Unreachable},
	}
	for _, tt := range tests {
		if got := g.DistanceToNearest(tt.table, facts); got != tt.want {
			t.Errorf("DistanceToNearest(%s) = %d, want %d", tt.table, got, tt.want)
		}
	}
}

func TestIsStarSchemaTable(t *testing.T) {
	g := buildChain(t)
	facts := NewSet("Sales")
	tests := []struct {
		table string
		want  bool
	}{
		{"Customer", true},
		{"Product", false},
		{"Island", false},
	}
	for _, tt := range tests {
		if got := g.IsStarSchemaTable(tt.table, facts); got != tt.want {
			t.Errorf("IsStarSchemaTable(%s) = %v, want %v", tt.table, got, tt.want)
		}
	}
}

func TestEdges(t *testing.T) {
	g := buildChain(t)
	want := [][2]string{
		{"Category", "Group"},
		{"Category", "Product"},
		{"Customer", "Sales"},
		{"Product", "Sales"},
	}
	if got := g.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestLookup(t *testing.T) {
	g := buildChain(t)
	if _, err := g.Lookup("Nope"); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("Lookup(Nope) error = %v, want ErrUnknownTable", err)
	}
	if n, err := g.Lookup("Group"); err != nil || !slices.Equal(n, []string{"Category"}) {
		t.Errorf("Lookup(Group) = %v, %v", n, err)
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"Customer", "Product", "Sales"}
	if got := Suggest("custmer", candidates); got != "Customer" {
		t.Errorf("Suggest(custmer) = %q", got)
	}
	if got := Suggest("Warehouse", candidates); got != "" {
		t.Errorf("Suggest(Warehouse) = %q, want none", got)
	}
}
