package tmdl

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/tmdlayout/pkg/errors"
	"github.com/matzehuels/tmdlayout/pkg/model"
)

const relationshipsTMDL = `relationship 3f1c2a
	fromColumn: Sales.ProductKey
	toColumn: Product.ProductKey

relationship 'Sales to Date'
	isActive: false
	fromColumn: 'Sales Data'.'Order Date'
	toColumn: Date.Date
	crossFilteringBehavior: bothDirections
	toCardinality: one
	fromCardinality: many

relationship broken
	toColumn: Product.ProductKey
`

func TestParseRelationships(t *testing.T) {
	rels, err := ParseRelationships(strings.NewReader(relationshipsTMDL))
	if err != nil {
		t.Fatalf("ParseRelationships() error = %v", err)
	}
	want := []model.Relationship{
		{Name: "3f1c2a", FromTable: "Sales", FromColumn: "ProductKey", ToTable: "Product", ToColumn: "ProductKey"},
		{
			Name: "Sales to Date", FromTable: "Sales Data", FromColumn: "Order Date", ToTable: "Date", ToColumn: "Date",
			FromCardinality: model.CardinalityMany, ToCardinality: model.CardinalityOne,
			CrossFilter: model.CrossFilterBoth, Inactive: true,
		},
		{Name: "broken", ToTable: "Product", ToColumn: "ProductKey"},
	}
	if !slices.Equal(rels, want) {
		t.Errorf("ParseRelationships() =\n%+v\nwant\n%+v", rels, want)
	}
}

func TestColumnRef(t *testing.T) {
	tests := []struct {
		ref, table, column string
	}{
		{"Sales.Key", "Sales", "Key"},
		{"'Sales Data'.Key", "Sales Data", "Key"},
		{"'It''s'.'A.B'", "It's", "A.B"},
		{"Sales", "Sales", ""},
	}
	for _, tt := range tests {
		table, column := columnRef(tt.ref)
		if table != tt.table || column != tt.column {
			t.Errorf("columnRef(%q) = %q, %q; want %q, %q", tt.ref, table, column, tt.table, tt.column)
		}
	}
}

func TestIndent(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"table X", 0},
		{"\tcolumn A", 1},
		{"\t\tlineageTag: x", 2},
		{"        formatString: 0", 2},
	}
	for _, tt := range tests {
		if got := indent(tt.raw); got != tt.want {
			t.Errorf("indent(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParseTable(t *testing.T) {
	tests := []struct {
		name    string
		content string
		table   string
		want    model.TableHints
	}{
		{
			name: "dimension",
			content: `table 'Product Category'
	lineageTag: 1

	column Key
		dataType: int64
		sourceColumn: Key

	column Label = "x" & [Key]
		dataType: string

	column Other
		expression = 1
`,
			table: "Product Category",
			want:  model.TableHints{Known: true, RegularColumns: 1, CalculatedColumns: 2},
		},
		{
			name: "measures table",
			content: `table _Measures
	isHidden

	measure 'Total Sales' = SUM(Sales[Amount])
		formatString: 0.00
		lineageTag: abc

	column Dummy
		isHidden
`,
			table: "_Measures",
			want:  model.TableHints{Known: true, Hidden: true, Measures: 1, MeasuresHaveMetadata: true, RegularColumns: 1},
		},
		{
			name: "calculation group",
			content: `table TimeIntel
	calculationGroup
		calculationItem YTD = CALCULATE(SELECTEDMEASURE())
`,
			table: "TimeIntel",
			want:  model.TableHints{Known: true, CalculationGroup: true},
		},
		{
			name: "auto date",
			content: `table LocalDateTable_1
	isHidden
	showAsVariationsOnly

	hierarchy 'Date Hierarchy'

	partition p = calculated
		source = Calendar(Date(2020,1,1), Date(2020,12,31))

	annotation __PBI_LocalDateTable = true
`,
			table: "LocalDateTable_1",
			want: model.TableHints{
				Known: true, Hidden: true, ShowAsVariationsOnly: true, AutoDateAnnotation: true,
				DateHierarchy: true, CalendarSource: true,
			},
		},
		{
			name: "parameter",
			content: `table Threshold
	column Threshold
		extendedProperty ParameterMetadata =
`,
			table: "Threshold",
			want:  model.TableHints{Known: true, ParameterMetadata: true, RegularColumns: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTable(strings.NewReader(tt.content))
			if err != nil {
				t.Fatalf("ParseTable() error = %v", err)
			}
			if got.Name != tt.table {
				t.Errorf("Name = %q, want %q", got.Name, tt.table)
			}
			if got.Hints != tt.want {
				t.Errorf("Hints = %+v\nwant %+v", got.Hints, tt.want)
			}
		})
	}
}

// writeProject lays out a minimal PBIP project and returns its root.
func writeProject(t *testing.T, tables map[string]string, relationships string) string {
	t.Helper()
	root := t.TempDir()
	def := filepath.Join(root, "Sales.SemanticModel", DefinitionDir)
	if err := os.MkdirAll(filepath.Join(def, TablesDir), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range tables {
		if err := os.WriteFile(filepath.Join(def, TablesDir, name+Extension), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if relationships != "" {
		if err := os.WriteFile(filepath.Join(def, RelationshipsFile), []byte(relationships), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestFind(t *testing.T) {
	root := writeProject(t, map[string]string{"Sales": "table Sales\n"}, "")
	modelDir := filepath.Join(root, "Sales.SemanticModel")

	for _, dir := range []string{root, modelDir, filepath.Join(modelDir, DefinitionDir)} {
		p, err := Find(dir)
		if err != nil {
			t.Fatalf("Find(%s) error = %v", dir, err)
		}
		if p.Name != "Sales" || filepath.Base(p.Definition) != DefinitionDir {
			t.Errorf("Find(%s) = %+v", dir, p)
		}
	}

	if _, err := Find(filepath.Join(root, "missing")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Find(missing) error = %v", err)
	}
	if _, err := Find(t.TempDir()); !errors.Is(err, errors.ErrCodeModelNotFound) {
		t.Errorf("Find(empty) error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	root := writeProject(t, map[string]string{
		"Sales":        "table Sales\n\tcolumn Amount\n\t\tdataType: double\n",
		"Product":      "table Product\n",
		"Sales%20Data": "table 'Sales Data'\n",
		"Orphan":       "",
	}, relationshipsTMDL)

	p, err := Find(root)
	if err != nil {
		t.Fatal(err)
	}
	m, err := Load(context.Background(), p, LoadOptions{Workers: 2})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := []string{"Orphan", "Product", "Sales", "Sales Data"}; !slices.Equal(m.Tables, want) {
		t.Errorf("Tables = %v, want %v", m.Tables, want)
	}
	if len(m.Relationships) != 3 {
		t.Errorf("len(Relationships) = %d", len(m.Relationships))
	}
	if h := m.Hints["Sales"]; !h.Known || h.RegularColumns != 1 {
		t.Errorf("Sales hints = %+v", h)
	}
	if m.Digest == "" {
		t.Error("empty digest")
	}

	again, err := Load(context.Background(), p, LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if again.Digest != m.Digest {
		t.Error("digest changed between identical loads")
	}
}

func TestLoadWithoutRelationships(t *testing.T) {
	p, err := Find(writeProject(t, map[string]string{"A": "table A\n"}, ""))
	if err != nil {
		t.Fatal(err)
	}
	m, err := Load(context.Background(), p, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(m.Relationships) != 0 || !slices.Equal(m.Tables, []string{"A"}) {
		t.Errorf("model = %+v", m)
	}
}

func TestLoadUnreadableRelationships(t *testing.T) {
	root := writeProject(t, map[string]string{"A": "table A\n"}, "")
	p, err := Find(root)
	if err != nil {
		t.Fatal(err)
	}
	// A directory in place of the file cannot be read.
	if err := os.Mkdir(p.RelationshipsPath(), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(context.Background(), p, LoadOptions{}); !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("Load() error = %v, want PARSE_ERROR", err)
	}
}

func TestLoadNoTables(t *testing.T) {
	p, err := Find(writeProject(t, nil, relationshipsTMDL))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Load(context.Background(), p, LoadOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load() error = %v, want INVALID_INPUT", err)
	}
}
