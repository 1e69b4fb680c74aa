package model

import (
	"slices"
	"testing"
)

func TestOneToOneStrength(t *testing.T) {
	tests := []struct {
		name string
		rel  Relationship
		want int
	}{
		{"both and one", Relationship{CrossFilter: CrossFilterBoth, ToCardinality: CardinalityOne}, 3},
		{"both only", Relationship{CrossFilter: CrossFilterBoth}, 2},
		{"one on from side", Relationship{FromCardinality: CardinalityOne}, 1},
		{"many to many single", Relationship{FromCardinality: CardinalityMany, ToCardinality: CardinalityMany, CrossFilter: CrossFilterSingle}, 0},
		{"empty", Relationship{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rel.OneToOneStrength(); got != tt.want {
				t.Errorf("OneToOneStrength() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDimensionCategory(t *testing.T) {
	tests := []struct {
		level int
		want  Category
	}{
		{0, CategoryL1},
		{1, CategoryL1},
		{2, CategoryL2},
		{3, CategoryL3},
		{4, CategoryL4Plus},
		{999, CategoryL4Plus},
	}
	for _, tt := range tests {
		if got := DimensionCategory(tt.level); got != tt.want {
			t.Errorf("DimensionCategory(%d) = %s, want %s", tt.level, got, tt.want)
		}
		if tt.level >= 1 && tt.level <= MaxLevel && tt.want.Level() != tt.level {
			t.Errorf("%s.Level() = %d, want %d", tt.want, tt.want.Level(), tt.level)
		}
	}
	if CategoryCalendar.IsDimension() {
		t.Error("calendar reported as dimension")
	}
}

func TestCategorizationBuckets(t *testing.T) {
	var c Categorization
	c.Add(CategoryFact, "Sales")
	c.Add(CategoryL1, "Product")
	c.Add(CategoryL1, "Customer")
	c.Add(CategoryAutoDate, "LocalDateTable_1")

	if cat, ok := c.CategoryOf("Product"); !ok || cat != CategoryL1 {
		t.Errorf("CategoryOf(Product) = %s, %v", cat, ok)
	}
	if cat, ok := c.CategoryOf("LocalDateTable_1"); !ok || cat != CategoryAutoDate {
		t.Errorf("CategoryOf(auto) = %s, %v", cat, ok)
	}
	if !c.Remove(CategoryL1, "Product") {
		t.Fatal("Remove(Product) = false")
	}
	if c.Remove(CategoryL1, "Product") {
		t.Error("second Remove(Product) = true")
	}
	if got := c.Placed(); !slices.Equal(got, []string{"Sales", "Customer"}) {
		t.Errorf("Placed() = %v", got)
	}
	counts := c.Counts()
	if counts[CategoryAutoDate] != 1 || counts[CategoryL1] != 1 {
		t.Errorf("Counts() = %v", counts)
	}

	clone := c.Clone()
	clone.Add(CategoryFact, "Orders")
	if len(c.Facts) != 1 {
		t.Error("Clone shares bucket storage")
	}
}

func TestRecordLookup(t *testing.T) {
	c := Categorization{Tables: []TableRecord{{Name: "A"}, {Name: "B", Connections: 2}, {Name: "C"}}}
	rec, ok := c.Record("B")
	if !ok || rec.Connections != 2 {
		t.Errorf("Record(B) = %+v, %v", rec, ok)
	}
	if _, ok := c.Record("Z"); ok {
		t.Error("Record(Z) found")
	}
}

func TestPositionOverlaps(t *testing.T) {
	a := Position{X: 0, Y: 0, Width: 200, Height: 180}
	tests := []struct {
		name string
		b    Position
		want bool
	}{
		{"same", a, true},
		{"touching edge", Position{X: 200, Y: 0, Width: 200, Height: 180}, false},
		{"inside", Position{X: 10, Y: 10, Width: 10, Height: 10}, true},
		{"below", Position{X: 0, Y: 195, Width: 200, Height: 180}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}
