package model

import (
	"slices"
	"sort"
)

// Category is the bucket a table is classified into.
type Category string

// Table categories.
const (
	CategoryFact             Category = "fact"
	CategoryL1               Category = "l1"
	CategoryL2               Category = "l2"
	CategoryL3               Category = "l3"
	CategoryL4Plus           Category = "l4_plus"
	CategoryCalendar         Category = "calendar"
	CategoryMetrics          Category = "metrics"
	CategoryParameter        Category = "parameter"
	CategoryCalculationGroup Category = "calculation_group"
	CategoryDisconnected     Category = "disconnected"
	CategoryAutoDate         Category = "auto_date"
)

// MaxLevel is the deepest dimension level. Everything four or more hops
// from a fact table shares it.
const MaxLevel = 4

// PlacementCategories lists every category that receives positions, in
// report order.
var PlacementCategories = []Category{
	CategoryFact,
	CategoryL1,
	CategoryL2,
	CategoryL3,
	CategoryL4Plus,
	CategoryCalendar,
	CategoryMetrics,
	CategoryParameter,
	CategoryCalculationGroup,
	CategoryDisconnected,
}

// IsDimension reports whether c is one of the four dimension levels.
func (c Category) IsDimension() bool { return c.Level() > 0 }

// Level returns the dimension level (1..4) of c, or 0 for other categories.
func (c Category) Level() int {
	switch c {
	case CategoryL1:
		return 1
	case CategoryL2:
		return 2
	case CategoryL3:
		return 3
	case CategoryL4Plus:
		return 4
	}
	return 0
}

// Label returns a short human-readable label.
func (c Category) Label() string {
	switch c {
	case CategoryFact:
		return "Facts"
	case CategoryL1:
		return "L1 dimensions"
	case CategoryL2:
		return "L2 dimensions"
	case CategoryL3:
		return "L3 dimensions"
	case CategoryL4Plus:
		return "L4+ dimensions"
	case CategoryCalendar:
		return "Calendar"
	case CategoryMetrics:
		return "Metrics"
	case CategoryParameter:
		return "Parameters"
	case CategoryCalculationGroup:
		return "Calculation groups"
	case CategoryDisconnected:
		return "Disconnected"
	case CategoryAutoDate:
		return "Auto date (excluded)"
	}
	return string(c)
}

// DimensionCategory returns the dimension category for a level, clamping
// anything below 1 to L1 and anything above MaxLevel to L4+.
func DimensionCategory(level int) Category {
	switch {
	case level <= 1:
		return CategoryL1
	case level == 2:
		return CategoryL2
	case level == 3:
		return CategoryL3
	}
	return CategoryL4Plus
}

// ExtensionInfo describes a confirmed 1:1 extension table.
type ExtensionInfo struct {
	Base       string   `json:"base" yaml:"base"`
	Strength   int      `json:"strength" yaml:"strength"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Reasons    []string `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}

// TableRecord holds per-table classification details.
type TableRecord struct {
	Name        string         `json:"name" yaml:"name"`
	Category    Category       `json:"category" yaml:"category"`
	Level       int            `json:"level,omitempty" yaml:"level,omitempty"` // BFS distance level, also kept for calendar tables
	Connections int            `json:"connections" yaml:"connections"`
	Extension   *ExtensionInfo `json:"extension_of,omitempty" yaml:"extension_of,omitempty"`
}

// Categorization partitions the input tables into buckets.
//
// Every placed table appears in exactly one placement bucket. Tables in
// AutoDate are excluded from layout and appear nowhere else.
type Categorization struct {
	Facts             []string `json:"fact_tables" yaml:"fact_tables"`
	L1                []string `json:"l1_dimensions" yaml:"l1_dimensions"`
	L2                []string `json:"l2_dimensions" yaml:"l2_dimensions"`
	L3                []string `json:"l3_dimensions" yaml:"l3_dimensions"`
	L4Plus            []string `json:"l4_plus_dimensions" yaml:"l4_plus_dimensions"`
	Calendar          []string `json:"calendar_tables" yaml:"calendar_tables"`
	Metrics           []string `json:"metrics_tables" yaml:"metrics_tables"`
	Parameters        []string `json:"parameter_tables" yaml:"parameter_tables"`
	CalculationGroups []string `json:"calculation_groups" yaml:"calculation_groups"`
	Disconnected      []string `json:"disconnected_tables" yaml:"disconnected_tables"`
	AutoDate          []string `json:"auto_date_tables" yaml:"auto_date_tables"`

	// Extensions maps extension table name to its base.
	Extensions map[string]ExtensionInfo `json:"extensions,omitempty" yaml:"extensions,omitempty"`

	// Tables has one record per input table, sorted by name.
	Tables []TableRecord `json:"tables" yaml:"tables"`
}

// Bucket returns the tables in category c. The returned slice must not be
// modified; use SetBucket to replace it.
func (c *Categorization) Bucket(cat Category) []string {
	if p := c.bucketPtr(cat); p != nil {
		return *p
	}
	return nil
}

// SetBucket replaces the tables in category cat.
func (c *Categorization) SetBucket(cat Category, tables []string) {
	if p := c.bucketPtr(cat); p != nil {
		*p = tables
	}
}

// Add appends table to category cat.
func (c *Categorization) Add(cat Category, table string) {
	if p := c.bucketPtr(cat); p != nil {
		*p = append(*p, table)
	}
}

// Remove deletes table from category cat. Reports whether it was present.
func (c *Categorization) Remove(cat Category, table string) bool {
	p := c.bucketPtr(cat)
	if p == nil {
		return false
	}
	i := slices.Index(*p, table)
	if i < 0 {
		return false
	}
	*p = slices.Delete(*p, i, i+1)
	return true
}

func (c *Categorization) bucketPtr(cat Category) *[]string {
	switch cat {
	case CategoryFact:
		return &c.Facts
	case CategoryL1:
		return &c.L1
	case CategoryL2:
		return &c.L2
	case CategoryL3:
		return &c.L3
	case CategoryL4Plus:
		return &c.L4Plus
	case CategoryCalendar:
		return &c.Calendar
	case CategoryMetrics:
		return &c.Metrics
	case CategoryParameter:
		return &c.Parameters
	case CategoryCalculationGroup:
		return &c.CalculationGroups
	case CategoryDisconnected:
		return &c.Disconnected
	case CategoryAutoDate:
		return &c.AutoDate
	}
	return nil
}

// CategoryOf returns the placement category holding table, or "" and false.
// Auto-date tables are reported as CategoryAutoDate.
func (c *Categorization) CategoryOf(table string) (Category, bool) {
	for _, cat := range PlacementCategories {
		if slices.Contains(c.Bucket(cat), table) {
			return cat, true
		}
	}
	if slices.Contains(c.AutoDate, table) {
		return CategoryAutoDate, true
	}
	return "", false
}

// Dimensions returns all dimension tables from L1 outwards.
func (c *Categorization) Dimensions() []string {
	out := make([]string, 0, len(c.L1)+len(c.L2)+len(c.L3)+len(c.L4Plus))
	out = append(out, c.L1...)
	out = append(out, c.L2...)
	out = append(out, c.L3...)
	return append(out, c.L4Plus...)
}

// Placed returns every table that receives a position, in bucket order.
func (c *Categorization) Placed() []string {
	var out []string
	for _, cat := range PlacementCategories {
		out = append(out, c.Bucket(cat)...)
	}
	return out
}

// Counts returns the number of tables per non-empty category.
func (c *Categorization) Counts() map[Category]int {
	counts := make(map[Category]int)
	for _, cat := range append(slices.Clone(PlacementCategories), CategoryAutoDate) {
		if n := len(c.Bucket(cat)); n > 0 {
			counts[cat] = n
		}
	}
	return counts
}

// Record returns the TableRecord for name.
func (c *Categorization) Record(name string) (TableRecord, bool) {
	i := sort.Search(len(c.Tables), func(i int) bool { return c.Tables[i].Name >= name })
	if i < len(c.Tables) && c.Tables[i].Name == name {
		return c.Tables[i], true
	}
	return TableRecord{}, false
}

// Clone returns a deep copy of c.
func (c *Categorization) Clone() *Categorization {
	out := &Categorization{
		Facts:             slices.Clone(c.Facts),
		L1:                slices.Clone(c.L1),
		L2:                slices.Clone(c.L2),
		L3:                slices.Clone(c.L3),
		L4Plus:            slices.Clone(c.L4Plus),
		Calendar:          slices.Clone(c.Calendar),
		Metrics:           slices.Clone(c.Metrics),
		Parameters:        slices.Clone(c.Parameters),
		CalculationGroups: slices.Clone(c.CalculationGroups),
		Disconnected:      slices.Clone(c.Disconnected),
		AutoDate:          slices.Clone(c.AutoDate),
		Tables:            slices.Clone(c.Tables),
	}
	if c.Extensions != nil {
		out.Extensions = make(map[string]ExtensionInfo, len(c.Extensions))
		for k, v := range c.Extensions {
			v.Reasons = slices.Clone(v.Reasons)
			out.Extensions[k] = v
		}
	}
	return out
}
