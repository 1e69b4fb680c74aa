package model

// Cardinality is one end of a relationship.
type Cardinality string

// Relationship cardinalities. An empty cardinality means the host file did
// not state one.
const (
	CardinalityOne  Cardinality = "one"
	CardinalityMany Cardinality = "many"
	CardinalityNone Cardinality = ""
)

// CrossFilter is the filter propagation behavior of a relationship.
type CrossFilter string

// Cross-filter behaviors.
const (
	CrossFilterSingle CrossFilter = "single"
	CrossFilterBoth   CrossFilter = "bothDirections"
	CrossFilterNone   CrossFilter = ""
)

// Relationship is one relationship record between two tables.
// Records are immutable once parsed; the engine never modifies them.
type Relationship struct {
	Name            string      `json:"name,omitempty" yaml:"name,omitempty"`
	FromTable       string      `json:"from_table" yaml:"from_table"`
	FromColumn      string      `json:"from_column,omitempty" yaml:"from_column,omitempty"`
	ToTable         string      `json:"to_table" yaml:"to_table"`
	ToColumn        string      `json:"to_column,omitempty" yaml:"to_column,omitempty"`
	FromCardinality Cardinality `json:"from_cardinality,omitempty" yaml:"from_cardinality,omitempty"`
	ToCardinality   Cardinality `json:"to_cardinality,omitempty" yaml:"to_cardinality,omitempty"`
	CrossFilter     CrossFilter `json:"cross_filter,omitempty" yaml:"cross_filter,omitempty"`
	Inactive        bool        `json:"inactive,omitempty" yaml:"inactive,omitempty"`
}

// IsBidirectional reports whether filters propagate in both directions.
func (r Relationship) IsBidirectional() bool { return r.CrossFilter == CrossFilterBoth }

// HasOneCardinality reports whether either end of the relationship is "one".
func (r Relationship) HasOneCardinality() bool {
	return r.FromCardinality == CardinalityOne || r.ToCardinality == CardinalityOne
}

// OneToOneStrength grades how strongly the record signals a 1:1 relationship:
// 3 for both-directions filtering with a one-cardinality end, 2 for
// both-directions alone, 1 for a one-cardinality end alone, 0 otherwise.
func (r Relationship) OneToOneStrength() int {
	switch bi, one := r.IsBidirectional(), r.HasOneCardinality(); {
	case bi && one:
		return 3
	case bi:
		return 2
	case one:
		return 1
	}
	return 0
}

// TableHints carries the structural markers of a table definition that the
// categorizer needs but cannot derive from relationships. The zero value
// means "no markers", which is what tables without a definition file get.
type TableHints struct {
	Hidden               bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	CalculationGroup     bool `json:"calculation_group,omitempty" yaml:"calculation_group,omitempty"`
	ParameterMetadata    bool `json:"parameter_metadata,omitempty" yaml:"parameter_metadata,omitempty"`
	ParameterType        bool `json:"parameter_type,omitempty" yaml:"parameter_type,omitempty"`
	AutoDateAnnotation   bool `json:"auto_date_annotation,omitempty" yaml:"auto_date_annotation,omitempty"`
	ShowAsVariationsOnly bool `json:"show_as_variations_only,omitempty" yaml:"show_as_variations_only,omitempty"`
	DateHierarchy        bool `json:"date_hierarchy,omitempty" yaml:"date_hierarchy,omitempty"`
	CalendarSource       bool `json:"calendar_source,omitempty" yaml:"calendar_source,omitempty"`
	RegularColumns       int  `json:"regular_columns,omitempty" yaml:"regular_columns,omitempty"`
	CalculatedColumns    int  `json:"calculated_columns,omitempty" yaml:"calculated_columns,omitempty"`
	Measures             int  `json:"measures,omitempty" yaml:"measures,omitempty"`
	MeasuresHaveMetadata bool `json:"measures_have_metadata,omitempty" yaml:"measures_have_metadata,omitempty"`

	// Known is set when the hints were read from a definition file. Metrics
	// detection requires it, since column counts of unknown tables are
	// meaningless.
	Known bool `json:"known,omitempty" yaml:"known,omitempty"`
}

// IsAutoDate reports whether the markers identify a generated date table.
func (h TableHints) IsAutoDate() bool {
	return h.AutoDateAnnotation || h.ShowAsVariationsOnly ||
		(h.Hidden && h.DateHierarchy && h.CalendarSource)
}

// HasParameterMarker reports whether the markers identify a parameter table.
func (h TableHints) HasParameterMarker() bool {
	return h.ParameterMetadata || h.ParameterType || h.Hidden
}
