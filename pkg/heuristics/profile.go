package heuristics

import (
	"io"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tmdlayout/pkg/errors"
)

// DefaultName is the name of the built-in profile.
const DefaultName = "default"

// =============================================================================
// Profile
// =============================================================================

// Profile is the full set of heuristics used by one engine run.
type Profile struct {
	Name       string     `toml:"name" json:"name" yaml:"name"`
	Naming     Naming     `toml:"naming" json:"naming" yaml:"naming"`
	Scoring    Scoring    `toml:"scoring" json:"scoring" yaml:"scoring"`
	Extensions Extensions `toml:"extensions" json:"extensions" yaml:"extensions"`
	Geometry   Geometry   `toml:"geometry" json:"geometry" yaml:"geometry"`
}

// Naming holds the vocabularies matched against lower-cased table names.
// Unless noted otherwise a list matches when any entry is a substring.
type Naming struct {
	// Phase 0 exclusion (prefix match).
	AutoDatePrefixes []string `toml:"auto_date_prefixes" json:"auto_date_prefixes" yaml:"auto_date_prefixes"`

	// Phase 1 special tables.
	ParameterPrefix     string   `toml:"parameter_prefix" json:"parameter_prefix" yaml:"parameter_prefix"`
	ParameterVocabulary []string `toml:"parameter_vocabulary" json:"parameter_vocabulary" yaml:"parameter_vocabulary"`
	MetricsPrefixes     []string `toml:"metrics_prefixes" json:"metrics_prefixes" yaml:"metrics_prefixes"`
	MetricsPrefixWord   string   `toml:"metrics_prefix_word" json:"metrics_prefix_word" yaml:"metrics_prefix_word"`
	MetricsVocabulary   []string `toml:"metrics_vocabulary" json:"metrics_vocabulary" yaml:"metrics_vocabulary"`

	// Tables matching this vocabulary are never facts and are leveled as
	// parameters.
	SpecialDisconnected []string `toml:"special_disconnected" json:"special_disconnected" yaml:"special_disconnected"`

	// Phase 2 fact scoring.
	StrongFactPatterns    []string `toml:"strong_fact_patterns" json:"strong_fact_patterns" yaml:"strong_fact_patterns"`
	FactVocabulary        []string `toml:"fact_vocabulary" json:"fact_vocabulary" yaml:"fact_vocabulary"`
	DimensionVocabulary   []string `toml:"dimension_vocabulary" json:"dimension_vocabulary" yaml:"dimension_vocabulary"`
	DimensionPrefixes     []string `toml:"dimension_prefixes" json:"dimension_prefixes" yaml:"dimension_prefixes"`
	ForcedDimensionPrefix []string `toml:"forced_dimension_prefixes" json:"forced_dimension_prefixes" yaml:"forced_dimension_prefixes"`

	// Phase 3 leveling.
	CalendarVocabulary []string `toml:"calendar_vocabulary" json:"calendar_vocabulary" yaml:"calendar_vocabulary"`

	// Phase 4 extension tie-break.
	ExtensionIndicators []string `toml:"extension_indicators" json:"extension_indicators" yaml:"extension_indicators"`

	// Optimizer: time tables go first on the left, chain children follow
	// their parents.
	TimeVocabulary    []string    `toml:"time_vocabulary" json:"time_vocabulary" yaml:"time_vocabulary"`
	HierarchySuffixes []string    `toml:"hierarchy_suffixes" json:"hierarchy_suffixes" yaml:"hierarchy_suffixes"`
	BusinessHierarchy [][2]string `toml:"business_hierarchy" json:"business_hierarchy" yaml:"business_hierarchy"`
}

// Scoring holds the fact detection weights.
type Scoring struct {
	StrongFactWeight      int `toml:"strong_fact_weight" json:"strong_fact_weight" yaml:"strong_fact_weight"`
	FactVocabularyWeight  int `toml:"fact_vocabulary_weight" json:"fact_vocabulary_weight" yaml:"fact_vocabulary_weight"`
	DimVocabularyWeight   int `toml:"dimension_vocabulary_weight" json:"dimension_vocabulary_weight" yaml:"dimension_vocabulary_weight"`
	DimPrefixWeight       int `toml:"dimension_prefix_weight" json:"dimension_prefix_weight" yaml:"dimension_prefix_weight"`
	ConnectionFactBonus   int `toml:"connection_fact_bonus" json:"connection_fact_bonus" yaml:"connection_fact_bonus"`
	AmbiguityBias         int `toml:"ambiguity_bias" json:"ambiguity_bias" yaml:"ambiguity_bias"`
	AmbiguityMinConnected int `toml:"ambiguity_min_connections" json:"ambiguity_min_connections" yaml:"ambiguity_min_connections"`

	// ConnectionTiers are evaluated in order; the first tier whose Min is
	// reached contributes its Score. Tables with one or zero connections use
	// SingleConnection and NoConnection.
	ConnectionTiers  []Tier `toml:"connection_tiers" json:"connection_tiers" yaml:"connection_tiers"`
	SingleConnection int    `toml:"single_connection" json:"single_connection" yaml:"single_connection"`
	NoConnection     int    `toml:"no_connection" json:"no_connection" yaml:"no_connection"`

	// Tables with at least this many connections are facts regardless of
	// name.
	ConnectionFactThreshold int `toml:"connection_fact_threshold" json:"connection_fact_threshold" yaml:"connection_fact_threshold"`

	// Fallback when no table qualifies as a fact.
	FallbackLimit          int `toml:"fallback_limit" json:"fallback_limit" yaml:"fallback_limit"`
	FallbackMinConnections int `toml:"fallback_min_connections" json:"fallback_min_connections" yaml:"fallback_min_connections"`

	MetricsMaxRegularColumns int `toml:"metrics_max_regular_columns" json:"metrics_max_regular_columns" yaml:"metrics_max_regular_columns"`

	// 1:1 pairs are split by the optimizer when both ends have this many
	// connections; M:M pairs are joined when both exceed ManyToManyMin.
	OneToOneConnections int `toml:"one_to_one_connections" json:"one_to_one_connections" yaml:"one_to_one_connections"`
	ManyToManyMin       int `toml:"many_to_many_min" json:"many_to_many_min" yaml:"many_to_many_min"`
}

// Tier is one step of the connection score.
type Tier struct {
	Min   int `toml:"min" json:"min" yaml:"min"`
	Score int `toml:"score" json:"score" yaml:"score"`
}

// Extensions holds the 1:1 extension detection limits.
type Extensions struct {
	MaxConnections     int     `toml:"max_connections" json:"max_connections" yaml:"max_connections"`
	MinBaseConnections int     `toml:"min_base_connections" json:"min_base_connections" yaml:"min_base_connections"`
	UnderscoreWeight   float64 `toml:"underscore_weight" json:"underscore_weight" yaml:"underscore_weight"`
	LengthWeight       float64 `toml:"length_weight" json:"length_weight" yaml:"length_weight"`
	MaxStrength        int     `toml:"max_strength" json:"max_strength" yaml:"max_strength"`
}

// Geometry holds the diagram dimensions in canvas units.
type Geometry struct {
	TableWidth        float64 `toml:"table_width" json:"table_width" yaml:"table_width"`
	TableHeight       float64 `toml:"table_height" json:"table_height" yaml:"table_height"`
	CollapsedHeight   float64 `toml:"collapsed_height" json:"collapsed_height" yaml:"collapsed_height"`
	VerticalSpacing   float64 `toml:"vertical_spacing" json:"vertical_spacing" yaml:"vertical_spacing"`
	ColumnGap         float64 `toml:"column_gap" json:"column_gap" yaml:"column_gap"`
	NarrowColumnGap   float64 `toml:"narrow_column_gap" json:"narrow_column_gap" yaml:"narrow_column_gap"`
	StartX            float64 `toml:"start_x" json:"start_x" yaml:"start_x"`
	StackStartY       float64 `toml:"stack_start_y" json:"stack_start_y" yaml:"stack_start_y"`
	CenterStartY      float64 `toml:"center_start_y" json:"center_start_y" yaml:"center_start_y"`
	SpecialsGap       float64 `toml:"specials_gap" json:"specials_gap" yaml:"specials_gap"`
	CalendarSpacing   float64 `toml:"calendar_spacing" json:"calendar_spacing" yaml:"calendar_spacing"`
	GridStartY        float64 `toml:"grid_start_y" json:"grid_start_y" yaml:"grid_start_y"`
	GridColumnStep    float64 `toml:"grid_column_step" json:"grid_column_step" yaml:"grid_column_step"`
	GridRowStep       float64 `toml:"grid_row_step" json:"grid_row_step" yaml:"grid_row_step"`
	GridWideThreshold int     `toml:"grid_wide_threshold" json:"grid_wide_threshold" yaml:"grid_wide_threshold"`
	GridWideColumns   int     `toml:"grid_wide_columns" json:"grid_wide_columns" yaml:"grid_wide_columns"`
}

// SlotStep is the vertical distance between two slots of a stack.
func (g Geometry) SlotStep() float64 { return g.TableHeight + g.VerticalSpacing }

// CollapsedStep is the vertical distance between two collapsed tables.
func (g Geometry) CollapsedStep() float64 { return g.CollapsedHeight + g.VerticalSpacing }

// =============================================================================
// Defaults
// =============================================================================

// Default returns the built-in profile. Each call returns a fresh copy.
func Default() Profile {
	return Profile{
		Name: DefaultName,
		Naming: Naming{
			AutoDatePrefixes: []string{"datetabletemplate_", "localdatetable_"},
			ParameterPrefix:  ".",
			ParameterVocabulary: []string{
				"param", "parameter", "config", "setting", "option", "preference",
				"variable", "constant", "lookup", "reference", "master",
				"código", "parametro", "configuración",
			},
			MetricsPrefixes:   []string{"_", ".", "*", "-", "#"},
			MetricsPrefixWord: "measure",
			MetricsVocabulary: []string{"metric", "measure", "kpi", "score"},
			SpecialDisconnected: []string{
				"parameter", "config", "setting", "lookup", "reference",
				"master", "static", "constant", "readonly", "system",
			},
			StrongFactPatterns: []string{"fact_", "_fact", "fact ", " fact"},
			FactVocabulary: []string{
				"fact", "trans", "event", "activity", "record", "log", "history",
				"operation", "process", "action", "movement", "entry", "line",
				"detail", "item", "occurrence", "instance", "measure",
			},
			DimensionVocabulary: []string{
				"dim", "dimension", "master", "lookup", "reference", "category",
				"type", "class", "group", "entity", "object", "subject",
			},
			DimensionPrefixes:     []string{"d_", "dim_", "dim-", "dim ", "master_", "ref_", "lookup_"},
			ForcedDimensionPrefix: []string{"dim_", "dim-", "dim ", "d_"},
			CalendarVocabulary:    []string{"calendar", "date", "time", "period"},
			ExtensionIndicators: []string{
				"list", "attribute", "detail", "extended", "profile", "program",
				"portfolio", "category", "type", "option", "meta", "extra",
				"additional", "supplemental", "auxiliary", "secondary",
				"properties", "config", "configuration", "settings", "parameters",
				"tags", "classifications", "hierarchy", "tree", "node", "leaf",
			},
			TimeVocabulary: []string{
				"period", "time", "date", "calendar", "fiscal", "quarter", "month",
				"year", "cycle", "season", "week", "day", "hour", "minute",
				"interval", "duration", "span", "range", "tempo", "zeit", "temps",
				"hora",
			},
			HierarchySuffixes: []string{"tree", "detail", "category", "attribute", "extended", "child"},
			BusinessHierarchy: [][2]string{
				{"property", "unit"},
				{"account", "accountcategory"},
				{"job", "jobdetail"},
				{"tenant", "tenantprogram"},
				{"unit", "unittype"},
				{"building", "unit"},
				{"portfolio", "property"},
			},
		},
		Scoring: Scoring{
			StrongFactWeight:      25,
			FactVocabularyWeight:  15,
			DimVocabularyWeight:   25,
			DimPrefixWeight:       20,
			ConnectionFactBonus:   20,
			AmbiguityBias:         5,
			AmbiguityMinConnected: 2,
			ConnectionTiers: []Tier{
				{Min: 5, Score: 15},
				{Min: 3, Score: 10},
				{Min: 2, Score: 5},
			},
			SingleConnection:         -3,
			NoConnection:             -5,
			ConnectionFactThreshold:  3,
			FallbackLimit:            10,
			FallbackMinConnections:   2,
			MetricsMaxRegularColumns: 1,
			OneToOneConnections:      1,
			ManyToManyMin:            3,
		},
		Extensions: Extensions{
			MaxConnections:     6,
			MinBaseConnections: 1,
			UnderscoreWeight:   0.5,
			LengthWeight:       0.01,
			MaxStrength:        3,
		},
		Geometry: Geometry{
			TableWidth:        200,
			TableHeight:       180,
			CollapsedHeight:   140,
			VerticalSpacing:   15,
			ColumnGap:         150,
			NarrowColumnGap:   100,
			StartX:            50,
			StackStartY:       150,
			CenterStartY:      50,
			SpecialsGap:       20,
			CalendarSpacing:   80,
			GridStartY:        50,
			GridColumnStep:    220,
			GridRowStep:       190,
			GridWideThreshold: 8,
			GridWideColumns:   4,
		},
	}
}

// =============================================================================
// Loading and encoding
// =============================================================================

// Load reads a TOML profile from path, decoded over the defaults. Unknown
// keys are rejected so typos do not silently fall back to defaults.
func Load(path string) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "heuristics profile %s not found", path)
		}
		return Profile{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "cannot open heuristics profile %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a TOML profile from r, decoded over the defaults. A list in
// the file replaces the default list as a whole.
func Decode(r io.Reader) (Profile, error) {
	p := Default()
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return Profile{}, errors.Wrap(errors.ErrCodeInvalidProfile, err, "invalid heuristics profile")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Profile{}, errors.New(errors.ErrCodeInvalidProfile,
			"unknown heuristics key %q", undecoded[0].String())
	}
	if p.Name == "" {
		p.Name = DefaultName
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Encode writes p as TOML.
func (p Profile) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(p)
}

// Validate checks that p can drive a layout.
func (p Profile) Validate() error {
	g := p.Geometry
	switch {
	case g.TableWidth <= 0 || g.TableHeight <= 0 || g.CollapsedHeight <= 0:
		return invalid("table dimensions must be positive")
	case g.VerticalSpacing < 0 || g.ColumnGap < 0 || g.NarrowColumnGap < 0:
		return invalid("spacing must not be negative")
	case g.GridColumnStep < g.TableWidth:
		return invalid("grid_column_step must be at least table_width")
	case g.GridRowStep < g.TableHeight:
		return invalid("grid_row_step must be at least table_height")
	case g.GridWideColumns < 1:
		return invalid("grid_wide_columns must be at least 1")
	}

	s := p.Scoring
	if s.FallbackLimit < 0 || s.FallbackMinConnections < 1 {
		return invalid("fallback limits out of range")
	}
	if s.ConnectionFactThreshold < 1 {
		return invalid("connection_fact_threshold must be at least 1")
	}
	if !slices.IsSortedFunc(s.ConnectionTiers, func(a, b Tier) int { return b.Min - a.Min }) {
		return invalid("connection_tiers must be ordered by descending min")
	}

	e := p.Extensions
	if e.MaxConnections < 1 || e.MinBaseConnections < 0 || e.MaxStrength < 1 {
		return invalid("extension limits out of range")
	}
	return nil
}

func invalid(msg string) error {
	return errors.New(errors.ErrCodeInvalidProfile, "invalid heuristics profile: %s", msg)
}
