package model

// Position is the rectangle assigned to one table. It is the engine's only
// externally consumed output.
type Position struct {
	Table     string   `json:"table" yaml:"table"`
	X         float64  `json:"x" yaml:"x"`
	Y         float64  `json:"y" yaml:"y"`
	Width     float64  `json:"width" yaml:"width"`
	Height    float64  `json:"height" yaml:"height"`
	ZIndex    int      `json:"z_index" yaml:"z_index"`
	Collapsed bool     `json:"collapsed" yaml:"collapsed"`
	Category  Category `json:"category" yaml:"category"`
}

// Right returns the x coordinate of the right edge.
func (p Position) Right() float64 { return p.X + p.Width }

// Bottom returns the y coordinate of the bottom edge.
func (p Position) Bottom() float64 { return p.Y + p.Height }

// CenterX returns the horizontal center.
func (p Position) CenterX() float64 { return p.X + p.Width/2 }

// CenterY returns the vertical center.
func (p Position) CenterY() float64 { return p.Y + p.Height/2 }

// Overlaps reports whether p and o share any interior area.
func (p Position) Overlaps(o Position) bool {
	return p.X < o.Right() && o.X < p.Right() && p.Y < o.Bottom() && o.Y < p.Bottom()
}

// WarningCode classifies a recoverable anomaly.
type WarningCode string

// Warning codes.
const (
	WarnUnknownTable      WarningCode = "unknown_table"
	WarnSelfRelationship  WarningCode = "self_relationship"
	WarnMalformedRecord   WarningCode = "malformed_relationship"
	WarnUnclassified      WarningCode = "unclassified_table"
	WarnFactFallback      WarningCode = "fact_fallback"
	WarnNoFacts           WarningCode = "no_facts"
	WarnExtensionRejected WarningCode = "extension_rejected"
	WarnMisplaced         WarningCode = "misplaced_table"
	WarnUnknownHint       WarningCode = "unknown_hint"
)

// Warning is a recoverable anomaly. The engine proceeds with a
// deterministic default and reports the decision here.
type Warning struct {
	Code    WarningCode `json:"code" yaml:"code"`
	Table   string      `json:"table,omitempty" yaml:"table,omitempty"`
	Message string      `json:"message" yaml:"message"`
}

// String returns "code: message".
func (w Warning) String() string {
	if w.Table != "" {
		return string(w.Code) + " [" + w.Table + "]: " + w.Message
	}
	return string(w.Code) + ": " + w.Message
}
