package categorize

import (
	"strings"

	"github.com/matzehuels/tmdlayout/pkg/heuristics"
)

func containsAny(s string, vocab []string) bool {
	return firstContained(s, vocab) != ""
}

// firstContained returns the first entry of vocab that occurs in s.
func firstContained(s string, vocab []string) string {
	for _, v := range vocab {
		if v != "" && strings.Contains(s, v) {
			return v
		}
	}
	return ""
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// FactScore is the outcome of fact detection for one table.
type FactScore struct {
	Table      string `json:"table" yaml:"table"`
	Connection int    `json:"connection" yaml:"connection"` // connection term, may be negative
	NameFact   int    `json:"name_fact" yaml:"name_fact"`   // naming contribution to the fact score
	Fact       int    `json:"fact" yaml:"fact"`
	Dimension  int    `json:"dimension" yaml:"dimension"`
	IsFact     bool   `json:"is_fact" yaml:"is_fact"`
	Rule       string `json:"rule" yaml:"rule"`
}

// Fact detection rules, reported in FactScore.Rule.
const (
	RuleStrongPattern   = "strong_fact_pattern"
	RuleForcedDimension = "forced_dimension_prefix"
	RuleConnections     = "connection_count"
	RuleScore           = "score"
	RuleFallback        = "fallback"
)

// ScoreFact evaluates the fact rules for a table with the given number of
// connections.
func ScoreFact(table string, connections int, p heuristics.Profile) FactScore {
	name := strings.ToLower(table)
	n, s := p.Naming, p.Scoring
	fs := FactScore{Table: table, Connection: connectionTerm(connections, s)}

	strong := containsAny(name, n.StrongFactPatterns)
	if strong {
		fs.NameFact += s.StrongFactWeight
	}
	if containsAny(name, n.FactVocabulary) {
		fs.NameFact += s.FactVocabularyWeight
	}
	if containsAny(name, n.DimensionVocabulary) {
		fs.Dimension += s.DimVocabularyWeight
	}
	if hasAnyPrefix(name, n.DimensionPrefixes) {
		fs.Dimension += s.DimPrefixWeight
	}

	fs.Fact = fs.NameFact
	if fs.NameFact > 0 {
		fs.Fact += max(0, fs.Connection)
	}
	fs.Dimension += max(0, -fs.Connection)

	switch {
	case strong:
		fs.IsFact, fs.Rule = true, RuleStrongPattern
	case hasAnyPrefix(name, n.ForcedDimensionPrefix):
		fs.IsFact, fs.Rule = false, RuleForcedDimension
	case connections >= s.ConnectionFactThreshold:
		fs.Fact += s.ConnectionFactBonus
		fs.IsFact, fs.Rule = true, RuleConnections
	default:
		if fs.NameFact > 0 && connections >= s.AmbiguityMinConnected {
			fs.Fact += s.AmbiguityBias
		}
		fs.IsFact, fs.Rule = fs.Fact > fs.Dimension, RuleScore
	}
	return fs
}

func connectionTerm(connections int, s heuristics.Scoring) int {
	for _, tier := range s.ConnectionTiers {
		if connections >= tier.Min {
			return tier.Score
		}
	}
	switch connections {
	case 0:
		return s.NoConnection
	case 1:
		return s.SingleConnection
	}
	return 0
}

// IsCalendarName reports whether table is named like a calendar table.
func IsCalendarName(table string, p heuristics.Profile) bool {
	return containsAny(strings.ToLower(table), p.Naming.CalendarVocabulary)
}

// ExtensionNameScore rates how much a name looks like an extension table:
// one point per extension indicator, plus weights for underscores and length.
func ExtensionNameScore(table string, p heuristics.Profile) float64 {
	name := strings.ToLower(table)
	var score float64
	for _, ind := range p.Naming.ExtensionIndicators {
		if ind != "" && strings.Contains(name, ind) {
			score++
		}
	}
	score += p.Extensions.UnderscoreWeight * float64(strings.Count(name, "_"))
	score += p.Extensions.LengthWeight * float64(len([]rune(name)))
	return score
}
