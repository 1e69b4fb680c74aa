package categorize

import (
	"fmt"

	"github.com/matzehuels/tmdlayout/pkg/model"
)

// Extension reasons.
const (
	ReasonBidirectionalOne = "bidirectional_and_one_cardinality"
	ReasonBidirectional    = "bidirectional_filtering"
	ReasonOneCardinality   = "one_cardinality_only"
)

// ExtensionCandidate is a 1:1 relationship between a base table and the
// table that extends it.
type ExtensionCandidate struct {
	Extension string
	Base      string
	Strength  int
	Reason    string
}

func strengthReason(strength int) string {
	switch strength {
	case 3:
		return ReasonBidirectionalOne
	case 2:
		return ReasonBidirectional
	}
	return ReasonOneCardinality
}

// findExtensionCandidates scans the relationship records for 1:1 signals
// and decides which end of each is the extension. When several records
// name the same extension the last one wins; the order of first appearance
// is kept.
func (r *run) findExtensionCandidates() []ExtensionCandidate {
	var order []string
	byExt := make(map[string]ExtensionCandidate)
	for _, rec := range r.g.Records() {
		strength := rec.OneToOneStrength()
		if strength == 0 {
			continue
		}
		ext, base := r.chooseExtension(rec.FromTable, rec.ToTable)
		if _, seen := byExt[ext]; !seen {
			order = append(order, ext)
		}
		byExt[ext] = ExtensionCandidate{Extension: ext, Base: base, Strength: strength, Reason: strengthReason(strength)}
	}
	out := make([]ExtensionCandidate, 0, len(order))
	for _, ext := range order {
		out = append(out, byExt[ext])
	}
	return out
}

// chooseExtension returns (extension, base) for the pair a, b: the table
// with fewer connections extends the other; ties go to the more
// extension-like name, then to the alphabetically later name.
func (r *run) chooseExtension(a, b string) (string, string) {
	ca, cb := r.g.Connections(a), r.g.Connections(b)
	switch {
	case ca < cb:
		return a, b
	case cb < ca:
		return b, a
	}
	sa, sb := ExtensionNameScore(a, r.profile), ExtensionNameScore(b, r.profile)
	switch {
	case sa > sb:
		return a, b
	case sb > sa:
		return b, a
	case a > b:
		return a, b
	}
	return b, a
}

// validateExtension returns "" when the candidate is acceptable, otherwise
// the reason it was rejected.
func (r *run) validateExtension(c ExtensionCandidate) string {
	ext, base := r.g.Connections(c.Extension), r.g.Connections(c.Base)
	lim := r.profile.Extensions
	switch {
	case ext > base:
		return fmt.Sprintf("extension has more connections than base (%d > %d)", ext, base)
	case !r.g.HasEdge(c.Base, c.Extension):
		return "tables are not connected"
	case ext > lim.MaxConnections:
		return fmt.Sprintf("extension has %d connections, limit is %d", ext, lim.MaxConnections)
	case base < lim.MinBaseConnections:
		return fmt.Sprintf("base has %d connections, minimum is %d", base, lim.MinBaseConnections)
	}
	return ""
}

// =============================================================================
// Phase 4: extensions
// =============================================================================

func (r *run) detectExtensions() {
	for _, c := range r.findExtensionCandidates() {
		extCat, _ := r.cat.CategoryOf(c.Extension)
		baseCat, _ := r.cat.CategoryOf(c.Base)
		if !extCat.IsDimension() || !baseCat.IsDimension() {
			continue
		}
		if reason := r.validateExtension(c); reason != "" {
			r.warn(model.Warning{
				Code:    model.WarnExtensionRejected,
				Table:   c.Extension,
				Message: fmt.Sprintf("not an extension of %s: %s", c.Base, reason),
			})
			continue
		}

		target := model.DimensionCategory(min(baseCat.Level()+1, model.MaxLevel))
		if target != extCat {
			r.cat.Remove(extCat, c.Extension)
			r.cat.Add(target, c.Extension)
		}
		r.levels[c.Extension] = target.Level()
		r.cat.Extensions[c.Extension] = model.ExtensionInfo{
			Base:       c.Base,
			Strength:   c.Strength,
			Confidence: float64(c.Strength) / float64(r.profile.Extensions.MaxStrength),
			Reasons:    []string{c.Reason},
		}
		r.logger.Debug("extension", "table", c.Extension, "base", c.Base, "strength", c.Strength, "level", target)
	}
}
