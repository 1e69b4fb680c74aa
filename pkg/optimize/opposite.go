package optimize

import (
	"slices"

	"github.com/matzehuels/tmdlayout/pkg/categorize"
	"github.com/matzehuels/tmdlayout/pkg/graph"
	"github.com/matzehuels/tmdlayout/pkg/model"
)

// ApplyOppositeSidePlacement splits 1:1 pairs that share a side and joins
// M:M pairs that sit on different sides; in both cases the less connected
// table moves. Extensions are then moved next to their base.
func (o *Optimizer) ApplyOppositeSidePlacement(st Stacks, g *graph.Graph, extensions map[string]model.ExtensionInfo) Stacks {
	st = st.Clone()
	for _, e := range g.Edges() {
		a, b := e[0], e[1]
		sideA, levelA, okA := st.Find(a)
		sideB, levelB, okB := st.Find(b)
		if !okA || !okB {
			continue
		}
		mover, side, level := a, sideA, levelA
		target := sideB
		if g.Connections(a) > g.Connections(b) {
			mover, side, level = b, sideB, levelB
			target = sideA
		}

		switch categorize.ClassifyPair(g, a, b, o.profile) {
		case categorize.PairOneToOne:
			if sideA == sideB {
				st.Move(mover, side.Opposite(), level)
				o.logger.Debug("split 1:1 pair", "table", mover, "partner", other(e, mover))
			}
		case categorize.PairManyToMany:
			if sideA != sideB {
				st.Move(mover, target, level)
				o.logger.Debug("joined M:M pair", "table", mover, "partner", other(e, mover))
			}
		}
	}

	for _, ext := range sortedKeys(extensions) {
		st = o.EnsureExtensionAdjacency(st, ext, extensions[ext].Base)
	}
	return st
}

func other(e [2]string, t string) string {
	if e[0] == t {
		return e[1]
	}
	return e[0]
}

// EnsureExtensionAdjacency moves ext to the side of base. When both end up
// in the same stack, ext is placed directly after base.
func (o *Optimizer) EnsureExtensionAdjacency(st Stacks, ext, base string) Stacks {
	st = st.Clone()
	baseSide, baseLevel, okB := st.Find(base)
	extSide, extLevel, okE := st.Find(ext)
	if !okB || !okE {
		return st
	}
	if extSide != baseSide {
		st.Move(ext, baseSide, extLevel)
	}
	if extLevel == baseLevel {
		st.InsertAfter(baseSide, baseLevel, base, ext)
	}
	return st
}

// RepositionExtensions moves every extension whose base is in the stacks
// to one level beyond the base, on the base's side.
func (o *Optimizer) RepositionExtensions(st Stacks, extensions map[string]model.ExtensionInfo) Stacks {
	st = st.Clone()
	for _, ext := range sortedKeys(extensions) {
		side, level, ok := st.Find(extensions[ext].Base)
		if !ok || !st.Contains(ext) {
			continue
		}
		target := min(level+1, model.MaxLevel)
		st.Move(ext, side, target)
		o.logger.Debug("repositioned extension", "table", ext, "base", extensions[ext].Base, "side", side, "level", target)
	}
	return st
}

func sortedKeys(m map[string]model.ExtensionInfo) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
