package tmdl

import (
	"io"
	"strings"

	"github.com/matzehuels/tmdlayout/pkg/errors"
	"github.com/matzehuels/tmdlayout/pkg/model"
)

// ParseRelationships reads the relationship blocks of a relationships.tmdl
// file. Unknown properties are ignored. Records missing an end are returned
// as is; the engine reports them.
func ParseRelationships(r io.Reader) ([]model.Relationship, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read relationships")
	}

	var out []model.Relationship
	var cur *model.Relationship
	flush := func() {
		if cur != nil {
			out = append(out, *cur)
			cur = nil
		}
	}
	for _, l := range splitLines(string(data)) {
		if l.depth == 0 {
			flush()
			if kw, rest := keyword(l.text); kw == "relationship" {
				cur = &model.Relationship{Name: unquote(rest)}
			}
			continue
		}
		if cur == nil || l.depth != 1 {
			continue
		}
		key, value := property(l.text)
		switch key {
		case "fromColumn":
			cur.FromTable, cur.FromColumn = columnRef(value)
		case "toColumn":
			cur.ToTable, cur.ToColumn = columnRef(value)
		case "fromCardinality":
			cur.FromCardinality = cardinality(value)
		case "toCardinality":
			cur.ToCardinality = cardinality(value)
		case "crossFilteringBehavior":
			cur.CrossFilter = crossFilter(value)
		case "isActive":
			cur.Inactive = strings.EqualFold(value, "false")
		}
	}
	flush()
	return out, nil
}

func cardinality(v string) model.Cardinality {
	switch strings.ToLower(v) {
	case "one":
		return model.CardinalityOne
	case "many":
		return model.CardinalityMany
	}
	return model.CardinalityNone
}

func crossFilter(v string) model.CrossFilter {
	switch strings.ToLower(v) {
	case "bothdirections":
		return model.CrossFilterBoth
	case "onedirection", "single":
		return model.CrossFilterSingle
	}
	return model.CrossFilterNone
}
