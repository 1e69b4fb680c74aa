package tmdl

import (
	"io"
	"strings"

	"github.com/matzehuels/tmdlayout/pkg/errors"
	"github.com/matzehuels/tmdlayout/pkg/model"
)

// Markers searched anywhere in a table file.
const (
	markerTemplateDate   = "__PBI_TemplateDateTable = true"
	markerLocalDate      = "__PBI_LocalDateTable = true"
	markerVariationsOnly = "showAsVariationsOnly"
	markerParameterMeta  = "extendedProperty ParameterMetadata"
	markerParameterType  = "type = Parameter"
	markerCalendarSource = "Calendar("
)

// Table is one parsed table definition.
type Table struct {
	// Name is the declared table name, empty when the file has no
	// "table" line.
	Name  string
	Hints model.TableHints
}

// ParseTable reads a table definition file.
func ParseTable(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read table")
	}
	content := string(data)

	t := &Table{Hints: model.TableHints{Known: true}}
	h := &t.Hints
	h.AutoDateAnnotation = strings.Contains(content, markerTemplateDate) || strings.Contains(content, markerLocalDate)
	h.ShowAsVariationsOnly = strings.Contains(content, markerVariationsOnly)
	h.ParameterMetadata = strings.Contains(content, markerParameterMeta)
	h.ParameterType = strings.Contains(content, markerParameterType)
	h.DateHierarchy = strings.Contains(content, "'Date Hierarchy'") || strings.Contains(content, `"Date Hierarchy"`)
	h.CalendarSource = strings.Contains(content, markerCalendarSource)

	// block is the depth-1 object the following lines belong to.
	var block string
	var calculated bool
	closeColumn := func() {
		if block != "column" {
			return
		}
		if calculated {
			h.CalculatedColumns++
		} else {
			h.RegularColumns++
		}
	}

	for _, l := range splitLines(content) {
		switch {
		case l.depth == 0:
			if kw, rest := keyword(l.text); kw == "table" && t.Name == "" {
				t.Name, _ = objectName(rest)
			}
		case l.depth == 1:
			closeColumn()
			kw, rest := keyword(l.text)
			block = kw
			switch kw {
			case "column":
				_, after := objectName(rest)
				calculated = strings.HasPrefix(strings.TrimSpace(after), "=")
			case "measure":
				h.Measures++
			case "calculationGroup":
				h.CalculationGroup = true
			default:
				block = ""
				if key, value := property(l.text); key == "isHidden" {
					h.Hidden = !strings.EqualFold(value, "false")
				}
			}
		default:
			key, _ := property(l.text)
			switch block {
			case "column":
				if key == "expression" || (key == "type" && strings.Contains(l.text, "calculated")) {
					calculated = true
				}
			case "measure":
				if key == "lineageTag" || key == "formatString" {
					h.MeasuresHaveMetadata = true
				}
			}
		}
	}
	closeColumn()
	return t, nil
}
