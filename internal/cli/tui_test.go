package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/tmdlayout/pkg/layout"
	"github.com/matzehuels/tmdlayout/pkg/model"
)

func browserDoc() *layout.Document {
	cat := &model.Categorization{
		Facts: []string{"Sales"},
		Tables: []model.TableRecord{
			{Name: "Sales", Category: model.CategoryFact, Connections: 3},
			{Name: "Customer", Category: model.CategoryL1, Level: 1, Connections: 1},
			{Name: "Product", Category: model.CategoryL1, Level: 1, Connections: 1},
			{Name: "LocalDateTable_1", Category: model.CategoryAutoDate},
		},
	}
	doc := &layout.Document{Version: layout.Version, Model: "Retail"}
	doc.Categorization = cat
	doc.Positions = []model.Position{{Table: "Sales", X: 700, Y: 100}, {Table: "Customer", X: 300, Y: 100, Collapsed: true}}
	return doc
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m CategoryBrowserModel, keys ...string) (CategoryBrowserModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(CategoryBrowserModel)
	}
	return m, cmd
}

func TestCategoryBrowserGroups(t *testing.T) {
	m := NewCategoryBrowserModel(browserDoc())
	var got []model.Category
	for _, g := range m.Groups {
		got = append(got, g.Category)
	}
	want := []model.Category{model.CategoryFact, model.CategoryL1, model.CategoryAutoDate}
	if len(got) != len(want) {
		t.Fatalf("groups = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("group %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCategoryBrowserNavigation(t *testing.T) {
	m := NewCategoryBrowserModel(browserDoc())

	tests := []struct {
		name       string
		keys       []string
		wantOpen   int
		wantCursor int
	}{
		{"down moves cursor", []string{"down"}, -1, 1},
		{"down stops at end", []string{"j", "j", "j", "j"}, -1, 2},
		{"up stops at start", []string{"k"}, -1, 0},
		{"enter opens group", []string{"j", "enter"}, 1, 0},
		{"cursor within group", []string{"j", "enter", "j"}, 1, 1},
		{"esc returns to group", []string{"j", "enter", "esc"}, -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := press(m, tt.keys...)
			if got.Open != tt.wantOpen || got.Cursor != tt.wantCursor {
				t.Errorf("open=%d cursor=%d, want open=%d cursor=%d", got.Open, got.Cursor, tt.wantOpen, tt.wantCursor)
			}
		})
	}
}

func TestCategoryBrowserQuit(t *testing.T) {
	m := NewCategoryBrowserModel(browserDoc())
	for _, k := range []string{"q", "esc"} {
		_, cmd := press(m, k)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command did not quit", k)
		}
	}
}

func TestCategoryBrowserView(t *testing.T) {
	m := NewCategoryBrowserModel(browserDoc())
	view := m.View()
	for _, want := range []string{"Retail", "Facts", "L1 dimensions", "Auto date"} {
		if !strings.Contains(view, want) {
			t.Errorf("category view missing %q", want)
		}
	}

	m, _ = press(m, "j", "enter")
	view = m.View()
	for _, want := range []string{"Customer", "Product", "300, 100 (collapsed)", "—"} {
		if !strings.Contains(view, want) {
			t.Errorf("table view missing %q:\n%s", want, view)
		}
	}
}
