package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tmdlayout/pkg/layout"
	"github.com/matzehuels/tmdlayout/pkg/model"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Key Bindings
// =============================================================================

type browserKeys struct {
	Up   key.Binding
	Down key.Binding
	Open key.Binding
	Back key.Binding
	Quit key.Binding
}

func newBrowserKeys() browserKeys {
	return browserKeys{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open: key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("⏎", "open")),
		Back: key.NewBinding(key.WithKeys("esc", "backspace", "left", "h"), key.WithHelp("esc", "back")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Back, k.Quit}
}

func (k browserKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// =============================================================================
// CategoryBrowserModel - Interactive categorization browser
// =============================================================================

// categoryGroup is one non-empty category with its table records.
type categoryGroup struct {
	Category model.Category
	Tables   []model.TableRecord
}

// CategoryBrowserModel is the bubbletea model of the inspect command. The
// first screen lists the categories; opening one lists its tables with
// their positions.
type CategoryBrowserModel struct {
	Name   string
	Groups []categoryGroup
	// Open is the index of the opened group, or -1 on the category list.
	Open   int
	Cursor int
	Height int
	Offset int

	positions map[string]model.Position
	keys      browserKeys
	help      help.Model
}

// NewCategoryBrowserModel creates a browser over doc.
func NewCategoryBrowserModel(doc *layout.Document) CategoryBrowserModel {
	byCategory := make(map[model.Category][]model.TableRecord)
	for _, r := range doc.Categorization.Tables {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}
	var groups []categoryGroup
	for _, c := range append(model.PlacementCategories, model.CategoryAutoDate) {
		if recs := byCategory[c]; len(recs) > 0 {
			groups = append(groups, categoryGroup{Category: c, Tables: recs})
		}
	}
	positions := make(map[string]model.Position, len(doc.Positions))
	for _, p := range doc.Positions {
		positions[p.Table] = p
	}
	return CategoryBrowserModel{
		Name:      doc.Model,
		Groups:    groups,
		Open:      -1,
		Height:    15,
		positions: positions,
		keys:      newBrowserKeys(),
		help:      help.New(),
	}
}

func (m CategoryBrowserModel) Init() tea.Cmd {
	return nil
}

// rows returns the number of entries on the current screen.
func (m CategoryBrowserModel) rows() int {
	if m.Open >= 0 {
		return len(m.Groups[m.Open].Tables)
	}
	return len(m.Groups)
}

func (m CategoryBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case key.Matches(msg, m.keys.Down):
			if m.Cursor < m.rows()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case key.Matches(msg, m.keys.Open):
			if m.Open < 0 && len(m.Groups) > 0 {
				m.Open, m.Cursor, m.Offset = m.Cursor, 0, 0
			}
		case key.Matches(msg, m.keys.Back):
			if m.Open >= 0 {
				m.Open, m.Cursor, m.Offset = -1, m.Open, 0
			} else if msg.String() == "esc" {
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m CategoryBrowserModel) View() string {
	var b strings.Builder

	title := m.Name
	if m.Open >= 0 {
		title += " › " + m.Groups[m.Open].Category.Label()
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n\n")

	if m.Open < 0 {
		b.WriteString(m.categoryList())
	} else {
		b.WriteString(m.tableList(m.Groups[m.Open]))
	}

	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, m.rows()), m.rows())))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m CategoryBrowserModel) categoryList() string {
	var b strings.Builder
	for i, g := range m.Groups {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-24s %3d", cursor, g.Category.Label(), len(g.Tables))
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case g.Category == model.CategoryAutoDate:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m CategoryBrowserModel) tableList(g categoryGroup) string {
	end := min(m.Offset+m.Height, len(g.Tables))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := g.Tables[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		pos := "—"
		if p, ok := m.positions[r.Name]; ok {
			pos = fmt.Sprintf("%.0f, %.0f", p.X, p.Y)
			if p.Collapsed {
				pos += " (collapsed)"
			}
		}
		ext := ""
		if r.Extension != nil {
			ext = r.Extension.Base
		}
		rows = append(rows, []string{cursor, r.Name, strconv.Itoa(r.Connections), pos, ext})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Table", "Links", "Position", "Extends").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return categoryStyle(g.Category).Bold(true)
			}
			if col >= 2 {
				return listDimStyle
			}
			return listNormalStyle
		})
	return t.Render()
}
