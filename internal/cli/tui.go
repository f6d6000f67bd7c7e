package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ownergraph/pkg/graph"
	"github.com/matzehuels/ownergraph/pkg/registry"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// CompanyListModel - Interactive search result selection
// =============================================================================

// CompanyListModel is the bubbletea model for picking one company from a
// name search.
type CompanyListModel struct {
	Hits     []registry.SearchHit
	Cursor   int
	Selected *registry.SearchHit
	Height   int
	Offset   int
}

// NewCompanyListModel creates a new company list model.
func NewCompanyListModel(hits []registry.SearchHit) CompanyListModel {
	return CompanyListModel{Hits: hits, Height: 15}
}

func (m CompanyListModel) Init() tea.Cmd {
	return nil
}

func (m CompanyListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Hits)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Hits) == 0 {
				return m, tea.Quit
			}
			hit := m.Hits[m.Cursor]
			m.Selected = &hit
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m CompanyListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Company"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ investigate  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Hits))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		h := m.Hits[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			h.CompanyNumber,
			truncate(h.Title, 40),
			graph.Display(h.CompanyStatus),
			formatIncorporated(h.DateOfCreation),
			truncate(h.AddressSnippet, 48),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Number", "Name", "Status", "Incorporated", "Address").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Hits) {
				return lipgloss.NewStyle()
			}
			active := strings.EqualFold(m.Hits[idx].CompanyStatus, "active")
			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorGray)
			}
			switch {
			case idx == m.Cursor:
				return base.Foreground(colorCyan).Bold(true)
			case !active:
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Hits))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// formatIncorporated renders a registry date as "Jan 2006", or the raw value
// when it does not parse.
func formatIncorporated(s string) string {
	if s == "" {
		return "—"
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2006")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
