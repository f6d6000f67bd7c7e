package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/ownergraph/pkg/registry"
)

func testHits() []registry.SearchHit {
	return []registry.SearchHit{
		{CompanyNumber: "00000006", Title: "ACME HOLDINGS LIMITED", CompanyStatus: "active", DateOfCreation: "2001-03-14"},
		{CompanyNumber: "00000007", Title: "ACME TRADING LIMITED", CompanyStatus: "dissolved"},
		{CompanyNumber: "SC123456", Title: "ACME SCOTLAND LIMITED", CompanyStatus: "active"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m CompanyListModel, keys ...string) (CompanyListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(CompanyListModel)
	}
	return m, cmd
}

func TestCompanyListNavigation(t *testing.T) {
	m := NewCompanyListModel(testHits())

	m, _ = send(m, "down", "j", "down")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped at last row)", m.Cursor)
	}
	m, _ = send(m, "up", "k", "k")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0 (clamped at first row)", m.Cursor)
	}
}

func TestCompanyListSelect(t *testing.T) {
	m, cmd := send(NewCompanyListModel(testHits()), "down", "enter")
	if m.Selected == nil || m.Selected.CompanyNumber != "00000007" {
		t.Fatalf("selected = %+v, want 00000007", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestCompanyListQuit(t *testing.T) {
	m, cmd := send(NewCompanyListModel(testHits()), "q")
	if m.Selected != nil {
		t.Error("quitting should not select anything")
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestCompanyListScrolls(t *testing.T) {
	m := NewCompanyListModel(testHits())
	m.Height = 2
	m, _ = send(m, "down", "down")
	if m.Offset != 1 {
		t.Errorf("offset = %d, want 1", m.Offset)
	}
}

func TestCompanyListView(t *testing.T) {
	view := NewCompanyListModel(testHits()).View()
	for _, want := range []string{"Select Company", "00000006", "ACME TRADING LIMITED", "Mar 2001", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("ACME HOLDINGS", 4); got != "ACM…" {
		t.Errorf("truncate = %q, want %q", got, "ACM…")
	}
	if got := truncate("ACME", 4); got != "ACME" {
		t.Errorf("truncate = %q, want unchanged", got)
	}
}
