package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RemieJanssen/NetworkGenerators/pkg/config"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ProfileListModel - Interactive profile selection
// =============================================================================

// ProfileListModel is the bubbletea model for interactive profile selection.
type ProfileListModel struct {
	Names    []string
	Profiles map[string]config.Profile
	Cursor   int
	Selected string
	Done     bool
}

// NewProfileListModel creates a profile list model from a parsed config file.
func NewProfileListModel(cfg *config.File) ProfileListModel {
	return ProfileListModel{
		Names:    cfg.Names(),
		Profiles: cfg.Profiles,
	}
}

func (m ProfileListModel) Init() tea.Cmd {
	return nil
}

func (m ProfileListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Names)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Names[m.Cursor]
			m.Done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ProfileListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Profile"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.Names {
		line := name
		if summary := profileSummary(m.Profiles[name]); summary != "" {
			line += "  " + listDimStyle.Render(summary)
		}
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("› " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// profileSummary renders the set fields of a profile in one dim line.
func profileSummary(p config.Profile) string {
	var parts []string
	if p.Tips != nil {
		parts = append(parts, fmt.Sprintf("tips=%d", *p.Tips))
	}
	if p.Beta != nil {
		parts = append(parts, fmt.Sprintf("beta=%g", *p.Beta))
	}
	if p.Reticulations != nil {
		parts = append(parts, fmt.Sprintf("r=%d", *p.Reticulations))
	}
	if p.StopProb != nil {
		parts = append(parts, fmt.Sprintf("local=%g", *p.StopProb))
	}
	if p.Seed != nil {
		parts = append(parts, fmt.Sprintf("seed=%d", *p.Seed))
	}
	return strings.Join(parts, " ")
}

// pickProfile runs the interactive profile picker.
// Returns the chosen name, or ok=false if the user quit without choosing.
func pickProfile(cfg *config.File) (string, bool, error) {
	if len(cfg.Profiles) == 0 {
		return "", false, fmt.Errorf("config file defines no profiles")
	}

	model, err := tea.NewProgram(NewProfileListModel(cfg)).Run()
	if err != nil {
		return "", false, fmt.Errorf("profile picker: %w", err)
	}

	m, ok := model.(ProfileListModel)
	if !ok || !m.Done {
		return "", false, nil
	}
	return m.Selected, true, nil
}
