package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lanekit/lanekit/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// documentGlobs are the patterns tried when render runs without a file
// argument.
var documentGlobs = []string{"*.yaml", "*.yml", "*.toml", "*.json"}

// pickDocument finds roadmap document candidates in the working directory.
// One candidate is used directly; several open an interactive picker.
func pickDocument() (string, error) {
	var candidates []string
	for _, pattern := range documentGlobs {
		matches, _ := filepath.Glob(pattern)
		candidates = append(candidates, matches...)
	}
	sort.Strings(candidates)

	switch len(candidates) {
	case 0:
		return "", errors.New(errors.ErrCodeFileNotFound,
			"no roadmap documents found (want *.yaml, *.toml, or *.json); pass a file argument")
	case 1:
		printInfo("Using %s", candidates[0])
		return candidates[0], nil
	}

	model := newDocListModel(candidates)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(docListModel)
	if !ok || m.Selected == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "no document selected")
	}
	return m.Selected, nil
}

// =============================================================================
// docListModel - Interactive document selection
// =============================================================================

// docListModel is the bubbletea model for interactive document selection.
type docListModel struct {
	Paths    []string
	Cursor   int
	Selected string
}

func newDocListModel(paths []string) docListModel {
	return docListModel{Paths: paths}
}

func (m docListModel) Init() tea.Cmd {
	return nil
}

func (m docListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Paths)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Paths[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m docListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Roadmap Document"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, path := range m.Paths {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-30s  %s", cursor, path, listDimStyle.Render(modified(path)))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Paths))))
	return b.String()
}

// modified formats a file's modification time relative to now.
func modified(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}

	diff := time.Since(info.ModTime())
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return info.ModTime().Format("Jan 2, 2006")
	}
}
