// Package tui implements the interactive subtitle picker.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kodi-localsubs-go/pkg/types"
)

// ApplyFunc loads the subtitle at path into the player.
type ApplyFunc func(ctx context.Context, path string) error

// appliedMsg reports the outcome of an ApplyFunc call.
type appliedMsg struct {
	path string
	err  error
}

var (
	highlightColor = lipgloss.Color("#7D56F4")
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(highlightColor).MarginBottom(1)
	cursorStyle    = lipgloss.NewStyle().Foreground(highlightColor).Bold(true)
	langStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// Picker is a bubbletea model listing subtitles. Enter applies the selected
// file; the list stays open so another one can be tried.
type Picker struct {
	title    string
	items    []types.Subtitle
	cursor   int
	height   int
	applying bool
	status   string
	err      error
	apply    ApplyFunc
	ctx      context.Context
}

// NewPicker creates a picker over items.
func NewPicker(ctx context.Context, title string, items []types.Subtitle, apply ApplyFunc) Picker {
	return Picker{
		title:  title,
		items:  items,
		height: 20,
		apply:  apply,
		ctx:    ctx,
	}
}

// Cursor returns the index of the highlighted item.
func (m Picker) Cursor() int {
	return m.cursor
}

// Status returns the last apply outcome shown under the list.
func (m Picker) Status() string {
	return m.status
}

// Err returns the error of the last apply, if any.
func (m Picker) Err() error {
	return m.err
}

func (m Picker) Init() tea.Cmd {
	return nil
}

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 1)

	case appliedMsg:
		m.applying = false
		m.err = msg.err
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed: %v", msg.err)
		} else {
			m.status = "Applied " + filepath.Base(msg.path)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			m.cursor = max(m.cursor-1, 0)
		case "down", "j":
			m.cursor = min(m.cursor+1, max(len(m.items)-1, 0))
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(len(m.items)-1, 0)
		case "enter":
			if len(m.items) == 0 || m.applying {
				return m, nil
			}
			m.applying = true
			m.status = "Applying..."
			return m, m.applyCmd(m.items[m.cursor].Path)
		}
	}

	return m, nil
}

func (m Picker) applyCmd(path string) tea.Cmd {
	apply, ctx := m.apply, m.ctx
	return func() tea.Msg {
		return appliedMsg{path: path, err: apply(ctx, path)}
	}
}

func (m Picker) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	if len(m.items) == 0 {
		b.WriteString("No files found\n")
	}

	start := 0
	if m.cursor >= m.height {
		start = m.cursor - m.height + 1
	}
	end := min(start+m.height, len(m.items))

	for i := start; i < end; i++ {
		item := m.items[i]
		line := fmt.Sprintf("%s %s", item.Label, langStyle.Render("["+item.LangName+"]"))
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(okStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/k up • ↓/j down • enter apply • q quit"))
	return b.String()
}

// Run starts the picker on the terminal and blocks until the user quits.
func Run(m Picker) error {
	_, err := tea.NewProgram(m).Run()
	return err
}
