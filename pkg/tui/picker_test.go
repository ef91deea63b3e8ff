package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"kodi-localsubs-go/pkg/types"
)

func testItems() []types.Subtitle {
	return []types.Subtitle{
		{Path: "/subs/a.en.srt", Name: "a.en.srt", Label: "a.en.srt", Language: "en", LangName: "English"},
		{Path: "/subs/b.srt", Name: "b.srt", Label: "b.srt", LangName: "Unknown"},
		{Path: "/subs/c.fr.ass", Name: "c.fr.ass", Label: "c.fr.ass", Language: "fr", LangName: "French"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Picker, msg tea.Msg) (Picker, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	p, ok := next.(Picker)
	if !ok {
		t.Fatalf("Update returned %T, want Picker", next)
	}
	return p, cmd
}

func TestPicker_Navigation(t *testing.T) {
	m := NewPicker(context.Background(), "Local Subtitles", testItems(), nil)

	steps := []struct {
		key  string
		want int
	}{
		{"down", 1},
		{"j", 2},
		{"j", 2},
		{"up", 1},
		{"k", 0},
		{"k", 0},
		{"G", 2},
		{"g", 0},
	}

	for _, s := range steps {
		m, _ = update(t, m, key(s.key))
		if m.Cursor() != s.want {
			t.Errorf("after %q cursor = %d, want %d", s.key, m.Cursor(), s.want)
		}
	}
}

func TestPicker_Apply(t *testing.T) {
	var applied []string
	apply := func(ctx context.Context, path string) error {
		applied = append(applied, path)
		return nil
	}

	m := NewPicker(context.Background(), "Local Subtitles", testItems(), apply)
	m, _ = update(t, m, key("down"))
	m, cmd := update(t, m, key("enter"))
	if cmd == nil {
		t.Fatal("enter should return an apply command")
	}

	msg := cmd()
	if len(applied) != 1 || applied[0] != "/subs/b.srt" {
		t.Fatalf("applied = %v, want [/subs/b.srt]", applied)
	}

	m, _ = update(t, m, msg)
	if m.Err() != nil {
		t.Errorf("Err() = %v", m.Err())
	}
	if m.Status() != "Applied b.srt" {
		t.Errorf("Status() = %q", m.Status())
	}
	if !strings.Contains(m.View(), "Applied b.srt") {
		t.Error("view should show the apply status")
	}
}

func TestPicker_ApplyError(t *testing.T) {
	apply := func(ctx context.Context, path string) error {
		return errors.New("no active player")
	}

	m := NewPicker(context.Background(), "Local Subtitles", testItems(), apply)
	m, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, cmd())

	if m.Err() == nil {
		t.Fatal("expected apply error")
	}
	if !strings.Contains(m.Status(), "no active player") {
		t.Errorf("Status() = %q", m.Status())
	}
}

func TestPicker_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		m := NewPicker(context.Background(), "Local Subtitles", testItems(), nil)

		var msg tea.KeyMsg
		if k == "ctrl+c" {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		} else {
			msg = key(k)
		}

		_, cmd := update(t, m, msg)
		if cmd == nil {
			t.Fatalf("%q should quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q returned %T, want tea.QuitMsg", k, cmd())
		}
	}
}

func TestPicker_Empty(t *testing.T) {
	m := NewPicker(context.Background(), "Local Subtitles", nil, nil)

	m, cmd := update(t, m, key("enter"))
	if cmd != nil {
		t.Error("enter on an empty list should do nothing")
	}
	m, _ = update(t, m, key("down"))
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor())
	}
	if !strings.Contains(m.View(), "No files found") {
		t.Error("empty view should say no files were found")
	}
}

func TestPicker_ViewMarksCursor(t *testing.T) {
	m := NewPicker(context.Background(), "Local Subtitles", testItems(), nil)
	m, _ = update(t, m, key("down"))

	view := m.View()
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, "b.srt") && !strings.Contains(line, "> ") {
			t.Errorf("selected line is not marked: %q", line)
		}
		if strings.Contains(line, "a.en.srt") && strings.Contains(line, "> ") {
			t.Errorf("unselected line is marked: %q", line)
		}
	}
}
