package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMenuWraps(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "Easy"}, {Label: "Medium"}, {Label: "Hard", Detail: "bigger numbers"}})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 2 {
		t.Fatalf("up from the top: Selected = %d, want 2", m.Selected)
	}
	if !strings.Contains(m.View(), "bigger numbers") {
		t.Error("selected item should show its detail")
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	if m.Selected != 0 {
		t.Errorf("down from the bottom: Selected = %d, want 0", m.Selected)
	}
}

func TestProgressBarFilled(t *testing.T) {
	tests := []struct {
		done, total, width, want int
	}{
		{0, 10, 20, 0},
		{5, 10, 20, 10},
		{10, 10, 20, 20},
		{12, 10, 20, 20},
		{3, 0, 20, 0},
	}
	for _, tt := range tests {
		p := NewProgressBar(tt.done, tt.total, 30, nil)
		if got := p.Filled(tt.width); got != tt.want {
			t.Errorf("Filled(%d) with %d/%d = %d, want %d", tt.width, tt.done, tt.total, got, tt.want)
		}
	}
	if !strings.Contains(NewProgressBar(4, 10, 30, nil).View(), "4/10") {
		t.Error("view should show the counter")
	}
}

func TestTextInputModes(t *testing.T) {
	tests := []struct {
		mode  InputMode
		value string
		key   string
		want  bool
	}{
		{AnyText, "", "a", true},
		{Digits, "", "7", true},
		{Digits, "", "a", false},
		{Digits, "", "-", false},
		{SignedDigits, "", "-", true},
		{SignedDigits, "4", "-", false},
		{Digits, "", "backspace", true},
		{Digits, "", "space", false},
	}
	for _, tt := range tests {
		in := NewTextInput("", tt.mode, 0)
		in.Model.SetValue(tt.value)
		if got := in.accepts(tt.key); got != tt.want {
			t.Errorf("mode %d value %q key %q: accepts = %v, want %v", tt.mode, tt.value, tt.key, got, tt.want)
		}
	}
}

func TestTextInputMark(t *testing.T) {
	in := NewTextInput("", Digits, 2)
	in.Model.SetValue("99")
	in.Mark(false)
	if !strings.Contains(in.View(), "✗") {
		t.Error("expected an invalid mark")
	}
	in.Clear()
	if in.Value() != "" || strings.Contains(in.View(), "✗") {
		t.Error("Clear should empty the input and drop the mark")
	}
}
