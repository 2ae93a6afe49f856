package components

import (
	"strings"
	"testing"
)

func TestShortcutBar_Empty(t *testing.T) {
	if got := NewShortcutBar().View(); got != "" {
		t.Errorf("expected empty view, got %q", got)
	}
}

func TestShortcutBar_View(t *testing.T) {
	bar := NewShortcutBar(PasteShortcuts...)
	view := bar.View()
	for _, want := range []string{"Ctrl+S", "import", "Esc", "cancel", "│"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q, got %q", want, view)
		}
	}
	if strings.Index(view, "Ctrl+S") > strings.Index(view, "Esc") {
		t.Error("expected shortcuts in the order given")
	}
}

func TestShortcutBar_Centered(t *testing.T) {
	bar := NewShortcutBar(Shortcut{"q", "quit"})
	bar.SetWidth(40)
	view := bar.View()
	if !strings.HasPrefix(view, " ") {
		t.Errorf("expected centered view to be padded, got %q", view)
	}
	if !strings.Contains(view, "q: quit") {
		t.Errorf("expected hint in view, got %q", view)
	}
}
