package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type pingMsg struct{ name string }

func ping(name string) tea.Cmd {
	return func() tea.Msg { return pingMsg{name} }
}

func TestKeybindRegistry_ModeFilter(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("ctrl+c", tea.Quit, "Quit")
	reg.BindForMode("SPC n", ping("n"), "New network", ModeProject)

	if reg.Lookup("ctrl+c", ModeLogin) == nil {
		t.Error("unfiltered binding should apply in every mode")
	}
	if reg.Lookup("SPC n", ModeProject) == nil {
		t.Error("expected SPC n in project mode")
	}
	if reg.Lookup("SPC n", ModeLogin) != nil {
		t.Error("SPC n must not apply in login mode")
	}
	if reg.Lookup("space n", ModeProject) == nil {
		t.Error("\"space\" should normalize to SPC")
	}
}

func TestKeyHandler_LeaderSequence(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", ping("x"), "X")
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg(" "), ModeProject)
	if !consumed || cmd != nil {
		t.Errorf("space: consumed=%v cmd=%v", consumed, cmd)
	}
	if !h.LeaderWaiting {
		t.Fatal("expected leader waiting after space")
	}

	consumed, cmd = h.Handle(keyMsg("x"), ModeProject)
	if !consumed || cmd == nil {
		t.Fatalf("x: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting {
		t.Error("leader should reset after a completed sequence")
	}
	if msg, ok := cmd().(pingMsg); !ok || msg.name != "x" {
		t.Errorf("unexpected msg %#v", msg)
	}
}

func TestKeyHandler_NestedSequence(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC u l", ping("login"), "Log in")
	reg.Bind("SPC u o", ping("logout"), "Log out")
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "), ModeProject)
	consumed, cmd := h.Handle(keyMsg("u"), ModeProject)
	if !consumed || cmd != nil || !h.LeaderWaiting {
		t.Fatalf("u: consumed=%v cmd=%v waiting=%v", consumed, cmd, h.LeaderWaiting)
	}
	if got := h.Sequence(); got != "SPC u" {
		t.Errorf("Sequence() = %q", got)
	}
	_, cmd = h.Handle(keyMsg("o"), ModeProject)
	if cmd == nil || cmd().(pingMsg).name != "logout" {
		t.Error("expected SPC u o to dispatch logout")
	}
}

func TestKeyHandler_UnknownSequenceResets(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", ping("x"), "")
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "), ModeProject)
	consumed, cmd := h.Handle(keyMsg("z"), ModeProject)
	if !consumed || cmd != nil {
		t.Errorf("z: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting {
		t.Error("unknown sequence should leave leader mode")
	}
}

func TestKeyHandler_EscCancelsLeader(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", tea.Quit, "")
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "), ModeProject)
	consumed, cmd := h.Handle(keyMsg("esc"), ModeProject)
	if !consumed || cmd != nil {
		t.Errorf("esc: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting {
		t.Error("esc should cancel leader mode")
	}

	consumed, _ = h.Handle(keyMsg("esc"), ModeProject)
	if consumed {
		t.Error("esc outside leader mode should reach the views")
	}
}

func TestKeyHandler_SpacePassesThroughWithoutLeaderBindings(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindForMode("SPC x", ping("x"), "", ModeProject)
	h := NewKeyHandler(reg)

	consumed, _ := h.Handle(keyMsg(" "), ModeLogin)
	if consumed || h.LeaderWaiting {
		t.Error("space should be typed, not treated as leader, in login mode")
	}
}

func TestKeyHandler_UnboundFallsThrough(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("ctrl+c", tea.Quit, "")
	h := NewKeyHandler(reg)

	if consumed, _ := h.Handle(keyMsg("7"), ModeProject); consumed {
		t.Error("unbound key should not be consumed")
	}
	if consumed, cmd := h.Handle(keyMsg("ctrl+c"), ModeProject); !consumed || cmd == nil {
		t.Error("ctrl+c should be consumed")
	}
}

func TestLeaderHints(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindForMode("SPC n", ping("n"), "New network", ModeProject)
	reg.Bind("SPC u l", ping("l"), "Log in")
	reg.Bind("SPC u o", ping("o"), "Log out")

	top := reg.LeaderHints("", ModeProject)
	if top["n"] != "New network" || top["u"] != "Session" || len(top) != 2 {
		t.Errorf("top-level hints = %v", top)
	}
	if hints := reg.LeaderHints("", ModeLogin); hints["n"] != "" {
		t.Errorf("mode-filtered hint leaked: %v", hints)
	}
	sub := reg.LeaderHints("SPC u", ModeProject)
	if sub["l"] != "Log in" || sub["o"] != "Log out" {
		t.Errorf("submenu hints = %v", sub)
	}
}

func TestRenderKeybindHelp(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC n", ping("n"), "New network")
	h := NewKeyHandler(reg)

	if RenderKeybindHelp(h, ModeProject) != "" {
		t.Error("help should be hidden outside leader mode")
	}
	h.Handle(keyMsg(" "), ModeProject)
	out := RenderKeybindHelp(h, ModeProject)
	for _, want := range []string{"SPC", "New network", "cancel"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}
}

// keyMsg creates a tea.KeyMsg whose String() matches s.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func typeText(v View, s string) View {
	for _, r := range s {
		v, _ = v.Update(keyMsg(string(r)))
	}
	return v
}
