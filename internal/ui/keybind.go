package ui

import (
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeybindRegistry maps key sequences to commands.
// Sequences use spacemacs-style notation: "SPC n" is space then n, "SPC u l"
// is space, u, l. Single keys are written as Bubble Tea reports them
// ("ctrl+c", "enter").
type KeybindRegistry struct {
	bindings     map[string]tea.Cmd
	descriptions map[string]string
	modes        map[string][]AppMode // absent = every mode
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{
		bindings:     make(map[string]tea.Cmd),
		descriptions: make(map[string]string),
		modes:        make(map[string][]AppMode),
	}
}

// Bind registers seq for every mode, replacing any previous binding.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd, desc string) {
	r.BindForMode(seq, cmd, desc)
}

// BindForMode registers seq and limits its hints and dispatch to modes.
// With no modes the binding applies everywhere.
func (r *KeybindRegistry) BindForMode(seq string, cmd tea.Cmd, desc string, modes ...AppMode) {
	n := normalizeSeq(seq)
	r.bindings[n] = cmd
	if desc != "" {
		r.descriptions[n] = desc
	}
	if len(modes) > 0 {
		r.modes[n] = modes
	} else {
		delete(r.modes, n)
	}
}

// Lookup returns the command bound to seq in mode, or nil.
func (r *KeybindRegistry) Lookup(seq string, mode AppMode) tea.Cmd {
	n := normalizeSeq(seq)
	if !r.appliesToMode(n, mode) {
		return nil
	}
	return r.bindings[n]
}

// HasPrefix reports whether some longer binding starts with seq.
func (r *KeybindRegistry) HasPrefix(seq string, mode AppMode) bool {
	prefix := normalizeSeq(seq) + " "
	for k := range r.bindings {
		if strings.HasPrefix(k, prefix) && r.appliesToMode(k, mode) {
			return true
		}
	}
	return false
}

// submenuLabel names first-level keys that open a further level.
var submenuLabel = map[string]string{
	"u": "Session",
}

// LeaderHints returns the next keys available after currentSeq ("" means
// right after SPC), keyed by key with their descriptions.
func (r *KeybindRegistry) LeaderHints(currentSeq string, mode AppMode) map[string]string {
	out := make(map[string]string)
	prefix := "SPC "
	if currentSeq != "" {
		prefix = normalizeSeq(currentSeq) + " "
	}
	for seq, cmd := range r.bindings {
		if cmd == nil || !strings.HasPrefix(seq, prefix) || !r.appliesToMode(seq, mode) {
			continue
		}
		next := strings.Fields(strings.TrimPrefix(seq, prefix))[0]
		if r.HasPrefix(prefix+next, mode) {
			if label, ok := submenuLabel[next]; ok {
				out[next] = label
			} else {
				out[next] = next + "…"
			}
			continue
		}
		if d := r.descriptions[seq]; d != "" {
			out[next] = d
		} else {
			out[next] = seq
		}
	}
	return out
}

func (r *KeybindRegistry) appliesToMode(seq string, mode AppMode) bool {
	modes, ok := r.modes[seq]
	return !ok || slices.Contains(modes, mode)
}

// normalizeSeq converts Bubble Tea key strings to registry notation.
func normalizeSeq(seq string) string {
	if seq == " " {
		return "SPC"
	}
	parts := strings.Fields(seq)
	for i, p := range parts {
		parts[i] = keyToSeqPart(p)
	}
	return strings.Join(parts, " ")
}

func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return "SPC"
	}
	return s
}

// KeyHandler tracks leader state and dispatches completed sequences.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderKey     string // as reported by tea.KeyMsg.String()
	LeaderWaiting bool
	Buffer        []string // sequence typed so far, starting with "SPC"
}

// NewKeyHandler creates a handler with space as leader.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg, LeaderKey: " "}
}

// Handle processes one key. consumed means the key belonged to the keybind
// system and must not reach the views.
func (h *KeyHandler) Handle(msg tea.KeyMsg, mode AppMode) (consumed bool, cmd tea.Cmd) {
	s := msg.String()

	if s == "esc" {
		if h.LeaderWaiting {
			h.reset()
			return true, nil
		}
		return false, nil
	}

	if !h.LeaderWaiting {
		// Modes without leader bindings keep space for text entry.
		if s == h.LeaderKey && h.Registry.HasPrefix("SPC", mode) {
			h.LeaderWaiting = true
			h.Buffer = []string{"SPC"}
			return true, nil
		}
		if c := h.Registry.Lookup(s, mode); c != nil {
			return true, c
		}
		return false, nil
	}

	h.Buffer = append(h.Buffer, keyToSeqPart(s))
	seq := strings.Join(h.Buffer, " ")
	if c := h.Registry.Lookup(seq, mode); c != nil {
		h.reset()
		return true, c
	}
	if h.Registry.HasPrefix(seq, mode) {
		return true, nil
	}
	// Unknown sequence: drop it.
	h.reset()
	return true, nil
}

// Sequence returns the pending leader sequence, e.g. "SPC u".
func (h *KeyHandler) Sequence() string {
	return strings.Join(h.Buffer, " ")
}

func (h *KeyHandler) reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}

// KeyMap adapts the registry to bubbles/help.
type KeyMap struct {
	handler *KeyHandler
	mode    AppMode
}

var _ help.KeyMap = KeyMap{}

// NewKeyMap returns the help key map for the handler's current sequence.
func NewKeyMap(h *KeyHandler, mode AppMode) KeyMap {
	return KeyMap{handler: h, mode: mode}
}

// ShortHelp implements help.KeyMap.
func (km KeyMap) ShortHelp() []key.Binding {
	if km.handler == nil || km.handler.Registry == nil {
		return nil
	}
	seq := ""
	if len(km.handler.Buffer) > 1 {
		seq = km.handler.Sequence()
	}
	hints := km.handler.Registry.LeaderHints(seq, km.mode)
	if len(hints) == 0 {
		return nil
	}
	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bindings := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	return append(bindings, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

// FullHelp implements help.KeyMap.
func (km KeyMap) FullHelp() [][]key.Binding {
	if short := km.ShortHelp(); len(short) > 0 {
		return [][]key.Binding{short}
	}
	return nil
}
