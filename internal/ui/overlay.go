package ui

import tea "github.com/charmbracelet/bubbletea"

// Overlay is a modal shown above the page. Dismiss is the key that closes it
// without submitting.
type Overlay struct {
	View    View
	Dismiss string
}

// IsDismissKey reports whether key closes this overlay.
func (o Overlay) IsDismissKey(key string) bool {
	return o.Dismiss != "" && key == o.Dismiss
}

// OverlayStack holds open modals; the topmost receives input first.
type OverlayStack struct {
	stack []Overlay
}

// Push opens o above any existing overlays.
func (s *OverlayStack) Push(o Overlay) {
	s.stack = append(s.stack, o)
}

// Pop closes the topmost overlay.
func (s *OverlayStack) Pop() (Overlay, bool) {
	if len(s.stack) == 0 {
		return Overlay{}, false
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top, true
}

// Peek returns the topmost overlay.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.stack) == 0 {
		return Overlay{}, false
	}
	return s.stack[len(s.stack)-1], true
}

// Len returns the number of open overlays.
func (s *OverlayStack) Len() int {
	return len(s.stack)
}

// Clear closes every overlay.
func (s *OverlayStack) Clear() {
	s.stack = nil
}

// UpdateTop routes msg to the topmost overlay and stores the resulting view.
// ok is false when no overlay is open.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (cmd tea.Cmd, ok bool) {
	if len(s.stack) == 0 {
		return nil, false
	}
	top := &s.stack[len(s.stack)-1]
	top.View, cmd = top.View.Update(msg)
	return cmd, true
}
