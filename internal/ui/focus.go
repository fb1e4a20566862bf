package ui

// FocusRing tracks which control has keyboard focus and rotates through
// controls in render order.
type FocusRing struct {
	Current  string   // ID of the focused control, "" when nothing is focusable
	Order    []string // Tab order
	OnChange func(from, to string)
}

func (f *FocusRing) index(id string) int {
	for i, o := range f.Order {
		if o == id {
			return i
		}
	}
	return -1
}

func (f *FocusRing) move(to string) string {
	from := f.Current
	f.Current = to
	if f.OnChange != nil && from != to {
		f.OnChange(from, to)
	}
	return to
}

// Next moves focus forward, wrapping at the end.
func (f *FocusRing) Next() string {
	if len(f.Order) == 0 {
		return ""
	}
	return f.move(f.Order[(f.index(f.Current)+1)%len(f.Order)])
}

// Prev moves focus backward, wrapping at the start.
func (f *FocusRing) Prev() string {
	if len(f.Order) == 0 {
		return ""
	}
	i := f.index(f.Current) - 1
	if i < 0 {
		i = len(f.Order) - 1
	}
	return f.move(f.Order[i])
}

// SetFocus focuses id. It reports false if id is not in the ring.
func (f *FocusRing) SetFocus(id string) bool {
	if f.index(id) < 0 {
		return false
	}
	f.move(id)
	return true
}

// SetOrder replaces the ring after the controls changed. Focus stays on the
// same ID when it survives; otherwise it moves to the control now at the old
// position, clamped to the end.
func (f *FocusRing) SetOrder(order []string) {
	pos := f.index(f.Current)
	f.Order = order
	if len(order) == 0 {
		f.move("")
		return
	}
	if f.index(f.Current) >= 0 {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= len(order) {
		pos = len(order) - 1
	}
	f.move(order[pos])
}
