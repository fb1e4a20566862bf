package ui

// AppMode is what the root model is showing. Keybind hints are filtered by it.
type AppMode int

const (
	ModeProject AppMode = iota
	ModeLogin
)

func (m AppMode) String() string {
	switch m {
	case ModeProject:
		return "Project"
	case ModeLogin:
		return "Login"
	default:
		return "Unknown"
	}
}
