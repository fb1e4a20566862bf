package ui

import (
	"arcai/internal/project"
	"arcai/internal/session"
)

// fetchKey identifies one fetch. Results carrying any other key are stale.
type fetchKey struct {
	secret string
	id     string
	seq    int
}

// ProjectFetchedMsg carries the result of a getProject call.
type ProjectFetchedMsg struct {
	key     fetchKey
	Project *project.Project
	Err     error
}

// ProjectPersistedMsg carries the result of an updateProject call.
type ProjectPersistedMsg struct {
	epoch int
	Err   error
}

// NetworkBuiltMsg carries a freshly generated network to append.
type NetworkBuiltMsg struct {
	epoch   int
	Network project.Network
	Err     error
}

// TableBuiltMsg carries a table produced by the configured table creator.
type TableBuiltMsg struct {
	epoch int
	Table project.Table
	Err   error
}

// SessionChangedMsg tells the page to re-read the session.
type SessionChangedMsg struct{}

// sessionResolvedMsg settles the initial loading session.
type sessionResolvedMsg struct {
	User session.User
}

// CreateNetworkMsg triggers the create-network control (SPC n).
type CreateNetworkMsg struct{}

// CreateTableMsg triggers the create-table control (SPC t).
type CreateTableMsg struct{}

// PersistMsg saves the edited project to the API (SPC s).
type PersistMsg struct{}

// RefreshMsg re-fetches the project, discarding unsaved edits (SPC r).
type RefreshMsg struct{}

// ActivateNetworkMsg makes the network under focus the active one (SPC a).
type ActivateNetworkMsg struct{}

// ShowLoginMsg navigates to the login screen (SPC u l).
type ShowLoginMsg struct{}

// SignOutMsg ends the session (SPC u o).
type SignOutMsg struct{}

// LoginSubmittedMsg is sent by the login modal.
type LoginSubmittedMsg struct {
	User     session.User
	Redirect string
}

// DismissModalMsg closes the topmost modal.
type DismissModalMsg struct{}
