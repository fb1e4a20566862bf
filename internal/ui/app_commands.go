package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"arcai/internal/api"
	"arcai/internal/editor"
	"arcai/internal/ids"
	"arcai/internal/project"
	"arcai/internal/session"
)

// fetchProjectCmd loads the project off the UI goroutine.
func fetchProjectCmd(ctx context.Context, client api.ProjectAPI, key fetchKey) tea.Cmd {
	return func() tea.Msg {
		p, err := client.GetProject(ctx, key.secret, key.id)
		return ProjectFetchedMsg{key: key, Project: p, Err: err}
	}
}

// persistProjectCmd sends a snapshot of the project to the API.
func persistProjectCmd(ctx context.Context, client api.ProjectAPI, epoch int, secret, id string, p project.Project) tea.Cmd {
	return func() tea.Msg {
		return ProjectPersistedMsg{epoch: epoch, Err: client.UpdateProject(ctx, secret, id, p)}
	}
}

// buildNetworkCmd generates ids for a new default network. The append itself
// happens on the UI goroutine when NetworkBuiltMsg arrives.
func buildNetworkCmd(ctx context.Context, gen ids.Generator, epoch int) tea.Cmd {
	return func() tea.Msg {
		n, err := editor.NetworkCreator{IDs: gen}.Build(ctx)
		return NetworkBuiltMsg{epoch: epoch, Network: n, Err: err}
	}
}

// buildTableCmd runs the table creator against a snapshot.
func buildTableCmd(ctx context.Context, creator editor.TableCreator, epoch int, p project.Project) tea.Cmd {
	return func() tea.Msg {
		t, err := editor.BuildTable(ctx, creator, p)
		return TableBuiltMsg{epoch: epoch, Table: t, Err: err}
	}
}

// resolveSessionCmd settles the session after the first frame has rendered
// in the loading state.
func resolveSessionCmd(u session.User) tea.Cmd {
	return emit(sessionResolvedMsg{User: u})
}
