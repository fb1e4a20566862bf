package ui

import (
	"context"
	"log/slog"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"

	"arcai/internal/api"
	"arcai/internal/editor"
	"arcai/internal/ids"
	"arcai/internal/nav"
	"arcai/internal/session"
)

// AppDeps are the collaborators of the root model.
type AppDeps struct {
	ProjectID string
	API       api.ProjectAPI
	IDs       ids.Generator
	Tables    editor.TableCreator
	Logger    *slog.Logger
	Context   context.Context

	// Session defaults to a new loading session. It is resolved to
	// InitialUser after the first frame; an empty user means signed out.
	Session     *session.Static
	InitialUser session.User

	// Router defaults to one positioned at the project's route.
	Router *nav.Router
}

// AppModel is the root model: the project page, modals stacked above it and
// the leader-key keymap.
type AppModel struct {
	Mode       AppMode
	Page       *ProjectPage
	Overlays   OverlayStack
	KeyHandler *KeyHandler
	Router     *nav.Router
	Session    *session.Static

	log          *slog.Logger
	initialUser  session.User
	pendingRoute *nav.Route
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// ProjectRoute is the route of the project page for id.
func ProjectRoute(id string) string {
	return nav.ProjectsPath + "/" + url.PathEscape(id)
}

// NewAppModel creates the root application model.
func NewAppModel(deps AppDeps) (*AppModel, error) {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Session == nil {
		deps.Session = session.NewStatic()
	}
	if deps.Router == nil {
		r, err := nav.NewRouter(ProjectRoute(deps.ProjectID))
		if err != nil {
			return nil, err
		}
		deps.Router = r
	}

	m := &AppModel{
		Mode:        ModeProject,
		Router:      deps.Router,
		Session:     deps.Session,
		log:         deps.Logger,
		initialUser: deps.InitialUser,
	}
	m.Page = NewProjectPage(PageConfig{
		ProjectID: deps.ProjectID,
		Session:   deps.Session,
		Navigator: deps.Router,
		API:       deps.API,
		IDs:       deps.IDs,
		Tables:    deps.Tables,
		Logger:    deps.Logger,
		Context:   deps.Context,
	})
	m.Router.OnChange(func(r nav.Route) { m.pendingRoute = &r })
	m.KeyHandler = NewKeyHandler(newRegistry())
	return m, nil
}

func newRegistry() *KeybindRegistry {
	reg := NewKeybindRegistry()
	reg.Bind("ctrl+c", tea.Quit, "Quit")
	reg.BindForMode("SPC q", tea.Quit, "Quit", ModeProject)
	reg.BindForMode("SPC n", emit(CreateNetworkMsg{}), "New network", ModeProject)
	reg.BindForMode("SPC t", emit(CreateTableMsg{}), "New table", ModeProject)
	reg.BindForMode("SPC s", emit(PersistMsg{}), "Save", ModeProject)
	reg.BindForMode("SPC r", emit(RefreshMsg{}), "Refresh", ModeProject)
	reg.BindForMode("SPC a", emit(ActivateNetworkMsg{}), "Activate network", ModeProject)
	reg.BindForMode("SPC u l", emit(ShowLoginMsg{}), "Sign in", ModeProject)
	reg.BindForMode("SPC u o", emit(SignOutMsg{}), "Sign out", ModeProject)
	return reg
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(a.Page.Init(), resolveSessionCmd(a.initialUser))
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	a.followRoute()
	return a, cmd
}

func (a *appModelAdapter) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sessionResolvedMsg:
		a.Session.Resolve(msg.User)
		a.log.Info("session resolved", "status", a.Session.Current().Status)
		return a.updatePage(SessionChangedMsg{})
	case LoginSubmittedMsg:
		a.Session.SignIn(msg.User)
		a.log.Info("signed in", "user", msg.User.String())
		a.closeOverlays()
		redirect := msg.Redirect
		if redirect == "" {
			redirect = nav.ProjectsPath
		}
		if err := a.Router.Push(redirect); err != nil {
			a.log.Warn("redirect after sign in failed", "redirect", redirect, "error", err)
		}
		return a.updatePage(SessionChangedMsg{})
	case SignOutMsg:
		a.Session.SignOut()
		a.log.Info("signed out")
		return a.updatePage(SessionChangedMsg{})
	case ShowLoginMsg:
		if err := a.Router.Push(nav.LoginURL(a.Router.Current().Path)); err != nil {
			a.log.Warn("navigate to login failed", "error", err)
		}
		return nil
	case DismissModalMsg:
		a.popOverlay()
		return nil
	case tea.KeyMsg:
		if a.KeyHandler != nil {
			if consumed, cmd := a.KeyHandler.Handle(msg, a.Mode); consumed {
				return cmd
			}
		}
		if top, ok := a.Overlays.Peek(); ok {
			if top.IsDismissKey(msg.String()) {
				a.popOverlay()
				return nil
			}
			cmd, _ := a.Overlays.UpdateTop(msg)
			return cmd
		}
		return a.updatePage(msg)
	}
	return a.updatePage(msg)
}

func (a *appModelAdapter) updatePage(msg tea.Msg) tea.Cmd {
	v, cmd := a.Page.Update(msg)
	if p, ok := v.(*ProjectPage); ok {
		a.Page = p
	}
	return cmd
}

// followRoute reacts to the latest navigation: the login route opens the
// login modal, anything else returns to the page.
func (a *appModelAdapter) followRoute() {
	if a.pendingRoute == nil {
		return
	}
	r := *a.pendingRoute
	a.pendingRoute = nil

	if r.Path != nav.LoginPath {
		a.closeOverlays()
		return
	}
	if top, ok := a.Overlays.Peek(); ok {
		if _, isLogin := top.View.(*LoginModal); isLogin {
			return
		}
	}
	redirect := r.Redirect()
	if redirect == "" {
		redirect = nav.ProjectsPath
	}
	a.Overlays.Push(Overlay{View: NewLoginModal(redirect), Dismiss: "esc"})
	a.Mode = ModeLogin
}

func (a *appModelAdapter) popOverlay() {
	a.Overlays.Pop()
	if a.Overlays.Len() == 0 {
		a.Mode = ModeProject
	}
}

func (a *appModelAdapter) closeOverlays() {
	a.Overlays.Clear()
	a.Mode = ModeProject
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	base := a.Page.View()
	if top, ok := a.Overlays.Peek(); ok {
		base = top.View.View()
	}
	if h := RenderKeybindHelp(a.KeyHandler, a.Mode); h != "" {
		base += "\n" + h
	}
	return base
}
